package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, withID bool, h gin.HandlerFunc) response.Envelope {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if withID {
			c.Request = c.Request.WithContext(domain.WithRequestID(c.Request.Context(), "req-42"))
		}
		h(c)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestEnvelopeCarriesRequestID(t *testing.T) {
	env := serve(t, true, func(c *gin.Context) { response.Success(c, http.StatusOK, "ok", nil) })
	assert.True(t, env.Success)
	assert.Equal(t, "req-42", env.RequestID)

	env = serve(t, true, func(c *gin.Context) { response.Error(c, http.StatusBadRequest, "bad", "detail") })
	assert.False(t, env.Success)
	assert.Equal(t, "detail", env.Error)
	assert.Equal(t, "req-42", env.RequestID)
}

func TestEnvelopeWithoutRequestID(t *testing.T) {
	env := serve(t, false, func(c *gin.Context) { response.Success(c, http.StatusOK, "ok", nil) })
	assert.Empty(t, env.RequestID)
}
