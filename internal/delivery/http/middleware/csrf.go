package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the name of the header that must contain the CSRF token
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenFormField lets plain HTML forms submit the token
	CSRFTokenFormField = "csrf_token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
	// CSRFTokenExpiry is how long the token is valid
	CSRFTokenExpiry = 24 * time.Hour

	csrfContextKey = "CSRFToken"
)

// CSRFConfig controls the double-submit cookie check.
type CSRFConfig struct {
	Secure      bool
	ExemptPaths map[string]bool
	Logger      *security.SecurityLogger
}

// DefaultCSRFConfig exempts only the login route: there is no session yet and it
// is rate limited and lockout protected instead.
func DefaultCSRFConfig(secure bool) CSRFConfig {
	return CSRFConfig{
		Secure: secure,
		ExemptPaths: map[string]bool{
			"/v1/auth/login": true,
			"/v1/health":     true,
		},
	}
}

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the double-submit cookie pattern.
//
// Every response carries a csrf_token cookie (readable by scripts). Unsafe
// methods must echo the same value in the X-CSRF-Token header or, for HTML
// forms, in a csrf_token form field.
func CSRFMiddleware(cfg CSRFConfig) gin.HandlerFunc {
	secLog := cfg.Logger
	if secLog == nil {
		secLog = security.DefaultLogger()
	}

	return func(c *gin.Context) {
		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}

			// Lax keeps the cookie on top-level navigations only.
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				CSRFTokenCookieName,
				newToken,
				int(CSRFTokenExpiry.Seconds()),
				"/",
				"",
				cfg.Secure,
				false, // HttpOnly = false so JS can read it
			)
			csrfCookie = newToken
		}
		c.Set(csrfContextKey, csrfCookie)

		if cfg.ExemptPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		submitted := c.GetHeader(CSRFTokenHeaderName)
		if submitted == "" {
			submitted = c.PostForm(CSRFTokenFormField)
		}

		if submitted == "" {
			secLog.LogCSRFRejected(c.Request.Context(), c.ClientIP(), requestID(c), c.Request.URL.Path)
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(submitted), []byte(csrfCookie)) != 1 {
			secLog.LogCSRFRejected(c.Request.Context(), c.ClientIP(), requestID(c), c.Request.URL.Path)
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token issued for this request by CSRFMiddleware.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
