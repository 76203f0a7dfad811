package middleware

import (
	"net/http"
	"strings"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the signed admin session token.
const SessionCookieName = "admin_session"

// sessionToken reads the bearer header first, then the session cookie.
func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// AuthMiddleware requires a valid admin session and stores it in the request context.
func AuthMiddleware(authUC domain.AuthUsecase, secLog *security.SecurityLogger) gin.HandlerFunc {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}

	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			secLog.LogUnauthorizedAccess(c.Request.Context(), c.ClientIP(), requestID(c), c.Request.URL.Path, "missing session")
			response.Error(c, http.StatusUnauthorized, "Admin session required", nil)
			c.Abort()
			return
		}

		session, err := authUC.ParseToken(token)
		if err != nil {
			secLog.LogUnauthorizedAccess(c.Request.Context(), c.ClientIP(), requestID(c), c.Request.URL.Path, "invalid session")
			response.Error(c, http.StatusUnauthorized, "Invalid or expired session", nil)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(domain.WithAuth(c.Request.Context(), session))
		c.Next()
	}
}

// OptionalAuth attaches the admin session when one is present and valid.
// Anonymous requests pass through unchanged.
func OptionalAuth(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := sessionToken(c); token != "" {
			if session, err := authUC.ParseToken(token); err == nil {
				c.Request = c.Request.WithContext(domain.WithAuth(c.Request.Context(), session))
			}
		}
		c.Next()
	}
}
