package v1

import (
	"context"
	"net/http"
	"time"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// LoginGuard tracks failed logins per client IP.
type LoginGuard interface {
	IsBlocked(ctx context.Context, ip string) bool
	RecordFailure(ctx context.Context, ip string) (blocked bool, attempts int, err error)
	Clear(ctx context.Context, ip string)
}

type AuthHandler struct {
	authUC       domain.AuthUsecase
	guard        LoginGuard
	secLog       *security.SecurityLogger
	cookieSecure bool
}

type sessionData struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, guard LoginGuard, secLog *security.SecurityLogger, cookieSecure bool, loginLimit gin.HandlerFunc) {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	handler := &AuthHandler{
		authUC:       authUC,
		guard:        guard,
		secLog:       secLog,
		cookieSecure: cookieSecure,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", loginLimit, handler.Login)
		publicAuth.POST("/logout", middleware.OptionalAuth(authUC), handler.Logout)
		publicAuth.GET("/csrf", handler.CSRF)
	}

	protected.GET("/auth/me", handler.Me)
}

// setSession writes the signed session cookie. An empty token clears it.
func setSession(c *gin.Context, token string, ttl time.Duration, secure bool) {
	maxAge := int(ttl.Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", secure, true)
}

// Login godoc
// @Summary      Admin login
// @Description  Verifies the admin credentials and sets the admin_session cookie.
// @Tags         auth
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        login  body      domain.LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Envelope
// @Failure      400    {object}  response.Envelope
// @Failure      401    {object}  response.Envelope
// @Failure      429    {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Summary(err)))
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()
	if h.guard != nil && h.guard.IsBlocked(ctx, ip) {
		h.secLog.LogLoginBlocked(ctx, req.Username, ip, c.Request.UserAgent(), domain.RequestIDFromContext(ctx))
		c.Error(apperror.New(http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.", nil))
		return
	}

	token, err := h.authUC.Login(ctx, req.Username, req.Password)
	if err != nil {
		if apperror.CodeOf(err) == http.StatusUnauthorized {
			h.secLog.LogLoginFailed(ctx, req.Username, ip, c.Request.UserAgent(), domain.RequestIDFromContext(ctx), "invalid_credentials")
			if h.guard != nil {
				_, _, _ = h.guard.RecordFailure(ctx, ip)
			}
		}
		c.Error(err)
		return
	}

	if h.guard != nil {
		h.guard.Clear(ctx, ip)
	}
	h.secLog.LogLoginSuccess(ctx, req.Username, ip, c.Request.UserAgent(), domain.RequestIDFromContext(ctx))

	ttl := h.authUC.SessionTTL()
	setSession(c, token, ttl, h.cookieSecure)
	response.Success(c, http.StatusOK, "Logged in successfully!", sessionData{
		Username:  req.Username,
		ExpiresAt: time.Now().Add(ttl).UTC(),
	})
}

// Logout godoc
// @Summary      Admin logout
// @Description  Clears the session cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authUC.Logout(c.Request.Context())
	setSession(c, "", 0, h.cookieSecure)
	response.Success(c, http.StatusOK, "You have been logged out.", nil)
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := domain.AuthFromContext(c.Request.Context())
	response.Success(c, http.StatusOK, "Current session", gin.H{"username": session.Subject})
}

// CSRF godoc
// @Summary      CSRF token
// @Description  Returns the double-submit token that is also set as the csrf_token cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /auth/csrf [get]
func (h *AuthHandler) CSRF(c *gin.Context) {
	response.Success(c, http.StatusOK, "CSRF token", gin.H{"csrf_token": middleware.CSRFToken(c)})
}
