package v1

import (
	"net/http"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC     domain.AuthUsecase
	ContentUC  domain.ContentUsecase
	SettingsUC domain.SettingsUsecase
	PublicUC   domain.PublicUsecase
	ContactUC  domain.ContactUsecase
	HealthUC   usecase.HealthUsecase
	LoginGuard LoginGuard
	SecLog     *security.SecurityLogger
	Config     *config.Config
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()
	r.MaxMultipartMemory = cfg.UploadMaxBytes + 1<<20

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg)))

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		if status["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	csrf := newCSRF(cfg, deps.SecLog)

	public := v1.Group("")
	public.Use(csrf)
	{
		NewPublicHandler(public, deps.PublicUC, middleware.OptionalAuth(deps.AuthUC))
		NewContactHandler(public, deps.ContactUC, middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(cfg)))
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(csrf, middleware.AuthMiddleware(deps.AuthUC, deps.SecLog))
	{
		NewAuthHandler(public, protected, deps.AuthUC, deps.LoginGuard, deps.SecLog, cfg.CookieSecure,
			middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(cfg)))
		NewAdminHandler(protected, deps.ContentUC, deps.SettingsUC, deps.AuthUC, cfg.CookieSecure)
	}

	return r
}

// newCSRF builds the double-submit check shared by the public and admin groups.
func newCSRF(cfg *config.Config, secLog *security.SecurityLogger) gin.HandlerFunc {
	csrfCfg := middleware.DefaultCSRFConfig(cfg.CookieSecure)
	csrfCfg.Logger = secLog
	return middleware.CSRFMiddleware(csrfCfg)
}
