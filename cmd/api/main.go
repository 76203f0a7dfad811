package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/repository/filestore"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/security/antivirus"

	"github.com/gin-gonic/gin"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Single-admin portfolio site: public read path, contact form and a section-keyed admin workflow over one JSON document.
// @host            localhost:3000
// @BasePath        /v1
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name admin_session
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "data_file", cfg.DataFile)

	// 3. Setup Redis (optional, rate limiting and login lockout)
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		}
	}
	defer redis.Close()

	// 4. Setup Stores
	docs := filestore.NewDocumentStore(cfg.DataFile)
	audit := filestore.NewAuditLog(cfg.AuditLogFile)
	assets := filestore.NewAssetStore(cfg.UploadDir, cfg.UploadURLPrefix)

	if err := seedDocument(docs, cfg); err != nil {
		logger.Log.Error("Failed to prepare data file", "error", err)
		os.Exit(1)
	}

	// 5. Setup Security
	secLog := security.InitSecurityLogger("portfolio-backend", cfg.GinMode)
	defer secLog.Sync()

	loginGuard := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
	}, redis.Client(), secLog)

	scanner := antivirus.New(cfg.ClamAVAddress)
	logger.Log.Info("Upload scanner configured", "scanner", scanner.Name())

	// 6. Setup UseCases
	authUC := usecase.NewAuthUsecase(docs, audit, secLog, usecase.AuthConfig{
		Secret:            []byte(cfg.SessionSecret),
		TTL:               cfg.SessionTTL,
		MinPasswordLength: cfg.MinPasswordLength,
	})
	contentUC := usecase.NewContentUsecase(docs, audit, assets, scanner, secLog, usecase.ContentConfig{
		ReorderKeepMissing: cfg.ReorderKeepMissing,
		UploadMaxBytes:     cfg.UploadMaxBytes,
		MaxImageDimension:  cfg.ProfilePictureMaxDimension,
	})
	settingsUC := usecase.NewSettingsUsecase(docs, audit)
	publicUC := usecase.NewPublicUsecase(docs)
	contactUC := usecase.NewContactUsecase(audit)
	healthUC := usecase.NewHealthUsecase(cfg.DataFile)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:     authUC,
		ContentUC:  contentUC,
		SettingsUC: settingsUC,
		PublicUC:   publicUC,
		ContactUC:  contactUC,
		HealthUC:   healthUC,
		LoginGuard: loginGuard,
		SecLog:     secLog,
		Config:     cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// seedDocument writes the first-run document when the data file is missing or empty.
func seedDocument(docs *filestore.DocumentStore, cfg *config.Config) error {
	hash, err := security.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}
	seeded, err := docs.Seed(context.Background(), filestore.DefaultDocument(cfg.DefaultAdminUsername, hash, time.Now()))
	if err != nil {
		return err
	}
	if seeded {
		logger.Log.Warn("Created initial data file with default admin credentials; change the password",
			"path", docs.Path(), "username", cfg.DefaultAdminUsername)
	}
	return nil
}
