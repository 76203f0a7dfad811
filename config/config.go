package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Storage
	DataFile        string
	AuditLogFile    string
	UploadDir       string
	UploadURLPrefix string
	UploadMaxBytes  int64
	// Longer edge of stored profile pictures; 0 disables downscaling.
	ProfilePictureMaxDimension int

	// Session
	SessionSecret      string
	SessionSecretIsSet bool
	SessionTTL         time.Duration
	CookieSecure       bool

	// Admin credentials
	MinPasswordLength    int
	DefaultAdminUsername string
	DefaultAdminPassword string

	ReorderKeepMissing bool
	AllowedOrigins     []string
	LogLevel           string

	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int
	RateLimitLoginThreshold   int
	RateLimitContactThreshold int
	RateLimitGlobalThreshold  int
	FailedLoginBlockMinutes   int
	FailedLoginMaxAttempts    int

	ClamAVAddress string

	// Offsite backups
	S3Provider        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Endpoint        string
	BackupBucket      string
	BackupPrefix      string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	secret, secretSet := os.LookupEnv("SESSION_SECRET")
	if !secretSet || secret == "" {
		secret = randomSecret()
		secretSet = false
	}

	cfg := &Config{
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DataFile:                   getEnv("DATA_FILE", "data/data.json"),
		AuditLogFile:               getEnv("AUDIT_LOG_FILE", "data/admin_activity.log"),
		UploadDir:                  getEnv("UPLOAD_DIR", "static/images"),
		UploadURLPrefix:            strings.TrimRight(getEnv("UPLOAD_URL_PREFIX", "/static/images"), "/"),
		UploadMaxBytes:             int64(getEnvInt("UPLOAD_MAX_BYTES", 2<<20)),
		ProfilePictureMaxDimension: getEnvInt("PROFILE_PICTURE_MAX_DIMENSION", 1200),

		SessionSecret:      secret,
		SessionSecretIsSet: secretSet,
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),

		MinPasswordLength:    getEnvInt("MIN_PASSWORD_LENGTH", 6),
		DefaultAdminUsername: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "adminpass"),

		ReorderKeepMissing: getEnvBool("REORDER_KEEP_MISSING", false),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:   getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitContactThreshold: getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 5),
		RateLimitGlobalThreshold:  getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 300),
		FailedLoginBlockMinutes:   getEnvInt("LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:    getEnvInt("LOGIN_MAX_FAILED_ATTEMPTS", 5),

		ClamAVAddress: getEnv("CLAMAV_ADDRESS", ""),

		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		BackupBucket:      getEnv("BACKUP_BUCKET", ""),
		BackupPrefix:      getEnv("BACKUP_PREFIX", "portfolio-backups"),
	}

	if !cfg.SessionSecretIsSet {
		log.Println("WARNING: SESSION_SECRET not set. Sessions will not survive a restart.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("config: cannot read random bytes: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
