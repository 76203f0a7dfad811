package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventCSRFRejected       EventType = "csrf_rejected"
	EventBlockCreated       EventType = "block_created"
	EventUploadRejected     EventType = "upload_rejected"
	EventCredentialsChanged EventType = "credentials_changed"
)

// Events not listed here are logged at warn.
var eventLevels = map[EventType]zapcore.Level{
	EventLoginSuccess:       zapcore.InfoLevel,
	EventCredentialsChanged: zapcore.InfoLevel,
	EventLoginBlocked:       zapcore.ErrorLevel,
	EventBlockCreated:       zapcore.ErrorLevel,
}

// SecurityEvent is one entry in the security log. SubjectValue must already
// be hashed or masked; raw usernames and emails never reach the log.
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "username", "email", "ip", "system"
	SubjectValue string
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

func (e SecurityEvent) fields() []zap.Field {
	fields := make([]zap.Field, 0, 6)
	for _, kv := range [...][2]string{
		{"subject_type", e.SubjectType},
		{"subject_value", e.SubjectValue},
		{"ip", e.IP},
		{"user_agent", e.UserAgent},
		{"request_id", e.RequestID},
	} {
		if kv[1] != "" {
			fields = append(fields, zap.String(kv[0], kv[1]))
		}
	}
	if len(e.Details) > 0 {
		raw, err := json.Marshal(e.Details)
		if err == nil {
			fields = append(fields, zap.String("details", string(raw)))
		}
	}
	return fields
}

// SecurityLogger writes security events as JSON lines through zap, separate
// from the application slog output.
type SecurityLogger struct {
	z *zap.Logger
}

var (
	defaultMu     sync.Mutex
	defaultLogger *SecurityLogger
)

// InitSecurityLogger builds the stdout JSON logger and makes it the default.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "event"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), zapcore.InfoLevel)
	sl := NewSecurityLogger(zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr))), serviceName, environment)

	defaultMu.Lock()
	defaultLogger = sl
	defaultMu.Unlock()
	return sl
}

// NewSecurityLogger wraps z, tagging every entry with service and env.
func NewSecurityLogger(z *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{z: z.With(zap.String("service", serviceName), zap.String("env", environment))}
}

// DefaultLogger returns the logger set by InitSecurityLogger, creating one on first use.
func DefaultLogger() *SecurityLogger {
	defaultMu.Lock()
	sl := defaultLogger
	defaultMu.Unlock()
	if sl != nil {
		return sl
	}
	env := "development"
	if os.Getenv("GIN_MODE") == "release" {
		env = "production"
	}
	return InitSecurityLogger("portfolio-backend", env)
}

func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	level, ok := eventLevels[event.Event]
	if !ok {
		level = zapcore.WarnLevel
	}
	sl.z.Log(level, string(event.Event), event.fields()...)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, username, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "username",
		SubjectValue: HashValue(username),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, username, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginSuccess,
		SubjectType:  "username",
		SubjectValue: HashValue(username),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
	})
}

// LogLoginBlocked records a login refused because the IP is locked out.
func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, username, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"username_hash": HashValue(username)},
	})
}

func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, subjectType, subjectValue, ip string, duration time.Duration) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  subjectType,
		SubjectValue: maskValue(subjectType, subjectValue),
		IP:           ip,
		Details:      map[string]interface{}{"duration_minutes": int(duration.Minutes())},
	})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, route string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventRateLimitTriggered,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Details:   map[string]interface{}{"route": route},
	})
}

func (sl *SecurityLogger) LogUnauthorizedAccess(ctx context.Context, ip, requestID, path, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventUnauthorizedAccess,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"path": path, "reason": reason},
	})
}

func (sl *SecurityLogger) LogCSRFRejected(ctx context.Context, ip, requestID, path string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventCSRFRejected,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"path": path},
	})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, filename, detectedMIME, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event: EventUploadRejected,
		Details: map[string]interface{}{
			"filename": filename,
			"mime":     detectedMIME,
			"reason":   reason,
		},
	})
}

// LogCredentialsChanged records a password or username change; what is "password" or "username".
func (sl *SecurityLogger) LogCredentialsChanged(ctx context.Context, username, what string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventCredentialsChanged,
		SubjectType:  "username",
		SubjectValue: HashValue(username),
		Details:      map[string]interface{}{"changed": what},
	})
}

func (sl *SecurityLogger) Sync() error {
	return sl.z.Sync()
}

// MaskEmail keeps the first character and the domain: "j***@example.com".
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns the first 8 bytes of the SHA-256 of value, hex encoded.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip", "system":
		return value
	}
	return HashValue(value)
}
