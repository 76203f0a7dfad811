package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"portfolio-backend/internal/domain"
)

const auditTimeLayout = "2006-01-02 15:04:05"

// AuditLog appends one line per admin action:
//
//	[2024-01-01 12:00:00] | user=admin | action=add | section=skills | details=...
type AuditLog struct {
	path string
	mu   sync.Mutex
}

var _ domain.AuditLogger = (*AuditLog)(nil)

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

func (a *AuditLog) Path() string {
	return a.path
}

func (a *AuditLog) Append(_ context.Context, rec domain.AuditRecord) error {
	line := FormatAuditLine(rec)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("write audit log: %w", err)
	}
	return f.Close()
}

// FormatAuditLine renders rec as a newline-terminated log line. Newlines in
// values are flattened so one record stays one line.
func FormatAuditLine(rec domain.AuditRecord) string {
	user := rec.Username
	if user == "" {
		user = "unknown"
	}
	return fmt.Sprintf("[%s] | user=%s | action=%s | section=%s | details=%s\n",
		rec.Timestamp.Format(auditTimeLayout),
		oneLine(user), oneLine(rec.Action), oneLine(rec.Section), oneLine(rec.Details))
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func oneLine(s string) string {
	return lineBreaks.Replace(s)
}
