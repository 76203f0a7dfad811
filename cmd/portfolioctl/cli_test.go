package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	initForce, exportOutput, resetPassword, resetUsername, dataFile = false, "", "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("DATA_FILE", filepath.Join(dir, "data.json"))
	t.Setenv("AUDIT_LOG_FILE", filepath.Join(dir, "admin_activity.log"))
	t.Setenv("DEFAULT_ADMIN_USERNAME", "owner")
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "first-pass")
	t.Setenv("MIN_PASSWORD_LENGTH", "8")
	return dir
}

func readDoc(t *testing.T, path string) domain.Document {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestInitAndExport(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, `admin user "owner"`)

	doc := readDoc(t, filepath.Join(dir, "data.json"))
	assert.Equal(t, "owner", doc.AdminCredentials.Username)
	assert.True(t, security.VerifyPassword(doc.AdminCredentials.PasswordHash, "first-pass"))

	out, err = run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	target := filepath.Join(dir, "export.json")
	_, err = run(t, "export", "-o", target)
	require.NoError(t, err)
	exported := readDoc(t, target)
	assert.Equal(t, doc.Settings.DefaultPortfolio, exported.Settings.DefaultPortfolio)
}

func TestResetPassword(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, "init")
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := run(t, "reset-password", "-p", "short")
		assert.Error(t, err)
	})

	t.Run("too long for bcrypt", func(t *testing.T) {
		_, err := run(t, "reset-password", "-p", strings.Repeat("x", 80))
		assert.Error(t, err)
		doc := readDoc(t, filepath.Join(dir, "data.json"))
		assert.True(t, security.VerifyPassword(doc.AdminCredentials.PasswordHash, "first-pass"))
	})

	t.Run("new password and username", func(t *testing.T) {
		_, err := run(t, "reset-password", "-p", "second-pass", "-u", "admin2")
		require.NoError(t, err)

		doc := readDoc(t, filepath.Join(dir, "data.json"))
		assert.Equal(t, "admin2", doc.AdminCredentials.Username)
		assert.True(t, security.VerifyPassword(doc.AdminCredentials.PasswordHash, "second-pass"))

		audit, err := os.ReadFile(filepath.Join(dir, "admin_activity.log"))
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(audit), "action=reset_password"))
		assert.Contains(t, string(audit), "user=portfolioctl")
	})
}

func TestHashPassword(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "hash-password", "secret-value")
	require.NoError(t, err)
	assert.True(t, security.VerifyPassword(strings.TrimSpace(out), "secret-value"))
}

func TestBackupRequiresBucket(t *testing.T) {
	setupEnv(t)
	t.Setenv("BACKUP_BUCKET", "")
	_, err := run(t, "backup")
	assert.Error(t, err)
}

func TestResetPasswordSurvivesAuditFailure(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, "init")
	require.NoError(t, err)

	// a directory where the audit file should be makes the append fail
	auditPath := filepath.Join(dir, "admin_activity.log")
	require.NoError(t, os.Mkdir(auditPath, 0o755))

	out, err := run(t, "reset-password", "-p", "second-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin password updated.")

	doc := readDoc(t, filepath.Join(dir, "data.json"))
	assert.True(t, security.VerifyPassword(doc.AdminCredentials.PasswordHash, "second-pass"))
}
