package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resetPassword string

//nolint:gochecknoglobals // Cobra boilerplate
var resetUsername string

//nolint:gochecknoglobals // Cobra boilerplate
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Replace the admin password without the current one",
	Long: `Sets a new admin password (and optionally a new username) directly in the
data file. Use this when the current password is lost. The change is written
to the audit log as user "portfolioctl".`,
	RunE: runResetPassword,
}

//nolint:gochecknoglobals // Cobra boilerplate
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := security.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resetPasswordCmd, hashPasswordCmd)
	resetPasswordCmd.Flags().StringVarP(&resetPassword, "password", "p", "", "New admin password")
	resetPasswordCmd.Flags().StringVarP(&resetUsername, "username", "u", "", "New admin username (unchanged when empty)")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}

func runResetPassword(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(resetPassword) < cfg.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", cfg.MinPasswordLength)
	}
	if len(resetPassword) > security.MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", security.MaxPasswordBytes)
	}
	username := strings.TrimSpace(resetUsername)

	hash, err := security.HashPassword(resetPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	docs, audit := openStores(cfg)
	ctx := context.Background()
	err = docs.Update(ctx, func(doc *domain.Document) error {
		if doc.AdminCredentials.Username == "" && username == "" {
			return errors.New("data file has no admin user; pass --username or run init")
		}
		doc.AdminCredentials.PasswordHash = hash
		if username != "" {
			doc.AdminCredentials.Username = username
		}
		return nil
	})
	if err != nil {
		return err
	}

	details := "password reset"
	if username != "" {
		details += ", username=" + username
	}
	if err := audit.Append(ctx, domain.AuditRecord{
		Timestamp: time.Now(),
		Username:  "portfolioctl",
		Action:    "reset_password",
		Section:   "auth",
		Details:   details,
	}); err != nil {
		logger.Log.Warn("audit write failed", "action", "reset_password", "error", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Admin password updated.")
	return nil
}
