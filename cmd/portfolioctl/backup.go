package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/pkg/storage"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var backupSkipAudit bool

//nolint:gochecknoglobals // Cobra boilerplate
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload the data file and audit log to an S3 bucket",
	Long: `Copies the data document and the admin audit log to BACKUP_BUCKET under
BACKUP_PREFIX/<UTC timestamp>/. S3_PROVIDER selects AWS or Wasabi; S3_ENDPOINT
points at any other S3-compatible store such as MinIO.`,
	RunE: runBackup,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().BoolVar(&backupSkipAudit, "skip-audit", false, "Only upload the data file")
}

func s3Config(cfg *config.Config) storage.S3Config {
	return storage.S3Config{
		Provider:        storage.Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.BackupBucket,
		Endpoint:        cfg.S3Endpoint,
		Prefix:          cfg.BackupPrefix,
	}
}

func runBackup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s3cfg := s3Config(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := storage.NewS3Client(ctx, s3cfg)
	if err != nil {
		return err
	}
	backup := storage.NewBackup(client, s3cfg.Bucket, s3cfg.Prefix)

	docs, audit := openStores(cfg)
	data, err := docs.Export(ctx)
	if err != nil {
		return err
	}
	key, err := backup.Upload(ctx, docs.Path(), "application/json", data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded s3://%s/%s\n", s3cfg.Bucket, key)

	if backupSkipAudit {
		return nil
	}
	logData, err := os.ReadFile(audit.Path())
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit log yet; skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	key, err = backup.Upload(ctx, audit.Path(), "text/plain; charset=utf-8", logData)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded s3://%s/%s\n", s3cfg.Bucket, key)
	return nil
}
