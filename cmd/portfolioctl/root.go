package main

import (
	"fmt"
	"os"

	"portfolio-backend/config"
	"portfolio-backend/internal/repository/filestore"
	"portfolio-backend/pkg/logger"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var dataFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "portfolioctl",
	Short: "Operator tasks for the portfolio data file",
	Long: `portfolioctl works directly on the JSON data file the portfolio server uses.

Settings come from the same environment variables (and optional .env file) as
the server. Stop the server before changing the data file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "data file (default is $DATA_FILE or data/data.json)")
}

// loadConfig reads the environment config and applies the --data override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func openStores(cfg *config.Config) (*filestore.DocumentStore, *filestore.AuditLog) {
	return filestore.NewDocumentStore(cfg.DataFile), filestore.NewAuditLog(cfg.AuditLogFile)
}
