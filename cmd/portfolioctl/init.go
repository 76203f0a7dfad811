package main

import (
	"context"
	"fmt"
	"time"

	"portfolio-backend/internal/repository/filestore"
	"portfolio-backend/pkg/security"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initForce bool

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data file with the default document",
	Long: `Writes the first-run document (one "main" portfolio, default settings and
the DEFAULT_ADMIN_USERNAME / DEFAULT_ADMIN_PASSWORD credentials).

An existing non-empty data file is left alone unless --force is given.`,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing data file")
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	docs, _ := openStores(cfg)
	ctx := context.Background()

	hash, err := security.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	doc := filestore.DefaultDocument(cfg.DefaultAdminUsername, hash, time.Now())

	if initForce {
		if err := docs.Save(ctx, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default document to %s\n", docs.Path())
		return nil
	}

	seeded, err := docs.Seed(ctx, doc)
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists; use --force to overwrite\n", docs.Path())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (admin user %q)\n", docs.Path(), cfg.DefaultAdminUsername)
	return nil
}
