package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"kusafe-quiz-client/internal/archive"
	"kusafe-quiz-client/internal/config"
)

// NewMigrateCmd applies the attempt archive schema.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run attempt archive migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	store := archive.Connect(cfg.Postgres.URL)
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	log.Printf("migrations applied")
	return nil
}
