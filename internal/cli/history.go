package cli

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"kusafe-quiz-client/internal/archive"
	"kusafe-quiz-client/internal/config"
)

// NewHistoryCmd lists archived attempts for a quiz from the Postgres archive.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <quiz-id>",
		Short: "Show archived attempts for a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			records, err := archive.NewHistory(pool).Recent(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No archived attempts.")
				return nil
			}
			for _, record := range records {
				fmt.Printf("%s  %d/%d pts  %d/%d correct  %s  %s\n",
					record.FinishedAt.Local().Format(time.RFC3339),
					record.Score, record.MaxScore,
					record.CorrectAnswers, record.TotalQuestions,
					(time.Duration(record.TotalTimeMs) * time.Millisecond).Round(time.Second),
					record.Reason)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "max attempts to list")
	return cmd
}
