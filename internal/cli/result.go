package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kusafe-quiz-client/internal/config"
	"kusafe-quiz-client/internal/session"
)

// NewResultCmd re-displays the stored result of a finished attempt. The
// bundle stays in the store after display, so showing it again is fine; no
// question token survives the terminal transition, so nothing can be
// resubmitted.
func NewResultCmd(configPath, apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "result <quiz-id>",
		Short: "Show the stored result of a finished attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			quizID := args[0]
			store := buildStore(cfg)
			client, _ := buildClient(cfg, *apiURL, store)

			bundle, err := session.LoadResult(store, quizID)
			if err != nil {
				// Absent or corrupt bundle: fall back to the quiz page
				// instead of rendering a broken result.
				fmt.Printf("No stored result for %s. Run `kusafe-quiz play %s` to take the quiz.\n", quizID, quizID)
				return nil
			}
			printResult(bundle)

			if entries, err := client.Leaderboard(cmd.Context(), quizID); err == nil && len(entries) > 0 {
				printLeaderboard(entries)
			}
			return nil
		},
	}
}
