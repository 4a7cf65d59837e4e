package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kusafe-quiz-client/internal/config"
)

// NewQuizzesCmd builds the subcommand listing the public quiz catalogue.
func NewQuizzesCmd(configPath, apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quizzes",
		Short: "List available quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			store := buildStore(cfg)
			client, _ := buildClient(cfg, *apiURL, store)

			quizzes, err := client.Quizzes(cmd.Context())
			if err != nil {
				return err
			}
			if len(quizzes) == 0 {
				fmt.Println("No quizzes available.")
				return nil
			}
			for _, quiz := range quizzes {
				fmt.Printf("%s  %s (%d questions)\n", quiz.ID, quiz.Title, quiz.QuestionsCount)
				if quiz.Description != "" {
					fmt.Printf("    %s\n", quiz.Description)
				}
			}
			return nil
		},
	}
}
