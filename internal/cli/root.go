package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	apiBaseURL string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envAPI := os.Getenv("KUSAFE_API_URL")
	if envAPI == "" {
		envAPI = "https://localhost:7267"
	}

	cmd := &cobra.Command{
		Use:   "kusafe-quiz",
		Short: "Terminal player for the kusafe quiz platform",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&apiBaseURL, "api", envAPI, "quiz platform base URL")
	cmd.AddCommand(NewLoginCmd(&configPath, &apiBaseURL))
	cmd.AddCommand(NewQuizzesCmd(&configPath, &apiBaseURL))
	cmd.AddCommand(NewPlayCmd(&configPath, &apiBaseURL))
	cmd.AddCommand(NewResultCmd(&configPath, &apiBaseURL))
	cmd.AddCommand(NewHistoryCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
