package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kusafe-quiz-client/internal/config"
)

// NewLoginCmd builds the subcommand that exchanges credentials for a bearer
// token and stores it for the other commands.
func NewLoginCmd(configPath, apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			store := buildStore(cfg)
			client, _ := buildClient(cfg, *apiURL, store)

			fmt.Print("password: ")
			reader := bufio.NewReader(os.Stdin)
			password, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			if err := client.Login(cmd.Context(), args[0], strings.TrimSpace(password)); err != nil {
				return err
			}
			fmt.Println("Logged in.")
			return nil
		},
	}
}
