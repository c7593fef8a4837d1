package admin

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnlatif16/Story-stories/internal/auth"
	"github.com/johnlatif16/Story-stories/internal/config"
)

var usernameFlag string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the configured admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		authority, err := auth.NewAuthority(cfg.JWTSecret)
		if err != nil {
			return fmt.Errorf("failed to configure token authority: %w", err)
		}

		username := usernameFlag
		if username == "" {
			username = cfg.AdminUsername
		}

		token, err := authority.Issue(username)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&usernameFlag, "username", "", "Subject of the token (defaults to ADMIN_USERNAME)")

	AdminCmd.AddCommand(tokenCmd)
}
