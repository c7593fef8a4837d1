package admin

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnlatif16/Story-stories/internal/auth"
)

var (
	passwordFlag string
	stdinFlag    bool
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash an admin password for ADMIN_PASSWORD_HASH",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := passwordFlag
		if stdinFlag {
			// Read password from stdin
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		fmt.Println(hash)
		return nil
	},
}

func init() {
	hashPasswordCmd.Flags().StringVar(&passwordFlag, "password", "", "Password to hash (use --stdin to avoid shell history)")
	hashPasswordCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read password from stdin instead of --password flag")

	AdminCmd.AddCommand(hashPasswordCmd)
}
