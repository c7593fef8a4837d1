package admin

import "github.com/spf13/cobra"

// AdminCmd is the parent command for operator utilities.
var AdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator utilities for credentials and tokens",
	Long:  `Commands for preparing admin credentials and issuing bearer tokens directly from the server.`,
	// Subcommands load configuration themselves; hash-password runs
	// without any environment at all.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}
