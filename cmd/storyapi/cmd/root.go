package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnlatif16/Story-stories/cmd/storyapi/cmd/admin"
	"github.com/johnlatif16/Story-stories/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "storyapi",
	Short: "Story API server for content publishing",
	Long: `Story API serves a public story feed with a token-protected
admin surface for publishing stories and uploading images.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().String("server-addr", "", "Server bind address (env: SERVER_ADDR)")
	rootCmd.PersistentFlags().String("data-file", "", "Snapshot file path for the file-backed store (env: DATA_FILE)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (env: DEBUG)")

	// Add subcommands
	rootCmd.AddCommand(admin.AdminCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
