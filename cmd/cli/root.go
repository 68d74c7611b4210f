// Package cli implements the loginpage-admin command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the loginpage-admin command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "loginpage-admin",
		Short: "Administer the LoginPage service",
		Long: `loginpage-admin performs maintenance on the LoginPage store:
running migrations, purging stale rate limit rows, and inspecting,
clearing or forcing rate limit blocks for a client IP.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (defaults to /etc/loginpage/ or ./)")

	rootCmd.AddCommand(
		newMigrateCmd(&configPath),
		newCleanupCmd(&configPath),
		newStatusCmd(&configPath),
		newClearCmd(&configPath),
		newBlockCmd(&configPath),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
