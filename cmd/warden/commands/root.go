// Package commands defines the warden CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command. Running warden without a
// subcommand starts the daemon.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "warden",
		Short: "Smart-session lifecycle daemon",
		Long: `warden grants time-bound, revocable permission sets ("smart sessions")
to a counterparty address and tracks their lifecycle until expiry or
revocation. Configuration is environment-driven (WARDEN_*).`,
		RunE: runServe,
	}

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
