package commands

import (
	"github.com/spf13/cobra"

	"warden/cmd/internal/app"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the session lifecycle daemon",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	return app.Run()
}
