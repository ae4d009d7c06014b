package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X .../internal/adapters/cli.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "none"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the railbook version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "railbook %s (%s)\n", Version, Commit)
		},
	}
}
