package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "railbook",
		Short: "Railbook - book Bangladesh Railway tickets the moment sales open",
		Long: `Railbook signs in, waits for the seat layout of your train to open,
picks seats, holds them in parallel and walks through OTP and payment.

Configuration comes from config.yaml, RB_* environment variables or a .env
file using the MOBILE_NUMBER / FROM_CITY / ... names.

Examples:
  railbook book
  railbook book --desired-seats KA-12,KA-13 --max-seats 2 --payment nagad
  railbook select --layout seat-layout.json --max-seats 4
  railbook config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: search ., ./configs, /etc/railbook)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewBookCommand())
	rootCmd.AddCommand(NewSelectCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit status
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
