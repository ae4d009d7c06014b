package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect Railbook configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (RB_* prefix, or MOBILE_NUMBER, FROM_CITY, ... from .env)
2. Config file (config.yaml)
3. Default values

Examples:
  railbook config show
  railbook config validate --config ./configs/config.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigValidateCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the effective configuration. The password is masked.

Example:
  railbook config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}
			printConfig(out, cfg)
			return nil
		},
	}
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configuration is complete enough to book",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := config.ValidateBooking(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Railbook Configuration")
	fmt.Fprintln(out, "======================")

	fmt.Fprintln(out, "\nAccount:")
	fmt.Fprintf(out, "  Mobile Number:    %s\n", orUnset(cfg.Account.MobileNumber))
	fmt.Fprintf(out, "  Password:         %s\n", maskSecret(cfg.Account.Password))

	fmt.Fprintln(out, "\nJourney:")
	fmt.Fprintf(out, "  From:             %s\n", orUnset(cfg.Journey.FromCity))
	fmt.Fprintf(out, "  To:               %s\n", orUnset(cfg.Journey.ToCity))
	fmt.Fprintf(out, "  Date:             %s\n", orUnset(cfg.Journey.DateOfJourney))
	fmt.Fprintf(out, "  Class:            %s\n", orUnset(cfg.Journey.SeatClass))
	fmt.Fprintf(out, "  Train:            %s\n", orUnset(cfg.Journey.TrainNumber))

	fmt.Fprintln(out, "\nSelection:")
	desired := cfg.Selection.Desired()
	if len(desired) == 0 {
		fmt.Fprintf(out, "  Desired Seats:    (middle block)\n")
	} else {
		fmt.Fprintf(out, "  Desired Seats:    %s\n", strings.Join(desired, ", "))
	}
	fmt.Fprintf(out, "  Max Seats:        %d\n", cfg.Selection.MaxSeats)

	fmt.Fprintln(out, "\nPolling:")
	fmt.Fprintf(out, "  Min Interval:     %s\n", cfg.Polling.MinInterval)
	fmt.Fprintf(out, "  Trip Retry:       %s\n", cfg.Polling.TripRetryDelay)
	fmt.Fprintf(out, "  Reserve Retry:    %s\n", cfg.Polling.ReserveRetryDelay)
	fmt.Fprintf(out, "  Step Retry:       %s\n", cfg.Polling.StepRetryDelay)
	fmt.Fprintf(out, "  Max Attempts:     %s\n", unboundedInt(cfg.Polling.MaxAttempts))
	if cfg.Polling.Deadline > 0 {
		fmt.Fprintf(out, "  Deadline:         %s\n", cfg.Polling.Deadline)
	} else {
		fmt.Fprintf(out, "  Deadline:         (none)\n")
	}

	fmt.Fprintln(out, "\nPayment:")
	fmt.Fprintf(out, "  Method:           %s\n", orValue(cfg.Payment.Method, "(ask)"))

	fmt.Fprintln(out, "\nRailway API:")
	fmt.Fprintf(out, "  Base URL:         %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  Timeout:          %s\n", cfg.API.Timeout)
	fmt.Fprintf(out, "  Rate Limit:       %d req/s (burst: %d)\n",
		cfg.API.RateLimit.Requests, cfg.API.RateLimit.Burst)
	fmt.Fprintf(out, "  Skip TLS Verify:  %t\n", cfg.API.InsecureSkipVerify)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

	fmt.Fprintln(out, "\nMetrics:")
	fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Listen:           %s%s\n", cfg.Metrics.Address(), cfg.Metrics.Path)
	}

	fmt.Fprintln(out, "\nRun:")
	fmt.Fprintf(out, "  Lock File:        %s\n", cfg.Run.LockFile)
}

// maskSecret never prints any part of a secret
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "********"
}

func orUnset(s string) string {
	return orValue(s, "(not set)")
}

func orValue(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func unboundedInt(n int) string {
	if n <= 0 {
		return "(unbounded)"
	}
	return fmt.Sprint(n)
}
