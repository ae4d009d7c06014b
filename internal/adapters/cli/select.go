package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/api"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
)

// NewSelectCommand creates the offline seat preview command
func NewSelectCommand() *cobra.Command {
	var (
		layoutPath   string
		desiredSeats []string
		maxSeats     int
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Preview which seats would be picked from a saved seat layout",
		Long: `Run seat selection on a saved seat-layout response without contacting the server.

With --desired-seats the listed seats are tried first, filling up with their
nearest free neighbours. Without it the most central contiguous block is picked.

Examples:
  railbook select --layout seat-layout.json
  railbook select --layout seat-layout.json --desired-seats KA-12,KA-13 --max-seats 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(layoutPath)
			if err != nil {
				return fmt.Errorf("failed to read layout: %w", err)
			}
			return runSelect(cmd.OutOrStdout(), data, desiredSeats, maxSeats, !noColor)
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "Seat-layout JSON file (required)")
	cmd.Flags().StringSliceVar(&desiredSeats, "desired-seats", nil, "Preferred seat numbers, comma separated")
	cmd.Flags().IntVar(&maxSeats, "max-seats", 4, "Maximum number of seats to pick")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	_ = cmd.MarkFlagRequired("layout")

	return cmd
}

func runSelect(out io.Writer, layout []byte, desired []string, maxSeats int, useColors bool) error {
	seatMap, err := api.ParseSeatLayout(layout)
	if err != nil {
		return err
	}

	req, err := seating.NewSelectionRequest(desired, maxSeats)
	if err != nil {
		return err
	}

	result, err := seating.Select(seatMap, req)
	if err != nil && !errors.Is(err, seating.ErrNoSeatsAvailable) {
		return err
	}

	fmt.Fprint(out, NewLayoutFormatter(useColors).Format(seatMap, result))
	fmt.Fprintln(out)

	if result.IsEmpty() {
		fmt.Fprintln(out, "No seats would be selected")
		return err
	}

	policy := "middle block"
	if req.HasPreferences() {
		policy = "desired seats"
	}
	fmt.Fprintf(out, "Selected %d of %d seat(s) by %s:\n", result.Len(), req.MaxSeats, policy)
	for i, seat := range result.Seats() {
		fmt.Fprintf(out, "  %d. %s  coach %s  ticket %s\n", i+1, seat.SeatNumber, seat.Coach, seat.TicketID)
	}
	return nil
}
