package cli

import (
	"fmt"
	"strings"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
)

// LayoutFormatter renders a seat map as a coach tree with the selection marked
type LayoutFormatter struct {
	useColors bool
}

// NewLayoutFormatter creates a new layout formatter
func NewLayoutFormatter(useColors bool) *LayoutFormatter {
	return &LayoutFormatter{useColors: useColors}
}

// Format renders every coach, row by row.
// Markers: [*] selected, [ ] available, [x] taken.
func (f *LayoutFormatter) Format(seatMap seating.SeatMap, selected seating.SelectionResult) string {
	if len(seatMap.Coaches) == 0 {
		return "(empty layout)\n"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Seat layout (%d of %d available)\n", seatMap.AvailableCount(), seatMap.TotalCount())

	for i, coach := range seatMap.Coaches {
		lastCoach := i == len(seatMap.Coaches)-1
		branch, childPrefix := "├── ", "│   "
		if lastCoach {
			branch, childPrefix = "└── ", "    "
		}
		fmt.Fprintf(&builder, "%s%s (%d available)\n", branch, coach.Name, len(coach.AvailableSeats()))

		for j, row := range coach.Rows {
			rowBranch := "├── "
			if j == len(coach.Rows)-1 {
				rowBranch = "└── "
			}
			builder.WriteString(childPrefix + rowBranch + f.formatRow(row, selected) + "\n")
		}
	}
	return builder.String()
}

func (f *LayoutFormatter) formatRow(row []seating.Seat, selected seating.SelectionResult) string {
	cells := make([]string, 0, len(row))
	for _, seat := range row {
		if seat.Number == "" {
			continue
		}
		cells = append(cells, f.formatSeat(seat, selected))
	}
	if len(cells) == 0 {
		return "(aisle)"
	}
	return strings.Join(cells, "  ")
}

func (f *LayoutFormatter) formatSeat(seat seating.Seat, selected seating.SelectionResult) string {
	switch {
	case seat.TicketID != "" && selected.Contains(seat.TicketID):
		return f.style(successStyle.Render, "[*] "+seat.Number)
	case seat.Available:
		return "[ ] " + seat.Number
	default:
		return f.style(faintStyle.Render, "[x] "+seat.Number)
	}
}

func (f *LayoutFormatter) style(render func(...string) string, text string) string {
	if !f.useColors {
		return text
	}
	return render(text)
}
