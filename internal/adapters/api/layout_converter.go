package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
)

// convertLayout maps the wire seat layout onto the domain seat map, keeping
// coach and row order
func convertLayout(coaches []wireCoach) seating.SeatMap {
	out := make([]seating.Coach, 0, len(coaches))
	for _, wc := range coaches {
		rows := make([][]seating.Seat, 0, len(wc.Layout))
		for _, wr := range wc.Layout {
			row := make([]seating.Seat, 0, len(wr))
			for _, ws := range wr {
				row = append(row, seating.Seat{
					Number:    strings.TrimSpace(ws.SeatNumber),
					TicketID:  string(ws.TicketID),
					Available: ws.SeatAvailability == seatAvailable && ws.TicketID != "",
				})
			}
			rows = append(rows, row)
		}
		out = append(out, seating.Coach{Name: wc.FloorName, Rows: rows})
	}
	return seating.NewSeatMap(out...)
}

// ParseSeatLayout decodes a saved seat-layout response. Both the full response
// ({"data":{"seatLayout":[...]}}) and the bare seatLayout array are accepted.
func ParseSeatLayout(data []byte) (seating.SeatMap, error) {
	var env seatLayoutEnvelope
	if err := json.Unmarshal(data, &env); err == nil && len(env.Data.SeatLayout) > 0 {
		return convertLayout(env.Data.SeatLayout), nil
	}
	var bare []wireCoach
	if err := json.Unmarshal(data, &bare); err != nil {
		return seating.SeatMap{}, fmt.Errorf("failed to decode seat layout: %w", err)
	}
	if len(bare) == 0 {
		return seating.SeatMap{}, fmt.Errorf("seat layout is empty")
	}
	return convertLayout(bare), nil
}
