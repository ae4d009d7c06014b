package seating

import (
	"strconv"
	"strings"
)

// Seat is one bookable slot in a coach, identified by its ticket id
type Seat struct {
	Number    string
	TicketID  string
	Available bool
}

// Position parses the numeric suffix of the seat number ("KA-12" -> 12).
// ok is false when the number carries no trailing digits.
func (s Seat) Position() (pos int, ok bool) {
	return ParseSeatPosition(s.Number)
}

// ParseSeatPosition extracts the trailing numeric component of a seat number.
// The part after the last '-' is used when present, otherwise the trailing digits.
func ParseSeatPosition(number string) (int, bool) {
	n := strings.TrimSpace(number)
	if i := strings.LastIndex(n, "-"); i >= 0 {
		n = n[i+1:]
	}
	end := len(n)
	start := end
	for start > 0 && n[start-1] >= '0' && n[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	v, err := strconv.Atoi(n[start:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Coach is a named car whose rows keep their physical layout order
type Coach struct {
	Name string
	Rows [][]Seat
}

// AvailableSeats returns the coach's available seats in layout order
func (c Coach) AvailableSeats() []Seat {
	var out []Seat
	for _, row := range c.Rows {
		for _, seat := range row {
			if seat.Available {
				out = append(out, seat)
			}
		}
	}
	return out
}

// SeatMap is one point-in-time snapshot of coach availability for a trip.
// It is never mutated; every poll produces a new one.
type SeatMap struct {
	Coaches []Coach
}

// NewSeatMap builds a SeatMap from coaches
func NewSeatMap(coaches ...Coach) SeatMap {
	return SeatMap{Coaches: coaches}
}

// IsEmpty reports whether the map carries no seats at all
func (m SeatMap) IsEmpty() bool {
	for _, c := range m.Coaches {
		for _, row := range c.Rows {
			if len(row) > 0 {
				return false
			}
		}
	}
	return true
}

// AvailableCount returns the number of available seats across all coaches
func (m SeatMap) AvailableCount() int {
	count := 0
	for _, c := range m.Coaches {
		count += len(c.AvailableSeats())
	}
	return count
}

// TotalCount returns the number of seats across all coaches
func (m SeatMap) TotalCount() int {
	count := 0
	for _, c := range m.Coaches {
		for _, row := range c.Rows {
			count += len(row)
		}
	}
	return count
}
