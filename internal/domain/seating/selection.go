package seating

import (
	"errors"
	"strings"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
)

// ErrNoSeatsAvailable is returned when selection finds nothing at all
var ErrNoSeatsAvailable = errors.New("no seats available")

// ErrInvalidMaxSeats is returned when a selection asks for fewer than one seat
var ErrInvalidMaxSeats = errors.New("max seats must be at least 1")

// SelectionRequest carries the user's seat preferences
type SelectionRequest struct {
	// DesiredSeatNumbers in preference order; empty selects the middle-block policy
	DesiredSeatNumbers []string
	MaxSeats           int
}

// NewSelectionRequest trims and de-duplicates the desired seats and validates MaxSeats
func NewSelectionRequest(desired []string, maxSeats int) (SelectionRequest, error) {
	if maxSeats < 1 {
		return SelectionRequest{}, shared.NewValidationError("max_seats", "must be at least 1")
	}
	seen := make(map[string]struct{}, len(desired))
	cleaned := make([]string, 0, len(desired))
	for _, d := range desired {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		cleaned = append(cleaned, d)
	}
	return SelectionRequest{DesiredSeatNumbers: cleaned, MaxSeats: maxSeats}, nil
}

// HasPreferences reports whether explicit seat numbers were requested
func (r SelectionRequest) HasPreferences() bool {
	return len(r.DesiredSeatNumbers) > 0
}

// SelectedSeat is one entry of a SelectionResult
type SelectedSeat struct {
	TicketID   string
	SeatNumber string
	Coach      string
}

// SelectionResult is an ordered ticket id -> seat number mapping.
// Built once by Select and never mutated afterwards.
type SelectionResult struct {
	seats []SelectedSeat
}

// NewSelectionResult builds a result from entries, dropping duplicate ticket ids
func NewSelectionResult(seats ...SelectedSeat) SelectionResult {
	b := newResultBuilder(len(seats))
	for _, s := range seats {
		b.add(s.Coach, Seat{Number: s.SeatNumber, TicketID: s.TicketID, Available: true})
	}
	return b.build()
}

// Seats returns a copy of the ordered entries
func (r SelectionResult) Seats() []SelectedSeat {
	out := make([]SelectedSeat, len(r.seats))
	copy(out, r.seats)
	return out
}

// TicketIDs returns the ticket ids in selection order
func (r SelectionResult) TicketIDs() []string {
	ids := make([]string, len(r.seats))
	for i, s := range r.seats {
		ids[i] = s.TicketID
	}
	return ids
}

// SeatNumber returns the seat number selected for a ticket id
func (r SelectionResult) SeatNumber(ticketID string) (string, bool) {
	for _, s := range r.seats {
		if s.TicketID == ticketID {
			return s.SeatNumber, true
		}
	}
	return "", false
}

// Contains reports whether the ticket id is part of the selection
func (r SelectionResult) Contains(ticketID string) bool {
	_, ok := r.SeatNumber(ticketID)
	return ok
}

// Len returns the number of selected seats
func (r SelectionResult) Len() int {
	return len(r.seats)
}

// IsEmpty reports whether nothing was selected
func (r SelectionResult) IsEmpty() bool {
	return len(r.seats) == 0
}

// SeatNumbers returns the selected seat numbers in selection order
func (r SelectionResult) SeatNumbers() []string {
	out := make([]string, len(r.seats))
	for i, s := range r.seats {
		out[i] = s.SeatNumber
	}
	return out
}

// resultBuilder accumulates a selection, tracking chosen seats by ticket id
type resultBuilder struct {
	seats  []SelectedSeat
	chosen map[string]struct{}
}

func newResultBuilder(capacity int) *resultBuilder {
	return &resultBuilder{
		seats:  make([]SelectedSeat, 0, capacity),
		chosen: make(map[string]struct{}, capacity),
	}
}

func (b *resultBuilder) has(ticketID string) bool {
	_, ok := b.chosen[ticketID]
	return ok
}

// add appends an available, not yet chosen seat and reports whether it was taken
func (b *resultBuilder) add(coach string, seat Seat) bool {
	if !seat.Available || b.has(seat.TicketID) {
		return false
	}
	b.chosen[seat.TicketID] = struct{}{}
	b.seats = append(b.seats, SelectedSeat{TicketID: seat.TicketID, SeatNumber: seat.Number, Coach: coach})
	return true
}

func (b *resultBuilder) len() int {
	return len(b.seats)
}

func (b *resultBuilder) build() SelectionResult {
	return SelectionResult{seats: b.seats}
}
