package booking

import (
	"strings"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
)

// TripQuery identifies the journey to book
type TripQuery struct {
	FromCity      string
	ToCity        string
	DateOfJourney string
	SeatClass     string
	TrainNumber   string
}

// Validate checks that every field of the query is present
func (q TripQuery) Validate() error {
	fields := []struct{ name, value string }{
		{"from_city", q.FromCity},
		{"to_city", q.ToCity},
		{"date_of_journey", q.DateOfJourney},
		{"seat_class", q.SeatClass},
		{"train_number", q.TrainNumber},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return shared.NewValidationError(f.name, "is required")
		}
	}
	return nil
}

// Trip is a resolved train and seat class on a given day
type Trip struct {
	TripID          string
	TripRouteID     string
	BoardingPointID string
	TrainName       string
}

// IsComplete reports whether the trip carries every id needed downstream
func (t Trip) IsComplete() bool {
	return t.TripID != "" && t.TripRouteID != "" && t.BoardingPointID != ""
}
