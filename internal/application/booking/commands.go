package booking

import (
	domain "github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
)

// Credentials are the account used for the run
type Credentials struct {
	Mobile   string
	Password string
}

// RunBookingCommand books seats on one train from sign-in to payment link
type RunBookingCommand struct {
	RunID        string
	Credentials  Credentials
	Query        domain.TripQuery
	DesiredSeats []string
	MaxSeats     int
	// Payment is a method name, label or menu number; empty asks the prompter
	Payment string
}

// StageTiming records how long a completed stage took
type StageTiming struct {
	Stage    domain.Stage
	Duration float64
}

// RunBookingResponse is the result of a completed run
type RunBookingResponse struct {
	RunID       string
	Trip        domain.Trip
	Selection   seating.SelectionResult
	Report      domain.ReservationReport
	Payment     domain.PaymentMethod
	RedirectURL string
	Stages      []StageTiming
}
