package ports

import (
	"context"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
)

// BookingAPI defines the domain's interface to the remote ticketing service.
//
// Every call returns the HTTP status and the decoded fields the caller classifies on.
// A non-nil error means the request never produced a response (network failure,
// cancelled context) and is treated as transient by retry loops. An undecodable
// body comes back as a response with Message set.
type BookingAPI interface {
	SignIn(ctx context.Context, mobile, password string) (*SignInResponse, error)
	SearchTrips(ctx context.Context, token string, query booking.TripQuery) (*TripSearchResponse, error)
	SeatLayout(ctx context.Context, token, tripID, tripRouteID string) (*SeatLayoutResponse, error)
	ReserveSeat(ctx context.Context, token, ticketID, routeID string) (*ReserveSeatResponse, error)
	SendPassengerDetails(ctx context.Context, token string, trip booking.Trip, ticketIDs []string) (*StepResponse, error)
	VerifyOTP(ctx context.Context, token string, trip booking.Trip, ticketIDs []string, otp string) (*StepResponse, error)
	ConfirmBooking(ctx context.Context, token string, req booking.ConfirmRequest) (*ConfirmResponse, error)
}

// TokenDecoder extracts account details from a sign-in token
type TokenDecoder interface {
	DecodeClaims(token string) (booking.UserClaims, error)
}

// SignInResponse is the result of an authentication attempt
type SignInResponse struct {
	StatusCode int
	Token      string
	Message    string
}

// SeatTypeOffer is one seat class sold on a train
type SeatTypeOffer struct {
	Type        string
	TripID      string
	TripRouteID string
}

// TrainOffer is one train returned by a trip search
type TrainOffer struct {
	TrainModel      string
	TripNumber      string
	BoardingPointID string
	SeatTypes       []SeatTypeOffer
}

// TripSearchResponse is the result of a trip search
type TripSearchResponse struct {
	StatusCode int
	Trains     []TrainOffer
	Message    string
}

// SeatLayoutResponse is one seat-layout query result.
// HasLayout is true only for a 200 carrying a non-empty layout.
type SeatLayoutResponse struct {
	StatusCode int
	HasLayout  bool
	SeatMap    seating.SeatMap
	Message    string
	ErrorKey   string
}

// ReserveSeatResponse is one reserve-seat attempt result
type ReserveSeatResponse struct {
	StatusCode   int
	Acknowledged bool
	Message      string
}

// StepResponse covers the passenger-details and OTP verification calls
type StepResponse struct {
	StatusCode int
	Success    bool
	Message    string
	ErrorKey   string
}

// ConfirmResponse is the result of confirming a booking
type ConfirmResponse struct {
	StatusCode  int
	RedirectURL string
	Message     string
}
