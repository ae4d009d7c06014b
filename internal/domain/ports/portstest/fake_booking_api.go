// Package portstest provides in-memory test doubles for the domain ports.
package portstest

import (
	"context"
	"errors"
	"sync"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
)

// ErrNotConfigured is returned by FakeBookingAPI calls that have no handler
var ErrNotConfigured = errors.New("fake booking api: call not configured")

// FakeBookingAPI is a test double for ports.BookingAPI.
// Each call is routed to its func field; calls are recorded in order.
type FakeBookingAPI struct {
	mu    sync.Mutex
	calls []string

	SignInFunc               func(ctx context.Context, mobile, password string) (*ports.SignInResponse, error)
	SearchTripsFunc          func(ctx context.Context, token string, query booking.TripQuery) (*ports.TripSearchResponse, error)
	SeatLayoutFunc           func(ctx context.Context, token, tripID, tripRouteID string) (*ports.SeatLayoutResponse, error)
	ReserveSeatFunc          func(ctx context.Context, token, ticketID, routeID string) (*ports.ReserveSeatResponse, error)
	SendPassengerDetailsFunc func(ctx context.Context, token string, trip booking.Trip, ticketIDs []string) (*ports.StepResponse, error)
	VerifyOTPFunc            func(ctx context.Context, token string, trip booking.Trip, ticketIDs []string, otp string) (*ports.StepResponse, error)
	ConfirmBookingFunc       func(ctx context.Context, token string, req booking.ConfirmRequest) (*ports.ConfirmResponse, error)
}

var _ ports.BookingAPI = (*FakeBookingAPI)(nil)

func (f *FakeBookingAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// Calls returns the names of the calls made so far, in order
func (f *FakeBookingAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times the named call was made
func (f *FakeBookingAPI) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *FakeBookingAPI) SignIn(ctx context.Context, mobile, password string) (*ports.SignInResponse, error) {
	f.record("SignIn")
	if f.SignInFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.SignInFunc(ctx, mobile, password)
}

func (f *FakeBookingAPI) SearchTrips(ctx context.Context, token string, query booking.TripQuery) (*ports.TripSearchResponse, error) {
	f.record("SearchTrips")
	if f.SearchTripsFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.SearchTripsFunc(ctx, token, query)
}

func (f *FakeBookingAPI) SeatLayout(ctx context.Context, token, tripID, tripRouteID string) (*ports.SeatLayoutResponse, error) {
	f.record("SeatLayout")
	if f.SeatLayoutFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.SeatLayoutFunc(ctx, token, tripID, tripRouteID)
}

func (f *FakeBookingAPI) ReserveSeat(ctx context.Context, token, ticketID, routeID string) (*ports.ReserveSeatResponse, error) {
	f.record("ReserveSeat")
	if f.ReserveSeatFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.ReserveSeatFunc(ctx, token, ticketID, routeID)
}

func (f *FakeBookingAPI) SendPassengerDetails(ctx context.Context, token string, trip booking.Trip, ticketIDs []string) (*ports.StepResponse, error) {
	f.record("SendPassengerDetails")
	if f.SendPassengerDetailsFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.SendPassengerDetailsFunc(ctx, token, trip, ticketIDs)
}

func (f *FakeBookingAPI) VerifyOTP(ctx context.Context, token string, trip booking.Trip, ticketIDs []string, otp string) (*ports.StepResponse, error) {
	f.record("VerifyOTP")
	if f.VerifyOTPFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.VerifyOTPFunc(ctx, token, trip, ticketIDs, otp)
}

func (f *FakeBookingAPI) ConfirmBooking(ctx context.Context, token string, req booking.ConfirmRequest) (*ports.ConfirmResponse, error) {
	f.record("ConfirmBooking")
	if f.ConfirmBookingFunc == nil {
		return nil, ErrNotConfigured
	}
	return f.ConfirmBookingFunc(ctx, token, req)
}

// FakeTokenDecoder returns fixed claims for any token
type FakeTokenDecoder struct {
	Claims booking.UserClaims
	Err    error
}

func (d FakeTokenDecoder) DecodeClaims(string) (booking.UserClaims, error) {
	return d.Claims, d.Err
}

// RecordingReporter captures reported progress lines by level
type RecordingReporter struct {
	mu    sync.Mutex
	Lines []string
}

func (r *RecordingReporter) add(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, level+": "+msg)
}

func (r *RecordingReporter) Info(msg string)    { r.add("info", msg) }
func (r *RecordingReporter) Success(msg string) { r.add("success", msg) }
func (r *RecordingReporter) Warn(msg string)    { r.add("warn", msg) }
func (r *RecordingReporter) Failure(msg string) { r.add("failure", msg) }

// Snapshot returns a copy of the recorded lines
func (r *RecordingReporter) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Lines...)
}
