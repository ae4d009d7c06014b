package booking

import (
	"errors"
	"strings"
)

const (
	passengerTypeAdult = "Adult"
	genderMale         = "male"

	// contact person codes expected by the confirm endpoint
	contactPersonGroup  = 0
	contactPersonSingle = 8
)

// ConfirmRequest is everything the confirm endpoint needs to issue a payment link
type ConfirmRequest struct {
	Trip           Trip
	Query          TripQuery
	TicketIDs      []string
	PassengerNames []string
	PassengerTypes []string
	Genders        []string
	Mobile         string
	Email          string
	ContactPerson  int
	OTP            string
	Payment        PaymentMethod
}

// BuildConfirmRequest assembles the confirm request for the reserved tickets.
// The first passenger is the account holder; names must cover every ticket.
func BuildConfirmRequest(session Session, ticketIDs, names []string, otp string, payment PaymentMethod) (ConfirmRequest, error) {
	if len(ticketIDs) == 0 {
		return ConfirmRequest{}, errors.New("no reserved tickets to confirm")
	}
	if len(names) != len(ticketIDs) {
		return ConfirmRequest{}, errors.New("passenger names must match reserved tickets")
	}
	if strings.TrimSpace(otp) == "" {
		return ConfirmRequest{}, errors.New("otp is required")
	}
	if payment == "" {
		payment = PaymentBkash
	}

	n := len(ticketIDs)
	req := ConfirmRequest{
		Trip:           session.Trip(),
		Query:          session.Query(),
		TicketIDs:      append([]string(nil), ticketIDs...),
		PassengerNames: append([]string(nil), names...),
		PassengerTypes: repeat(passengerTypeAdult, n),
		Genders:        repeat(genderMale, n),
		Mobile:         session.Claims().Phone,
		Email:          session.Claims().Email,
		ContactPerson:  contactPersonSingle,
		OTP:            otp,
		Payment:        payment,
	}
	if n > 1 {
		req.ContactPerson = contactPersonGroup
	}
	return req, nil
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// PassengerNamesFor returns the account holder's name followed by the extra names
// needed to cover count tickets
func PassengerNamesFor(session Session, count int, extra []string) ([]string, error) {
	if count < 1 {
		return nil, errors.New("at least one passenger is required")
	}
	if len(extra) != count-1 {
		return nil, errors.New("extra passenger names must cover every ticket after the first")
	}
	names := make([]string, 0, count)
	names = append(names, session.Claims().DisplayName)
	for _, n := range extra {
		names = append(names, strings.TrimSpace(n))
	}
	return names, nil
}
