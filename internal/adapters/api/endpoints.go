package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
)

const (
	signInPath           = "/auth/sign-in"
	searchTripsPath      = "/bookings/search-trips-v2"
	seatLayoutPath       = "/bookings/seat-layout"
	reserveSeatPath      = "/bookings/reserve-seat"
	passengerDetailsPath = "/bookings/passenger-details"
	verifyOTPPath        = "/bookings/verify-otp"
	confirmPath          = "/bookings/confirm"
)

var _ ports.BookingAPI = (*RailClient)(nil)

// SignIn exchanges the account credentials for a bearer token
func (c *RailClient) SignIn(ctx context.Context, mobile, password string) (*ports.SignInResponse, error) {
	form := url.Values{}
	form.Set("mobile_number", mobile)
	form.Set("password", password)

	raw, err := c.request(ctx, http.MethodPost, signInPath, "", nil, formBody(form))
	if err != nil {
		return nil, err
	}

	resp := &ports.SignInResponse{StatusCode: raw.StatusCode}
	if raw.StatusCode != http.StatusOK {
		resp.Message, _ = parseError(raw.Body)
		return resp, nil
	}
	var env signInEnvelope
	if err := json.Unmarshal(raw.Body, &env); err != nil || env.Data.Token == "" {
		resp.Message = "response carried no token: " + snippet(raw.Body)
		return resp, nil
	}
	resp.Token = env.Data.Token
	return resp, nil
}

// SearchTrips lists the trains running for a journey
func (c *RailClient) SearchTrips(ctx context.Context, token string, query booking.TripQuery) (*ports.TripSearchResponse, error) {
	params := url.Values{}
	params.Set("from_city", query.FromCity)
	params.Set("to_city", query.ToCity)
	params.Set("date_of_journey", query.DateOfJourney)
	params.Set("seat_class", query.SeatClass)

	raw, err := c.request(ctx, http.MethodGet, searchTripsPath, token, params, requestBody{})
	if err != nil {
		return nil, err
	}

	resp := &ports.TripSearchResponse{StatusCode: raw.StatusCode}
	if raw.StatusCode != http.StatusOK {
		resp.Message, _ = parseError(raw.Body)
		return resp, nil
	}
	var env tripSearchEnvelope
	if err := json.Unmarshal(raw.Body, &env); err != nil {
		resp.Message = "unexpected trip search response: " + snippet(raw.Body)
		return resp, nil
	}
	for _, t := range env.Data.Trains {
		offer := ports.TrainOffer{
			TrainModel: string(t.TrainModel),
			TripNumber: t.TripNumber,
		}
		if len(t.BoardingPoints) > 0 {
			offer.BoardingPointID = string(t.BoardingPoints[0].TripPointID)
		}
		for _, st := range t.SeatTypes {
			offer.SeatTypes = append(offer.SeatTypes, ports.SeatTypeOffer{
				Type:        st.Type,
				TripID:      string(st.TripID),
				TripRouteID: string(st.TripRouteID),
			})
		}
		resp.Trains = append(resp.Trains, offer)
	}
	return resp, nil
}

// SeatLayout fetches the current seat map of a trip
func (c *RailClient) SeatLayout(ctx context.Context, token, tripID, tripRouteID string) (*ports.SeatLayoutResponse, error) {
	body := tripBody{TripID: flexID(tripID), TripRouteID: flexID(tripRouteID)}

	raw, err := c.request(ctx, http.MethodGet, seatLayoutPath, token, nil, jsonBody(body))
	if err != nil {
		return nil, err
	}

	resp := &ports.SeatLayoutResponse{StatusCode: raw.StatusCode}
	if raw.StatusCode != http.StatusOK {
		resp.Message, resp.ErrorKey = parseError(raw.Body)
		return resp, nil
	}
	var env seatLayoutEnvelope
	if err := json.Unmarshal(raw.Body, &env); err != nil {
		resp.Message = "unexpected seat layout response: " + snippet(raw.Body)
		return resp, nil
	}
	if len(env.Data.SeatLayout) == 0 {
		resp.Message = "seat layout not present in response"
		return resp, nil
	}
	resp.HasLayout = true
	resp.SeatMap = convertLayout(env.Data.SeatLayout)
	return resp, nil
}

// ReserveSeat places a hold on one ticket
func (c *RailClient) ReserveSeat(ctx context.Context, token, ticketID, routeID string) (*ports.ReserveSeatResponse, error) {
	body := reserveBody{TicketID: flexID(ticketID), RouteID: flexID(routeID)}

	raw, err := c.request(ctx, http.MethodPatch, reserveSeatPath, token, nil, jsonBody(body))
	if err != nil {
		return nil, err
	}

	resp := &ports.ReserveSeatResponse{StatusCode: raw.StatusCode}
	if raw.StatusCode != http.StatusOK {
		resp.Message, _ = parseError(raw.Body)
		return resp, nil
	}
	var env reserveEnvelope
	if err := json.Unmarshal(raw.Body, &env); err != nil {
		resp.Message = "unexpected reserve response: " + snippet(raw.Body)
		return resp, nil
	}
	resp.Acknowledged = env.Data.Ack == 1
	if !resp.Acknowledged {
		resp.Message = snippet(raw.Body)
	}
	return resp, nil
}

// SendPassengerDetails submits the reserved tickets and triggers the OTP
func (c *RailClient) SendPassengerDetails(ctx context.Context, token string, trip booking.Trip, ticketIDs []string) (*ports.StepResponse, error) {
	body := passengerDetailsBody{
		TripID:      flexID(trip.TripID),
		TripRouteID: flexID(trip.TripRouteID),
		TicketIDs:   toFlexIDs(ticketIDs),
	}
	return c.step(ctx, passengerDetailsPath, token, body)
}

// VerifyOTP checks the OTP sent to the account holder
func (c *RailClient) VerifyOTP(ctx context.Context, token string, trip booking.Trip, ticketIDs []string, otp string) (*ports.StepResponse, error) {
	body := verifyOTPBody{
		passengerDetailsBody: passengerDetailsBody{
			TripID:      flexID(trip.TripID),
			TripRouteID: flexID(trip.TripRouteID),
			TicketIDs:   toFlexIDs(ticketIDs),
		},
		OTP: otp,
	}
	return c.step(ctx, verifyOTPPath, token, body)
}

func (c *RailClient) step(ctx context.Context, endpoint, token string, body any) (*ports.StepResponse, error) {
	raw, err := c.request(ctx, http.MethodPost, endpoint, token, nil, jsonBody(body))
	if err != nil {
		return nil, err
	}

	resp := &ports.StepResponse{StatusCode: raw.StatusCode}
	if raw.StatusCode != http.StatusOK {
		resp.Message, resp.ErrorKey = parseError(raw.Body)
		return resp, nil
	}
	var env successEnvelope
	if err := json.Unmarshal(raw.Body, &env); err != nil {
		resp.Message = "unexpected response: " + snippet(raw.Body)
		return resp, nil
	}
	resp.Success = env.Data.Success
	if !resp.Success {
		resp.Message = snippet(raw.Body)
	}
	return resp, nil
}

// ConfirmBooking finalises the booking and returns the single-use payment link
func (c *RailClient) ConfirmBooking(ctx context.Context, token string, req booking.ConfirmRequest) (*ports.ConfirmResponse, error) {
	raw, err := c.request(ctx, http.MethodPatch, confirmPath, token, nil, jsonBody(newConfirmBody(req)))
	if err != nil {
		return nil, err
	}

	resp := &ports.ConfirmResponse{StatusCode: raw.StatusCode}
	if raw.StatusCode != http.StatusOK {
		resp.Message, _ = parseError(raw.Body)
		return resp, nil
	}
	var env confirmEnvelope
	if err := json.Unmarshal(raw.Body, &env); err != nil || env.Data.RedirectURL == "" {
		resp.Message = "response carried no payment link: " + snippet(raw.Body)
		return resp, nil
	}
	resp.RedirectURL = env.Data.RedirectURL
	return resp, nil
}

func newConfirmBody(req booking.ConfirmRequest) confirmBody {
	body := confirmBody{
		IsBkashOnline:   req.Payment.IsBkashOnline(),
		BoardingPointID: flexID(req.Trip.BoardingPointID),
		FromCity:        req.Query.FromCity,
		ToCity:          req.Query.ToCity,
		DateOfJourney:   req.Query.DateOfJourney,
		SeatClass:       req.Query.SeatClass,
		PassengerType:   req.PassengerTypes,
		Gender:          req.Genders,
		PName:           req.PassengerNames,
		PMobile:         req.Mobile,
		PEmail:          req.Email,
		TripID:          flexID(req.Trip.TripID),
		TripRouteID:     flexID(req.Trip.TripRouteID),
		TicketIDs:       toFlexIDs(req.TicketIDs),
		ContactPerson:   req.ContactPerson,
		OTP:             req.OTP,
		PG:              req.Payment.Gateway(),
	}
	if code, ok := req.Payment.MobileTransaction(); ok {
		body.SelectedMobileTransaction = &code
	}
	return body
}
