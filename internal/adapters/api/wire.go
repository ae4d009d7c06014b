package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexID is an identifier the service sends as either a JSON number or string.
// Numeric ids are sent back as numbers.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

func (id flexID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func toFlexIDs(ids []string) []flexID {
	out := make([]flexID, len(ids))
	for i, id := range ids {
		out[i] = flexID(id)
	}
	return out
}

// errorEnvelope is the service's error body. The detail arrives under
// "messages" (a list, a string, or an object) or under "message".
type errorEnvelope struct {
	Error struct {
		Messages json.RawMessage `json:"messages"`
		Message  json.RawMessage `json:"message"`
	} `json:"error"`
}

type errorDetail struct {
	Message  string `json:"message"`
	ErrorMsg string `json:"error_msg"`
	ErrorKey string `json:"errorKey"`
}

// parseError extracts the human-readable message and machine error key of an error body
func parseError(body []byte) (message, key string) {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return snippet(body), ""
	}
	for _, raw := range []json.RawMessage{env.Error.Messages, env.Error.Message} {
		if msg, k, ok := parseErrorDetail(raw); ok {
			return msg, k
		}
	}
	return snippet(body), ""
}

func parseErrorDetail(raw json.RawMessage) (message, key string, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", "", false
	}
	switch raw[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return strings.TrimSpace(list[0]), "", true
		}
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s), "", true
		}
	case '{':
		var d errorDetail
		if err := json.Unmarshal(raw, &d); err == nil {
			msg := d.Message
			if msg == "" {
				msg = d.ErrorMsg
			}
			return strings.TrimSpace(msg), d.ErrorKey, msg != "" || d.ErrorKey != ""
		}
	}
	return "", "", false
}

// seat layout wire types

type seatLayoutEnvelope struct {
	Data struct {
		SeatLayout []wireCoach `json:"seatLayout"`
	} `json:"data"`
}

type wireCoach struct {
	FloorName string       `json:"floor_name"`
	Layout    [][]wireSeat `json:"layout"`
}

type wireSeat struct {
	SeatNumber       string `json:"seat_number"`
	TicketID         flexID `json:"ticket_id"`
	SeatAvailability int    `json:"seat_availability"`
}

// seat availability value the service uses for a free seat
const seatAvailable = 1

// trip search wire types

type tripSearchEnvelope struct {
	Data struct {
		Trains []wireTrain `json:"trains"`
	} `json:"data"`
}

type wireTrain struct {
	TrainModel     flexID         `json:"train_model"`
	TripNumber     string         `json:"trip_number"`
	SeatTypes      []wireSeatType `json:"seat_types"`
	BoardingPoints []struct {
		TripPointID flexID `json:"trip_point_id"`
	} `json:"boarding_points"`
}

type wireSeatType struct {
	Type        string `json:"type"`
	TripID      flexID `json:"trip_id"`
	TripRouteID flexID `json:"trip_route_id"`
}

// simple step envelopes

type signInEnvelope struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type reserveEnvelope struct {
	Data struct {
		Ack int `json:"ack"`
	} `json:"data"`
}

type successEnvelope struct {
	Data struct {
		Success bool `json:"success"`
	} `json:"data"`
}

type confirmEnvelope struct {
	Data struct {
		RedirectURL string `json:"redirectUrl"`
	} `json:"data"`
}

// request bodies

type tripBody struct {
	TripID      flexID `json:"trip_id"`
	TripRouteID flexID `json:"trip_route_id"`
}

type reserveBody struct {
	TicketID flexID `json:"ticket_id"`
	RouteID  flexID `json:"route_id"`
}

type passengerDetailsBody struct {
	TripID      flexID   `json:"trip_id"`
	TripRouteID flexID   `json:"trip_route_id"`
	TicketIDs   []flexID `json:"ticket_ids"`
}

type verifyOTPBody struct {
	passengerDetailsBody
	OTP string `json:"otp"`
}

type confirmBody struct {
	IsBkashOnline             bool     `json:"is_bkash_online"`
	BoardingPointID           flexID   `json:"boarding_point_id"`
	FromCity                  string   `json:"from_city"`
	ToCity                    string   `json:"to_city"`
	DateOfJourney             string   `json:"date_of_journey"`
	SeatClass                 string   `json:"seat_class"`
	PassengerType             []string `json:"passengerType"`
	Gender                    []string `json:"gender"`
	PName                     []string `json:"pname"`
	PMobile                   string   `json:"pmobile"`
	PEmail                    string   `json:"pemail"`
	TripID                    flexID   `json:"trip_id"`
	TripRouteID               flexID   `json:"trip_route_id"`
	TicketIDs                 []flexID `json:"ticket_ids"`
	ContactPerson             int      `json:"contactperson"`
	OTP                       string   `json:"otp"`
	SelectedMobileTransaction *int     `json:"selected_mobile_transaction,omitempty"`
	PG                        string   `json:"pg,omitempty"`
}
