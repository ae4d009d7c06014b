package trip_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/trip"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports/portstest"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var query = booking.TripQuery{
	FromCity:      "Dhaka",
	ToCity:        "Rajshahi",
	DateOfJourney: "12-Apr-2026",
	SeatClass:     "S_CHAIR",
	TrainNumber:   "753",
}

func silkCity() ports.TrainOffer {
	return ports.TrainOffer{
		TrainModel:      "753",
		TripNumber:      "SILKCITY EXPRESS (753)",
		BoardingPointID: "9001",
		SeatTypes: []ports.SeatTypeOffer{
			{Type: "SNIGDHA", TripID: "11", TripRouteID: "12"},
			{Type: "S_CHAIR", TripID: "21", TripRouteID: "22"},
		},
	}
}

func listing(trains ...ports.TrainOffer) *ports.TripSearchResponse {
	return &ports.TripSearchResponse{StatusCode: http.StatusOK, Trains: trains}
}

func TestResolve_FindsTrainAndClass(t *testing.T) {
	// Arrange
	api := &portstest.FakeBookingAPI{
		SearchTripsFunc: func(context.Context, string, booking.TripQuery) (*ports.TripSearchResponse, error) {
			return listing(ports.TrainOffer{TrainModel: "769"}, silkCity()), nil
		},
	}
	resolver := trip.NewResolver(api, shared.NewMockClock(time.Time{}), trip.Config{}, nil)

	// Act
	got, err := resolver.Resolve(context.Background(), "token", query)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, booking.Trip{TripID: "21", TripRouteID: "22", BoardingPointID: "9001", TrainName: "SILKCITY EXPRESS (753)"}, got)
}

func TestResolve_RetriesUntilTrainIsListed(t *testing.T) {
	// Arrange
	responses := []*ports.TripSearchResponse{
		{StatusCode: http.StatusServiceUnavailable},
		listing(),
		listing(ports.TrainOffer{TrainModel: "769"}),
		listing(silkCity()),
	}
	calls := 0
	api := &portstest.FakeBookingAPI{
		SearchTripsFunc: func(context.Context, string, booking.TripQuery) (*ports.TripSearchResponse, error) {
			resp := responses[calls]
			calls++
			return resp, nil
		},
	}
	clock := shared.NewMockClock(time.Time{})
	reporter := &portstest.RecordingReporter{}
	resolver := trip.NewResolver(api, clock, trip.Config{}, reporter)

	// Act
	got, err := resolver.Resolve(context.Background(), "token", query)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "21", got.TripID)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, clock.Sleeps())
	assert.Len(t, reporter.Snapshot(), 3)
}

func TestResolve_NetworkErrorIsRetried(t *testing.T) {
	// Arrange
	calls := 0
	api := &portstest.FakeBookingAPI{
		SearchTripsFunc: func(context.Context, string, booking.TripQuery) (*ports.TripSearchResponse, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection refused")
			}
			return listing(silkCity()), nil
		},
	}
	resolver := trip.NewResolver(api, shared.NewMockClock(time.Time{}), trip.Config{}, nil)

	// Act
	_, err := resolver.Resolve(context.Background(), "token", query)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestResolve_MaxAttemptsGivesUp(t *testing.T) {
	// Arrange
	api := &portstest.FakeBookingAPI{
		SearchTripsFunc: func(context.Context, string, booking.TripQuery) (*ports.TripSearchResponse, error) {
			return listing(), nil
		},
	}
	resolver := trip.NewResolver(api, shared.NewMockClock(time.Time{}), trip.Config{MaxAttempts: 2}, nil)

	// Act
	_, err := resolver.Resolve(context.Background(), "token", query)

	// Assert
	var limitErr *shared.RetryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 2, limitErr.Attempts)
}

func TestResolve_RejectsIncompleteQuery(t *testing.T) {
	api := &portstest.FakeBookingAPI{}
	resolver := trip.NewResolver(api, nil, trip.Config{}, nil)

	_, err := resolver.Resolve(context.Background(), "token", booking.TripQuery{FromCity: "Dhaka"})

	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, api.CallCount("SearchTrips"))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		resp   *ports.TripSearchResponse
		err    error
		found  bool
		reason string
	}{
		{name: "match", resp: listing(silkCity()), found: true},
		{
			name: "class matched case-insensitively",
			resp: listing(ports.TrainOffer{
				TrainModel:      "753",
				BoardingPointID: "9001",
				SeatTypes:       []ports.SeatTypeOffer{{Type: "s_chair", TripID: "1", TripRouteID: "2"}},
			}),
			found: true,
		},
		{name: "network error", err: errors.New("timeout"), reason: "trip search failed"},
		{name: "overloaded", resp: &ports.TripSearchResponse{StatusCode: 502}, reason: "server overloaded"},
		{name: "unauthorized", resp: &ports.TripSearchResponse{StatusCode: 401, Message: "Unauthenticated"}, reason: "HTTP 401"},
		{name: "empty list", resp: listing(), reason: "no trains listed"},
		{name: "other train", resp: listing(ports.TrainOffer{TrainModel: "769"}), reason: "not listed"},
		{
			name:   "class missing",
			resp:   listing(ports.TrainOffer{TrainModel: "753", SeatTypes: []ports.SeatTypeOffer{{Type: "AC_B"}}}),
			reason: "has no S_CHAIR seats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := trip.Match(tt.resp, tt.err, query)

			if tt.found {
				assert.Empty(t, reason)
				assert.True(t, got.IsComplete())
				return
			}
			assert.Contains(t, reason, tt.reason)
		})
	}
}
