package availability_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/availability"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports/portstest"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func testSession() booking.Session {
	query := booking.TripQuery{FromCity: "Dhaka", ToCity: "Chattogram", DateOfJourney: "10-Mar-2026", SeatClass: "S_CHAIR"}
	return booking.NewSession("run-1", "token", booking.UserClaims{}, query).
		WithTrip(booking.Trip{TripID: "101", TripRouteID: "202", BoardingPointID: "303"})
}

func openMap() seating.SeatMap {
	return seating.NewSeatMap(seating.Coach{
		Name: "KA",
		Rows: [][]seating.Seat{{{Number: "KA-1", TicketID: "1", Available: true}}},
	})
}

func notOpen(msg string) *ports.SeatLayoutResponse {
	return &ports.SeatLayoutResponse{StatusCode: http.StatusUnprocessableEntity, Message: msg}
}

func layoutReady() *ports.SeatLayoutResponse {
	return &ports.SeatLayoutResponse{StatusCode: http.StatusOK, HasLayout: true, SeatMap: openMap()}
}

// scripted returns a SeatLayoutFunc that plays responses in order and repeats the last one.
// Each call records the clock time it started at and optionally advances the clock.
type scripted struct {
	mu        sync.Mutex
	clock     *shared.MockClock
	latency   time.Duration
	responses []*ports.SeatLayoutResponse
	errs      []error
	starts    []time.Time
}

func (s *scripted) seatLayout(ctx context.Context, token, tripID, tripRouteID string) (*ports.SeatLayoutResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.starts)
	s.starts = append(s.starts, s.clock.Now())
	if s.latency > 0 {
		s.clock.Advance(s.latency)
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	if err != nil {
		return nil, err
	}
	return s.responses[i], nil
}

func TestPoll_ReturnsSeatMapOnceOpen(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	script := &scripted{clock: clock, responses: []*ports.SeatLayoutResponse{
		notOpen("Please try again after 2 minutes 5 seconds"),
		notOpen("Please try again after 2 minutes 4 seconds"),
		layoutReady(),
	}}
	api := &portstest.FakeBookingAPI{SeatLayoutFunc: script.seatLayout}
	poller := availability.NewPoller(api, clock, availability.Config{MinInterval: time.Second}, nil)

	// Act
	seatMap, err := poller.Poll(context.Background(), testSession())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, seatMap.AvailableCount())
	assert.Equal(t, 3, api.CallCount("SeatLayout"))
}

func TestPoll_RequestStartsRespectMinimumInterval(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	responses := make([]*ports.SeatLayoutResponse, 0, 6)
	for i := 0; i < 5; i++ {
		responses = append(responses, notOpen("not yet"))
	}
	responses = append(responses, layoutReady())
	script := &scripted{clock: clock, latency: 300 * time.Millisecond, responses: responses}
	api := &portstest.FakeBookingAPI{SeatLayoutFunc: script.seatLayout}
	poller := availability.NewPoller(api, clock, availability.Config{MinInterval: time.Second}, nil)

	// Act
	_, err := poller.Poll(context.Background(), testSession())

	// Assert
	require.NoError(t, err)
	require.Len(t, script.starts, 6)
	for i := 1; i < len(script.starts); i++ {
		assert.GreaterOrEqual(t, script.starts[i].Sub(script.starts[i-1]), time.Second, "request %d started too early", i)
	}
	for _, d := range clock.Sleeps() {
		assert.Equal(t, 700*time.Millisecond, d)
	}
}

func TestPoll_NoSleepWhenServerIsSlowerThanFloor(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	script := &scripted{clock: clock, latency: 2 * time.Second, responses: []*ports.SeatLayoutResponse{
		notOpen("not yet"), notOpen("not yet"), layoutReady(),
	}}
	api := &portstest.FakeBookingAPI{SeatLayoutFunc: script.seatLayout}
	poller := availability.NewPoller(api, clock, availability.Config{MinInterval: time.Second}, nil)

	// Act
	_, err := poller.Poll(context.Background(), testSession())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, clock.Sleeps())
}

func TestPoll_TransientFailuresAreRetried(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	script := &scripted{
		clock: clock,
		errs:  []error{errors.New("connection reset")},
		responses: []*ports.SeatLayoutResponse{
			nil,
			{StatusCode: http.StatusBadGateway},
			{StatusCode: http.StatusServiceUnavailable},
			layoutReady(),
		},
	}
	api := &portstest.FakeBookingAPI{SeatLayoutFunc: script.seatLayout}
	poller := availability.NewPoller(api, clock, availability.Config{}, nil)

	// Act
	seatMap, err := poller.Poll(context.Background(), testSession())

	// Assert
	require.NoError(t, err)
	assert.False(t, seatMap.IsEmpty())
	assert.Equal(t, 4, api.CallCount("SeatLayout"))
}

func TestPoll_OrderLimitIsFatal(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	api := &portstest.FakeBookingAPI{
		SeatLayoutFunc: func(context.Context, string, string, string) (*ports.SeatLayoutResponse, error) {
			return &ports.SeatLayoutResponse{
				StatusCode: http.StatusUnprocessableEntity,
				Message:    "You have reached the maximum ticket purchase limit",
				ErrorKey:   "OrderLimitExceeded",
			}, nil
		},
	}
	poller := availability.NewPoller(api, clock, availability.Config{}, nil)

	// Act
	_, err := poller.Poll(context.Background(), testSession())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, availability.ErrOrderLimitExceeded)
	assert.Equal(t, 1, api.CallCount("SeatLayout"))
}

func TestPoll_MaxAttemptsGivesUp(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	script := &scripted{clock: clock, responses: []*ports.SeatLayoutResponse{notOpen("not yet")}}
	api := &portstest.FakeBookingAPI{SeatLayoutFunc: script.seatLayout}
	poller := availability.NewPoller(api, clock, availability.Config{MaxAttempts: 4}, nil)

	// Act
	_, err := poller.Poll(context.Background(), testSession())

	// Assert
	var limitErr *shared.RetryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 4, limitErr.Attempts)
	assert.Equal(t, 4, api.CallCount("SeatLayout"))
}

func TestPoll_DeadlineGivesUp(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	script := &scripted{clock: clock, responses: []*ports.SeatLayoutResponse{notOpen("not yet")}}
	api := &portstest.FakeBookingAPI{SeatLayoutFunc: script.seatLayout}
	cfg := availability.Config{MinInterval: time.Second, Deadline: 5 * time.Second}
	poller := availability.NewPoller(api, clock, cfg, nil)

	// Act
	_, err := poller.Poll(context.Background(), testSession())

	// Assert
	var limitErr *shared.RetryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 5, api.CallCount("SeatLayout"))
	assert.Contains(t, err.Error(), "deadline")
}

func TestPoll_StopsOnContextCancel(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	api := &portstest.FakeBookingAPI{
		SeatLayoutFunc: func(context.Context, string, string, string) (*ports.SeatLayoutResponse, error) {
			calls++
			if calls == 3 {
				cancel()
			}
			return notOpen("not yet"), nil
		},
	}
	poller := availability.NewPoller(api, clock, availability.Config{}, nil)

	// Act
	_, err := poller.Poll(ctx, testSession())

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestPoll_ReportsWaitOnlyWhenMessageChanges(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(epoch)
	script := &scripted{clock: clock, responses: []*ports.SeatLayoutResponse{
		notOpen("Booking opens at 8 AM"),
		notOpen("Booking opens at 8 AM"),
		notOpen("Booking opens at 8 AM"),
		notOpen("Please try again after 1 minute 30 seconds"),
		layoutReady(),
	}}
	api := &portstest.FakeBookingAPI{SeatLayoutFunc: script.seatLayout}
	reporter := &portstest.RecordingReporter{}
	poller := availability.NewPoller(api, clock, availability.Config{}, reporter)

	// Act
	_, err := poller.Poll(context.Background(), testSession())

	// Assert
	require.NoError(t, err)
	lines := reporter.Snapshot()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Booking opens at 8 AM")
	assert.Contains(t, lines[1], "try again after")
}

func TestClassify(t *testing.T) {
	now := epoch
	tests := []struct {
		name     string
		resp     *ports.SeatLayoutResponse
		err      error
		want     availability.State
		resumeAt time.Time
	}{
		{name: "network error", err: errors.New("dial tcp: timeout"), want: availability.Querying},
		{name: "internal server error", resp: &ports.SeatLayoutResponse{StatusCode: 500}, want: availability.Querying},
		{name: "gateway timeout", resp: &ports.SeatLayoutResponse{StatusCode: 504}, want: availability.Querying},
		{name: "layout present", resp: layoutReady(), want: availability.Available},
		{name: "ok without layout", resp: &ports.SeatLayoutResponse{StatusCode: 200}, want: availability.Waiting},
		{name: "ok with empty map", resp: &ports.SeatLayoutResponse{StatusCode: 200, HasLayout: true}, want: availability.Waiting},
		{
			name:     "countdown",
			resp:     notOpen("Please try again after 3 minutes 15 seconds"),
			want:     availability.Waiting,
			resumeAt: now.Add(3*time.Minute + 15*time.Second),
		},
		{name: "not open without countdown", resp: notOpen("Booking is not open"), want: availability.Waiting},
		{
			name: "order limit",
			resp: &ports.SeatLayoutResponse{StatusCode: 422, ErrorKey: "OrderLimitExceeded", Message: "limit"},
			want: availability.Fatal,
		},
		{name: "unauthorized", resp: &ports.SeatLayoutResponse{StatusCode: 401, Message: "Unauthenticated"}, want: availability.Waiting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := availability.Classify(tt.resp, tt.err, now)

			assert.Equal(t, tt.want, result.Next)
			assert.Equal(t, tt.resumeAt, result.Notice.ResumeAt)
			if tt.want == availability.Fatal {
				assert.ErrorIs(t, result.Err, availability.ErrOrderLimitExceeded)
			}
		})
	}
}

func TestClassify_UnexpectedStatusCarriesCode(t *testing.T) {
	result := availability.Classify(&ports.SeatLayoutResponse{StatusCode: 401, Message: "Unauthenticated"}, nil, epoch)

	assert.Equal(t, "HTTP 401: Unauthenticated", result.Notice.Message)
}

func TestParseCountdown(t *testing.T) {
	tests := []struct {
		message string
		want    time.Duration
		ok      bool
	}{
		{"Please try again after 2 minutes 5 seconds", 2*time.Minute + 5*time.Second, true},
		{"try after 1 minute 1 second", time.Minute + time.Second, true},
		{"0 MINUTES 45 SECONDS remaining", 45 * time.Second, true},
		{"Booking opens at 8 AM", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := availability.ParseCountdown(tt.message)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
