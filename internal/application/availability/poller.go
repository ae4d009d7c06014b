package availability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/metrics"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/logging"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
)

// DefaultMinInterval is the minimum gap between the starts of two seat-layout requests
const DefaultMinInterval = time.Millisecond

// errorKeyOrderLimit marks the terminal per-account order limit
const errorKeyOrderLimit = "OrderLimitExceeded"

// ErrOrderLimitExceeded is the terminal poll result: the account may not buy more tickets for this journey
var ErrOrderLimitExceeded = errors.New("order limit exceeded")

// State is the poller's classification of one response
type State int

const (
	Querying State = iota
	Waiting
	Available
	Fatal
)

func (s State) String() string {
	switch s {
	case Querying:
		return "querying"
	case Waiting:
		return "waiting"
	case Available:
		return "available"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Config bounds the polling loop. Zero MaxAttempts and Deadline mean unbounded.
type Config struct {
	MinInterval time.Duration
	MaxAttempts int
	Deadline    time.Duration
}

// Result is the classification of one seat-layout response
type Result struct {
	// Next is Querying for a transient failure that is retried immediately
	Next    State
	SeatMap seating.SeatMap
	Notice  booking.WaitNotice
	Err     error
}

// Poller queries the seat layout until it opens or a terminal condition is reached
type Poller struct {
	api      ports.BookingAPI
	clock    shared.Clock
	cfg      Config
	reporter booking.Reporter
}

// NewPoller creates a poller. A nil clock uses the real clock and a nil reporter discards progress.
func NewPoller(api ports.BookingAPI, clock shared.Clock, cfg Config, reporter booking.Reporter) *Poller {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if reporter == nil {
		reporter = booking.NopReporter{}
	}
	return &Poller{api: api, clock: clock, cfg: cfg, reporter: reporter}
}

// Poll blocks until a seat map is available. It returns ErrOrderLimitExceeded (wrapped)
// on the terminal condition, a *shared.RetryLimitError when a configured bound is hit,
// or the context error on cancellation.
func (p *Poller) Poll(ctx context.Context, session booking.Session) (seating.SeatMap, error) {
	trip := session.Trip()
	logger := logging.FromContext(ctx).With("component", "availability_poller", "trip_id", trip.TripID, "trip_route_id", trip.TripRouteID)

	budget := shared.AttemptBudget{Max: p.cfg.MaxAttempts}
	began := p.clock.Now()
	lastMessage := ""
	var lastErr error

	for {
		if err := ctx.Err(); err != nil {
			return seating.SeatMap{}, err
		}
		if p.cfg.Deadline > 0 && p.clock.Now().Sub(began) >= p.cfg.Deadline {
			return seating.SeatMap{}, shared.NewRetryLimitError("poll seat layout", budget.Attempts(), deadlineErr(p.cfg.Deadline, lastErr))
		}
		if !budget.Next() {
			return seating.SeatMap{}, shared.NewRetryLimitError("poll seat layout", budget.Attempts(), lastErr)
		}

		start := p.clock.Now()
		resp, err := p.api.SeatLayout(ctx, session.Token(), trip.TripID, trip.TripRouteID)
		if err != nil && ctx.Err() != nil {
			return seating.SeatMap{}, ctx.Err()
		}
		result := Classify(resp, err, start)
		metrics.RecordPollAttempt(outcomeLabel(result.Next))

		switch result.Next {
		case Available:
			logger.Info("seat layout available", "attempts", budget.Attempts(), "seats", result.SeatMap.AvailableCount())
			return result.SeatMap, nil
		case Fatal:
			logger.Error("polling stopped", "error", result.Err)
			return seating.SeatMap{}, result.Err
		case Waiting:
			lastErr = errors.New(result.Notice.Message)
			if result.Notice.Message != lastMessage {
				lastMessage = result.Notice.Message
				p.reportWait(result.Notice)
				logger.Info("booking not open yet", "message", result.Notice.Message)
			}
		case Querying:
			lastErr = result.Err
			logger.Debug("transient seat layout failure", "error", result.Err)
		}

		// floor is measured start to start so it never accumulates drift
		if elapsed := p.clock.Now().Sub(start); elapsed < p.cfg.MinInterval {
			if err := shared.SleepContext(ctx, p.clock, p.cfg.MinInterval-elapsed); err != nil {
				return seating.SeatMap{}, err
			}
		}
	}
}

func (p *Poller) reportWait(notice booking.WaitNotice) {
	if notice.HasResumeTime() {
		p.reporter.Warn(fmt.Sprintf("%s (try again after %s)", notice.Message, notice.ResumeAt.Format("03:04:05 PM")))
		return
	}
	p.reporter.Warn("Booking is not open yet: " + notice.Message)
}

// Classify maps one seat-layout response onto the poller state machine.
// now anchors the advisory resume time parsed from a countdown message.
func Classify(resp *ports.SeatLayoutResponse, err error, now time.Time) Result {
	if err != nil {
		return Result{Next: Querying, Err: err}
	}
	if resp == nil {
		return Result{Next: Waiting, Notice: booking.WaitNotice{Message: "empty seat layout response"}}
	}
	if shared.IsTransientStatus(resp.StatusCode) {
		return Result{Next: Querying, Err: fmt.Errorf("server overloaded (HTTP %d)", resp.StatusCode)}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if resp.HasLayout && !resp.SeatMap.IsEmpty() {
			return Result{Next: Available, SeatMap: resp.SeatMap}
		}
	case http.StatusUnprocessableEntity:
		if resp.ErrorKey == errorKeyOrderLimit {
			return Result{Next: Fatal, Err: fmt.Errorf("%w: %s", ErrOrderLimitExceeded, resp.Message)}
		}
		notice := booking.WaitNotice{Message: resp.Message}
		if notice.Message == "" {
			notice.Message = "booking not open yet"
		}
		if wait, ok := ParseCountdown(resp.Message); ok {
			notice.ResumeAt = now.Add(wait)
		}
		return Result{Next: Waiting, Notice: notice}
	}

	reason := resp.Message
	if reason == "" {
		reason = "unexpected response"
	}
	return Result{Next: Waiting, Notice: booking.WaitNotice{Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, reason)}}
}

var countdownPattern = regexp.MustCompile(`(?i)(\d+)\s*minutes?\s*(\d+)\s*seconds?`)

// ParseCountdown extracts a "N minutes M seconds" wait from a server message
func ParseCountdown(message string) (time.Duration, bool) {
	m := countdownPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, true
}

func outcomeLabel(s State) string {
	if s == Querying {
		return "transient"
	}
	return s.String()
}

func deadlineErr(d time.Duration, last error) error {
	if last == nil {
		return fmt.Errorf("deadline of %s reached", d)
	}
	return fmt.Errorf("deadline of %s reached: %w", d, last)
}
