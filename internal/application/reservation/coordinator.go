package reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/metrics"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/logging"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
)

// DefaultRetryDelay is the pause between two attempts of one worker
const DefaultRetryDelay = 100 * time.Millisecond

// ErrNoSeatsReserved is returned when a batch ends without a single reserved ticket
var ErrNoSeatsReserved = errors.New("no seats reserved")

var (
	limitPattern       = regexp.MustCompile(`(?i)maximum\s+\d+\s+seats?\s+can\s+be\s+booked`)
	unavailableMessage = "ticket is not available"
)

// Verdict is the coordinator's reading of one reserve-seat response
type Verdict int

const (
	Retry Verdict = iota
	Accepted
	SeatRejected
	LimitReached
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case SeatRejected:
		return "seat_rejected"
	case LimitReached:
		return "limit_reached"
	default:
		return "retry"
	}
}

// Config bounds each worker's retry loop. Zero MaxAttempts and Deadline mean unbounded.
type Config struct {
	RetryDelay  time.Duration
	MaxAttempts int
	Deadline    time.Duration
}

// Coordinator reserves every ticket of a selection concurrently, one worker per ticket
type Coordinator struct {
	api      ports.BookingAPI
	clock    shared.Clock
	cfg      Config
	reporter booking.Reporter
}

// NewCoordinator creates a coordinator. A nil clock uses the real clock and a nil reporter discards progress.
func NewCoordinator(api ports.BookingAPI, clock shared.Clock, cfg Config, reporter booking.Reporter) *Coordinator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if reporter == nil {
		reporter = booking.NopReporter{}
	}
	return &Coordinator{api: api, clock: clock, cfg: cfg, reporter: reporter}
}

// Reserve races one worker per selected ticket under a fresh StopSignal
func (c *Coordinator) Reserve(ctx context.Context, session booking.Session, selection seating.SelectionResult) (booking.ReservationReport, error) {
	return c.ReserveWith(ctx, session, selection, NewStopSignal())
}

// ReserveWith is Reserve with a caller-owned StopSignal.
// The report lists outcomes in selection order. ErrNoSeatsReserved is returned when
// nothing was reserved; a partial batch is not an error.
func (c *Coordinator) ReserveWith(ctx context.Context, session booking.Session, selection seating.SelectionResult, stop *StopSignal) (booking.ReservationReport, error) {
	seats := selection.Seats()
	outcomes := make([]booking.ReservationOutcome, len(seats))
	logger := logging.FromContext(ctx).With("component", "reservation_coordinator", "tickets", len(seats))
	began := c.clock.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i, seat := range seats {
		g.Go(func() error {
			outcome, err := c.work(gctx, session, seat, stop, began)
			outcomes[i] = outcome
			metrics.RecordReservation(outcome.Status.String())
			return err
		})
	}
	err := g.Wait()

	report := booking.ReservationReport{
		Outcomes:    outcomes,
		LimitHit:    stop.Stopped(),
		LimitReason: stop.Reason(),
	}
	logger.Info("reservation batch finished",
		"reserved", report.Count(booking.Reserved),
		"rejected", report.Count(booking.Rejected),
		"skipped", report.Count(booking.Skipped),
		"limit_hit", report.LimitHit)

	if err != nil {
		return report, err
	}
	if report.Count(booking.Reserved) == 0 {
		if report.LimitHit {
			return report, fmt.Errorf("%w: %s", ErrNoSeatsReserved, report.LimitReason)
		}
		return report, ErrNoSeatsReserved
	}
	return report, nil
}

// work runs one ticket's retry loop. It only returns an error on context cancellation.
func (c *Coordinator) work(ctx context.Context, session booking.Session, seat seating.SelectedSeat, stop *StopSignal, began time.Time) (booking.ReservationOutcome, error) {
	outcome := booking.ReservationOutcome{TicketID: seat.TicketID, SeatNumber: seat.SeatNumber, Status: booking.Skipped}
	logger := logging.FromContext(ctx).With("ticket_id", seat.TicketID, "seat", seat.SeatNumber)
	budget := shared.AttemptBudget{Max: c.cfg.MaxAttempts}
	routeID := session.Trip().TripRouteID
	var lastErr error

	for {
		// the latch is checked before every attempt, including the first
		if stop.Stopped() {
			outcome.Reason = "stopped: " + stop.Reason()
			return outcome, nil
		}
		if err := ctx.Err(); err != nil {
			outcome.Reason = "cancelled"
			return outcome, err
		}
		if c.cfg.Deadline > 0 && c.clock.Now().Sub(began) >= c.cfg.Deadline {
			return c.giveUp(outcome, budget.Attempts(), lastErr), nil
		}
		if !budget.Next() {
			return c.giveUp(outcome, budget.Attempts(), lastErr), nil
		}
		outcome.Attempts = budget.Attempts()

		resp, err := c.api.ReserveSeat(ctx, session.Token(), seat.TicketID, routeID)
		verdict, reason := Classify(resp, err)

		switch verdict {
		case Accepted:
			outcome.Status = booking.Reserved
			c.reporter.Success(fmt.Sprintf("Seat %s reserved", seat.SeatNumber))
			logger.Info("seat reserved", "attempts", outcome.Attempts)
			return outcome, nil
		case SeatRejected:
			outcome.Status = booking.Rejected
			outcome.Reason = reason
			c.reporter.Warn(fmt.Sprintf("Seat %s could not be reserved: %s", seat.SeatNumber, reason))
			logger.Warn("seat rejected", "reason", reason)
			return outcome, nil
		case LimitReached:
			outcome.Status = booking.Rejected
			outcome.Reason = reason
			if stop.Trigger(reason) {
				c.reporter.Failure("Reservation limit reached: " + reason)
			}
			logger.Warn("reservation limit reached", "reason", reason)
			return outcome, nil
		}

		lastErr = errors.New(reason)
		logger.Debug("reserve attempt failed, retrying", "reason", reason, "attempt", outcome.Attempts)
		if err := shared.SleepContext(ctx, c.clock, c.cfg.RetryDelay); err != nil {
			outcome.Reason = "cancelled"
			return outcome, err
		}
	}
}

func (c *Coordinator) giveUp(outcome booking.ReservationOutcome, attempts int, lastErr error) booking.ReservationOutcome {
	outcome.Status = booking.Rejected
	outcome.Reason = shared.NewRetryLimitError("reserve seat "+outcome.SeatNumber, attempts, lastErr).Error()
	c.reporter.Warn(fmt.Sprintf("Gave up on seat %s", outcome.SeatNumber))
	return outcome
}

// Classify maps one reserve-seat response onto a worker verdict and a reason
func Classify(resp *ports.ReserveSeatResponse, err error) (Verdict, string) {
	if err != nil {
		return Retry, err.Error()
	}
	if resp == nil {
		return Retry, "empty reserve response"
	}
	if shared.IsTransientStatus(resp.StatusCode) {
		return Retry, fmt.Sprintf("server overloaded (HTTP %d)", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if resp.Acknowledged {
			return Accepted, ""
		}
		return SeatRejected, orDefault(resp.Message, "reservation not acknowledged")
	case http.StatusUnprocessableEntity:
		if limitPattern.MatchString(resp.Message) {
			return LimitReached, resp.Message
		}
		if strings.Contains(strings.ToLower(resp.Message), unavailableMessage) {
			return SeatRejected, resp.Message
		}
	}
	return Retry, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, orDefault(resp.Message, "unexpected response"))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
