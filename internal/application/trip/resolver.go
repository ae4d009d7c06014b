package trip

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/logging"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
)

// DefaultRetryDelay is the pause between two trip searches
const DefaultRetryDelay = time.Second

// Config bounds the search loop. Zero MaxAttempts and Deadline mean unbounded.
type Config struct {
	RetryDelay  time.Duration
	MaxAttempts int
	Deadline    time.Duration
}

// Resolver finds the trip of the configured train and seat class
type Resolver struct {
	api      ports.BookingAPI
	clock    shared.Clock
	cfg      Config
	reporter booking.Reporter
}

// NewResolver creates a resolver. A nil clock uses the real clock and a nil reporter discards progress.
func NewResolver(api ports.BookingAPI, clock shared.Clock, cfg Config, reporter booking.Reporter) *Resolver {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if reporter == nil {
		reporter = booking.NopReporter{}
	}
	return &Resolver{api: api, clock: clock, cfg: cfg, reporter: reporter}
}

// Resolve searches until the train appears with the requested class.
// Empty results, missing trains, transient failures and unexpected statuses are all retried.
func (r *Resolver) Resolve(ctx context.Context, token string, query booking.TripQuery) (booking.Trip, error) {
	if err := query.Validate(); err != nil {
		return booking.Trip{}, err
	}
	logger := logging.FromContext(ctx).With("component", "trip_resolver", "train", query.TrainNumber, "seat_class", query.SeatClass)

	budget := shared.AttemptBudget{Max: r.cfg.MaxAttempts}
	began := r.clock.Now()
	lastReason := ""
	var lastErr error

	for {
		if err := ctx.Err(); err != nil {
			return booking.Trip{}, err
		}
		if r.cfg.Deadline > 0 && r.clock.Now().Sub(began) >= r.cfg.Deadline {
			return booking.Trip{}, shared.NewRetryLimitError("search trips", budget.Attempts(), lastErr)
		}
		if !budget.Next() {
			return booking.Trip{}, shared.NewRetryLimitError("search trips", budget.Attempts(), lastErr)
		}

		resp, err := r.api.SearchTrips(ctx, token, query)
		if err != nil && ctx.Err() != nil {
			return booking.Trip{}, ctx.Err()
		}
		trip, reason := Match(resp, err, query)
		if reason == "" {
			logger.Info("trip resolved", "trip_id", trip.TripID, "trip_route_id", trip.TripRouteID, "attempts", budget.Attempts())
			return trip, nil
		}

		lastErr = errors.New(reason)
		if reason != lastReason {
			lastReason = reason
			r.reporter.Warn(reason + ", retrying")
			logger.Info("trip not found yet", "reason", reason)
		}
		if err := shared.SleepContext(ctx, r.clock, r.cfg.RetryDelay); err != nil {
			return booking.Trip{}, err
		}
	}
}

// Match picks the requested train and class out of one search response.
// A non-empty reason means the trip was not found in this response.
func Match(resp *ports.TripSearchResponse, err error, query booking.TripQuery) (booking.Trip, string) {
	if err != nil {
		return booking.Trip{}, "trip search failed: " + err.Error()
	}
	if resp == nil {
		return booking.Trip{}, "empty trip search response"
	}
	if shared.IsTransientStatus(resp.StatusCode) {
		return booking.Trip{}, fmt.Sprintf("server overloaded (HTTP %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return booking.Trip{}, fmt.Sprintf("trip search returned HTTP %d: %s", resp.StatusCode, resp.Message)
	}
	if len(resp.Trains) == 0 {
		return booking.Trip{}, "no trains listed for this journey"
	}

	for _, train := range resp.Trains {
		if strings.TrimSpace(train.TrainModel) != strings.TrimSpace(query.TrainNumber) {
			continue
		}
		for _, st := range train.SeatTypes {
			if !strings.EqualFold(st.Type, query.SeatClass) {
				continue
			}
			trip := booking.Trip{
				TripID:          st.TripID,
				TripRouteID:     st.TripRouteID,
				BoardingPointID: train.BoardingPointID,
				TrainName:       train.TripNumber,
			}
			if !trip.IsComplete() {
				return booking.Trip{}, fmt.Sprintf("train %s is listed without trip identifiers", query.TrainNumber)
			}
			return trip, ""
		}
		return booking.Trip{}, fmt.Sprintf("train %s has no %s seats listed", query.TrainNumber, query.SeatClass)
	}
	return booking.Trip{}, fmt.Sprintf("train %s not listed", query.TrainNumber)
}
