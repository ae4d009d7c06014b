package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/metrics"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/availability"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/logging"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/mediator"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/reservation"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/trip"
	domain "github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/ports"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/seating"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
)

// DefaultStepRetryDelay is the pause before retrying a transient sign-in, passenger-details,
// OTP or confirm failure
const DefaultStepRetryDelay = time.Second

// errorKeyOTPMismatch marks a wrong OTP that may be re-entered
const errorKeyOTPMismatch = "OtpNotVerified"

// Config bounds the pipeline's own retry loops. Zero MaxAttempts means unbounded.
type Config struct {
	StepRetryDelay time.Duration
	MaxAttempts    int
}

// Dependencies are the collaborators of a pipeline
type Dependencies struct {
	API         ports.BookingAPI
	Claims      ports.TokenDecoder
	Resolver    *trip.Resolver
	Poller      *availability.Poller
	Coordinator *reservation.Coordinator
	Prompter    domain.Prompter
	Reporter    domain.Reporter
	Clock       shared.Clock
}

// Pipeline runs the booking stages in order and halts on the first failure.
// It handles RunBookingCommand.
type Pipeline struct {
	deps Dependencies
	cfg  Config
}

// NewPipeline creates a pipeline. A nil clock uses the real clock and a nil reporter discards progress.
func NewPipeline(deps Dependencies, cfg Config) *Pipeline {
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	if deps.Reporter == nil {
		deps.Reporter = domain.NopReporter{}
	}
	if cfg.StepRetryDelay <= 0 {
		cfg.StepRetryDelay = DefaultStepRetryDelay
	}
	return &Pipeline{deps: deps, cfg: cfg}
}

// RegisterHandlers registers the pipeline as the RunBookingCommand handler
func RegisterHandlers(m mediator.Mediator, p *Pipeline) error {
	return mediator.RegisterHandler[*RunBookingCommand](m, p)
}

// Handle executes the run booking command
func (p *Pipeline) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RunBookingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return p.Run(ctx, cmd)
}

// Run executes every stage. A failure is returned as *domain.StageError naming the stage.
func (p *Pipeline) Run(ctx context.Context, cmd *RunBookingCommand) (*RunBookingResponse, error) {
	ctx = logging.With(ctx, "run_id", cmd.RunID)
	resp := &RunBookingResponse{RunID: cmd.RunID}
	var (
		session   domain.Session
		seatMap   seating.SeatMap
		otp       string
		ticketIDs []string
	)

	stages := []struct {
		stage domain.Stage
		run   func() error
	}{
		{domain.StageAuthenticated, func() (err error) {
			session, err = p.authenticate(ctx, cmd)
			return err
		}},
		{domain.StageTripResolved, func() error {
			t, err := p.deps.Resolver.Resolve(ctx, session.Token(), cmd.Query)
			if err != nil {
				return domain.NewStageError(domain.StageTripResolved, "trip not found", err)
			}
			session = session.WithTrip(t)
			resp.Trip = t
			p.deps.Reporter.Success(fmt.Sprintf("Found %s (trip %s, route %s)", t.TrainName, t.TripID, t.TripRouteID))
			return nil
		}},
		{domain.StageSeatMapReady, func() (err error) {
			p.deps.Reporter.Info("Waiting for the seat layout to open")
			seatMap, err = p.deps.Poller.Poll(ctx, session)
			if err != nil {
				return domain.NewStageError(domain.StageSeatMapReady, "seat layout unavailable", err)
			}
			p.deps.Reporter.Success(fmt.Sprintf("Seat layout open: %d of %d seats available", seatMap.AvailableCount(), seatMap.TotalCount()))
			return nil
		}},
		{domain.StageSelectionReady, func() (err error) {
			resp.Selection, err = p.selectSeats(seatMap, cmd)
			return err
		}},
		{domain.StageSeatsReserved, func() error {
			report, err := p.deps.Coordinator.Reserve(ctx, session, resp.Selection)
			resp.Report = report
			if err != nil {
				return domain.NewStageError(domain.StageSeatsReserved, "no seat could be reserved", err)
			}
			ticketIDs = report.ReservedTicketIDs()
			if report.IsPartial() {
				p.deps.Reporter.Warn(fmt.Sprintf("Only %d of %d seats were reserved", len(ticketIDs), len(report.Outcomes)))
			}
			return nil
		}},
		{domain.StagePassengerDetailsSent, func() error {
			return p.sendPassengerDetails(ctx, session, ticketIDs)
		}},
		{domain.StageOtpVerified, func() (err error) {
			otp, err = p.verifyOTP(ctx, session, ticketIDs)
			return err
		}},
		{domain.StageConfirmed, func() error {
			return p.confirm(ctx, session, cmd, ticketIDs, otp, resp)
		}},
	}

	logger := logging.FromContext(ctx)
	for _, s := range stages {
		started := p.deps.Clock.Now()
		err := s.run()
		elapsed := p.deps.Clock.Now().Sub(started).Seconds()
		metrics.RecordStage(s.stage.String(), elapsed, err == nil)
		if err != nil {
			var stageErr *domain.StageError
			if !errors.As(err, &stageErr) {
				stageErr = domain.NewStageError(s.stage, "unexpected failure", err)
			}
			logger.Error("booking stage failed", "stage", s.stage.String(), "error", stageErr)
			p.deps.Reporter.Failure(stageErr.Error())
			return resp, stageErr
		}
		logger.Info("booking stage completed", "stage", s.stage.String(), "duration_s", elapsed)
		resp.Stages = append(resp.Stages, StageTiming{Stage: s.stage, Duration: elapsed})
	}
	return resp, nil
}

func (p *Pipeline) authenticate(ctx context.Context, cmd *RunBookingCommand) (domain.Session, error) {
	var signIn *ports.SignInResponse
	err := p.retryTransient(ctx, "sign in", func() (int, error) {
		r, err := p.deps.API.SignIn(ctx, cmd.Credentials.Mobile, cmd.Credentials.Password)
		if err != nil {
			return 0, err
		}
		signIn = r
		return r.StatusCode, nil
	})
	if err != nil {
		return domain.Session{}, domain.NewStageError(domain.StageAuthenticated, "sign in failed", err)
	}
	if signIn.StatusCode != http.StatusOK || signIn.Token == "" {
		return domain.Session{}, domain.NewStageError(domain.StageAuthenticated, "sign in rejected",
			fmt.Errorf("HTTP %d: %s", signIn.StatusCode, signIn.Message))
	}

	claims, err := p.deps.Claims.DecodeClaims(signIn.Token)
	if err != nil {
		return domain.Session{}, domain.NewStageError(domain.StageAuthenticated, "could not read account details", err)
	}
	p.deps.Reporter.Success("Signed in as " + claims.DisplayName)
	return domain.NewSession(cmd.RunID, signIn.Token, claims, cmd.Query), nil
}

func (p *Pipeline) selectSeats(seatMap seating.SeatMap, cmd *RunBookingCommand) (seating.SelectionResult, error) {
	req, err := seating.NewSelectionRequest(cmd.DesiredSeats, cmd.MaxSeats)
	if err != nil {
		return seating.SelectionResult{}, domain.NewStageError(domain.StageSelectionReady, "invalid seat preferences", err)
	}
	selection, err := seating.Select(seatMap, req)
	if err != nil {
		return seating.SelectionResult{}, domain.NewStageError(domain.StageSelectionReady, "no seat could be selected", err)
	}

	policy := "middle_block"
	if req.HasPreferences() {
		policy = "preference"
	}
	metrics.RecordSeatsSelected(policy, req.MaxSeats, selection.Len())
	p.deps.Reporter.Success("Selected seats: " + strings.Join(selection.SeatNumbers(), ", "))
	if selection.Len() < req.MaxSeats {
		p.deps.Reporter.Warn(fmt.Sprintf("Only %d of %d requested seats were available", selection.Len(), req.MaxSeats))
	}
	return selection, nil
}

func (p *Pipeline) sendPassengerDetails(ctx context.Context, session domain.Session, ticketIDs []string) error {
	var step *ports.StepResponse
	err := p.retryTransient(ctx, "send passenger details", func() (int, error) {
		r, err := p.deps.API.SendPassengerDetails(ctx, session.Token(), session.Trip(), ticketIDs)
		if err != nil {
			return 0, err
		}
		step = r
		return r.StatusCode, nil
	})
	if err != nil {
		return domain.NewStageError(domain.StagePassengerDetailsSent, "passenger details not accepted", err)
	}
	if step.StatusCode != http.StatusOK || !step.Success {
		return domain.NewStageError(domain.StagePassengerDetailsSent, stepReason(step), domain.ErrOTPNotSent)
	}
	p.deps.Reporter.Success("OTP sent to the account's mobile number")
	return nil
}

// verifyOTP prompts for the OTP until the service accepts it. A mismatch asks again.
func (p *Pipeline) verifyOTP(ctx context.Context, session domain.Session, ticketIDs []string) (string, error) {
	if p.deps.Prompter == nil {
		return "", domain.NewStageError(domain.StageOtpVerified, "no OTP entered", domain.ErrNoPrompter)
	}
	budget := shared.AttemptBudget{Max: p.cfg.MaxAttempts}
	retry := false
	for {
		if !budget.Next() {
			return "", domain.NewStageError(domain.StageOtpVerified, "too many wrong OTPs",
				shared.NewRetryLimitError("verify otp", budget.Attempts(), domain.ErrOTPMismatch))
		}
		otp, err := p.deps.Prompter.OTP(ctx, retry)
		if err != nil {
			return "", domain.NewStageError(domain.StageOtpVerified, "no OTP entered", err)
		}
		otp = strings.TrimSpace(otp)

		var step *ports.StepResponse
		err = p.retryTransient(ctx, "verify otp", func() (int, error) {
			r, err := p.deps.API.VerifyOTP(ctx, session.Token(), session.Trip(), ticketIDs, otp)
			if err != nil {
				return 0, err
			}
			step = r
			return r.StatusCode, nil
		})
		if err != nil {
			return "", domain.NewStageError(domain.StageOtpVerified, "OTP could not be verified", err)
		}

		switch {
		case step.StatusCode == http.StatusOK && step.Success:
			p.deps.Reporter.Success("OTP verified")
			return otp, nil
		case step.StatusCode == http.StatusUnprocessableEntity && step.ErrorKey == errorKeyOTPMismatch:
			p.deps.Reporter.Warn("OTP does not match, try again")
			retry = true
		default:
			return "", domain.NewStageError(domain.StageOtpVerified, stepReason(step), domain.ErrOTPRejected)
		}
	}
}

func (p *Pipeline) confirm(ctx context.Context, session domain.Session, cmd *RunBookingCommand, ticketIDs []string, otp string, resp *RunBookingResponse) error {
	extra := make([]string, 0, len(ticketIDs))
	if len(ticketIDs) > 1 && p.deps.Prompter == nil {
		return domain.NewStageError(domain.StageConfirmed, "passenger name not entered", domain.ErrNoPrompter)
	}
	for i := 1; i < len(ticketIDs); i++ {
		name, err := p.deps.Prompter.PassengerName(ctx, i+1)
		if err != nil {
			return domain.NewStageError(domain.StageConfirmed, "passenger name not entered", err)
		}
		extra = append(extra, name)
	}
	names, err := domain.PassengerNamesFor(session, len(ticketIDs), extra)
	if err != nil {
		return domain.NewStageError(domain.StageConfirmed, "invalid passenger names", err)
	}

	payment, err := p.paymentMethod(ctx, cmd.Payment)
	if err != nil {
		return domain.NewStageError(domain.StageConfirmed, "no payment method", err)
	}
	resp.Payment = payment

	req, err := domain.BuildConfirmRequest(session, ticketIDs, names, otp, payment)
	if err != nil {
		return domain.NewStageError(domain.StageConfirmed, "invalid confirmation", err)
	}

	var confirmed *ports.ConfirmResponse
	err = p.retryTransient(ctx, "confirm booking", func() (int, error) {
		r, err := p.deps.API.ConfirmBooking(ctx, session.Token(), req)
		if err != nil {
			return 0, err
		}
		confirmed = r
		return r.StatusCode, nil
	})
	if err != nil {
		return domain.NewStageError(domain.StageConfirmed, "booking not confirmed", err)
	}
	if confirmed.StatusCode != http.StatusOK || confirmed.RedirectURL == "" {
		reason := confirmed.Message
		if reason == "" {
			reason = fmt.Sprintf("HTTP %d", confirmed.StatusCode)
		}
		return domain.NewStageError(domain.StageConfirmed, reason, domain.ErrNoRedirectURL)
	}

	resp.RedirectURL = confirmed.RedirectURL
	p.deps.Reporter.Success("Booking confirmed. Pay with " + payment.Label() + " using this single-use link: " + confirmed.RedirectURL)
	return nil
}

func (p *Pipeline) paymentMethod(ctx context.Context, configured string) (domain.PaymentMethod, error) {
	if strings.TrimSpace(configured) != "" {
		return domain.ParsePaymentMethod(configured)
	}
	if p.deps.Prompter == nil {
		return domain.PaymentBkash, nil
	}
	return p.deps.Prompter.PaymentMethod(ctx, domain.PaymentMethods())
}

// retryTransient repeats call while it fails on the network or with a transient status
func (p *Pipeline) retryTransient(ctx context.Context, op string, call func() (int, error)) error {
	logger := logging.FromContext(ctx)
	budget := shared.AttemptBudget{Max: p.cfg.MaxAttempts}
	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !budget.Next() {
			return shared.NewRetryLimitError(op, budget.Attempts(), lastErr)
		}
		status, err := call()
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			lastErr = err
		case shared.IsTransientStatus(status):
			lastErr = fmt.Errorf("server overloaded (HTTP %d)", status)
		default:
			return nil
		}
		logger.Warn("transient failure, retrying", "operation", op, "error", lastErr)
		if err := shared.SleepContext(ctx, p.deps.Clock, p.cfg.StepRetryDelay); err != nil {
			return err
		}
	}
}

func stepReason(step *ports.StepResponse) string {
	if step.Message != "" {
		return step.Message
	}
	return fmt.Sprintf("HTTP %d", step.StatusCode)
}
