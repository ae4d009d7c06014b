package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/api"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/metrics"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/availability"
	appbooking "github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/booking"
	applogging "github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/logging"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/mediator"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/reservation"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/trip"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/infrastructure/config"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/infrastructure/logging"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/infrastructure/runlock"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/pkg/utils"
)

// bookOptions are the flags that override the loaded configuration
type bookOptions struct {
	desiredSeats []string
	maxSeats     int
	payment      string
	trainNumber  string
	date         string
}

// NewBookCommand creates the book command
func NewBookCommand() *cobra.Command {
	opts := &bookOptions{}

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book tickets for the configured journey",
		Long: `Sign in, resolve the train, wait for the seat layout to open, pick seats,
reserve them in parallel and confirm with OTP. The run ends with a single-use
payment link.

Ctrl-C stops the run at any point.

Examples:
  railbook book
  railbook book --desired-seats KA-12,KA-13 --max-seats 2
  railbook book --train 753 --date 15-Mar-2026 --payment nagad`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyBookOptions(cmd, cfg, opts)
			if verbose {
				cfg.Logging.Level = "debug"
			}
			if err := config.ValidateBooking(cfg); err != nil {
				return err
			}
			return runBooking(cmd.Context(), cfg, os.Stdin, cmd.OutOrStdout())
		},
	}

	bindBookFlags(cmd, opts)

	return cmd
}

func bindBookFlags(cmd *cobra.Command, opts *bookOptions) {
	cmd.Flags().StringSliceVar(&opts.desiredSeats, "desired-seats", nil, "Preferred seat numbers, comma separated (overrides config)")
	cmd.Flags().IntVar(&opts.maxSeats, "max-seats", 0, "Maximum number of seats to book, 1-4 (overrides config)")
	cmd.Flags().StringVar(&opts.payment, "payment", "", "Payment method: bkash, nagad, rocket, upay, visa, mastercard or nexus")
	cmd.Flags().StringVar(&opts.trainNumber, "train", "", "Train number (overrides config)")
	cmd.Flags().StringVar(&opts.date, "date", "", "Date of journey, e.g. 15-Mar-2026 (overrides config)")
}

// applyBookOptions copies explicitly set flags over the loaded configuration
func applyBookOptions(cmd *cobra.Command, cfg *config.Config, opts *bookOptions) {
	flags := cmd.Flags()
	if flags.Changed("desired-seats") {
		cfg.Selection.DesiredSeats = opts.desiredSeats
	}
	if flags.Changed("max-seats") {
		cfg.Selection.MaxSeats = opts.maxSeats
	}
	if flags.Changed("payment") {
		cfg.Payment.Method = opts.payment
	}
	if flags.Changed("train") {
		cfg.Journey.TrainNumber = opts.trainNumber
	}
	if flags.Changed("date") {
		cfg.Journey.DateOfJourney = opts.date
	}
}

// newRunBookingCommand builds the pipeline command from validated configuration
func newRunBookingCommand(runID string, cfg *config.Config) *appbooking.RunBookingCommand {
	return &appbooking.RunBookingCommand{
		RunID: runID,
		Credentials: appbooking.Credentials{
			Mobile:   cfg.Account.MobileNumber,
			Password: cfg.Account.Password,
		},
		Query: booking.TripQuery{
			FromCity:      cfg.Journey.FromCity,
			ToCity:        cfg.Journey.ToCity,
			DateOfJourney: cfg.Journey.DateOfJourney,
			SeatClass:     cfg.Journey.SeatClass,
			TrainNumber:   cfg.Journey.TrainNumber,
		},
		DesiredSeats: cfg.Selection.Desired(),
		MaxSeats:     cfg.Selection.MaxSeats,
		Payment:      cfg.Payment.Method,
	}
}

func runBooking(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	runID := utils.GenerateRunID(cfg.Journey.TrainNumber, cfg.Journey.DateOfJourney)
	logger = logger.With("run_id", runID)

	lock := runlock.New(cfg.Run.LockFile, runID)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = applogging.WithLogger(ctx, logger)

	collectors, err := startMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}
	defer collectors.shutdown()

	reporter := NewConsoleReporter(out)
	med, err := buildMediator(cfg, collectors, reporter, NewLinePrompter(in, out))
	if err != nil {
		return err
	}

	reporter.Info(fmt.Sprintf("Run %s: train %s, %s to %s on %s, %s class",
		runID, cfg.Journey.TrainNumber, cfg.Journey.FromCity, cfg.Journey.ToCity,
		cfg.Journey.DateOfJourney, cfg.Journey.SeatClass))

	response, err := med.Send(ctx, newRunBookingCommand(runID, cfg))
	if err != nil {
		return err
	}

	if resp, ok := response.(*appbooking.RunBookingResponse); ok && verbose {
		for _, timing := range resp.Stages {
			reporter.Detail(timing.Stage.String(), fmt.Sprintf("%.2fs", timing.Duration))
		}
	}
	return nil
}

// buildMediator wires the API client and the booking components into a mediator
func buildMediator(cfg *config.Config, collectors *metricsCollectors, reporter booking.Reporter, prompter booking.Prompter) (mediator.Mediator, error) {
	clock := shared.NewRealClock()
	client := api.NewRailClientWithConfig(api.ClientConfig{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		RequestsPerSecond:  float64(cfg.API.RateLimit.Requests),
		Burst:              cfg.API.RateLimit.Burst,
		InsecureSkipVerify: cfg.API.InsecureSkipVerify,
		Metrics:            collectors.api,
		Clock:              clock,
	})

	polling := cfg.Polling
	pipeline := appbooking.NewPipeline(appbooking.Dependencies{
		API:    client,
		Claims: api.NewClaimsDecoder(),
		Resolver: trip.NewResolver(client, clock, trip.Config{
			RetryDelay:  polling.TripRetryDelay,
			MaxAttempts: polling.MaxAttempts,
			Deadline:    polling.Deadline,
		}, reporter),
		Poller: availability.NewPoller(client, clock, availability.Config{
			MinInterval: polling.MinInterval,
			MaxAttempts: polling.MaxAttempts,
			Deadline:    polling.Deadline,
		}, reporter),
		Coordinator: reservation.NewCoordinator(client, clock, reservation.Config{
			RetryDelay:  polling.ReserveRetryDelay,
			MaxAttempts: polling.MaxAttempts,
			Deadline:    polling.Deadline,
		}, reporter),
		Prompter: prompter,
		Reporter: reporter,
		Clock:    clock,
	}, appbooking.Config{
		StepRetryDelay: polling.StepRetryDelay,
		MaxAttempts:    polling.MaxAttempts,
	})

	med := mediator.NewMediator()
	med.Use(mediator.LoggingMiddleware())
	med.Use(metrics.PrometheusMiddleware(collectors.command))
	if err := appbooking.RegisterHandlers(med, pipeline); err != nil {
		return nil, fmt.Errorf("failed to register RunBooking handler: %w", err)
	}
	return med, nil
}

// metricsCollectors holds the collectors of an enabled metrics setup; all nil when disabled
type metricsCollectors struct {
	api     *metrics.APIMetricsCollector
	command *metrics.CommandMetricsCollector
	server  *metrics.Server
	logger  *slog.Logger
}

func startMetrics(cfg config.MetricsConfig, logger *slog.Logger) (*metricsCollectors, error) {
	collectors := &metricsCollectors{logger: logger}
	if !cfg.Enabled {
		return collectors, nil
	}

	metrics.InitRegistry()

	bookingCollector := metrics.NewBookingMetricsCollector()
	if err := bookingCollector.Register(); err != nil {
		return nil, fmt.Errorf("failed to register booking metrics: %w", err)
	}
	metrics.SetGlobalBookingCollector(bookingCollector)

	collectors.api = metrics.NewAPIMetricsCollector()
	if err := collectors.api.Register(); err != nil {
		return nil, fmt.Errorf("failed to register API metrics: %w", err)
	}
	collectors.command = metrics.NewCommandMetricsCollector()
	if err := collectors.command.Register(); err != nil {
		return nil, fmt.Errorf("failed to register command metrics: %w", err)
	}

	server, err := metrics.NewServer(cfg.Host, cfg.Port, cfg.Path, logger)
	if err != nil {
		return nil, err
	}
	server.Start()
	collectors.server = server
	return collectors, nil
}

func (c *metricsCollectors) shutdown() {
	if c.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.server.Shutdown(ctx); err != nil {
		c.logger.Warn("failed to stop metrics server", "error", err)
	}
	metrics.SetGlobalBookingCollector(nil)
}
