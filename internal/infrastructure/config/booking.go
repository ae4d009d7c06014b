package config

import (
	"strings"
	"time"
)

// AccountConfig holds the railway account credentials
type AccountConfig struct {
	MobileNumber string `mapstructure:"mobile_number" validate:"required,numeric,len=11"`
	Password     string `mapstructure:"password" validate:"required"`
}

// JourneyConfig identifies the train to book
type JourneyConfig struct {
	FromCity string `mapstructure:"from_city" validate:"required"`
	ToCity   string `mapstructure:"to_city" validate:"required"`

	// Date in the service's dd-Mon-yyyy form, e.g. 15-Mar-2026
	DateOfJourney string `mapstructure:"date_of_journey" validate:"required,datetime=02-Jan-2006"`

	SeatClass   string `mapstructure:"seat_class" validate:"required"`
	TrainNumber string `mapstructure:"train_number" validate:"required,numeric"`
}

// SelectionConfig holds seat preferences
type SelectionConfig struct {
	// Seat numbers to try first, e.g. KA-12. Empty picks a middle block.
	DesiredSeats []string `mapstructure:"desired_seats"`

	// Maximum seats to book in one run
	MaxSeats int `mapstructure:"max_seats" validate:"min=1,max=4"`
}

// Desired returns the non-empty, trimmed desired seats
func (s SelectionConfig) Desired() []string {
	out := make([]string, 0, len(s.DesiredSeats))
	for _, seat := range s.DesiredSeats {
		for _, part := range strings.Split(seat, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// PollingConfig holds the timing of every retry loop
type PollingConfig struct {
	// Minimum gap between the starts of two seat-layout requests
	MinInterval time.Duration `mapstructure:"min_interval" validate:"min=0"`

	// Pause between trip searches
	TripRetryDelay time.Duration `mapstructure:"trip_retry_delay" validate:"min=0"`

	// Pause between reserve attempts of one seat
	ReserveRetryDelay time.Duration `mapstructure:"reserve_retry_delay" validate:"min=0"`

	// Pause before retrying sign-in, passenger details, OTP and confirm
	StepRetryDelay time.Duration `mapstructure:"step_retry_delay" validate:"min=0"`

	// Upper bound on attempts per loop; 0 retries forever
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Upper bound on time spent per loop; 0 means none
	Deadline time.Duration `mapstructure:"deadline" validate:"min=0"`
}

// PaymentConfig holds the payment method; empty asks at confirmation time
type PaymentConfig struct {
	Method string `mapstructure:"method" validate:"omitempty,payment_method"`
}

// RunConfig holds process-level settings
type RunConfig struct {
	// Lock file guarding against two concurrent runs
	LockFile string `mapstructure:"lock_file"`
}
