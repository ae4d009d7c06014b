package booking

import (
	"context"
	"time"
)

// Reporter receives user-facing progress for a run
type Reporter interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Failure(msg string)
}

// Prompter collects interactive input during a run
type Prompter interface {
	OTP(ctx context.Context, retry bool) (string, error)
	PassengerName(ctx context.Context, index int) (string, error)
	PaymentMethod(ctx context.Context, methods []PaymentMethod) (PaymentMethod, error)
}

// WaitNotice describes a not-yet-open poll result for reporting
type WaitNotice struct {
	Message  string
	ResumeAt time.Time
}

// HasResumeTime reports whether an advisory resume time was parsed
func (w WaitNotice) HasResumeTime() bool {
	return !w.ResumeAt.IsZero()
}

// NopReporter discards all progress
type NopReporter struct{}

func (NopReporter) Info(string)    {}
func (NopReporter) Success(string) {}
func (NopReporter) Warn(string)    {}
func (NopReporter) Failure(string) {}
