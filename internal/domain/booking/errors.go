package booking

import "errors"

var (
	// ErrOTPNotSent is returned when the passenger details step does not send an OTP
	ErrOTPNotSent = errors.New("otp was not sent")
	// ErrOTPMismatch is a retryable verification failure: the OTP did not match
	ErrOTPMismatch = errors.New("otp does not match")
	// ErrOTPRejected is a terminal verification failure
	ErrOTPRejected = errors.New("otp verification rejected")
	// ErrNoPrompter is returned when a stage needs user input and no prompter is configured
	ErrNoPrompter = errors.New("no prompter configured")
	// ErrNoRedirectURL is returned when the confirm step does not return a payment link
	ErrNoRedirectURL = errors.New("booking confirmation returned no payment link")
)
