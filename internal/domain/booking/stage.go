package booking

import "fmt"

// Stage is a step of the booking pipeline, named after the state it reaches
type Stage int

const (
	StageAuthenticated Stage = iota
	StageTripResolved
	StageSeatMapReady
	StageSelectionReady
	StageSeatsReserved
	StagePassengerDetailsSent
	StageOtpVerified
	StageConfirmed
)

var stageNames = map[Stage]string{
	StageAuthenticated:        "authenticated",
	StageTripResolved:         "trip_resolved",
	StageSeatMapReady:         "seat_map_ready",
	StageSelectionReady:       "selection_ready",
	StageSeatsReserved:        "seats_reserved",
	StagePassengerDetailsSent: "passenger_details_sent",
	StageOtpVerified:          "otp_verified",
	StageConfirmed:            "confirmed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Stages returns every stage in pipeline order
func Stages() []Stage {
	return []Stage{
		StageAuthenticated,
		StageTripResolved,
		StageSeatMapReady,
		StageSelectionReady,
		StageSeatsReserved,
		StagePassengerDetailsSent,
		StageOtpVerified,
		StageConfirmed,
	}
}

// StageError reports which stage halted the pipeline and why
type StageError struct {
	Stage  Stage
	Reason string
	Err    error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Reason)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err as the failure of stage
func NewStageError(stage Stage, reason string, err error) *StageError {
	return &StageError{Stage: stage, Reason: reason, Err: err}
}
