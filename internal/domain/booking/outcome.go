package booking

import "fmt"

// ReservationStatus is the terminal state of one reservation worker
type ReservationStatus int

const (
	Skipped ReservationStatus = iota
	Reserved
	Rejected
)

func (s ReservationStatus) String() string {
	switch s {
	case Reserved:
		return "reserved"
	case Rejected:
		return "rejected"
	default:
		return "skipped"
	}
}

// ReservationOutcome records what happened to one ticket
type ReservationOutcome struct {
	TicketID   string
	SeatNumber string
	Status     ReservationStatus
	Reason     string
	Attempts   int
}

func (o ReservationOutcome) String() string {
	if o.Reason == "" {
		return fmt.Sprintf("%s (%s): %s", o.SeatNumber, o.TicketID, o.Status)
	}
	return fmt.Sprintf("%s (%s): %s: %s", o.SeatNumber, o.TicketID, o.Status, o.Reason)
}

// ReservationReport aggregates the outcomes of one reservation batch in selection order
type ReservationReport struct {
	Outcomes    []ReservationOutcome
	LimitHit    bool
	LimitReason string
}

// ReservedTicketIDs returns the reserved tickets in selection order
func (r ReservationReport) ReservedTicketIDs() []string {
	var ids []string
	for _, o := range r.Outcomes {
		if o.Status == Reserved {
			ids = append(ids, o.TicketID)
		}
	}
	return ids
}

// Count returns how many outcomes have the given status
func (r ReservationReport) Count(status ReservationStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// IsPartial reports whether some but not all tickets were reserved
func (r ReservationReport) IsPartial() bool {
	reserved := r.Count(Reserved)
	return reserved > 0 && reserved < len(r.Outcomes)
}
