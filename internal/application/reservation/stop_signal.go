package reservation

import (
	"sync"
	"sync/atomic"
)

// StopSignal is a one-way latch shared by the workers of one reservation batch.
// Once triggered it stays set.
type StopSignal struct {
	stopped atomic.Bool
	once    sync.Once
	reason  string
}

// NewStopSignal returns an unset latch
func NewStopSignal() *StopSignal {
	return &StopSignal{}
}

// Trigger sets the latch. Only the first reason is kept; it reports whether this call set it.
func (s *StopSignal) Trigger(reason string) bool {
	set := false
	s.once.Do(func() {
		s.reason = reason
		s.stopped.Store(true)
		set = true
	})
	return set
}

// Stopped reports whether the latch is set
func (s *StopSignal) Stopped() bool {
	return s.stopped.Load()
}

// Reason returns the reason given to the first Trigger, or "" while unset
func (s *StopSignal) Reason() string {
	if !s.Stopped() {
		return ""
	}
	return s.reason
}
