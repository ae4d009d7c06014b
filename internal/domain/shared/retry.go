package shared

import "net/http"

// transientStatusCodes are server-side conditions expected to resolve on retry
var transientStatusCodes = map[int]struct{}{
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// IsTransientStatus reports whether an HTTP status code signals server overload
func IsTransientStatus(code int) bool {
	_, ok := transientStatusCodes[code]
	return ok
}

// AttemptBudget tracks attempts against an optional upper bound.
// A zero Max means unbounded.
type AttemptBudget struct {
	Max      int
	attempts int
}

// Next records one attempt and reports whether it is allowed
func (b *AttemptBudget) Next() bool {
	if b.Max > 0 && b.attempts >= b.Max {
		return false
	}
	b.attempts++
	return true
}

// Attempts returns the number of attempts recorded so far
func (b *AttemptBudget) Attempts() int {
	return b.attempts
}
