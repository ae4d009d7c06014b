package booking

// UserClaims are the account details carried by the sign-in token
type UserClaims struct {
	DisplayName string
	Email       string
	Phone       string
}

// Session is the run context threaded through every stage.
// Values are immutable; the With methods return modified copies.
type Session struct {
	runID  string
	token  string
	claims UserClaims
	query  TripQuery
	trip   Trip
}

// NewSession starts a session for an authenticated account
func NewSession(runID, token string, claims UserClaims, query TripQuery) Session {
	return Session{runID: runID, token: token, claims: claims, query: query}
}

// WithTrip returns a copy of the session bound to a resolved trip
func (s Session) WithTrip(trip Trip) Session {
	s.trip = trip
	return s
}

func (s Session) RunID() string      { return s.runID }
func (s Session) Token() string      { return s.token }
func (s Session) Claims() UserClaims { return s.claims }
func (s Session) Query() TripQuery   { return s.query }
func (s Session) Trip() Trip         { return s.trip }

// HasTrip reports whether the session has been bound to a trip
func (s Session) HasTrip() bool {
	return s.trip.IsComplete()
}
