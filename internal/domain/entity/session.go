package entity

import "time"

// SessionState is the position of a session in its inactivity lifecycle.
type SessionState string

const (
	SessionStateActive  SessionState = "active"
	SessionStateWarned  SessionState = "warned"
	SessionStateExpired SessionState = "expired"
)

const (
	// LoginPath is where an expired session is sent.
	LoginPath = "/login"
	// SessionExpiredMessage accompanies the redirect after expiry.
	SessionExpiredMessage = "Your session has expired. Please log in again."
)

// ExpiryNotice tells the client where to go once its session has expired.
type ExpiryNotice struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// DefaultExpiryNotice returns the login redirect used on inactivity expiry.
func DefaultExpiryNotice() ExpiryNotice {
	return ExpiryNotice{Path: LoginPath, Message: SessionExpiredMessage}
}

// SessionStatus is a snapshot of one tracked session.
type SessionStatus struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	State     SessionState  `json:"state"`
	StartedAt time.Time     `json:"startedAt"`
	Notice    *ExpiryNotice `json:"notice,omitempty"`
}
