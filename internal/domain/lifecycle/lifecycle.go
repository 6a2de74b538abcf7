// Package lifecycle holds shared bounds for start/stop hooks and background side effects.
package lifecycle

import "time"

const (
	// DefaultTimeout bounds shutdown hooks, storage pings and the logout issued on session expiry.
	DefaultTimeout = 10 * time.Second
)
