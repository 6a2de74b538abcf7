// Package session tracks user inactivity for one authenticated session and moves it
// through Active, Warned and Expired.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"portal/internal/domain/entity"
	"portal/internal/domain/lifecycle"
	"portal/internal/errors"
)

const (
	// DefaultTotal is the inactivity period after which a session expires.
	DefaultTotal = 30 * time.Minute
	// DefaultWarning is how long before expiry the warning fires.
	DefaultWarning = 5 * time.Minute
)

var (
	// ErrAlreadyInitialized is returned when Initialize is called again before the disposer ran.
	ErrAlreadyInitialized = errors.New("session already initialized")
	// ErrExpired is returned when Initialize is called on an expired session.
	ErrExpired = errors.New("session expired")
	// ErrInvalidTimeouts is returned for timeouts where the warning does not precede expiry.
	ErrInvalidTimeouts = errors.New("warning window must be positive and shorter than the total timeout")
)

// Timeouts configures the two timers of a session.
type Timeouts struct {
	Total   time.Duration // inactivity before expiry
	Warning time.Duration // warning window before expiry
}

// DefaultTimeouts returns 30 minutes total with a 5 minute warning.
func DefaultTimeouts() Timeouts {
	return Timeouts{Total: DefaultTotal, Warning: DefaultWarning}
}

// Validate checks 0 < Warning < Total.
func (t Timeouts) Validate() error {
	if t.Warning <= 0 || t.Total <= t.Warning {
		return errors.Wrapf(ErrInvalidTimeouts, "total=%s warning=%s", t.Total, t.Warning)
	}

	return nil
}

// WarnAfter is the delay from the last reset until the warning.
func (t Timeouts) WarnAfter() time.Duration {
	return t.Total - t.Warning
}

// Callbacks are the collaborators a session drives.
type Callbacks struct {
	// OnWarn surfaces the pending-expiry warning.
	OnWarn func()
	// Logout terminates the session on the auth side. Its error is logged and otherwise ignored.
	Logout func(ctx context.Context) error
	// Navigate sends the client to the login surface. It runs even if Logout failed.
	Navigate func(notice entity.ExpiryNotice)
}

// Disposer tears down what Initialize set up. Calling it more than once is safe.
type Disposer func()

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces the real clock.
func WithClock(clock Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNotice overrides the expiry notice passed to Navigate.
func WithNotice(notice entity.ExpiryNotice) Option {
	return func(m *Manager) {
		m.notice = notice
	}
}

// Manager owns the warning and expiry timers of exactly one session.
type Manager struct {
	timeouts  Timeouts
	callbacks Callbacks
	clock     Clock
	logger    *slog.Logger
	notice    entity.ExpiryNotice

	mu             sync.Mutex
	state          entity.SessionState
	initialized    bool
	epoch          uint64
	generation     uint64
	warnTimer      Timer
	expiryTimer    Timer
	removeListener func()

	done chan struct{}
}

// New builds a Manager in the Active state. No timers run until Initialize.
func New(timeouts Timeouts, callbacks Callbacks, opts ...Option) (*Manager, error) {
	if err := timeouts.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		timeouts:  timeouts,
		callbacks: callbacks,
		clock:     RealClock(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		notice:    entity.DefaultExpiryNotice(),
		state:     entity.SessionStateActive,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Initialize subscribes to the activity source, so every activity event resets the timers,
// and arms the first timer pair. The returned Disposer must be called on teardown.
func (m *Manager) Initialize(src ActivitySource) (Disposer, error) {
	m.mu.Lock()
	if m.state == entity.SessionStateExpired {
		m.mu.Unlock()

		return nil, ErrExpired
	}
	if m.initialized {
		m.mu.Unlock()

		return nil, ErrAlreadyInitialized
	}
	m.initialized = true
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()

	remove := src.OnActivity(m.Reset)

	m.mu.Lock()
	m.removeListener = remove
	m.arm()
	m.mu.Unlock()

	return func() { m.dispose(epoch) }, nil
}

// Reset cancels the pending timers and schedules a fresh pair from now.
// A warned session becomes active again. It does nothing before Initialize or after expiry.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || m.state == entity.SessionStateExpired {
		return
	}
	m.arm()
}

// State returns the current lifecycle state.
func (m *Manager) State() entity.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Done is closed once expiry handling, logout and navigation included, has finished.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// arm must be called with m.mu held.
func (m *Manager) arm() {
	m.stopTimers()
	m.generation++
	gen := m.generation
	m.state = entity.SessionStateActive

	m.warnTimer = m.clock.AfterFunc(m.timeouts.WarnAfter(), func() { m.fireWarning(gen) })
	m.expiryTimer = m.clock.AfterFunc(m.timeouts.Total, func() { m.fireExpiry(gen) })
}

// stopTimers must be called with m.mu held.
func (m *Manager) stopTimers() {
	if m.warnTimer != nil {
		m.warnTimer.Stop()
		m.warnTimer = nil
	}
	if m.expiryTimer != nil {
		m.expiryTimer.Stop()
		m.expiryTimer = nil
	}
}

func (m *Manager) fireWarning(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.state != entity.SessionStateActive {
		m.mu.Unlock()

		return
	}
	m.state = entity.SessionStateWarned
	m.mu.Unlock()

	m.logger.Debug("Session inactivity warning", slog.Duration("expiresIn", m.timeouts.Warning))
	m.warn()
}

func (m *Manager) fireExpiry(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.state == entity.SessionStateExpired {
		m.mu.Unlock()

		return
	}
	// The warning timer can lose the race to the expiry goroutine; it must still be seen first.
	warnFirst := m.state == entity.SessionStateActive
	m.state = entity.SessionStateExpired
	m.generation++
	m.stopTimers()
	remove := m.removeListener
	m.removeListener = nil
	m.mu.Unlock()

	if remove != nil {
		remove()
	}
	if warnFirst {
		m.warn()
	}

	m.expire()
}

func (m *Manager) warn() {
	if m.callbacks.OnWarn != nil {
		m.callbacks.OnWarn()
	}
}

func (m *Manager) expire() {
	defer close(m.done)

	if m.callbacks.Logout != nil {
		ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		err := m.callbacks.Logout(ctx)
		cancel()
		if err != nil {
			m.logger.Warn("Logout on session expiry failed", slog.Any("error", err))
		}
	}

	m.logger.Info("Session expired", slog.String("redirect", m.notice.Path))

	if m.callbacks.Navigate != nil {
		m.callbacks.Navigate(m.notice)
	}
}

func (m *Manager) dispose(epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch || !m.initialized {
		m.mu.Unlock()

		return
	}
	m.initialized = false
	remove := m.removeListener
	m.removeListener = nil
	if m.state != entity.SessionStateExpired {
		m.generation++
		m.stopTimers()
	}
	m.mu.Unlock()

	if remove != nil {
		remove()
	}
}
