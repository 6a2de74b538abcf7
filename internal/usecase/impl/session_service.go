package impl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/lifecycle"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/infra/metrics"
	"portal/internal/session"
	"portal/internal/usecase"
	"portal/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	sessionWarningTitle = "Session Expiring"
	sessionWarningText  = "Your session will expire in %s. Would you like to stay logged in?"
)

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	Lc            fx.Lifecycle
	Notifications usecase.NotificationUsecase
	Publisher     service.EventPublisher
	Clock         session.Clock
	Metrics       *metrics.Metrics
	Config        *config.Config
	Logger        *slog.Logger
}

// trackedSession is one entry of the registry. Mutable fields are guarded by sessionService.mu.
type trackedSession struct {
	id        string
	owner     string
	startedAt time.Time
	manager   *session.Manager
	hub       *session.ActivityHub
	dispose   session.Disposer
	notice    *entity.ExpiryNotice
	counted   bool
}

type sessionService struct {
	notifications usecase.NotificationUsecase
	publisher     service.EventPublisher
	clock         session.Clock
	timeouts      session.Timeouts
	retention     time.Duration
	metrics       *metrics.Metrics
	logger        *slog.Logger

	mu       sync.Mutex
	sessions map[string]*trackedSession
}

// NewSessionService creates the registry of inactivity-tracked sessions.
// Expired sessions are remembered for one token lifetime so clients can still read their notice.
func NewSessionService(params SessionServiceParams) (usecase.SessionUsecase, error) {
	timeouts := session.Timeouts{Total: params.Config.Session.Timeout, Warning: params.Config.Session.Warning}
	if err := timeouts.Validate(); err != nil {
		return nil, err
	}

	srv := &sessionService{
		notifications: params.Notifications,
		publisher:     params.Publisher,
		clock:         params.Clock,
		timeouts:      timeouts,
		retention:     params.Config.Auth.TokenTTL,
		metrics:       params.Metrics,
		logger:        params.Logger,
		sessions:      make(map[string]*trackedSession),
	}

	params.Lc.Append(fx.StopHook(srv.shutdown))

	return srv, nil
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *sessionService) Start(ctx context.Context, owner string) (string, error) {
	ts := &trackedSession{
		id:        uuid.NewString(),
		owner:     owner,
		startedAt: srv.clock.Now().UTC(),
		hub:       session.NewActivityHub(),
	}

	manager, err := session.New(srv.timeouts, session.Callbacks{
		OnWarn:   func() { srv.onWarn(ts) },
		Logout:   func(ctx context.Context) error { return srv.onExpire(ctx, ts) },
		Navigate: func(notice entity.ExpiryNotice) { srv.onNavigate(ts, notice) },
	},
		session.WithClock(srv.clock),
		session.WithLogger(srv.logger.With(slog.String("sessionId", ts.id), slog.String("owner", owner))),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to create session manager")
	}
	ts.manager = manager

	srv.mu.Lock()
	srv.sessions[ts.id] = ts
	ts.counted = true
	srv.mu.Unlock()
	srv.metrics.ActiveSessions.Inc()

	dispose, err := manager.Initialize(ts.hub)
	if err != nil {
		srv.forget(ts.id)

		return "", errors.Wrap(err, "failed to initialize session")
	}

	srv.mu.Lock()
	ts.dispose = dispose
	srv.mu.Unlock()

	srv.log(ctx).Info("Session started", slog.String("sessionId", ts.id), slog.String("owner", owner))

	return ts.id, nil
}

func (srv *sessionService) Touch(ctx context.Context, sessionID string) error {
	ts, notice := srv.lookup(sessionID)
	if ts == nil {
		return domainerrors.ErrSessionNotFound
	}
	if ts.manager.State() == entity.SessionStateExpired {
		return domainerrors.NewSessionExpiredError(notice)
	}

	ts.hub.Emit()

	return nil
}

func (srv *sessionService) Status(ctx context.Context, sessionID string) (*entity.SessionStatus, error) {
	ts, notice := srv.lookup(sessionID)
	if ts == nil {
		return nil, domainerrors.ErrSessionNotFound
	}

	status := &entity.SessionStatus{
		ID:        ts.id,
		Owner:     ts.owner,
		State:     ts.manager.State(),
		StartedAt: ts.startedAt,
	}
	if status.State == entity.SessionStateExpired {
		status.Notice = &notice
	}

	return status, nil
}

func (srv *sessionService) End(ctx context.Context, sessionID string) error {
	ts := srv.forget(sessionID)
	if ts == nil {
		return nil
	}

	srv.log(ctx).Info("Session ended", slog.String("sessionId", sessionID), slog.String("owner", ts.owner))

	return nil
}

func (srv *sessionService) ActiveOwners() []string {
	srv.mu.Lock()
	tracked := make([]*trackedSession, 0, len(srv.sessions))
	for _, ts := range srv.sessions {
		tracked = append(tracked, ts)
	}
	srv.mu.Unlock()

	owners := make([]string, 0, len(tracked))
	for _, ts := range tracked {
		if ts.manager.State() != entity.SessionStateExpired {
			owners = append(owners, ts.owner)
		}
	}
	slices.Sort(owners)

	return slices.Compact(owners)
}

// lookup returns the session and the notice to report if it has expired.
func (srv *sessionService) lookup(sessionID string) (*trackedSession, entity.ExpiryNotice) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	ts, ok := srv.sessions[sessionID]
	if !ok {
		return nil, entity.ExpiryNotice{}
	}
	if ts.notice != nil {
		return ts, *ts.notice
	}

	return ts, entity.DefaultExpiryNotice()
}

func (srv *sessionService) onWarn(ts *trackedSession) {
	srv.metrics.SessionWarnings.Inc()

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	_, err := srv.notifications.Add(ctx, ts.owner, entity.NotificationDraft{
		Type:    entity.NotificationTypeWarning,
		Title:   sessionWarningTitle,
		Message: fmtWarning(srv.timeouts.Warning),
	})
	if err != nil {
		srv.logger.Warn("Failed to store session warning", slog.String("sessionId", ts.id), slog.Any("error", err))
	}

	publishEvent(ctx, srv.publisher, srv.logger, service.EventSessionWarning, ts.owner, map[string]string{
		"session_id": ts.id,
		"expires_in": srv.timeouts.Warning.String(),
	})
}

// onExpire is the logout step of expiry: the session stops counting as active.
func (srv *sessionService) onExpire(ctx context.Context, ts *trackedSession) error {
	srv.release(ts)
	srv.metrics.SessionExpiries.Inc()

	publishEvent(ctx, srv.publisher, srv.logger, service.EventSessionExpired, ts.owner, map[string]string{
		"session_id": ts.id,
	})

	return nil
}

func (srv *sessionService) onNavigate(ts *trackedSession, notice entity.ExpiryNotice) {
	srv.mu.Lock()
	ts.notice = &notice
	srv.mu.Unlock()

	srv.clock.AfterFunc(srv.retention, func() { srv.forget(ts.id) })
}

// forget removes the session from the registry and tears it down. It returns nil for unknown IDs.
func (srv *sessionService) forget(sessionID string) *trackedSession {
	srv.mu.Lock()
	ts, ok := srv.sessions[sessionID]
	if !ok {
		srv.mu.Unlock()

		return nil
	}
	delete(srv.sessions, sessionID)
	dispose := ts.dispose
	srv.mu.Unlock()

	if dispose != nil {
		dispose()
	}
	srv.release(ts)

	return ts
}

// release drops the session from the active gauge exactly once.
func (srv *sessionService) release(ts *trackedSession) {
	srv.mu.Lock()
	counted := ts.counted
	ts.counted = false
	srv.mu.Unlock()

	if counted {
		srv.metrics.ActiveSessions.Dec()
	}
}

func (srv *sessionService) shutdown() {
	srv.mu.Lock()
	ids := make([]string, 0, len(srv.sessions))
	for id := range srv.sessions {
		ids = append(ids, id)
	}
	srv.mu.Unlock()

	for _, id := range ids {
		srv.forget(id)
	}

	srv.logger.Info("Session registry stopped", slog.Int("sessions", len(ids)))
}

func fmtWarning(warning time.Duration) string {
	return fmt.Sprintf(sessionWarningText, util.HumanizeDuration(warning))
}
