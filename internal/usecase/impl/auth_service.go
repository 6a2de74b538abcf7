package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/infra/metrics"
	"portal/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	authTypeRegister = "register"
	authTypeLogin    = "login"
	authSuccess      = "success"
	authFailure      = "failure"
)

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Sessions     usecase.SessionUsecase
	Devices      usecase.DeviceUsecase
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	sessions     usecase.SessionUsecase
	devices      usecase.DeviceUsecase
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		sessions:     params.Sessions,
		devices:      params.Devices,
		metrics:      params.Metrics,
		logger:       params.Logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the account, then opens its first session.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	_, err := srv.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		srv.countAttempt(authTypeRegister, authFailure)

		return nil, domainerrors.ErrUserAlreadyExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to check existing user")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	now := srv.now()
	user := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.countAttempt(authTypeRegister, authFailure)
		if errors.Is(err, repository.ErrUserExists) {
			return nil, domainerrors.ErrUserAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	output, err := srv.issue(ctx, user, input.Client)
	if err != nil {
		return nil, err
	}
	srv.countAttempt(authTypeRegister, authSuccess)
	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return output, nil
}

func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Login for unknown email", slog.String("email", email))
		srv.countAttempt(authTypeLogin, authFailure)

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch", slog.Any("userID", user.ID))
		srv.countAttempt(authTypeLogin, authFailure)

		return nil, domainerrors.ErrInvalidCredentials
	}

	output, err := srv.issue(ctx, user, input.Client)
	if err != nil {
		return nil, err
	}

	if input.RememberMe != nil {
		if err := srv.devices.SetRememberMe(ctx, user.ID.String(), *input.RememberMe); err != nil {
			srv.log(ctx).Warn("Failed to store rememberMe", slog.Any("userID", user.ID), slog.Any("error", err))
		}
	}
	srv.countAttempt(authTypeLogin, authSuccess)

	return output, nil
}

func (srv *authService) Logout(ctx context.Context, sessionID string) error {
	return srv.sessions.End(ctx, sessionID)
}

// issue starts a tracked session, signs a token bound to it and records the client device.
func (srv *authService) issue(ctx context.Context, user *entity.User, client *usecase.DeviceInfo) (*usecase.AuthOutput, error) {
	owner := user.ID.String()

	sessionID, err := srv.sessions.Start(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start session")
	}

	token, err := srv.tokenService.GenerateToken(user.ID, sessionID)
	if err != nil {
		_ = srv.sessions.End(ctx, sessionID)

		return nil, errors.Wrap(err, "failed to generate token")
	}

	if client != nil {
		if _, err := srv.devices.RecordLogin(ctx, owner, *client); err != nil {
			srv.log(ctx).Warn("Failed to record device", slog.String("owner", owner), slog.Any("error", err))
		}
	}

	return &usecase.AuthOutput{
		User:      user.Public(),
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: srv.now().Add(srv.tokenService.TokenTTL()),
	}, nil
}

func (srv *authService) countAttempt(kind, status string) {
	srv.metrics.AuthAttempts.WithLabelValues(kind, status).Inc()
}
