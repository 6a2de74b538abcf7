package impl

import (
	"context"
	"testing"

	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	"portal/internal/domain/service"
	"portal/internal/infra/auth"
	"portal/internal/infra/persistence/document"
	mockRepo "portal/internal/mocks/repository"
	"portal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service  usecase.AuthUsecase
	userRepo *mockRepo.MockUserRepository
	hasher   service.PasswordHasher
	tokens   service.TokenService
	sessions *sessionServiceFixtures
	devices  usecase.DeviceUsecase
}

func createTestAuthService(t *testing.T) *authServiceFixtures {
	t.Helper()

	cfg := newTestConfig()
	cfg.SecretKey.Access = "test-secret"
	cfg.Auth.BcryptCost = 4

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	sessions := createTestSessionService(t)
	devices := NewDeviceService(
		document.NewDeviceRepository(sessions.notifications.store, newDiscardLogger()),
		cfg,
		newDiscardLogger(),
	)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := auth.NewBcryptHasher(cfg)

	svc := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokens,
		Sessions:     sessions.service,
		Devices:      devices,
		Metrics:      sessions.metrics,
		Logger:       newDiscardLogger(),
	})

	return &authServiceFixtures{
		service:  svc,
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		devices:  devices,
	}
}

func (fx *authServiceFixtures) existingUser(t *testing.T, email, password string) *entity.User {
	t.Helper()

	hash, err := fx.hasher.Hash(password)
	require.NoError(t, err)

	return &entity.User{ID: uuid.New(), Email: email, Name: "Jane Doe", PasswordHash: hash}
}

func TestAuthService_RegisterCreatesUserAndSession(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound).Once()
	fx.userRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "jane@example.com" && u.Name == "Jane Doe" && u.PasswordHash != "Secret123"
		})).
		Return(nil).
		Once()

	out, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Jane Doe",
		Email:    "  Jane@Example.com ",
		Password: "Secret123",
		Client:   &usecase.DeviceInfo{UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", Platform: "Win32"},
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", out.User.Email)
	assert.NotEqual(t, uuid.Nil, out.User.ID)
	require.NotEmpty(t, out.Token)

	claims, err := fx.tokens.ValidateToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, out.SessionID, claims.SessionID)

	status, err := fx.sessions.service.Status(ctx, out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID.String(), status.Owner)

	devices, err := fx.devices.List(ctx, out.User.ID.String())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Windows Device", devices[0].Name)
	assert.True(t, devices[0].IsCurrentDevice)

	assert.InDelta(t, 1, testutil.ToFloat64(fx.sessions.metrics.AuthAttempts.WithLabelValues("register", "success")), 0)
}

func TestAuthService_RegisterRejectsExistingEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "jane@example.com").
		Return(fx.existingUser(t, "jane@example.com", "Secret123"), nil).
		Once()

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "jane@example.com", Password: "Secret123"})
	require.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	assert.Empty(t, fx.sessions.service.ActiveOwners())
}

func TestAuthService_RegisterLosesCreateRace(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound).Once()
	fx.userRepo.EXPECT().Create(ctx, mock.Anything).Return(repository.ErrUserExists).Once()

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "jane@example.com", Password: "Secret123"})
	require.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_RegisterStorageFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(nil, errors.New("connection reset")).Once()

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "jane@example.com", Password: "Secret123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAuthService_LoginSucceedsAndStoresRememberMe(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := fx.existingUser(t, "jane@example.com", "Secret123")

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(user, nil).Once()

	remember := true
	out, err := fx.service.Login(ctx, usecase.LoginInput{Email: "Jane@example.com", Password: "Secret123", RememberMe: &remember})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	assert.False(t, out.ExpiresAt.IsZero())

	stored, err := fx.devices.GetRememberMe(ctx, user.ID.String())
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := fx.existingUser(t, "jane@example.com", "Secret123")

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(user, nil).Once()
	fx.userRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Once()

	_, wrongPassword := fx.service.Login(ctx, usecase.LoginInput{Email: "jane@example.com", Password: "nope"})
	_, unknownEmail := fx.service.Login(ctx, usecase.LoginInput{Email: "ghost@example.com", Password: "Secret123"})

	require.ErrorIs(t, wrongPassword, domainerrors.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Empty(t, fx.sessions.service.ActiveOwners())
	assert.InDelta(t, 2, testutil.ToFloat64(fx.sessions.metrics.AuthAttempts.WithLabelValues("login", "failure")), 0)
}

func TestAuthService_LogoutEndsSession(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := fx.existingUser(t, "jane@example.com", "Secret123")

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(user, nil).Once()

	out, err := fx.service.Login(ctx, usecase.LoginInput{Email: "jane@example.com", Password: "Secret123"})
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(ctx, out.SessionID))
	require.ErrorIs(t, fx.sessions.service.Touch(ctx, out.SessionID), domainerrors.ErrSessionNotFound)
}
