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
	"portal/internal/errors"
	"portal/internal/usecase"

	"github.com/google/uuid"
)

var (
	profileUpdated = entity.NotificationDraft{
		Type:    entity.NotificationTypeSuccess,
		Title:   "Profile Updated",
		Message: "Your profile has been updated successfully.",
	}
	profileUpdateFailed = entity.NotificationDraft{
		Type:    entity.NotificationTypeError,
		Title:   "Update Failed",
		Message: "Failed to update profile. Please try again.",
	}
)

type profileService struct {
	userRepo      repository.UserRepository
	notifications usecase.NotificationUsecase
	logger        *slog.Logger
	now           func() time.Time
}

// NewProfileService creates a new profile service instance
func NewProfileService(
	userRepo repository.UserRepository,
	notifications usecase.NotificationUsecase,
	logger *slog.Logger,
) usecase.ProfileUsecase {
	return &profileService{
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error) {
	srv.log(ctx).Debug("Getting user profile", slog.Any("userID", userID))

	user, err := srv.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	public := user.Public()

	return &public, nil
}

// UpdateProfile leaves a notification behind either way.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.PublicUser, error) {
	srv.log(ctx).Info("Updating user profile", slog.Any("userID", userID))

	user, err := srv.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.UpdatedAt = srv.now()

	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to update user profile", slog.Any("userID", userID), slog.Any("error", err))
		srv.notify(ctx, userID, profileUpdateFailed)

		return nil, errors.Wrap(domainerrors.ErrUserUpdateFailed, err.Error())
	}
	srv.notify(ctx, userID, profileUpdated)

	public := user.Public()

	return &public, nil
}

func (srv *profileService) find(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

func (srv *profileService) notify(ctx context.Context, userID uuid.UUID, draft entity.NotificationDraft) {
	if _, err := srv.notifications.Add(ctx, userID.String(), draft); err != nil {
		srv.log(ctx).Warn("Failed to add profile notification", slog.Any("userID", userID), slog.Any("error", err))
	}
}
