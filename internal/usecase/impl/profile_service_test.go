package impl

import (
	"context"
	"testing"

	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	mockRepo "portal/internal/mocks/repository"
	"portal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileServiceFixtures holds all test dependencies for profile service tests.
type profileServiceFixtures struct {
	service       usecase.ProfileUsecase
	userRepo      *mockRepo.MockUserRepository
	notifications *notificationServiceFixtures
	userID        uuid.UUID
}

func createTestProfileService(t *testing.T) *profileServiceFixtures {
	t.Helper()

	notifications := createTestNotificationService(t)
	userID := uuid.New()

	off := false
	_, err := notifications.service.UpdatePreferences(context.Background(), userID.String(), entity.PreferencesPatch{Desktop: &off})
	require.NoError(t, err)

	userRepo := mockRepo.NewMockUserRepository(t)

	return &profileServiceFixtures{
		service:       NewProfileService(userRepo, notifications.service, newDiscardLogger()),
		userRepo:      userRepo,
		notifications: notifications,
		userID:        userID,
	}
}

func (fx *profileServiceFixtures) user() *entity.User {
	return &entity.User{ID: fx.userID, Email: "jane@example.com", Name: "Jane", PasswordHash: "$2a$04$hash"}
}

func TestProfileService_GetProfileStripsCredentials(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, fx.userID).Return(fx.user(), nil).Once()

	profile, err := fx.service.GetProfile(ctx, fx.userID)
	require.NoError(t, err)
	assert.Equal(t, entity.PublicUser{ID: fx.userID, Email: "jane@example.com", Name: "Jane"}, *profile)
}

func TestProfileService_GetProfileUnknownUser(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, fx.userID).Return(nil, repository.ErrUserNotFound).Once()

	_, err := fx.service.GetProfile(ctx, fx.userID)
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestProfileService_UpdateProfileAddsSuccessNotification(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, fx.userID).Return(fx.user(), nil).Once()
	fx.userRepo.EXPECT().
		Update(ctx, mock.MatchedBy(func(u *entity.User) bool { return u.Name == "Jane Doe" })).
		Return(nil).
		Once()

	profile, err := fx.service.UpdateProfile(ctx, fx.userID, usecase.UpdateProfileInput{Name: " Jane Doe "})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)

	list, err := fx.notifications.service.List(ctx, fx.userID.String())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.NotificationTypeSuccess, list[0].Type)
	assert.Equal(t, "Profile Updated", list[0].Title)
	assert.Equal(t, "Your profile has been updated successfully.", list[0].Message)
}

func TestProfileService_UpdateProfileFailureAddsErrorNotification(t *testing.T) {
	fx := createTestProfileService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, fx.userID).Return(fx.user(), nil).Once()
	fx.userRepo.EXPECT().Update(ctx, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := fx.service.UpdateProfile(ctx, fx.userID, usecase.UpdateProfileInput{Name: "Jane Doe"})
	require.ErrorIs(t, err, domainerrors.ErrUserUpdateFailed)

	list, err := fx.notifications.service.List(ctx, fx.userID.String())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.NotificationTypeError, list[0].Type)
	assert.Equal(t, "Update Failed", list[0].Title)
	assert.Equal(t, "Failed to update profile. Please try again.", list[0].Message)
}
