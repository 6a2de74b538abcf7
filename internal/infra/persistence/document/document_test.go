package document

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/infra/persistence/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "7b0c3f5e-0d1c-4c61-9d1b-2a8e6f1f9a10"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotificationRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(memory.NewStore(), testLogger())

	list, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	want := []*entity.Notification{
		{ID: "b", Timestamp: ts, Type: entity.NotificationTypeSuccess, Title: "Profile Updated"},
		{ID: "a", Timestamp: ts.Add(-time.Minute), Read: true, Type: entity.NotificationTypeInfo, Title: "Welcome"},
	}
	require.NoError(t, repo.Save(ctx, owner, want))

	got, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNotificationRepository_CorruptListReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewNotificationRepository(store, testLogger())

	require.NoError(t, store.Put(ctx, owner, KeyNotifications, []byte(`{not json`)))

	got, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNotificationRepository_LegacyArrayIsAccepted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewNotificationRepository(store, testLogger())

	legacy := `[{"id":"1","timestamp":"2024-05-01T10:00:00Z","read":false,"type":"info","title":"t","message":"m"}]`
	require.NoError(t, store.Put(ctx, owner, KeyNotifications, []byte(legacy)))

	got, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "m", got[0].Message)
}

func TestNotificationRepository_InvalidElementsAreDropped(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewNotificationRepository(store, testLogger())

	doc := `{"v":1,"data":[
		{"id":"ok","timestamp":"2024-05-01T10:00:00Z","type":"warning","title":"t"},
		{"id":"","timestamp":"2024-05-01T10:00:00Z","type":"info"},
		{"id":"bad-type","timestamp":"2024-05-01T10:00:00Z","type":"urgent"},
		"not an object"
	]}`
	require.NoError(t, store.Put(ctx, owner, KeyNotifications, []byte(doc)))

	got, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestNotificationRepository_UnknownVersionReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewNotificationRepository(store, testLogger())

	require.NoError(t, store.Put(ctx, owner, KeyNotifications, []byte(`{"v":7,"data":[]}`)))

	got, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNotificationRepository_Owners(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(memory.NewStore(), testLogger())

	owners, err := repo.Owners(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)

	require.NoError(t, repo.Save(ctx, "bob", []*entity.Notification{{ID: "1", Type: entity.NotificationTypeInfo, Title: "Hi"}}))
	require.NoError(t, repo.Save(ctx, "alice", nil))
	// Preferences alone do not make an owner.
	require.NoError(t, repo.SavePreferences(ctx, "carol", entity.DefaultPreferences()))

	owners, err = repo.Owners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, owners)
}

func TestNotificationRepository_Preferences(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewNotificationRepository(store, testLogger())

	prefs, err := repo.GetPreferences(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPreferences(), prefs)

	// A partial legacy document merges over the defaults.
	require.NoError(t, store.Put(ctx, owner, KeyPreferences, []byte(`{"sms":true,"sound":false}`)))
	prefs, err = repo.GetPreferences(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.Preferences{Email: true, Push: true, SMS: true, Desktop: true, Sound: false}, prefs)

	require.NoError(t, store.Put(ctx, owner, KeyPreferences, []byte(`[]`)))
	prefs, err = repo.GetPreferences(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPreferences(), prefs)

	updated := entity.Preferences{Email: false, Push: true, SMS: true, Desktop: false, Sound: true}
	require.NoError(t, repo.SavePreferences(ctx, owner, updated))
	prefs, err = repo.GetPreferences(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, updated, prefs)
}

func TestNotificationRepository_DesktopPermission(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewNotificationRepository(store, testLogger())

	perm, err := repo.GetDesktopPermission(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.DesktopPermissionDefault, perm)

	require.NoError(t, repo.SaveDesktopPermission(ctx, owner, entity.DesktopPermissionGranted))
	perm, err = repo.GetDesktopPermission(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.DesktopPermissionGranted, perm)

	require.NoError(t, store.Put(ctx, owner, KeyDesktopPermission, []byte(`{"v":1,"data":"maybe"}`)))
	perm, err = repo.GetDesktopPermission(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.DesktopPermissionDefault, perm)
}

func TestDeviceRepository_ListAndRememberMe(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewDeviceRepository(store, testLogger())

	devices, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, devices)

	want := []*entity.Device{{ID: "d1", Name: "Mac Device", Browser: "Mozilla/5.0", IsCurrentDevice: true}}
	require.NoError(t, repo.Save(ctx, owner, want))
	devices, err = repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, want, devices)

	flag, err := repo.GetRememberMe(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, flag)

	require.NoError(t, repo.SetRememberMe(ctx, owner, "true"))
	raw, err := store.Get(ctx, owner, KeyRememberMe)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	flag, err = repo.GetRememberMe(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "true", flag)
}

func TestUserRepository_CreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memory.NewStore(), testLogger())

	user := &entity.User{
		ID:           uuid.New(),
		Email:        "  Jane@Example.com ",
		Name:         "Jane Doe",
		PasswordHash: "$2a$10$hash",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "jane@example.com", user.Email)

	dup := &entity.User{ID: uuid.New(), Email: "JANE@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrUserExists)

	byEmail, err := repo.FindByEmail(ctx, "jane@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", byID.Name)

	byID.Name = "Jane Smith"
	require.NoError(t, repo.Update(ctx, byID))
	again, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", again.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
