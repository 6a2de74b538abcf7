package impl

import (
	"context"
	"fmt"
	"testing"
	"time"

	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/service"
	"portal/internal/infra/metrics"
	"portal/internal/infra/persistence/document"
	mockService "portal/internal/mocks/service"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func disableDesktop(t *testing.T, fx *notificationServiceFixtures) {
	t.Helper()

	off := false
	_, err := fx.service.UpdatePreferences(context.Background(), testOwner, entity.PreferencesPatch{Desktop: &off})
	require.NoError(t, err)
}

func info(title string) entity.NotificationDraft {
	return entity.NotificationDraft{Type: entity.NotificationTypeInfo, Title: title, Message: title + " body"}
}

func TestNotificationService_AddPrependsUnread(t *testing.T) {
	fx := createTestNotificationService(t)
	disableDesktop(t, fx)
	ctx := context.Background()

	first, err := fx.service.Add(ctx, testOwner, info("first"))
	require.NoError(t, err)
	second, err := fx.service.Add(ctx, testOwner, info("second"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, second.Read)
	assert.True(t, second.Timestamp.After(first.Timestamp))

	list, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)
	assert.InDelta(t, 2, testutil.ToFloat64(fx.metrics.NotificationsAdded.WithLabelValues("info")), 0)
}

func TestNotificationService_AddKeepsNewestFifty(t *testing.T) {
	fx := createTestNotificationService(t)
	disableDesktop(t, fx)
	ctx := context.Background()

	for i := range 51 {
		_, err := fx.service.Add(ctx, testOwner, info(fmt.Sprintf("n%d", i)))
		require.NoError(t, err)
	}

	list, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, list, 50)
	assert.Equal(t, "n50", list[0].Title)
	assert.Equal(t, "n1", list[49].Title)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Timestamp.After(list[i-1].Timestamp), "list must be newest first")
	}
}

func TestNotificationService_AddRejectsUnknownType(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()

	_, err := fx.service.Add(ctx, testOwner, entity.NotificationDraft{Type: "urgent", Title: "x"})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	list, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationService_ReadStateAndRemoval(t *testing.T) {
	fx := createTestNotificationService(t)
	disableDesktop(t, fx)
	ctx := context.Background()

	a, err := fx.service.Add(ctx, testOwner, info("a"))
	require.NoError(t, err)
	_, err = fx.service.Add(ctx, testOwner, info("b"))
	require.NoError(t, err)
	c, err := fx.service.Add(ctx, testOwner, info("c"))
	require.NoError(t, err)

	require.NoError(t, fx.service.MarkRead(ctx, testOwner, a.ID))
	require.NoError(t, fx.service.MarkRead(ctx, testOwner, "does-not-exist"))

	unread, err := fx.service.UnreadCount(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, fx.service.Remove(ctx, testOwner, c.ID))
	require.NoError(t, fx.service.Remove(ctx, testOwner, "does-not-exist"))

	list, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Title)
	assert.True(t, list[1].Read)

	require.NoError(t, fx.service.MarkAllRead(ctx, testOwner))
	unread, err = fx.service.UnreadCount(ctx, testOwner)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, fx.service.Clear(ctx, testOwner))
	list, err = fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationService_SameInstantKeepsInsertionOrder(t *testing.T) {
	fx := createTestNotificationService(t)
	disableDesktop(t, fx)
	ctx := context.Background()

	instant := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fx.impl.now = func() time.Time { return instant }

	ids := map[string]string{}
	for _, title := range []string{"A", "B", "C"} {
		n, err := fx.service.Add(ctx, testOwner, info(title))
		require.NoError(t, err)
		ids[title] = n.ID
	}

	require.NoError(t, fx.service.MarkRead(ctx, testOwner, ids["B"]))

	list, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	read := make([]bool, 0, len(list))
	for _, n := range list {
		titles = append(titles, n.Title)
		read = append(read, n.Read)
	}
	assert.Equal(t, []string{"C", "B", "A"}, titles)
	assert.Equal(t, []bool{false, true, false}, read)

	// Removing an unknown id and repeating mark-all-read leave the stored document untouched.
	require.NoError(t, fx.service.MarkAllRead(ctx, testOwner))
	once, err := fx.store.Get(ctx, testOwner, document.KeyNotifications)
	require.NoError(t, err)

	require.NoError(t, fx.service.Remove(ctx, testOwner, "does-not-exist"))
	require.NoError(t, fx.service.MarkAllRead(ctx, testOwner))
	twice, err := fx.store.Get(ctx, testOwner, document.KeyNotifications)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestNotificationService_CorruptStoreReadsEmpty(t *testing.T) {
	fx := createTestNotificationService(t)
	disableDesktop(t, fx)
	ctx := context.Background()

	require.NoError(t, fx.store.Put(ctx, testOwner, document.KeyNotifications, []byte("[{broken")))

	list, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The next write starts over from an empty list.
	_, err = fx.service.Add(ctx, testOwner, info("fresh"))
	require.NoError(t, err)
	list, err = fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestNotificationService_UpdatePreferencesMerges(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()

	prefs, err := fx.service.GetPreferences(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPreferences(), prefs)

	on := true
	updated, err := fx.service.UpdatePreferences(ctx, testOwner, entity.PreferencesPatch{SMS: &on})
	require.NoError(t, err)

	want := entity.DefaultPreferences()
	want.SMS = true
	assert.Equal(t, want, updated)

	stored, err := fx.service.GetPreferences(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, want, stored)
}

func TestNotificationService_DesktopDisabledSkipsGate(t *testing.T) {
	fx := createTestNotificationService(t)
	disableDesktop(t, fx)

	_, err := fx.service.Add(context.Background(), testOwner, info("quiet"))
	require.NoError(t, err)

	fx.notifier.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.Zero(t, fx.impl.gate.Pending(testOwner))
}

func TestNotificationService_DesktopGrantedDeliversImmediately(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()
	require.NoError(t, fx.service.SetDesktopPermission(ctx, testOwner, entity.DesktopPermissionGranted))

	fx.notifier.EXPECT().
		Deliver(mock.Anything, testOwner, mock.AnythingOfType("*entity.Notification")).
		Return(nil).
		Once()

	n, err := fx.service.Add(ctx, testOwner, info("hello"))
	require.NoError(t, err)
	assert.NotNil(t, n)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.DesktopDeliveries.WithLabelValues(metrics.OutcomeDelivered)), 0)
}

func TestNotificationService_DesktopFailureDoesNotFailAdd(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()
	require.NoError(t, fx.service.SetDesktopPermission(ctx, testOwner, entity.DesktopPermissionGranted))

	fx.notifier.EXPECT().
		Deliver(mock.Anything, testOwner, mock.Anything).
		Return(errors.New("fcm unavailable")).
		Once()

	_, err := fx.service.Add(ctx, testOwner, info("still stored"))
	require.NoError(t, err)

	list, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.DesktopDeliveries.WithLabelValues(metrics.OutcomeFailed)), 0)
}

func TestNotificationService_DesktopDeniedSkips(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()
	require.NoError(t, fx.service.SetDesktopPermission(ctx, testOwner, entity.DesktopPermissionDenied))

	_, err := fx.service.Add(ctx, testOwner, info("hidden"))
	require.NoError(t, err)

	fx.notifier.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.DesktopDeliveries.WithLabelValues(metrics.OutcomeSkipped)), 0)
}

func TestNotificationService_PendingUntilGrantedThenDeliveredOnce(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()

	// Only the first pending notification triggers a permission request.
	fx.publisher.EXPECT().
		Publish(mock.Anything, mockService.EventOfType(service.EventPermissionRequested)).
		Return(nil).
		Once()

	first, err := fx.service.Add(ctx, testOwner, info("one"))
	require.NoError(t, err)
	second, err := fx.service.Add(ctx, testOwner, info("two"))
	require.NoError(t, err)
	assert.Equal(t, 2, fx.impl.gate.Pending(testOwner))
	fx.notifier.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)

	fx.notifier.EXPECT().Deliver(mock.Anything, testOwner, first).Return(nil).Once()
	fx.notifier.EXPECT().Deliver(mock.Anything, testOwner, second).Return(nil).Once()

	require.NoError(t, fx.service.SetDesktopPermission(ctx, testOwner, entity.DesktopPermissionGranted))
	assert.Zero(t, fx.impl.gate.Pending(testOwner))

	// A repeated answer has nothing left to deliver.
	require.NoError(t, fx.service.SetDesktopPermission(ctx, testOwner, entity.DesktopPermissionGranted))
	fx.notifier.AssertNumberOfCalls(t, "Deliver", 2)

	perm, err := fx.service.GetDesktopPermission(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, entity.DesktopPermissionGranted, perm)
}

func TestNotificationService_DeniedAnswerDropsPending(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()

	fx.publisher.EXPECT().
		Publish(mock.Anything, mockService.EventOfType(service.EventPermissionRequested)).
		Return(errors.New("broker down")).
		Once()

	_, err := fx.service.Add(ctx, testOwner, info("waiting"))
	require.NoError(t, err)
	require.Equal(t, 1, fx.impl.gate.Pending(testOwner))

	require.NoError(t, fx.service.SetDesktopPermission(ctx, testOwner, entity.DesktopPermissionDenied))
	assert.Zero(t, fx.impl.gate.Pending(testOwner))
	fx.notifier.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_SetDesktopPermissionRejectsUnknown(t *testing.T) {
	fx := createTestNotificationService(t)

	err := fx.service.SetDesktopPermission(context.Background(), testOwner, "maybe")
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestNotificationService_OwnersAreIsolated(t *testing.T) {
	fx := createTestNotificationService(t)
	ctx := context.Background()
	other := "other-owner"

	off := false
	for _, owner := range []string{testOwner, other} {
		_, err := fx.service.UpdatePreferences(ctx, owner, entity.PreferencesPatch{Desktop: &off})
		require.NoError(t, err)
	}

	_, err := fx.service.Add(ctx, testOwner, info("mine"))
	require.NoError(t, err)

	list, err := fx.service.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)
}
