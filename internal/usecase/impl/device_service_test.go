package impl

import (
	"context"
	"testing"
	"time"

	"portal/internal/infra/persistence/document"
	"portal/internal/infra/persistence/memory"
	"portal/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

// deviceServiceFixtures holds all test dependencies for device service tests.
type deviceServiceFixtures struct {
	service usecase.DeviceUsecase
	store   *memory.Store
}

func createTestDeviceService(t *testing.T) deviceServiceFixtures {
	t.Helper()

	store := memory.NewStore()
	svc := NewDeviceService(document.NewDeviceRepository(store, newDiscardLogger()), newTestConfig(), newDiscardLogger())

	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.(*deviceService).now = func() time.Time {
		now = now.Add(time.Minute)

		return now
	}

	return deviceServiceFixtures{service: svc, store: store}
}

func TestDeviceService_RecordLoginMarksOnlyNewestCurrent(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	first, err := fx.service.RecordLogin(ctx, testOwner, usecase.DeviceInfo{UserAgent: uaWindows, Platform: "Win32"})
	require.NoError(t, err)
	second, err := fx.service.RecordLogin(ctx, testOwner, usecase.DeviceInfo{UserAgent: uaIPhone, Platform: "iPhone"})
	require.NoError(t, err)

	devices, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, first.ID, devices[0].ID)
	assert.False(t, devices[0].IsCurrentDevice)
	assert.Equal(t, "Windows Device", devices[0].Name)

	assert.Equal(t, second.ID, devices[1].ID)
	assert.True(t, devices[1].IsCurrentDevice)
	assert.Equal(t, "iOS Device", devices[1].Name)
	assert.Equal(t, uaIPhone, devices[1].Browser)
}

func TestDeviceService_RecordLoginKeepsLastFive(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	var ids []string
	for range 7 {
		d, err := fx.service.RecordLogin(ctx, testOwner, usecase.DeviceInfo{UserAgent: uaAndroid})
		require.NoError(t, err)
		ids = append(ids, d.ID)
	}

	devices, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, devices, 5)

	current := 0
	for i, d := range devices {
		assert.Equal(t, ids[i+2], d.ID)
		assert.Equal(t, "Android Device", d.Name)
		if d.IsCurrentDevice {
			current++
		}
	}
	assert.Equal(t, 1, current)
	assert.True(t, devices[4].IsCurrentDevice)
}

func TestDeviceService_PlatformFallsBackToUserAgent(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	cases := map[string]string{
		uaWindows:    "Windows Device",
		uaMac:        "Mac Device",
		"curl/8.4.0": "Unknown Device",
		"":           "Unknown Device",
		uaIPhone:     "iOS Device",
	}

	for ua, want := range cases {
		d, err := fx.service.RecordLogin(ctx, testOwner, usecase.DeviceInfo{UserAgent: ua})
		require.NoError(t, err)
		assert.Equal(t, want, d.Name, "user agent %q", ua)
	}
}

func TestDeviceService_RemoveUnknownLeavesListUnchanged(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	a, err := fx.service.RecordLogin(ctx, testOwner, usecase.DeviceInfo{UserAgent: uaWindows, Platform: "Win32"})
	require.NoError(t, err)
	_, err = fx.service.RecordLogin(ctx, testOwner, usecase.DeviceInfo{UserAgent: uaMac, Platform: "MacIntel"})
	require.NoError(t, err)

	require.NoError(t, fx.service.Remove(ctx, testOwner, "missing"))
	devices, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	require.NoError(t, fx.service.Remove(ctx, testOwner, a.ID))
	devices, err = fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Mac Device", devices[0].Name)
}

func TestDeviceService_CorruptListReadsEmpty(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	require.NoError(t, fx.store.Put(ctx, testOwner, document.KeyDevices, []byte(`{"v":1,"data":"nope"}`)))

	devices, err := fx.service.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestDeviceService_RememberMe(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	remember, err := fx.service.GetRememberMe(ctx, testOwner)
	require.NoError(t, err)
	assert.False(t, remember)

	require.NoError(t, fx.service.SetRememberMe(ctx, testOwner, true))
	raw, err := fx.store.Get(ctx, testOwner, document.KeyRememberMe)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	remember, err = fx.service.GetRememberMe(ctx, testOwner)
	require.NoError(t, err)
	assert.True(t, remember)

	// Anything but the exact string reads as false.
	require.NoError(t, fx.store.Put(ctx, testOwner, document.KeyRememberMe, []byte("TRUE")))
	remember, err = fx.service.GetRememberMe(ctx, testOwner)
	require.NoError(t, err)
	assert.False(t, remember)
}
