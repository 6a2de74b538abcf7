package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"portal/config"
	"portal/internal/infra/metrics"
	"portal/internal/infra/persistence/document"
	"portal/internal/infra/persistence/memory"
	mockService "portal/internal/mocks/service"
	"portal/internal/usecase"
)

const testOwner = "0f8fad5b-d9cb-469f-a165-70867728950e"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Session: &config.SessionConfig{Timeout: 30 * time.Second, Warning: 10 * time.Second},
		QRCode:  &config.QRCodeConfig{BaseURL: "https://portal.example.com/quotes"},
	}
	cfg.ApplyDefaults()

	return cfg
}

// notificationServiceFixtures holds all test dependencies for notification service tests.
type notificationServiceFixtures struct {
	service   usecase.NotificationUsecase
	impl      *notificationService
	store     *memory.Store
	notifier  *mockService.MockDesktopNotifier
	publisher *mockService.MockEventPublisher
	metrics   *metrics.Metrics
	now       time.Time
}

func createTestNotificationService(t *testing.T) *notificationServiceFixtures {
	t.Helper()

	store := memory.NewStore()
	notifier := mockService.NewMockDesktopNotifier(t)
	publisher := mockService.NewMockEventPublisher(t)
	m := metrics.New()

	svc := NewNotificationService(NotificationServiceParams{
		Repo:      document.NewNotificationRepository(store, newDiscardLogger()),
		Notifier:  notifier,
		Publisher: publisher,
		Metrics:   m,
		Config:    newTestConfig(),
		Logger:    newDiscardLogger(),
	})

	fx := &notificationServiceFixtures{
		service:   svc,
		impl:      svc.(*notificationService),
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
		now:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	// Each added notification is one millisecond newer than the previous one.
	fx.impl.now = func() time.Time {
		fx.now = fx.now.Add(time.Millisecond)

		return fx.now
	}

	return fx
}
