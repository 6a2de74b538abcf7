package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/errors"
	"portal/internal/usecase"
	"portal/internal/util"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

type deviceService struct {
	repo       repository.DeviceRepository
	locks      *util.KeyedMutex
	maxEntries int
	logger     *slog.Logger
	now        func() time.Time
}

// NewDeviceService creates a new device service instance
func NewDeviceService(repo repository.DeviceRepository, cfg *config.Config, logger *slog.Logger) usecase.DeviceUsecase {
	return &deviceService{
		repo:       repo,
		locks:      util.NewKeyedMutex(),
		maxEntries: cfg.Device.MaxEntries,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (srv *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecordLogin marks the new record as the only current device and keeps the newest records.
func (srv *deviceService) RecordLogin(ctx context.Context, owner string, info usecase.DeviceInfo) (*entity.Device, error) {
	platform := info.Platform
	if platform == "" {
		platform = platformFromUserAgent(info.UserAgent)
	}

	device := &entity.Device{
		ID:              uuid.NewString(),
		Name:            entity.DeviceName(info.UserAgent, platform),
		LastLogin:       srv.now(),
		Browser:         info.UserAgent,
		IsCurrentDevice: true,
	}

	unlock := srv.locks.Lock(owner)
	defer unlock()

	devices, err := srv.repo.List(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load devices")
	}

	for _, d := range devices {
		d.IsCurrentDevice = false
	}
	devices = append(devices, device)
	if len(devices) > srv.maxEntries {
		devices = devices[len(devices)-srv.maxEntries:]
	}

	if err := srv.repo.Save(ctx, owner, devices); err != nil {
		return nil, errors.Wrap(err, "failed to save devices")
	}

	srv.log(ctx).Debug("Device recorded", slog.String("owner", owner), slog.String("device", device.Name))

	return device, nil
}

func (srv *deviceService) List(ctx context.Context, owner string) ([]*entity.Device, error) {
	devices, err := srv.repo.List(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	return devices, nil
}

func (srv *deviceService) Remove(ctx context.Context, owner, id string) error {
	unlock := srv.locks.Lock(owner)
	defer unlock()

	devices, err := srv.repo.List(ctx, owner)
	if err != nil {
		return errors.Wrap(err, "failed to load devices")
	}

	kept := devices[:0]
	for _, d := range devices {
		if d.ID != id {
			kept = append(kept, d)
		}
	}

	return errors.Wrap(srv.repo.Save(ctx, owner, kept), "failed to save devices")
}

func (srv *deviceService) SetRememberMe(ctx context.Context, owner string, remember bool) error {
	return errors.Wrap(srv.repo.SetRememberMe(ctx, owner, strconv.FormatBool(remember)), "failed to save rememberMe")
}

// GetRememberMe is true only when the stored flag is exactly "true".
func (srv *deviceService) GetRememberMe(ctx context.Context, owner string) (bool, error) {
	raw, err := srv.repo.GetRememberMe(ctx, owner)
	if err != nil {
		return false, errors.Wrap(err, "failed to read rememberMe")
	}

	return raw == "true", nil
}

// platformFromUserAgent maps the parsed OS onto a navigator.platform style value.
func platformFromUserAgent(userAgent string) string {
	ua := useragent.Parse(userAgent)

	switch {
	case ua.IsWindows():
		return "Win32"
	case ua.IsMacOS():
		return "MacIntel"
	case ua.IsLinux(), ua.IsAndroid():
		return "Linux"
	default:
		return ua.OS
	}
}
