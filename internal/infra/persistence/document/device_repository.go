package document

import (
	"context"
	"log/slog"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/errors"
)

type deviceRepository struct {
	codec *codec
}

// NewDeviceRepository stores device records and the rememberMe flag in the owner's namespace.
func NewDeviceRepository(store repository.DocumentStore, logger *slog.Logger) repository.DeviceRepository {
	return &deviceRepository{codec: newCodec(store, logger)}
}

func (r *deviceRepository) List(ctx context.Context, owner string) ([]*entity.Device, error) {
	return loadList[entity.Device](ctx, r.codec, owner, KeyDevices)
}

func (r *deviceRepository) Save(ctx context.Context, owner string, devices []*entity.Device) error {
	if devices == nil {
		devices = []*entity.Device{}
	}

	return r.codec.put(ctx, owner, KeyDevices, devices)
}

// GetRememberMe returns the raw stored string. The flag is kept unwrapped, as "true" or "false".
func (r *deviceRepository) GetRememberMe(ctx context.Context, owner string) (string, error) {
	raw, err := r.codec.store.Get(ctx, owner, KeyRememberMe)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "get rememberMe")
	}

	return string(raw), nil
}

func (r *deviceRepository) SetRememberMe(ctx context.Context, owner string, value string) error {
	return errors.Wrap(r.codec.store.Put(ctx, owner, KeyRememberMe, []byte(value)), "put rememberMe")
}
