// Package document maps domain records onto a repository.DocumentStore as versioned JSON
// envelopes and validates them on the way back in.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"portal/internal/domain/repository"
	"portal/internal/errors"

	"github.com/go-playground/validator/v10"
)

const (
	// SchemaVersion is written into every envelope.
	SchemaVersion = 1
	// legacyVersion marks a bare JSON value written before envelopes existed.
	legacyVersion = 0
)

// Storage keys, one document per key inside an owner's namespace.
const (
	KeyNotifications     = "notifications"
	KeyPreferences       = "notificationPreferences"
	KeyDesktopPermission = "desktopPermission"
	KeyDevices           = "devices"
	KeyRememberMe        = "rememberMe"

	// NamespaceUsers holds one document per lower-cased email.
	NamespaceUsers = "users"
	// NamespaceUserIDs maps user IDs back to emails.
	NamespaceUserIDs = "user-ids"
)

var errUnsupportedVersion = errors.New("unsupported document version")

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// codec reads and writes envelopes for the repositories in this package.
type codec struct {
	store    repository.DocumentStore
	validate *validator.Validate
	logger   *slog.Logger
}

func newCodec(store repository.DocumentStore, logger *slog.Logger) *codec {
	return &codec{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document data")
	}

	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "marshal document envelope")
	}

	return raw, nil
}

// unwrap returns the payload of an envelope. A document that is not an envelope but is
// valid JSON is accepted as a legacy value.
func unwrap(raw []byte) (json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, 0, errors.New("empty document")
	}

	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Data != nil {
			if env.Version != SchemaVersion {
				return nil, env.Version, errors.Wrapf(errUnsupportedVersion, "version %d", env.Version)
			}

			return env.Data, env.Version, nil
		}
	}

	if !json.Valid(trimmed) {
		return nil, 0, errors.New("malformed JSON")
	}

	return json.RawMessage(trimmed), legacyVersion, nil
}

func (c *codec) put(ctx context.Context, namespace, key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}

	return errors.Wrapf(c.store.Put(ctx, namespace, key, raw), "put %s", key)
}

// get loads the payload for key. ok is false when the document is missing or unreadable;
// unreadable documents are logged and otherwise treated as missing.
func (c *codec) get(ctx context.Context, namespace, key string) (payload json.RawMessage, ok bool, err error) {
	raw, err := c.store.Get(ctx, namespace, key)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %s", key)
	}

	payload, _, err = unwrap(raw)
	if err != nil {
		c.corrupt(ctx, namespace, key, err)

		return nil, false, nil
	}

	return payload, true, nil
}

// loadList decodes a JSON array of records, dropping elements that fail validation.
func loadList[T any](ctx context.Context, c *codec, namespace, key string) ([]*T, error) {
	payload, ok, err := c.get(ctx, namespace, key)
	if err != nil || !ok {
		return []*T{}, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		c.corrupt(ctx, namespace, key, err)

		return []*T{}, nil
	}

	out := make([]*T, 0, len(items))
	for i, item := range items {
		rec := new(T)
		if err := json.Unmarshal(item, rec); err != nil {
			c.dropped(ctx, namespace, key, i, err)

			continue
		}
		if err := c.validate.StructCtx(ctx, rec); err != nil {
			c.dropped(ctx, namespace, key, i, err)

			continue
		}
		out = append(out, rec)
	}

	return out, nil
}

// loadValue decodes a single record. ok is false when it is missing or invalid.
func loadValue[T any](ctx context.Context, c *codec, namespace, key string) (value T, ok bool, err error) {
	payload, found, err := c.get(ctx, namespace, key)
	if err != nil || !found {
		return value, false, err
	}

	if err := json.Unmarshal(payload, &value); err != nil {
		c.corrupt(ctx, namespace, key, err)

		return value, false, nil
	}

	return value, true, nil
}

func (c *codec) corrupt(ctx context.Context, namespace, key string, err error) {
	c.logger.WarnContext(ctx, "Unreadable document, using default",
		slog.String("namespace", namespace),
		slog.String("key", key),
		slog.Any("error", err),
	)
}

func (c *codec) dropped(ctx context.Context, namespace, key string, index int, err error) {
	c.logger.WarnContext(ctx, "Dropping invalid record",
		slog.String("namespace", namespace),
		slog.String("key", key),
		slog.Int("index", index),
		slog.Any("error", err),
	)
}
