// Package redis implements repository.DocumentStore on Redis, for deployments with several
// portal processes sharing state.
package redis

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"portal/internal/domain/repository"
	"portal/internal/errors"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Store keeps each document under "<prefix>:<namespace>:<key>" and tracks, per key,
// the set of namespaces holding it under "<prefix>:index:<key>".
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

var _ repository.DocumentStore = (*Store)(nil)

// Open parses a redis:// URL, connects and pings the server.
func Open(ctx context.Context, url, prefix string, logger *slog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrap(err, "ping redis")
	}

	logger.Info("Redis document store ready", slog.String("addr", opts.Addr), slog.String("prefix", prefix))

	return NewStore(client, prefix, logger), nil
}

// NewStore wraps an existing client.
func NewStore(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	return &Store{client: client, prefix: strings.TrimSuffix(prefix, ":"), logger: logger}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) docKey(namespace, key string) string {
	return s.prefix + ":" + namespace + ":" + key
}

func (s *Store) indexKey(key string) string {
	return s.prefix + ":index:" + key
}

func (s *Store) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.docKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(namespace, key), value, 0)
		pipe.SAdd(ctx, s.indexKey(key), namespace)

		return nil
	})

	return errors.Wrap(err, "redis put")
}

func (s *Store) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.docKey(namespace, key))
		pipe.SRem(ctx, s.indexKey(key), namespace)

		return nil
	})

	return errors.Wrap(err, "redis delete")
}

func (s *Store) Namespaces(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey(key)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis smembers")
	}
	slices.Sort(members)

	return members, nil
}
