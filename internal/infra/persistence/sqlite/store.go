// Package sqlite implements repository.DocumentStore on a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"portal/internal/domain/repository"
	"portal/internal/errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, key)
);
CREATE INDEX IF NOT EXISTS idx_documents_key ON documents (key);
`

// Store is a DocumentStore backed by database/sql and the pure-Go SQLite driver.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ repository.DocumentStore = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// SQLite serializes writers; a single connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "ping sqlite database")
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "apply sqlite schema")
	}

	logger.Info("SQLite document store ready", slog.String("path", path))

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE namespace = ? AND key = ?`, namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select document")
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		namespace, key, value,
	)

	return errors.Wrap(err, "upsert document")
}

func (s *Store) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE namespace = ? AND key = ?`, namespace, key)

	return errors.Wrap(err, "delete document")
}

func (s *Store) Namespaces(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT namespace FROM documents WHERE key = ? ORDER BY namespace`, key)
	if err != nil {
		return nil, errors.Wrap(err, "list namespaces")
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var namespace string
		if err := rows.Scan(&namespace); err != nil {
			return nil, errors.Wrap(err, "scan namespace")
		}
		out = append(out, namespace)
	}

	return out, errors.Wrap(rows.Err(), "iterate namespaces")
}
