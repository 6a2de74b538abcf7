// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"github.com/pkg/errors"
)

// ErrDocumentNotFound is returned when no value is stored under a key.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is a small key-value store of opaque documents, partitioned by namespace.
// A namespace is usually the owning user's ID. Writes replace the whole value.
type DocumentStore interface {
	// Get returns the raw value for the key, or ErrDocumentNotFound.
	Get(ctx context.Context, namespace, key string) ([]byte, error)

	// Put stores the value, replacing anything previously stored under the key.
	Put(ctx context.Context, namespace, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// Namespaces lists namespaces that hold at least one document with the given key.
	Namespaces(ctx context.Context, key string) ([]string, error)
}
