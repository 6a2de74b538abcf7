package service

import "context"

// ExportStorage persists generated export files.
type ExportStorage interface {
	// Write stores data under key and returns the stored size in bytes.
	Write(ctx context.Context, key, contentType string, data []byte) (int64, error)

	// Read returns a previously written export.
	Read(ctx context.Context, key string) ([]byte, error)
}
