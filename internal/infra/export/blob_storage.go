// Package export stores generated export files in a gocloud blob bucket.
package export

import (
	"context"
	"log/slog"

	"portal/config"
	"portal/internal/domain/service"
	"portal/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// ErrExportNotFound is returned by Read for an unknown key.
var ErrExportNotFound = errors.New("export not found")

type blobStorage struct {
	bucket *blob.Bucket
}

// Params defines the dependencies of NewBlobStorage.
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobStorage opens the bucket named by export.bucketUrl and closes it on shutdown.
func NewBlobStorage(params Params) (service.ExportStorage, error) {
	url := "mem://"
	if params.Config.Export != nil && params.Config.Export.BucketURL != "" {
		url = params.Config.Export.BucketURL
	}

	bucket, err := blob.OpenBucket(params.Ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open export bucket %s", url)
	}
	params.Append(fx.StopHook(bucket.Close))

	params.Logger.Info("Export bucket opened", slog.String("url", url))

	return &blobStorage{bucket: bucket}, nil
}

// NewBucketStorage wraps an already opened bucket.
func NewBucketStorage(bucket *blob.Bucket) service.ExportStorage {
	return &blobStorage{bucket: bucket}
}

func (s *blobStorage) Write(ctx context.Context, key, contentType string, data []byte) (int64, error) {
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return 0, errors.Wrapf(err, "write export %s", key)
	}

	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return 0, errors.Wrapf(err, "stat export %s", key)
	}

	return attrs.Size, nil
}

func (s *blobStorage) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read export %s", key)
	}

	return data, nil
}
