package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"doubao-mcp/internal/common"
)

// NewStorage picks S3 when it is configured and local files otherwise.
func NewStorage(ctx context.Context, config *common.Config) (Storage, error) {
	if config.S3Enabled {
		log.Info().Str("endpoint", config.S3Endpoint).Str("bucket", config.S3Bucket).Msg("Initializing S3 image source")
		stor, err := NewS3Storage(ctx, S3Config{
			Endpoint:        config.S3Endpoint,
			AccessKeyID:     config.S3AccessKeyID,
			SecretAccessKey: config.S3SecretAccessKey,
			Region:          config.S3Region,
			Bucket:          config.S3Bucket,
			UseSSL:          config.S3UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		return stor, nil
	}

	log.Info().Str("directory", config.ImageDir).Msg("Initializing local image source")
	return NewLocalStorage(config.ImageDir), nil
}

// Resolver reads an input image from an absolute path, the configured
// backend, or a path relative to the working directory, in that order. A
// relative path falls through to the working directory on any remote error.
type Resolver struct {
	backend Storage
	local   *LocalStorage
}

func NewResolver(backend Storage) *Resolver {
	if backend == nil {
		backend = NewLocalStorage("")
	}
	return &Resolver{backend: backend, local: NewLocalStorage("")}
}

func (r *Resolver) Read(ctx context.Context, path string) (*Object, error) {
	if filepath.IsAbs(path) {
		return r.local.Read(ctx, path)
	}

	obj, err := r.backend.Read(ctx, path)
	if err == nil {
		return obj, nil
	}
	if !r.backend.IsRemote() {
		return nil, err
	}

	// Not readable from the bucket, either missing or the bucket is down;
	// a file relative to the working directory still wins.
	if localObj, localErr := r.local.Read(ctx, path); localErr == nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("path", path).Msg("S3 read failed, using local file")
		}
		return localObj, nil
	}
	return nil, err
}
