package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// S3Storage reads input images from an S3/MinIO bucket.
type S3Storage struct {
	client *minio.Client
	bucket string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// parseEndpoint extracts host:port from an endpoint that may include a scheme.
// An explicit scheme wins over defaultUseSSL.
func parseEndpoint(endpoint string, defaultUseSSL bool) (host string, useSSL bool) {
	useSSL = defaultUseSSL
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return parsed.Host, parsed.Scheme == "https"
	}
	return endpoint, useSSL
}

// NewS3Storage connects to the bucket. The bucket must already exist.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	endpoint, useSSL := parseEndpoint(cfg.Endpoint, cfg.UseSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	log.Info().Str("endpoint", endpoint).Str("bucket", cfg.Bucket).Bool("ssl", useSSL).Msg("S3 image source ready")
	return &S3Storage{client: client, bucket: cfg.Bucket}, nil
}

// Read downloads an object. A missing key maps to ErrNotFound.
func (s *S3Storage) Read(ctx context.Context, key string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	if _, err := obj.Stat(); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return newObject(key, data), nil
}

func (s *S3Storage) Close() error {
	return nil
}

// IsRemote returns true for S3 storage
func (s *S3Storage) IsRemote() bool {
	return true
}
