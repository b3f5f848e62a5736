package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioConfig holds the connection settings of an S3-compatible bucket
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// MinioSink uploads documents to an S3-compatible bucket
type MinioSink struct {
	client *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewMinioClient creates a minio client from the connection settings
func NewMinioClient(cfg MinioConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client for %s: %w", cfg.Endpoint, err)
	}
	return client, nil
}

// NewMinioSink creates a sink uploading to cfg.Bucket. The bucket must exist.
func NewMinioSink(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*MinioSink, error) {
	client, err := NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	logger.Info("Connected to object storage",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket))

	return &MinioSink{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// Put uploads data as bucket/prefix/name
func (s *MinioSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object := path.Join(s.prefix, name)

	info, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", object, s.bucket, err)
	}

	s.logger.Debug("Document uploaded",
		zap.String("bucket", s.bucket),
		zap.String("object", object),
		zap.String("etag", info.ETag))

	return s.bucket + "/" + object, nil
}
