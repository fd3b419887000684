package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
)

// MinioBackend talks to any S3-compatible endpoint through minio-go.
type MinioBackend struct {
	client *minio.Client
	cfg    config.StorageConfig
	base   string
}

func NewMinioBackend(cfg config.StorageConfig) (*MinioBackend, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinioBackend{
		client: client,
		cfg:    cfg,
		base:   fmt.Sprintf("%s://%s", scheme, endpoint),
	}, nil
}

func (b *MinioBackend) Name() string { return "minio" }

// EnsureBucket creates the upload bucket when it does not exist yet.
func (b *MinioBackend) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", b.cfg.Bucket, err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.cfg.Bucket, minio.MakeBucketOptions{Region: b.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", b.cfg.Bucket, err)
		}
	}
	return nil
}

func (b *MinioBackend) Put(ctx context.Context, obj Object) (string, error) {
	_, err := b.client.PutObject(ctx, b.cfg.Bucket, obj.Key, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", obj.Key, err)
	}
	return fmt.Sprintf("%s/%s/%s", b.base, b.cfg.Bucket, url.PathEscape(obj.Key)), nil
}

func (b *MinioBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
