package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/security"
)

// Object is a blob handed to a backend for storage.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Backend stores and removes upload blobs. Put returns the public URL the
// backend assigned, or "" when the application serves the blob itself.
type Backend interface {
	Name() string
	Put(ctx context.Context, obj Object) (string, error)
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case config.StorageLocal:
		return NewLocalBackend(cfg.LocalDir)
	case config.StorageS3:
		return NewS3Backend(ctx, cfg)
	case config.StorageMinio:
		return NewMinioBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// NewKey derives a storage key from an uploaded filename: 16 random bytes
// in hex, a dash, then the base name with spaces turned into dashes.
func NewKey(filename string) (string, error) {
	prefix, err := security.RandomHex(16)
	if err != nil {
		return "", err
	}
	name := strings.ReplaceAll(filepath.Base(filename), " ", "-")
	return prefix + "-" + name, nil
}
