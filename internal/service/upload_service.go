package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/media/sniffer"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/storage"
)

const (
	MsgFileTooLarge    = "File too large"
	MsgInvalidFileType = "Invalid file type."
)

// StoredFile describes a blob that reached the storage backend. URL is
// empty when the backend leaves serving to the application.
type StoredFile struct {
	Name        string
	Size        int64
	Key         string
	URL         string
	ContentType string
}

type UploadService struct {
	store   storage.Backend
	maxSize int64
	allowed map[string]struct{}
	log     zerolog.Logger
}

func NewUploadService(store storage.Backend, cfg config.UploadConfig, log zerolog.Logger) *UploadService {
	allowed := make(map[string]struct{}, len(cfg.AllowedMimes))
	for _, m := range cfg.AllowedMimes {
		allowed[m] = struct{}{}
	}
	return &UploadService{
		store:   store,
		maxSize: cfg.MaxFileSize,
		allowed: allowed,
		log:     log,
	}
}

// Validate checks size and declared MIME type of every file. Nothing is
// stored when any of them fails.
func (s *UploadService) Validate(headers []*multipart.FileHeader) error {
	for _, h := range headers {
		if h.Size > s.maxSize {
			return apperror.New(MsgFileTooLarge)
		}
		if _, ok := s.allowed[sniffer.MimeTypeFromHTTP(h.Header)]; !ok {
			return apperror.New(MsgInvalidFileType)
		}
	}
	return nil
}

// Store validates and then writes every file to the backend. A failure
// part way through removes the blobs already written.
func (s *UploadService) Store(ctx context.Context, headers []*multipart.FileHeader) ([]StoredFile, error) {
	if err := s.Validate(headers); err != nil {
		return nil, err
	}

	stored := make([]StoredFile, 0, len(headers))
	for _, h := range headers {
		file, err := s.storeOne(ctx, h)
		if err != nil {
			s.Discard(ctx, stored)
			return nil, err
		}
		stored = append(stored, file)
	}
	return stored, nil
}

func (s *UploadService) storeOne(ctx context.Context, h *multipart.FileHeader) (StoredFile, error) {
	key, err := storage.NewKey(h.Filename)
	if err != nil {
		return StoredFile{}, fmt.Errorf("generate key: %w", err)
	}

	f, err := h.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("open upload %s: %w", h.Filename, err)
	}
	defer f.Close()

	contentType, err := sniffer.ContentType(f, sniffer.MimeTypeFromHTTP(h.Header))
	if err != nil {
		return StoredFile{}, err
	}

	url, err := s.store.Put(ctx, storage.Object{
		Key:         key,
		ContentType: contentType,
		Size:        h.Size,
		Body:        f,
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("store %s: %w", h.Filename, err)
	}

	s.log.Debug().
		Str("key", key).
		Str("backend", s.store.Name()).
		Int64("size", h.Size).
		Msg("upload stored")

	return StoredFile{
		Name:        h.Filename,
		Size:        h.Size,
		Key:         key,
		URL:         url,
		ContentType: contentType,
	}, nil
}

// Discard deletes the blobs of files that will not be referenced by any
// image record. Failures are logged and otherwise ignored.
func (s *UploadService) Discard(ctx context.Context, files []StoredFile) {
	for _, f := range files {
		if err := s.store.Delete(ctx, f.Key); err != nil {
			s.log.Warn().Err(err).Str("key", f.Key).Msg("discard upload failed")
		}
	}
}
