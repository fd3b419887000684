package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/repository"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/storage"
)

// ImageService keeps image records and their blobs in step.
type ImageService struct {
	images *repository.ImageRepository
	store  storage.Backend
	appURL string
	log    zerolog.Logger
}

func NewImageService(images *repository.ImageRepository, store storage.Backend, appURL string, log zerolog.Logger) *ImageService {
	return &ImageService{
		images: images,
		store:  store,
		appURL: strings.TrimRight(appURL, "/"),
		log:    log,
	}
}

// Build turns stored files into unsaved image records. A file without a
// backend URL is served from /files on this application.
func (s *ImageService) Build(files []StoredFile) []models.Image {
	images := make([]models.Image, 0, len(files))
	for _, f := range files {
		images = append(images, models.Image{
			Name: f.Name,
			Size: f.Size,
			Key:  f.Key,
			URL:  s.URL(f),
		})
	}
	return images
}

func (s *ImageService) URL(f StoredFile) string {
	if f.URL != "" {
		return f.URL
	}
	return s.appURL + "/files/" + f.Key
}

// Attach persists images for files against an existing orphanage.
func (s *ImageService) Attach(ctx context.Context, orphanageID uint, files []StoredFile) ([]models.Image, error) {
	images := s.Build(files)
	for i := range images {
		images[i].OrphanageID = orphanageID
	}
	if err := s.images.Create(ctx, images); err != nil {
		return nil, fmt.Errorf("attach images: %w", err)
	}
	return images, nil
}

// Remove deletes the blob and then the record. The record is kept when the
// blob could not be deleted.
func (s *ImageService) Remove(ctx context.Context, image models.Image) error {
	if err := s.store.Delete(ctx, image.Key); err != nil {
		return fmt.Errorf("delete blob %s: %w", image.Key, err)
	}
	if err := s.images.Delete(ctx, image.ID); err != nil {
		return fmt.Errorf("delete image %d: %w", image.ID, err)
	}
	s.log.Debug().Uint("image_id", image.ID).Str("key", image.Key).Msg("image removed")
	return nil
}

func (s *ImageService) RemoveAll(ctx context.Context, images []models.Image) error {
	for _, img := range images {
		if err := s.Remove(ctx, img); err != nil {
			return err
		}
	}
	return nil
}
