package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, images []models.Image) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *ImageRepository) ListByOrphanage(ctx context.Context, orphanageID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).Where("orphanage_id = ?", orphanageID).Order("id").Find(&images).Error
	return images, err
}

// ListByIDs returns the images of one orphanage whose ids are in ids.
func (r *ImageRepository) ListByIDs(ctx context.Context, orphanageID uint, ids []uint) ([]models.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []models.Image
	err := r.db.WithContext(ctx).
		Where("orphanage_id = ? AND id IN ?", orphanageID, ids).
		Order("id").
		Find(&images).Error
	return images, err
}

func (r *ImageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Image{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}
