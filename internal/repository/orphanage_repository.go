package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
)

type OrphanageRepository struct {
	db *gorm.DB
}

func NewOrphanageRepository(db *gorm.DB) *OrphanageRepository {
	return &OrphanageRepository{db: db}
}

// Create inserts the orphanage together with its images.
func (r *OrphanageRepository) Create(ctx context.Context, orphanage *models.Orphanage) error {
	return r.db.WithContext(ctx).Create(orphanage).Error
}

func (r *OrphanageRepository) GetByID(ctx context.Context, id uint) (models.Orphanage, error) {
	var orphanage models.Orphanage
	err := r.db.WithContext(ctx).
		Preload("Images", orderImages).
		First(&orphanage, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Orphanage{}, ErrOrphanageNotFound
		}
		return models.Orphanage{}, err
	}
	return orphanage, nil
}

func (r *OrphanageRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Orphanage{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByAccept returns orphanages with the given approval flag, images
// preloaded.
func (r *OrphanageRepository) ListByAccept(ctx context.Context, accept bool) ([]models.Orphanage, error) {
	var orphanages []models.Orphanage
	err := r.db.WithContext(ctx).
		Preload("Images", orderImages).
		Where("accept = ?", accept).
		Order("id").
		Find(&orphanages).Error
	if err != nil {
		return nil, err
	}
	return orphanages, nil
}

func (r *OrphanageRepository) SetAccept(ctx context.Context, id uint, accept bool) error {
	return r.Update(ctx, id, map[string]any{"accept": accept})
}

// Update writes the given columns. Callers pass a map so false and empty
// values are written rather than skipped.
func (r *OrphanageRepository) Update(ctx context.Context, id uint, values map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Orphanage{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrphanageNotFound
	}
	return nil
}

func (r *OrphanageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Orphanage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrphanageNotFound
	}
	return nil
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
