package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByResetToken matches only a non-empty outstanding token.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUserNotFound
	}
	return r.first(ctx, "password_reset_token = ?", token)
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile writes name, email and password hash for an existing user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, name, email, passwordHash string) error {
	return r.updates(ctx, id, map[string]any{
		"name":     name,
		"email":    email,
		"password": passwordHash,
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id uint, token string, expires time.Time) error {
	return r.updates(ctx, id, map[string]any{
		"password_reset_token":   token,
		"password_reset_expires": expires,
	})
}

// ResetPassword stores the new hash and clears the reset token in one
// statement.
func (r *UserRepository) ResetPassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updates(ctx, id, map[string]any{
		"password":               passwordHash,
		"password_reset_token":   nil,
		"password_reset_expires": nil,
	})
}

// ClearExpiredResetTokens drops reset tokens whose expiry is before cutoff
// and returns how many users were touched.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("password_reset_token IS NOT NULL AND password_reset_expires < ?", cutoff).
		Updates(map[string]any{
			"password_reset_token":   nil,
			"password_reset_expires": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...any) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) updates(ctx context.Context, id uint, values map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
