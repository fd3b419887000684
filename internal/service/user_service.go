package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/models"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/repository"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/security"
)

const (
	MsgUserExists      = "User already exists"
	MsgUpdateError     = "Update error"
	MsgPasswordTooLong = "password must be at most 72 bytes"
)

// hashPassword maps inputs bcrypt cannot take to a client error.
func hashPassword(password string) (string, error) {
	hash, err := security.HashPassword(password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return "", apperror.New(MsgPasswordTooLong)
	}
	return hash, err
}

type UserService struct {
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewUserService(users *repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserInput struct {
	ID    uint
	Name  string
	Email string
	// Password is optional; blank keeps the current hash.
	Password string
}

func (s *UserService) Show(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, apperror.NotFound(MsgUserNotFound)
	}
	return user, err
}

func (s *UserService) Index(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (models.User, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, apperror.New(MsgUserExists)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, apperror.New(MsgUserExists)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Uint("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, input UpdateUserInput) error {
	user, err := s.users.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.New(MsgUpdateError)
		}
		return err
	}

	hash := user.Password
	if input.Password != "" {
		if hash, err = hashPassword(input.Password); err != nil {
			return err
		}
	}

	err = s.users.UpdateProfile(ctx, user.ID, input.Name, input.Email, hash)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.New(MsgUserExists)
	case errors.Is(err, repository.ErrUserNotFound):
		return apperror.New(MsgUpdateError)
	case err != nil:
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperror.NotFound(MsgUserNotFound)
	}
	return err
}
