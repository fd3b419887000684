package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/mail"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/repository"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/security"
)

const (
	MsgIncorrectCredentials = "Incorrect email or password"
	MsgUserNotFound         = "User not found"
	MsgTokenInvalid         = "Token invalid"
	MsgTokenExpired         = "Token expired, generate a new one"

	resetTokenBytes  = 20
	resetTitle       = "Recovery password"
	resetDescription = "Clique no link para criar uma nova senha"
)

type AuthService struct {
	users  *repository.UserRepository
	mailer mail.Mailer
	sec    config.SecurityConfig
	mail   config.MailConfig
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, mailer mail.Mailer, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		mailer: mailer,
		sec:    cfg.Security,
		mail:   cfg.Mail,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate returns a signed access token for valid credentials.
// Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperror.New(MsgIncorrectCredentials)
		}
		return "", err
	}

	if !security.CheckPassword(password, user.Password) {
		return "", apperror.New(MsgIncorrectCredentials)
	}

	token, err := security.GenerateAccessToken(s.sec.JWTSecret, user.ID, s.sec.JWTTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Forgot issues a reset token valid for the configured TTL and mails it to
// the user.
func (s *AuthService) Forgot(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.New(MsgUserNotFound)
		}
		return err
	}

	token, err := security.RandomHex(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expires := s.now().Add(s.sec.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:       user.Email,
		Subject:  s.mail.Subject,
		Template: mail.TemplateForgotPassword,
		Data: mail.ResetPasswordData{
			Name:        user.Name,
			Title:       resetTitle,
			Description: resetDescription,
			Token:       token,
			Email:       user.Email,
			Link:        s.mail.ResetLink,
		},
	})
	if err != nil {
		return err
	}

	s.log.Info().Uint("user_id", user.ID).Time("expires", expires).Msg("password reset requested")
	return nil
}

// Reset replaces the password of the user holding token and clears the
// token, so each token works once.
func (s *AuthService) Reset(ctx context.Context, token, password string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.New(MsgUserNotFound)
		}
		return err
	}

	if user.PasswordResetToken == nil || *user.PasswordResetToken != token {
		return apperror.New(MsgTokenInvalid)
	}

	if user.PasswordResetExpires == nil || s.now().After(*user.PasswordResetExpires) {
		return apperror.New(MsgTokenExpired)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Uint("user_id", user.ID).Msg("password reset")
	return nil
}
