package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/jwt"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/repository"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenNotInStorage = errors.New("token not found in storage")
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	log        *slog.Logger
	repo       repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(log *slog.Logger, repo repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		log:        log,
		repo:       repo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	const op = "service.TokenService.GenerateTokens"

	accessToken, err := jwt.NewToken(user, s.secret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := jwt.NewToken(user, s.secret, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTTL); err != nil {
		s.log.Error("failed to save refresh token", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens rotates the pair. The old refresh token is removed before the new one is issued.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service.TokenService.RefreshTokens"

	claims, err := jwt.Parse(refreshToken, s.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID := claims.UserID.String()

	exists, err := s.repo.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		s.log.Error("failed to look up refresh token", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, ErrTokenNotInStorage
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GenerateTokens(ctx, models.User{ID: claims.UserID, Email: claims.Email})
}

// Revoke deletes a refresh token. Unknown or malformed tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	const op = "service.TokenService.Revoke"

	claims, err := jwt.Parse(refreshToken, s.secret)
	if err != nil {
		return nil
	}

	if err := s.repo.DeleteRefreshToken(ctx, claims.UserID.String(), refreshToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RevokeAll logs the user out everywhere.
func (s *TokenService) RevokeAll(ctx context.Context, user models.User) error {
	const op = "service.TokenService.RevokeAll"

	if err := s.repo.DeleteAllUserTokens(ctx, user.ID.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
