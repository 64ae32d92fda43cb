package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrUserNotFound       = errors.New("user not found")
)

const adminRole = "admin"

type Auth struct {
	log    *slog.Logger
	users  UserStore
	tokens TokenIssuer
}

type UserStore interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	GrantAdmin(ctx context.Context, userID uuid.UUID, role string) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TokenIssuer interface {
	GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
}

func New(log *slog.Logger, users UserStore, tokens TokenIssuer) *Auth {
	return &Auth{
		log:    log,
		users:  users,
		tokens: tokens,
	}
}

func (a *Auth) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "auth.Login"

	email = normalizeEmail(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", email),
	)

	log.Info("attempting to login user")

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	tokens, err := a.tokens.GenerateTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return tokens, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return a.tokens.RefreshTokens(ctx, refreshToken)
}

func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	return a.tokens.Revoke(ctx, refreshToken)
}

// Operator builds the request-scoped caller identity. The user must still exist.
func (a *Auth) Operator(ctx context.Context, userID uuid.UUID) (models.Operator, error) {
	const op = "auth.Operator"

	user, err := a.users.GetUserById(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.Operator{}, ErrUserNotFound
		}
		return models.Operator{}, fmt.Errorf("%s: %w", op, err)
	}

	isAdmin, err := a.users.IsAdmin(ctx, userID)
	if err != nil {
		a.log.Error("failed to check admin", slog.String("op", op), sl.Err(err))
		return models.Operator{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Operator{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: isAdmin,
	}, nil
}

// CreateAdmin registers a user and grants the admin role. An existing user with
// the same email is promoted instead, keeping the stored password.
func (a *Auth) CreateAdmin(ctx context.Context, name, email, pass string) (uuid.UUID, error) {
	const op = "auth.CreateAdmin"

	email = normalizeEmail(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("register admin")

	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.users.SaveUser(ctx, models.User{Name: name, Email: email, Password: passHash})
	if err != nil {
		if !errors.Is(err, storage.ErrAlreadyExists) {
			log.Error("failed to save user", sl.Err(err))

			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Warn("user already exist, promoting")
		existing, err := a.users.UserByEmail(ctx, email)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
		id = existing.ID
	}

	if err := a.users.GrantAdmin(ctx, id, adminRole); err != nil {
		log.Error("failed to grant admin", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin registered", slog.String("user_id", id.String()))

	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
