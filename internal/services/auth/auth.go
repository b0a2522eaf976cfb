// Package auth содержит логику регистрации, авторизации и валидации JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/lib/jwt"
	"github.com/magabrotheeeer/portainfo/internal/lib/password"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Значения профиля нового пользователя.
const (
	defaultBio       = "Nuevo usuario de Portainfo"
	defaultAvatarURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionCache хранит зеркало активных сессий.
type SessionCache interface {
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	sessions SessionCache
	jwtMaker jwt.Maker
	tokenTTL time.Duration
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionCache, jwtMaker jwt.Maker, tokenTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		jwtMaker: jwtMaker,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля, дефолтной
// ролью user, аватаром и описанием профиля.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "auth.Register"
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UID:          uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
		Avatar:       defaultAvatarURL + username,
		Bio:          defaultBio,
		Role:         models.RoleUser,
	}
	newID, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registered new user", slog.String("user_uid", newID))
	return newID, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token string, user *models.User, err error) {
	const op = "auth.Login"
	user, err = s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrAuthenticationRequired)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrAuthenticationRequired)
	}
	token, err = s.jwtMaker.GenerateToken(user.UID, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Set("session:"+user.UID, user.Username, s.tokenTTL); err != nil {
		s.log.Warn("failed to mirror session in cache", sl.Err(err))
	}
	return token, user, nil
}

// Logout удаляет зеркало сессии пользователя.
func (s *AuthService) Logout(_ context.Context, userUID string) error {
	const op = "auth.Logout"
	if err := s.sessions.Invalidate("session:" + userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// EnsureCreator создаёт служебную учётную запись portainfo, если её ещё нет.
// Вызывается при старте приложения.
func (s *AuthService) EnsureCreator(ctx context.Context, rawPassword string) error {
	const op = "auth.EnsureCreator"
	if _, err := s.users.GetUserByUsername(ctx, models.CreatorUsername); err == nil {
		return nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UID:          uuid.NewString(),
		Username:     models.CreatorUsername,
		PasswordHash: hashed,
		Avatar:       defaultAvatarURL + models.CreatorUsername,
		Bio:          "Cuenta oficial de Portainfo",
		Role:         models.RoleCreator,
	}
	if _, err := s.users.RegisterUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("seeded creator account")
	return nil
}
