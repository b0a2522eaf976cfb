// Package user содержит бизнес-логику профилей и социального графа.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Repository определяет методы хранилища пользователей и подписок.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userUID, username, bio, avatar string) error
	DeleteUser(ctx context.Context, userUID string) error
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)
	AddFollow(ctx context.Context, followerUID, followeeUID string) (bool, error)
	RemoveFollow(ctx context.Context, followerUID, followeeUID string) (bool, error)
	IsFollowing(ctx context.Context, followerUID, followeeUID string) (bool, error)
	CountFollows(ctx context.Context, userUID string) (followers, following int, err error)
	CountPendingAppeals(ctx context.Context, userUID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier рассылает уведомления о событиях социального графа.
type Notifier interface {
	NotifyFollow(ctx context.Context, recipientUID string, actor *models.User) error
}

// Service реализует бизнес-логику пользователей.
type Service struct {
	repo     Repository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// ToggleFollow переключает подписку actor на пользователя targetUID.
// Возвращает true, если подписка появилась. Уведомление уходит только
// при появлении новой подписки.
func (s *Service) ToggleFollow(ctx context.Context, actor *models.User, targetUID string) (bool, error) {
	const op = "user.ToggleFollow"

	if actor.UID == targetUID {
		return false, fmt.Errorf("%s: cannot follow yourself: %w", op, apperr.ErrValidation)
	}
	if _, err := s.repo.GetUser(ctx, targetUID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.AddFollow(ctx, actor.UID, targetUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		if _, err := s.repo.RemoveFollow(ctx, actor.UID, targetUID); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		s.invalidateProfile(targetUID)
		return false, nil
	}

	s.invalidateProfile(targetUID)
	if err := s.notifier.NotifyFollow(ctx, targetUID, actor); err != nil {
		s.log.Error("failed to notify about new follower", sl.Err(err))
	}
	return true, nil
}

// Profile возвращает профиль пользователя со счётчиками социального графа.
// viewerUID пустой для неаутентифицированных читателей.
func (s *Service) Profile(ctx context.Context, targetUID, viewerUID string) (*models.Profile, error) {
	const op = "user.Profile"

	var profile *models.Profile
	cacheKey := "profile:" + targetUID
	found, err := s.cache.Get(cacheKey, &profile)
	if err != nil {
		s.log.Warn("failed to read profile from cache", sl.Err(err))
	}
	if !found {
		u, err := s.repo.GetUser(ctx, targetUID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.PasswordHash = ""

		followers, following, err := s.repo.CountFollows(ctx, targetUID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		profile = &models.Profile{
			User:      u,
			Followers: followers,
			Following: following,
		}
		if err := s.cache.Set(cacheKey, profile, time.Minute); err != nil {
			s.log.Warn("failed to cache profile", sl.Err(err))
		}
	}

	if viewerUID != "" && viewerUID != targetUID {
		isFollowing, err := s.repo.IsFollowing(ctx, viewerUID, targetUID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		profile.IsFollowing = isFollowing
	}
	if viewerUID == targetUID {
		pending, err := s.repo.CountPendingAppeals(ctx, targetUID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		profile.PendingAppeals = pending
	}
	return profile, nil
}

// Search ищет пользователей по подстроке имени.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	const op = "user.Search"
	if limit <= 0 {
		limit = 20
	}
	result, err := s.repo.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range result {
		u.PasswordHash = ""
	}
	return result, nil
}

// UpdateProfile обновляет имя, описание и аватар пользователя и возвращает
// обновлённую учётную запись. Переименовать служебную учётную запись
// portainfo нельзя.
func (s *Service) UpdateProfile(ctx context.Context, actor *models.User, req models.DummyProfile) (*models.User, error) {
	const op = "user.UpdateProfile"

	if actor.Username == models.CreatorUsername && req.Username != models.CreatorUsername {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrPermissionDenied)
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = actor.Avatar
	}
	if err := s.repo.UpdateProfile(ctx, actor.UID, req.Username, req.Bio, avatar); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateProfile(actor.UID)

	updated, err := s.repo.GetUser(ctx, actor.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated.PasswordHash = ""
	return updated, nil
}

// DeleteAccount удаляет учётную запись пользователя вместе с его данными.
// Служебная учётная запись portainfo удалена быть не может.
func (s *Service) DeleteAccount(ctx context.Context, actor *models.User) error {
	const op = "user.DeleteAccount"

	if actor.Username == models.CreatorUsername {
		return fmt.Errorf("%s: %w", op, apperr.ErrPermissionDenied)
	}
	if err := s.repo.DeleteUser(ctx, actor.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateProfile(actor.UID)
	s.log.Info("deleted account", slog.String("user_uid", actor.UID))
	return nil
}

func (s *Service) invalidateProfile(userUID string) {
	if err := s.cache.Invalidate("profile:" + userUID); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}
}
