// Package post содержит бизнес-логику публикаций: создание, удаление,
// чтение с кешированием, ленту с фильтрами, комментарии и реакции.
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/lib/hashtag"
	"github.com/magabrotheeeer/portainfo/internal/lib/reaction"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
	"github.com/magabrotheeeer/portainfo/internal/storage/repository"
)

// Категории публикаций.
var Categories = []string{"General", "Tecnología", "Noticias", "Arte", "Deportes", "Cultura"}

const defaultFeedLimit = 20

// Repository определяет методы хранилища публикаций.
type Repository interface {
	CreatePost(ctx context.Context, post models.Post) (string, error)
	RemovePost(ctx context.Context, postID string) error
	ReadPost(ctx context.Context, postID string) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.FeedFilter) ([]*models.Post, error)
	AddComment(ctx context.Context, comment models.Comment) (string, error)
	React(ctx context.Context, postID, userUID string, kind reaction.Kind) (*repository.ReactResult, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier рассылает уведомления о событиях с публикациями.
type Notifier interface {
	NotifyLike(ctx context.Context, recipientUID string, actor *models.User, postID string) error
}

// Service реализует бизнес-логику публикаций.
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

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Create создает новую публикацию от имени автора. Хэштеги извлекаются
// из текста и отдельно не хранятся.
func (s *Service) Create(ctx context.Context, author *models.User, req models.DummyPost) (string, error) {
	const op = "post.Create"

	category := req.Category
	if category == "" {
		category = "General"
	}
	if !validCategory(category) {
		return "", fmt.Errorf("%s: unknown category %q: %w", op, category, apperr.ErrValidation)
	}

	post := models.Post{
		ID:             uuid.NewString(),
		AuthorUID:      author.UID,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.Avatar,
		Title:          req.Title,
		Description:    req.Description,
		Image:          req.Image,
		Category:       category,
	}

	id, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new post", slog.String("post_id", id))
	return id, nil
}

// Remove удаляет публикацию. Разрешено автору и учётной записи creator.
func (s *Service) Remove(ctx context.Context, actor *models.User, postID string) error {
	const op = "post.Remove"

	post, err := s.repo.ReadPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if post.AuthorUID != actor.UID && actor.Role != models.RoleCreator {
		return fmt.Errorf("%s: %w", op, apperr.ErrPermissionDenied)
	}

	if err := s.cache.Invalidate("post:" + postID); err != nil {
		s.log.Warn("failed to remove post from cache", sl.Err(err))
	}
	if err := s.repo.RemovePost(ctx, postID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("removed post", slog.String("post_id", postID))
	return nil
}

// Read возвращает публикацию по ID, используя кеш или репозиторий.
// Хэштеги вычисляются из текста при каждом чтении.
func (s *Service) Read(ctx context.Context, postID string) (*models.Post, error) {
	const op = "post.Read"

	var cached *models.Post
	cacheKey := "post:" + postID
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read post from cache", sl.Err(err))
	}
	if found {
		cached.Tags = hashtag.Extract(cached.Description)
		return cached, nil
	}

	post, err := s.repo.ReadPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	post.Tags = hashtag.Extract(post.Description)

	if err := s.cache.Set(cacheKey, post, time.Minute); err != nil {
		s.log.Warn("failed to cache post", sl.Err(err))
	}
	return post, nil
}

// List возвращает ленту публикаций по фильтру.
func (s *Service) List(ctx context.Context, filter models.FeedFilter) ([]*models.Post, error) {
	const op = "post.List"

	if filter.Limit <= 0 {
		filter.Limit = defaultFeedLimit
	}
	result, err := s.repo.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range result {
		p.Tags = hashtag.Extract(p.Description)
	}
	return result, nil
}

// AddComment добавляет комментарий к публикации от имени автора.
func (s *Service) AddComment(ctx context.Context, author *models.User, postID, text string) (string, error) {
	const op = "post.AddComment"

	if _, err := s.repo.ReadPost(ctx, postID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	comment := models.Comment{
		ID:             uuid.NewString(),
		PostID:         postID,
		AuthorUID:      author.UID,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.Avatar,
		Text:           text,
	}
	id, err := s.repo.AddComment(ctx, comment)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate("post:" + postID); err != nil {
		s.log.Warn("failed to invalidate post cache", sl.Err(err))
	}
	return id, nil
}

// React применяет реакцию пользователя к публикации и уведомляет автора
// о новом лайке.
func (s *Service) React(ctx context.Context, actor *models.User, postID, kind string) (*repository.ReactResult, error) {
	const op = "post.React"

	if !reaction.ValidKind(kind) {
		return nil, fmt.Errorf("%s: unknown reaction %q: %w", op, kind, apperr.ErrValidation)
	}

	result, err := s.repo.React(ctx, postID, actor.UID, reaction.Kind(kind))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate("post:" + postID); err != nil {
		s.log.Warn("failed to invalidate post cache", sl.Err(err))
	}

	if result.LikedNow {
		if err := s.notifier.NotifyLike(ctx, result.AuthorUID, actor, postID); err != nil {
			s.log.Error("failed to notify author about like", sl.Err(err))
		}
	}
	return result, nil
}
