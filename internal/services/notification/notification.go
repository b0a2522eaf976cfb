// Package notification реализует рассылку уведомлений по очередям
// пользователей. Очередь append-only: записи никогда не удаляются,
// просмотр вкладки уведомлений лишь помечает их прочитанными.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/portainfo/internal/metrics"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Тексты уведомлений.
const (
	textFollow  = "empezó a seguirte."
	textLike    = "dio like a tu post."
	textMessage = "te envió un mensaje."
)

// Repository определяет методы хранилища уведомлений.
type Repository interface {
	CreateNotification(ctx context.Context, n models.Notification) (string, error)
	ListNotifications(ctx context.Context, userUID string, limit, offset int) ([]*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userUID string) (int64, error)
	CountUnreadNotifications(ctx context.Context, userUID string) (int, error)
}

// Service реализует бизнес-логику уведомлений.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// notify добавляет уведомление в очередь получателя со снимком актора.
// Событие о собственном действии пользователю не доставляется.
func (s *Service) notify(ctx context.Context, recipientUID string, actor *models.User, typ, targetID, text string) error {
	const op = "notification.notify"
	if actor != nil && actor.UID == recipientUID {
		return nil
	}

	n := models.Notification{
		ID:        uuid.NewString(),
		UserUID:   recipientUID,
		Type:      typ,
		TargetID:  targetID,
		Text:      text,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if actor != nil {
		n.FromUsername = actor.Username
		n.FromAvatar = actor.Avatar
	}

	if _, err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.NotificationsCreated.WithLabelValues(typ).Inc()
	s.log.Info("notification created",
		slog.String("type", typ),
		slog.String("recipient", recipientUID))
	return nil
}

// NotifyFollow уведомляет пользователя о новом подписчике.
func (s *Service) NotifyFollow(ctx context.Context, recipientUID string, actor *models.User) error {
	return s.notify(ctx, recipientUID, actor, models.NotificationFollow, actor.UID, textFollow)
}

// NotifyLike уведомляет автора публикации о новом лайке.
func (s *Service) NotifyLike(ctx context.Context, recipientUID string, actor *models.User, postID string) error {
	return s.notify(ctx, recipientUID, actor, models.NotificationLike, postID, textLike)
}

// NotifyMessage уведомляет получателя о новом личном сообщении.
func (s *Service) NotifyMessage(ctx context.Context, recipientUID string, actor *models.User) error {
	return s.notify(ctx, recipientUID, actor, models.NotificationMessage, actor.UID, textMessage)
}

// NotifySystem добавляет служебное уведомление без актора.
func (s *Service) NotifySystem(ctx context.Context, recipientUID, text string) error {
	return s.notify(ctx, recipientUID, nil, models.NotificationSystem, "", text)
}

// List возвращает уведомления пользователя, новые первыми, и помечает
// все его уведомления прочитанными.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Notification, error) {
	const op = "notification.List"

	result, err := s.repo.ListNotifications(ctx, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.MarkAllNotificationsRead(ctx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *Service) CountUnread(ctx context.Context, userUID string) (int, error) {
	const op = "notification.CountUnread"
	count, err := s.repo.CountUnreadNotifications(ctx, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
