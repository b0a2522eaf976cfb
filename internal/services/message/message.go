// Package message содержит бизнес-логику личных сообщений.
package message

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

const defaultConversationLimit = 100

// Repository определяет методы хранилища сообщений.
type Repository interface {
	CreateMessage(ctx context.Context, m models.Message) (string, error)
	ListConversation(ctx context.Context, firstUID, secondUID string, limit, offset int) ([]*models.Message, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Notifier рассылает уведомления о новых сообщениях.
type Notifier interface {
	NotifyMessage(ctx context.Context, recipientUID string, actor *models.User) error
}

// Service реализует бизнес-логику личных сообщений.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Send отправляет личное сообщение и уведомляет получателя.
func (s *Service) Send(ctx context.Context, actor *models.User, req models.DummyMessage) (string, error) {
	const op = "message.Send"

	if req.ToID == actor.UID {
		return "", fmt.Errorf("%s: cannot message yourself: %w", op, apperr.ErrValidation)
	}
	if _, err := s.repo.GetUser(ctx, req.ToID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	m := models.Message{
		ID:      uuid.NewString(),
		FromUID: actor.UID,
		ToUID:   req.ToID,
		Text:    req.Text,
	}
	id, err := s.repo.CreateMessage(ctx, m)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.NotifyMessage(ctx, req.ToID, actor); err != nil {
		s.log.Error("failed to notify about new message", sl.Err(err))
	}
	return id, nil
}

// Conversation возвращает переписку пользователя с собеседником
// в хронологическом порядке.
func (s *Service) Conversation(ctx context.Context, actorUID, otherUID string, limit, offset int) ([]*models.Message, error) {
	const op = "message.Conversation"

	if limit <= 0 {
		limit = defaultConversationLimit
	}
	result, err := s.repo.ListConversation(ctx, actorUID, otherUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
