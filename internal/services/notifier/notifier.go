// Package notifier превращает модерационные события из брокера
// в служебные уведомления пользователей.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/portainfo/internal/metrics"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// SystemNotifier добавляет служебное уведомление в очередь пользователя.
type SystemNotifier interface {
	NotifySystem(ctx context.Context, recipientUID, text string) error
}

// Service обрабатывает модерационные события.
type Service struct {
	notifier SystemNotifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(notifier SystemNotifier, log *slog.Logger) *Service {
	return &Service{notifier: notifier, log: log}
}

// HandleModerationEvent разбирает событие из очереди и создаёт
// соответствующее служебное уведомление.
func (s *Service) HandleModerationEvent(body []byte) error {
	const op = "notifier.HandleModerationEvent"

	var event models.ModerationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	text := eventText(event)
	if text == "" {
		s.log.Warn("unknown moderation event type", slog.String("type", event.Type))
		return nil
	}

	if err := s.notifier.NotifySystem(context.Background(), event.UserUID, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.ModerationEventsConsumed.WithLabelValues(event.Type).Inc()
	s.log.Info("moderation event handled",
		slog.String("type", event.Type),
		slog.String("user_uid", event.UserUID))
	return nil
}

func eventText(event models.ModerationEvent) string {
	switch event.Type {
	case models.EventSanctionIssued:
		if event.Forever {
			return "Tu cuenta ha sido bloqueada permanentemente. Motivo: " + event.Reason
		}
		return "Tu cuenta ha sido bloqueada temporalmente. Motivo: " + event.Reason
	case models.EventAccountTerminated:
		return event.Reason
	case models.EventSanctionLifted:
		return "Tu cuenta ha sido desbloqueada."
	case models.EventSanctionExpired:
		return "Tu bloqueo temporal ha terminado."
	}
	return ""
}
