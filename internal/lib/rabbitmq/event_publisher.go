package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/portainfo/internal/models"
)

// EventPublisher публикует модерационные события в обменник moderation.
type EventPublisher struct {
	ch *amqp.Channel
}

// NewEventPublisher создает новый EventPublisher поверх открытого канала.
func NewEventPublisher(ch *amqp.Channel) *EventPublisher {
	return &EventPublisher{ch: ch}
}

// Publish отправляет событие с ключом маршрутизации events.
func (p *EventPublisher) Publish(event models.ModerationEvent) error {
	return PublishMessage(p.ch, Exchange, "events", event)
}
