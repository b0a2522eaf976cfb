package models

import "time"

// Типы модерационных событий, публикуемых в RabbitMQ.
const (
	EventSanctionIssued    = "sanction.issued"
	EventSanctionLifted    = "sanction.lifted"
	EventSanctionExpired   = "sanction.expired"
	EventAccountTerminated = "account.terminated"
)

// ModerationEvent описывает событие модерации, которое публикуется
// в обменник moderation и потребляется воркером уведомлений.
type ModerationEvent struct {
	Type      string    `json:"type"`                 // Тип события
	UserUID   string    `json:"user_uid"`             // Пользователь, к которому применено действие
	Username  string    `json:"username"`             // Имя пользователя на момент события
	Level     string    `json:"level,omitempty"`      // Уровень санкции
	Reason    string    `json:"reason,omitempty"`     // Причина санкции
	Until     time.Time `json:"until,omitempty"`      // Момент окончания временной блокировки
	Forever   bool      `json:"forever,omitempty"`    // Признак бессрочной блокировки
	CreatedAt time.Time `json:"created_at"`           // Момент события
}
