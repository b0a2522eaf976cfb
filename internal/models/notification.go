package models

import "time"

// Типы уведомлений.
const (
	NotificationLike    = "like"
	NotificationFollow  = "follow"
	NotificationMessage = "message"
	NotificationSystem  = "system"
)

// Notification представляет запись в очереди уведомлений пользователя.
// FromUsername и FromAvatar — снимок актора на момент события,
// последующие изменения профиля актора на запись не влияют.
type Notification struct {
	ID           string    // Уникальный идентификатор уведомления
	UserUID      string    // Получатель
	Type         string    // like, follow, message или system
	FromUsername string    // Имя актора на момент события
	FromAvatar   string    // Аватар актора на момент события
	TargetID     string    // Ссылка на публикацию или чат (опционально)
	Text         string    // Текст уведомления
	Read         bool      // Признак прочтения
	CreatedAt    time.Time // Момент события
}

// Message представляет личное сообщение между двумя пользователями.
// Статусов доставки и прочтения у сообщений нет.
type Message struct {
	ID        string    // Уникальный идентификатор сообщения
	FromUID   string    // Отправитель
	ToUID     string    // Получатель
	Text      string    // Текст сообщения
	CreatedAt time.Time // Момент отправки
}

// Статусы апелляций.
const (
	AppealPending  = "pending"
	AppealResolved = "resolved"
)

// Appeal представляет апелляцию заблокированного пользователя.
// Апелляции только накапливаются: их рассмотрение — действие creator,
// не моделируемое переходом состояния у пользователя.
type Appeal struct {
	ID        string    // Уникальный идентификатор апелляции
	UserUID   string    // Автор апелляции
	Username  string    // Имя автора на момент подачи
	Text      string    // Текст апелляции
	Status    string    // pending или resolved
	CreatedAt time.Time // Момент подачи
}
