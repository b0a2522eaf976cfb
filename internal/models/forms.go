package models

// DummyCredentials используется для приёма данных входа и регистрации
// из JSON-запроса.
type DummyCredentials struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required"`          // Пароль
}

// DummyPost используется для приёма данных новой публикации из
// JSON-запроса. Хэштеги не передаются отдельно — они извлекаются
// из текста публикации.
type DummyPost struct {
	Title       string `json:"title" validate:"required"`       // Заголовок
	Description string `json:"description" validate:"required"` // Текст (может содержать #хэштеги)
	Category    string `json:"category,omitempty"`              // Категория (по умолчанию General)
	Image       string `json:"image,omitempty"`                 // Изображение (опционально)
}

// DummyComment используется для приёма комментария из JSON-запроса.
type DummyComment struct {
	Text string `json:"text" validate:"required"` // Текст комментария
}

// DummyMessage используется для приёма личного сообщения из JSON-запроса.
type DummyMessage struct {
	ToID string `json:"to_id" validate:"required"` // Получатель
	Text string `json:"text" validate:"required"`  // Текст сообщения
}

// DummySanction используется для приёма формы санкции из JSON-запроса.
// Unit forever означает бессрочную блокировку, поле Duration при этом
// игнорируется.
type DummySanction struct {
	UserID   string `json:"user_id" validate:"required"`                                    // Идентификатор нарушителя
	Level    string `json:"level" validate:"required,oneof=leve moderada intensa"`          // Уровень санкции
	Duration int    `json:"duration,omitempty"`                                             // Количество единиц времени
	Unit     string `json:"unit" validate:"required,oneof=hours days weeks months forever"` // Единица времени
	Reason   string `json:"reason" validate:"required"`                                     // Причина
}

// DummyAppeal используется для приёма апелляции из JSON-запроса.
type DummyAppeal struct {
	Text string `json:"text"` // Текст апелляции (пустой текст — тихий no-op)
}

// DummyProfile используется для приёма изменений профиля из JSON-запроса.
type DummyProfile struct {
	Username string `json:"username" validate:"required,alphanum"` // Новое имя пользователя
	Bio      string `json:"bio,omitempty"`                         // Описание профиля
	Avatar   string `json:"avatar,omitempty"`                      // Ссылка на аватар
}

// DummyPrompt используется для приёма текстового запроса к генеративному
// сервису (генерация изображения или синтез речи).
type DummyPrompt struct {
	Text string `json:"text" validate:"required"` // Текст запроса
}
