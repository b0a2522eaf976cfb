package models

import "time"

// Post представляет публикацию. Данные автора (имя, аватар) — это
// снимок на момент создания: при последующем переименовании автора
// старые публикации не обновляются.
//
// Счётчики likes/dislikes/republications всегда равны числу
// пользователей, в чьих наборах реакций присутствует идентификатор
// публикации; обновление счётчиков и наборов выполняется в одной
// транзакции хранилища.
type Post struct {
	ID             string    // Уникальный идентификатор публикации
	AuthorUID      string    // Идентификатор автора
	AuthorUsername string    // Имя автора на момент создания
	AuthorAvatar   string    // Аватар автора на момент создания
	Title          string    // Заголовок
	Description    string    // Текст публикации
	Image          string    // Ссылка или data-URI изображения (опционально)
	Category       string    // Категория публикации
	Tags           []string  // Хэштеги, извлечённые из текста (не хранятся)
	Likes          int       // Количество лайков
	Dislikes       int       // Количество дизлайков
	Republications int       // Количество репостов
	CommentCount   int       // Количество комментариев
	Comments       []*Comment // Комментарии (заполняются при чтении публикации)
	CreatedAt      time.Time // Дата создания
}

// Comment представляет комментарий к публикации. Автор также хранится
// снимком на момент создания.
type Comment struct {
	ID             string    // Уникальный идентификатор комментария
	PostID         string    // Идентификатор публикации
	AuthorUID      string    // Идентификатор автора
	AuthorUsername string    // Имя автора на момент создания
	AuthorAvatar   string    // Аватар автора на момент создания
	Text           string    // Текст комментария
	CreatedAt      time.Time // Дата создания
}

// FeedFilter описывает фильтры ленты публикаций, передаваемые в слой
// доступа к данным. ViewerUID пустой для неаутентифицированных читателей.
type FeedFilter struct {
	ViewerUID     string // Идентификатор читателя (пустой — аноним)
	FollowingOnly bool   // Лента «подписки»: только авторы, на которых подписан читатель
	Category      string // Фильтр по категории (пустой — все)
	Query         string // Поиск по заголовку, тексту и хэштегам
	Limit         int
	Offset        int
}
