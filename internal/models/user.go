// Package models содержит доменные структуры социальной сети Portainfo:
// пользователей, публикации, уведомления, сообщения и апелляции,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей системы.
const (
	// RoleUser — обычный пользователь.
	RoleUser = "user"
	// RoleCreator — привилегированная роль с правами модерации.
	RoleCreator = "creator"
)

// CreatorUsername — служебная учётная запись платформы. Она никогда
// не теряет роль creator и не может быть терминирована.
const CreatorUsername = "portainfo"

// User представляет зарегистрированного пользователя системы.
//
// Поля блокировки: BlockedUntil хранит момент окончания временной
// блокировки (nil — блокировки нет), BlockedForever — признак
// бессрочной блокировки, IsTerminated — признак терминации аккаунта.
// Терминация снимается только явным разблокированием со стороны creator.
type User struct {
	UID            string     // Уникальный идентификатор пользователя
	Username       string     // Имя пользователя (уникальное)
	PasswordHash   string     // Хэш пароля пользователя
	Avatar         string     // Ссылка на аватар
	Bio            string     // Описание профиля
	Role           string     // Роль пользователя, creator или user
	IsVerified     bool       // Признак верификации
	BlockedUntil   *time.Time // Момент окончания временной блокировки
	BlockedForever bool       // Бессрочная блокировка
	BlockReason    string     // Причина блокировки
	IsTerminated   bool       // Признак терминации аккаунта
	CreatedAt      time.Time  // Дата регистрации
}

// Profile объединяет пользователя со счётчиками его социального графа.
// Используется при просмотре чужих и собственных профилей.
type Profile struct {
	User           *User
	Followers      int  // Количество подписчиков
	Following      int  // Количество подписок
	IsFollowing    bool // Подписан ли текущий пользователь на владельца профиля
	PendingAppeals int  // Количество нерассмотренных апелляций
}
