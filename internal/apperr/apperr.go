// Package apperr содержит сигнальные ошибки прикладного уровня.
// Сервисы возвращают их через fmt.Errorf("%s: %w", op, err), а HTTP-слой
// сопоставляет их с кодами ответов через errors.Is.
package apperr

import "errors"

var (
	// ErrAuthenticationRequired — запрос требует аутентификации.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrPermissionDenied — у пользователя нет прав на операцию.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound — запрошенная сущность не существует.
	ErrNotFound = errors.New("not found")
	// ErrValidation — данные запроса не прошли доменную проверку.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists — сущность с таким уникальным ключом уже есть.
	ErrAlreadyExists = errors.New("already exists")
)
