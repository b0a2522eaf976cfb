package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/portainfo/internal/models"
)

// CreateMessage сохраняет личное сообщение и возвращает его ID.
func (s *Storage) CreateMessage(ctx context.Context, m models.Message) (string, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO messages (id, from_uid, to_uid, text)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	err := s.DB.QueryRowContext(ctx, query, m.ID, m.FromUID, m.ToUID, m.Text).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListConversation возвращает переписку двух пользователей в хронологическом порядке.
func (s *Storage) ListConversation(ctx context.Context, firstUID, secondUID string, limit, offset int) ([]*models.Message, error) {
	const op = "storage.ListConversation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, from_uid, to_uid, text, created_at
			  FROM messages
			  WHERE (from_uid = $1 AND to_uid = $2) OR (from_uid = $2 AND to_uid = $1)
			  ORDER BY created_at
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, firstUID, secondUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.FromUID, &m.ToUID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
