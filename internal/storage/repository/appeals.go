package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/portainfo/internal/models"
)

// CreateAppeal сохраняет апелляцию пользователя и возвращает её ID.
func (s *Storage) CreateAppeal(ctx context.Context, a models.Appeal) (string, error) {
	const op = "storage.CreateAppeal"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO appeals (id, user_uid, username, text, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	err := s.DB.QueryRowContext(ctx, query, a.ID, a.UserUID, a.Username, a.Text, a.Status).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListAppeals возвращает все апелляции, новые первыми.
func (s *Storage) ListAppeals(ctx context.Context) ([]*models.Appeal, error) {
	const op = "storage.ListAppeals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, text, status, created_at
			  FROM appeals
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Appeal
	for rows.Next() {
		a := &models.Appeal{}
		if err := rows.Scan(&a.ID, &a.UserUID, &a.Username, &a.Text, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ResolveAppeals помечает все нерассмотренные апелляции пользователя
// рассмотренными. Вызывается при разблокировке.
func (s *Storage) ResolveAppeals(ctx context.Context, userUID string) error {
	const op = "storage.ResolveAppeals"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`UPDATE appeals SET status = $1 WHERE user_uid = $2 AND status = $3`,
		models.AppealResolved, userUID, models.AppealPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountPendingAppeals возвращает количество нерассмотренных апелляций пользователя.
func (s *Storage) CountPendingAppeals(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountPendingAppeals"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appeals WHERE user_uid = $1 AND status = $2`,
		userUID, models.AppealPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
