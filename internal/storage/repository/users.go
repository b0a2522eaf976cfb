package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

const userColumns = `uid, username, password_hash, avatar, bio, role, is_verified,
		blocked_until, blocked_forever, block_reason, is_terminated, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var blockedUntil sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash, &u.Avatar, &u.Bio,
		&u.Role, &u.IsVerified, &blockedUntil, &u.BlockedForever, &u.BlockReason,
		&u.IsTerminated, &u.CreatedAt); err != nil {
		return nil, err
	}
	if blockedUntil.Valid {
		u.BlockedUntil = &blockedUntil.Time
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (uid, username, password_hash, avatar, bio, role)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Username, user.PasswordHash, user.Avatar, user.Bio,
		user.Role).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, apperr.ErrAlreadyExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateProfile обновляет имя, описание и аватар пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, userUID, username, bio, avatar string) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET username = $1, bio = $2, avatar = $3
			  WHERE uid = $4`
	res, err := s.DB.ExecContext(ctx, query, username, bio, avatar, userUID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, apperr.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// SetBlock устанавливает пользователю временную или бессрочную блокировку.
func (s *Storage) SetBlock(ctx context.Context, userUID string, until *time.Time, forever bool, reason string) error {
	const op = "storage.SetBlock"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET blocked_until = $1, blocked_forever = $2, block_reason = $3
			  WHERE uid = $4`
	res, err := s.DB.ExecContext(ctx, query, until, forever, reason, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// SetTerminated помечает аккаунт терминированным с бессрочной блокировкой.
func (s *Storage) SetTerminated(ctx context.Context, userUID, reason string) error {
	const op = "storage.SetTerminated"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_terminated = TRUE, blocked_forever = TRUE, blocked_until = NULL,
				  block_reason = $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, reason, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// ClearBlock полностью снимает блокировку и терминацию с пользователя.
func (s *Storage) ClearBlock(ctx context.Context, userUID string) error {
	const op = "storage.ClearBlock"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET blocked_until = NULL, blocked_forever = FALSE, block_reason = '',
				  is_terminated = FALSE
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// ReconcileExpiredBlocks снимает истёкшие временные блокировки
// и возвращает затронутых пользователей.
func (s *Storage) ReconcileExpiredBlocks(ctx context.Context, now time.Time) ([]models.User, error) {
	const op = "storage.ReconcileExpiredBlocks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET blocked_until = NULL, block_reason = ''
			  WHERE blocked_until IS NOT NULL
				AND blocked_until <= $1
				AND NOT blocked_forever
				AND NOT is_terminated
			  RETURNING uid, username`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetVerified устанавливает признак верификации пользователя.
func (s *Storage) SetVerified(ctx context.Context, userUID string, verified bool) error {
	const op = "storage.SetVerified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_verified = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, verified, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// SetRole устанавливает роль пользователя.
func (s *Storage) SetRole(ctx context.Context, userUID, role string) error {
	const op = "storage.SetRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, role, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// ListUsers возвращает всех пользователей, отсортированных по дате регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchUsers ищет пользователей по подстроке имени без учёта регистра.
func (s *Storage) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	const op = "storage.SearchUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	q := `SELECT ` + userColumns + `
		  FROM users
		  WHERE username ILIKE '%' || $1 || '%'
		  ORDER BY username
		  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, q, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUser удаляет пользователя; связанные записи удаляются каскадно.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// AddFollow создаёт подписку follower на followee. Возвращает false,
// если подписка уже существовала.
func (s *Storage) AddFollow(ctx context.Context, followerUID, followeeUID string) (bool, error) {
	const op = "storage.AddFollow"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO follows (follower_uid, followee_uid)
			  VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`
	res, err := s.DB.ExecContext(ctx, query, followerUID, followeeUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// RemoveFollow удаляет подписку follower на followee. Возвращает false,
// если подписки не было.
func (s *Storage) RemoveFollow(ctx context.Context, followerUID, followeeUID string) (bool, error) {
	const op = "storage.RemoveFollow"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM follows WHERE follower_uid = $1 AND followee_uid = $2`
	res, err := s.DB.ExecContext(ctx, query, followerUID, followeeUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// IsFollowing сообщает, подписан ли follower на followee.
func (s *Storage) IsFollowing(ctx context.Context, followerUID, followeeUID string) (bool, error) {
	const op = "storage.IsFollowing"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM follows WHERE follower_uid = $1 AND followee_uid = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, followerUID, followeeUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CountFollows возвращает количество подписчиков и подписок пользователя.
func (s *Storage) CountFollows(ctx context.Context, userUID string) (followers, following int, err error) {
	const op = "storage.CountFollows"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
				  (SELECT COUNT(*) FROM follows WHERE followee_uid = $1),
				  (SELECT COUNT(*) FROM follows WHERE follower_uid = $1)`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&followers, &following); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return followers, following, nil
}
