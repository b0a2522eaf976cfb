package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/lib/reaction"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

const postColumns = `p.id, p.author_uid, p.author_username, p.author_avatar,
		p.title, p.description, p.image, p.category,
		p.likes, p.dislikes, p.republications,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
		p.created_at`

// visibleAuthor отбирает публикации авторов без действующей блокировки.
// Учётная запись creator видна всегда.
const visibleAuthor = `(u.role = 'creator' OR (NOT u.is_terminated AND NOT u.blocked_forever
		AND (u.blocked_until IS NULL OR u.blocked_until <= now())))`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	if err := row.Scan(&p.ID, &p.AuthorUID, &p.AuthorUsername, &p.AuthorAvatar,
		&p.Title, &p.Description, &p.Image, &p.Category,
		&p.Likes, &p.Dislikes, &p.Republications, &p.CommentCount,
		&p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePost сохраняет новую публикацию и возвращает её ID.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (string, error) {
	const op = "storage.CreatePost"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO posts (id, author_uid, author_username, author_avatar,
				  title, description, image, category)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		post.ID, post.AuthorUID, post.AuthorUsername, post.AuthorAvatar,
		post.Title, post.Description, post.Image, post.Category).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemovePost удаляет публикацию вместе с комментариями и реакциями.
func (s *Storage) RemovePost(ctx context.Context, postID string) error {
	const op = "storage.RemovePost"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// ReadPost возвращает публикацию с комментариями.
func (s *Storage) ReadPost(ctx context.Context, postID string) (*models.Post, error) {
	const op = "storage.ReadPost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.id = $1`
	p, err := scanPost(s.DB.QueryRowContext(ctx, query, postID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments, err := s.listComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Comments = comments
	return p, nil
}

// ListPosts возвращает ленту публикаций по фильтру. Публикации авторов
// с действующей блокировкой в ленту не попадают.
func (s *Storage) ListPosts(ctx context.Context, filter models.FeedFilter) ([]*models.Post, error) {
	const op = "storage.ListPosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + postColumns + `
			  FROM posts p
			  JOIN users u ON u.uid = p.author_uid
			  WHERE ` + visibleAuthor + `
				AND ($1 = '' OR p.category = $1)
				AND ($2 = '' OR p.title ILIKE '%' || $2 || '%'
					OR p.description ILIKE '%' || $2 || '%')
				AND (NOT $3 OR EXISTS (
					SELECT 1 FROM follows f
					WHERE f.follower_uid = $4 AND f.followee_uid = p.author_uid))
			  ORDER BY p.created_at DESC
			  LIMIT $5 OFFSET $6`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.Category, filter.Query, filter.FollowingOnly, filter.ViewerUID,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddComment сохраняет комментарий к публикации и возвращает его ID.
func (s *Storage) AddComment(ctx context.Context, comment models.Comment) (string, error) {
	const op = "storage.AddComment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO comments (id, post_id, author_uid, author_username, author_avatar, text)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	err := s.DB.QueryRowContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorUID, comment.AuthorUsername,
		comment.AuthorAvatar, comment.Text).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

func (s *Storage) listComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `SELECT id, post_id, author_uid, author_username, author_avatar, text, created_at
			  FROM comments
			  WHERE post_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorUID, &c.AuthorUsername,
			&c.AuthorAvatar, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ReactResult описывает итог применения реакции.
type ReactResult struct {
	State     reaction.State // Реакции пользователя после применения
	AuthorUID string         // Автор публикации
	LikedNow  bool           // Лайк появился этим действием
}

// React применяет реакцию пользователя к публикации в одной транзакции:
// строки реакций и счётчики публикации изменяются вместе.
func (s *Storage) React(ctx context.Context, postID, userUID string, kind reaction.Kind) (*ReactResult, error) {
	const op = "storage.React"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var authorUID string
	err = tx.QueryRowContext(ctx,
		`SELECT author_uid FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&authorUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	state, err := readReactionState(ctx, tx, postID, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	next, delta, err := reaction.Apply(state, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := writeReactionState(ctx, tx, postID, userUID, state, next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts
		 SET likes = likes + $1, dislikes = dislikes + $2, republications = republications + $3
		 WHERE id = $4`,
		delta.Likes, delta.Dislikes, delta.Republications, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &ReactResult{
		State:     next,
		AuthorUID: authorUID,
		LikedNow:  next.Liked && !state.Liked,
	}, nil
}

func readReactionState(ctx context.Context, tx *sql.Tx, postID, userUID string) (reaction.State, error) {
	var state reaction.State
	rows, err := tx.QueryContext(ctx,
		`SELECT kind FROM reactions WHERE post_id = $1 AND user_uid = $2`, postID, userUID)
	if err != nil {
		return state, err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return state, err
		}
		switch reaction.Kind(kind) {
		case reaction.Like:
			state.Liked = true
		case reaction.Dislike:
			state.Disliked = true
		case reaction.Republish:
			state.Republished = true
		}
	}
	return state, rows.Err()
}

func writeReactionState(ctx context.Context, tx *sql.Tx, postID, userUID string, prev, next reaction.State) error {
	type change struct {
		kind reaction.Kind
		was  bool
		now  bool
	}
	changes := []change{
		{reaction.Like, prev.Liked, next.Liked},
		{reaction.Dislike, prev.Disliked, next.Disliked},
		{reaction.Republish, prev.Republished, next.Republished},
	}
	for _, c := range changes {
		switch {
		case !c.was && c.now:
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO reactions (post_id, user_uid, kind) VALUES ($1, $2, $3)`,
				postID, userUID, string(c.kind)); err != nil {
				return err
			}
		case c.was && !c.now:
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM reactions WHERE post_id = $1 AND user_uid = $2 AND kind = $3`,
				postID, userUID, string(c.kind)); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetReactionState возвращает реакции пользователя на публикацию.
func (s *Storage) GetReactionState(ctx context.Context, postID, userUID string) (reaction.State, error) {
	const op = "storage.GetReactionState"
	var state reaction.State
	select {
	case <-ctx.Done():
		return state, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT kind FROM reactions WHERE post_id = $1 AND user_uid = $2`, postID, userUID)
	if err != nil {
		return state, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return state, fmt.Errorf("%s: %w", op, err)
		}
		switch reaction.Kind(kind) {
		case reaction.Like:
			state.Liked = true
		case reaction.Dislike:
			state.Disliked = true
		case reaction.Republish:
			state.Republished = true
		}
	}
	if err = rows.Err(); err != nil {
		return state, fmt.Errorf("%s: %w", op, err)
	}
	return state, nil
}
