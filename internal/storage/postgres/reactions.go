package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

const reactionColumns = `id, post_id, author_id, emotion, created_at, modified_at`

func scanReaction(row pgx.Row) (*models.Reaction, error) {
	var (
		r       models.Reaction
		id      uuid.UUID
		emotion string
	)

	if err := row.Scan(&id, &r.PostID, &r.AuthorID, &emotion, &r.CreatedAt, &r.ModifiedAt); err != nil {
		return nil, err
	}

	r.ID = id.String()
	r.Emotion = models.Emotion(emotion)
	r.CreatedAt = r.CreatedAt.UTC()
	r.ModifiedAt = r.ModifiedAt.UTC()

	return &r, nil
}

// CreateReaction создаёт реакцию; конфликт (post_id, author_id) — storage.ErrConflict.
func (s *Storage) CreateReaction(ctx context.Context, r models.Reaction, at time.Time) (*models.Reaction, error) {
	const op = "storage/postgres/CreateReaction"

	query := `
		INSERT INTO reactions(id, post_id, author_id, emotion, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + reactionColumns

	now := toDB(at)
	out, err := scanReaction(s.db.QueryRow(ctx, query, uuid.New(), r.PostID, r.AuthorID, string(r.Emotion), now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateReaction меняет emotion и modified_at существующей реакции.
func (s *Storage) UpdateReaction(ctx context.Context, postID, authorID uuid.UUID, emotion models.Emotion, at time.Time) (*models.Reaction, error) {
	const op = "storage/postgres/UpdateReaction"

	query := `
		UPDATE reactions
		SET emotion = $3, modified_at = $4
		WHERE post_id = $1 AND author_id = $2
		RETURNING ` + reactionColumns

	out, err := scanReaction(s.db.QueryRow(ctx, query, postID, authorID, string(emotion), toDB(at)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// DeleteReaction удаляет реакцию; если её нет — storage.ErrNotFound.
func (s *Storage) DeleteReaction(ctx context.Context, postID, authorID uuid.UUID) error {
	const op = "storage/postgres/DeleteReaction"

	tag, err := s.db.Exec(ctx, `DELETE FROM reactions WHERE post_id = $1 AND author_id = $2`, postID, authorID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ReactionByPostAndAuthor находит реакцию пользователя на пост.
func (s *Storage) ReactionByPostAndAuthor(ctx context.Context, postID, authorID uuid.UUID) (*models.Reaction, error) {
	const op = "storage/postgres/ReactionByPostAndAuthor"

	query := `SELECT ` + reactionColumns + ` FROM reactions WHERE post_id = $1 AND author_id = $2`

	out, err := scanReaction(s.db.QueryRow(ctx, query, postID, authorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ListReactions возвращает реакции по фильтру в порядке post_id, emotion, created_at, id.
func (s *Storage) ListReactions(ctx context.Context, f models.ReactionFilter) ([]models.Reaction, error) {
	const op = "storage/postgres/ListReactions"

	if f.PostIDs != nil && len(f.PostIDs) == 0 {
		return []models.Reaction{}, nil
	}

	var (
		where []string
		args  []any
	)
	if f.PostIDs != nil {
		args = append(args, f.PostIDs)
		where = append(where, fmt.Sprintf("post_id = ANY($%d)", len(args)))
	}
	if f.AuthorID != uuid.Nil {
		args = append(args, f.AuthorID)
		where = append(where, fmt.Sprintf("author_id = $%d", len(args)))
	}

	query := `SELECT ` + reactionColumns + ` FROM reactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY post_id, emotion, created_at, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Reaction{}
	for rows.Next() {
		r, err := scanReaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// DeleteReactionsByPost удаляет все реакции поста.
func (s *Storage) DeleteReactionsByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	const op = "storage/postgres/DeleteReactionsByPost"

	tag, err := s.db.Exec(ctx, `DELETE FROM reactions WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

// DeleteReactionsByAuthor удаляет все реакции пользователя.
func (s *Storage) DeleteReactionsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	const op = "storage/postgres/DeleteReactionsByAuthor"

	tag, err := s.db.Exec(ctx, `DELETE FROM reactions WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}
