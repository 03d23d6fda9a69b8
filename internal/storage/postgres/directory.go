package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/fritter-signals/internal/storage"
)

// UserIDByUsername находит пользователя по имени (CITEXT — без учёта регистра).
func (s *Storage) UserIDByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	const op = "storage/postgres/UserIDByUsername"

	var id uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, strings.TrimSpace(username)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// PostAuthor возвращает автора поста.
func (s *Storage) PostAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	const op = "storage/postgres/PostAuthor"

	var author uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT author_id FROM freets WHERE id = $1`, postID).Scan(&author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return author, nil
}

// PostsByAuthor возвращает идентификаторы постов автора.
func (s *Storage) PostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	const op = "storage/postgres/PostsByAuthor"

	rows, err := s.db.Query(ctx, `SELECT id FROM freets WHERE author_id = $1 ORDER BY id`, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ids, nil
}
