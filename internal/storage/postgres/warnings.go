package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

const warningColumns = `id, post_id, vote_count, voters, active, created_at, modified_at`

func scanWarning(row pgx.Row) (*models.ControversyWarning, error) {
	var (
		w  models.ControversyWarning
		id uuid.UUID
	)

	if err := row.Scan(&id, &w.PostID, &w.VoteCount, &w.Voters, &w.Active, &w.CreatedAt, &w.ModifiedAt); err != nil {
		return nil, err
	}

	w.ID = id.String()
	if w.Voters == nil {
		w.Voters = []uuid.UUID{}
	}
	w.CreatedAt = w.CreatedAt.UTC()
	w.ModifiedAt = w.ModifiedAt.UTC()

	return &w, nil
}

// CreateWarning создаёт предупреждение с нулём голосов; повтор — storage.ErrConflict.
func (s *Storage) CreateWarning(ctx context.Context, postID uuid.UUID, active bool, at time.Time) (*models.ControversyWarning, error) {
	const op = "storage/postgres/CreateWarning"

	query := `
		INSERT INTO controversy_warnings(id, post_id, vote_count, voters, active, created_at, modified_at)
		VALUES ($1, $2, 0, '{}', $3, $4, $4)
		RETURNING ` + warningColumns

	out, err := scanWarning(s.db.QueryRow(ctx, query, uuid.New(), postID, active, toDB(at)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// AddVote блокирует строку предупреждения (SELECT ... FOR UPDATE), проверяет повторный голос
// и записывает новое состояние в той же транзакции.
func (s *Storage) AddVote(ctx context.Context, postID, voter uuid.UUID, threshold int, at time.Time) (*models.ControversyWarning, bool, error) {
	const op = "storage/postgres/AddVote"

	var (
		next      models.ControversyWarning
		activated bool
	)

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		query := `SELECT ` + warningColumns + ` FROM controversy_warnings WHERE post_id = $1 FOR UPDATE`

		cur, err := scanWarning(tx.QueryRow(ctx, query, postID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotFound
			}

			return err
		}

		if cur.HasVoted(voter) {
			return storage.ErrAlreadyVoted
		}

		next, activated = cur.Voted(voter, threshold, toDB(at))

		_, err = tx.Exec(ctx, `
			UPDATE controversy_warnings
			SET voters = $2, vote_count = $3, active = $4, modified_at = $5
			WHERE id = $1`,
			cur.ID, next.Voters, next.VoteCount, next.Active, next.ModifiedAt,
		)

		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return &next, activated, nil
}

// WarningByPost возвращает предупреждение поста.
func (s *Storage) WarningByPost(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, error) {
	const op = "storage/postgres/WarningByPost"

	query := `SELECT ` + warningColumns + ` FROM controversy_warnings WHERE post_id = $1`

	out, err := scanWarning(s.db.QueryRow(ctx, query, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ListWarnings возвращает предупреждения; сортировка modified_at DESC, id DESC.
func (s *Storage) ListWarnings(ctx context.Context, f models.WarningFilter) ([]models.ControversyWarning, error) {
	const op = "storage/postgres/ListWarnings"

	if f.PostIDs != nil && len(f.PostIDs) == 0 {
		return []models.ControversyWarning{}, nil
	}

	query := `SELECT ` + warningColumns + ` FROM controversy_warnings`
	var args []any
	if f.PostIDs != nil {
		query += ` WHERE post_id = ANY($1)`
		args = append(args, f.PostIDs)
	}
	query += ` ORDER BY modified_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.ControversyWarning{}
	for rows.Next() {
		w, err := scanWarning(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// DeleteWarningByPost удаляет предупреждение поста.
func (s *Storage) DeleteWarningByPost(ctx context.Context, postID uuid.UUID) error {
	const op = "storage/postgres/DeleteWarningByPost"

	tag, err := s.db.Exec(ctx, `DELETE FROM controversy_warnings WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
