package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

type warningRecord struct {
	models.ControversyWarning
}

// CreateWarning создаёт предупреждение; повтор — storage.ErrConflict.
func (m *Memory) CreateWarning(ctx context.Context, postID uuid.UUID, active bool, at time.Time) (*models.ControversyWarning, error) {
	const op = "storage/memory/CreateWarning"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.warnings[postID]; ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	w := models.ControversyWarning{
		ID:         uuid.NewString(),
		PostID:     postID,
		Voters:     []uuid.UUID{},
		Active:     active,
		CreatedAt:  at.UTC(),
		ModifiedAt: at.UTC(),
	}
	m.warnings[postID] = warningRecord{ControversyWarning: w}

	out := w.Clone()
	return &out, nil
}

// AddVote — проверка повторного голоса и мутация под одной блокировкой записи.
func (m *Memory) AddVote(ctx context.Context, postID, voter uuid.UUID, threshold int, at time.Time) (*models.ControversyWarning, bool, error) {
	const op = "storage/memory/AddVote"

	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.warnings[postID]
	if !ok {
		return nil, false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if rec.HasVoted(voter) {
		return nil, false, fmt.Errorf("%s: %w", op, storage.ErrAlreadyVoted)
	}

	next, activated := rec.Voted(voter, threshold, at.UTC())
	m.warnings[postID] = warningRecord{ControversyWarning: next}

	out := next.Clone()
	return &out, activated, nil
}

// WarningByPost возвращает предупреждение или storage.ErrNotFound.
func (m *Memory) WarningByPost(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, error) {
	const op = "storage/memory/WarningByPost"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.warnings[postID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := rec.Clone()
	return &out, nil
}

// ListWarnings возвращает предупреждения (modified_at DESC).
func (m *Memory) ListWarnings(ctx context.Context, f models.WarningFilter) ([]models.ControversyWarning, error) {
	const op = "storage/memory/ListWarnings"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.RLock()
	out := make([]models.ControversyWarning, 0, len(m.warnings))
	for id, rec := range m.warnings {
		if f.PostIDs != nil && !slices.Contains(f.PostIDs, id) {
			continue
		}
		out = append(out, rec.Clone())
	}
	m.mu.RUnlock()

	models.SortWarningsByRecent(out)

	return out, nil
}

// DeleteWarningByPost удаляет предупреждение поста; нет записи — storage.ErrNotFound.
func (m *Memory) DeleteWarningByPost(ctx context.Context, postID uuid.UUID) error {
	const op = "storage/memory/DeleteWarningByPost"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.warnings[postID]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	delete(m.warnings, postID)

	return nil
}
