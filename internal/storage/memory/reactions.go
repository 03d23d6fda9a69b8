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

type reactionRecord struct {
	models.Reaction
	seq uint64
}

// CreateReaction создаёт реакцию; дубль по (post, author) — storage.ErrConflict.
func (m *Memory) CreateReaction(ctx context.Context, r models.Reaction, at time.Time) (*models.Reaction, error) {
	const op = "storage/memory/CreateReaction"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := reactionKey{post: r.PostID, author: r.AuthorID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reactions[key]; ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	r.ID = uuid.NewString()
	r.CreatedAt = at.UTC()
	r.ModifiedAt = at.UTC()
	m.reactions[key] = reactionRecord{Reaction: r, seq: m.nextSeq()}

	return &r, nil
}

// UpdateReaction меняет emotion/modified_at; нет записи — storage.ErrNotFound.
func (m *Memory) UpdateReaction(ctx context.Context, postID, authorID uuid.UUID, emotion models.Emotion, at time.Time) (*models.Reaction, error) {
	const op = "storage/memory/UpdateReaction"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := reactionKey{post: postID, author: authorID}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.reactions[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	rec.Emotion = emotion
	rec.ModifiedAt = at.UTC()
	m.reactions[key] = rec

	out := rec.Reaction
	return &out, nil
}

// DeleteReaction удаляет реакцию; нет записи — storage.ErrNotFound.
func (m *Memory) DeleteReaction(ctx context.Context, postID, authorID uuid.UUID) error {
	const op = "storage/memory/DeleteReaction"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := reactionKey{post: postID, author: authorID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reactions[key]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	delete(m.reactions, key)

	return nil
}

// ReactionByPostAndAuthor возвращает реакцию или storage.ErrNotFound.
func (m *Memory) ReactionByPostAndAuthor(ctx context.Context, postID, authorID uuid.UUID) (*models.Reaction, error) {
	const op = "storage/memory/ReactionByPostAndAuthor"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.reactions[reactionKey{post: postID, author: authorID}]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := rec.Reaction
	return &out, nil
}

// ListReactions возвращает реакции по фильтру (post_id, emotion, created_at, вставка).
func (m *Memory) ListReactions(ctx context.Context, f models.ReactionFilter) ([]models.Reaction, error) {
	const op = "storage/memory/ListReactions"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if f.PostIDs != nil && len(f.PostIDs) == 0 {
		return []models.Reaction{}, nil
	}

	m.mu.RLock()
	recs := make([]reactionRecord, 0, len(m.reactions))
	for _, rec := range m.reactions {
		if f.PostIDs != nil && !slices.Contains(f.PostIDs, rec.PostID) {
			continue
		}
		if f.AuthorID != uuid.Nil && rec.AuthorID != f.AuthorID {
			continue
		}
		recs = append(recs, rec)
	}
	m.mu.RUnlock()

	slices.SortStableFunc(recs, func(a, b reactionRecord) int {
		if c := compareUUID(a.PostID, b.PostID); c != 0 {
			return c
		}
		if a.Emotion != b.Emotion {
			if a.Emotion < b.Emotion {
				return -1
			}
			return 1
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	out := make([]models.Reaction, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Reaction)
	}

	return out, nil
}

// DeleteReactionsByPost удаляет все реакции поста.
func (m *Memory) DeleteReactionsByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	return m.deleteReactionsWhere(ctx, func(k reactionKey) bool { return k.post == postID })
}

// DeleteReactionsByAuthor удаляет все реакции пользователя.
func (m *Memory) DeleteReactionsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	return m.deleteReactionsWhere(ctx, func(k reactionKey) bool { return k.author == authorID })
}

func (m *Memory) deleteReactionsWhere(ctx context.Context, match func(reactionKey) bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("storage/memory/deleteReactions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for k := range m.reactions {
		if match(k) {
			delete(m.reactions, k)
			n++
		}
	}

	return n, nil
}

func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}

	return 0
}
