package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/storage"
)

// AddUser регистрирует пользователя в справочнике.
func (m *Memory) AddUser(username string, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[strings.ToLower(strings.TrimSpace(username))] = id
}

// AddPost регистрирует пост и его автора в справочнике.
func (m *Memory) AddPost(postID, authorID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.posts[postID] = authorID
}

// UserIDByUsername ищет пользователя без учёта регистра.
func (m *Memory) UserIDByUsername(_ context.Context, username string) (uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return uuid.Nil, fmt.Errorf("storage/memory/UserIDByUsername: %w", storage.ErrNotFound)
	}

	return id, nil
}

// PostAuthor возвращает автора поста или storage.ErrNotFound.
func (m *Memory) PostAuthor(_ context.Context, postID uuid.UUID) (uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	author, ok := m.posts[postID]
	if !ok {
		return uuid.Nil, fmt.Errorf("storage/memory/PostAuthor: %w", storage.ErrNotFound)
	}

	return author, nil
}

// PostsByAuthor возвращает посты автора (порядок не гарантируется).
func (m *Memory) PostsByAuthor(_ context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []uuid.UUID{}
	for post, author := range m.posts {
		if author == authorID {
			out = append(out, post)
		}
	}

	return out, nil
}
