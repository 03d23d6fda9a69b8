// Package storage описывает контракт авторитетного хранилища реакций и предупреждений.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (реакция на пару post/author, предупреждение на пост).
	ErrConflict = errors.New("conflict")
	// ErrAlreadyVoted — пользователь уже голосовал по этому предупреждению.
	ErrAlreadyVoted = errors.New("already voted")
)

// Storage описывает операции над реакциями и предупреждениями.
// Все мутации атомарны по ключу: либо применены целиком, либо не применены вовсе.
type Storage interface {
	// CreateReaction сохраняет новую реакцию; ID, CreatedAt и ModifiedAt проставляются хранилищем
	// из переданного at. Если реакция на (PostID, AuthorID) уже есть — ErrConflict.
	CreateReaction(ctx context.Context, r models.Reaction, at time.Time) (*models.Reaction, error)

	// UpdateReaction меняет emotion и modified_at существующей реакции (created_at не трогается).
	// Если реакции нет — ErrNotFound.
	UpdateReaction(ctx context.Context, postID, authorID uuid.UUID, emotion models.Emotion, at time.Time) (*models.Reaction, error)

	// DeleteReaction удаляет реакцию. Повторное удаление — ErrNotFound.
	DeleteReaction(ctx context.Context, postID, authorID uuid.UUID) error

	// ReactionByPostAndAuthor возвращает реакцию пользователя на пост или ErrNotFound.
	ReactionByPostAndAuthor(ctx context.Context, postID, authorID uuid.UUID) (*models.Reaction, error)

	// ListReactions возвращает реакции по фильтру.
	// Сортировка: post_id, emotion ASC, created_at ASC, id ASC.
	ListReactions(ctx context.Context, f models.ReactionFilter) ([]models.Reaction, error)

	// DeleteReactionsByPost удаляет все реакции поста, возвращает количество удалённых.
	DeleteReactionsByPost(ctx context.Context, postID uuid.UUID) (int64, error)

	// DeleteReactionsByAuthor удаляет все реакции пользователя, возвращает количество удалённых.
	DeleteReactionsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)

	// CreateWarning создаёт предупреждение с нулём голосов. Если уже есть — ErrConflict.
	CreateWarning(ctx context.Context, postID uuid.UUID, active bool, at time.Time) (*models.ControversyWarning, error)

	// AddVote атомарно добавляет voter в voters и увеличивает vote_count;
	// active выставляется, если ещё не был, при vote_count >= threshold.
	// Проверка повторного голоса и мутация — одна операция хранилища.
	// Возвращает новое состояние и признак активации этим голосом.
	// Ошибки: ErrNotFound — предупреждения нет; ErrAlreadyVoted — voter уже в voters.
	AddVote(ctx context.Context, postID, voter uuid.UUID, threshold int, at time.Time) (*models.ControversyWarning, bool, error)

	// WarningByPost возвращает предупреждение поста или ErrNotFound.
	WarningByPost(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, error)

	// ListWarnings возвращает предупреждения по фильтру. Сортировка: modified_at DESC.
	ListWarnings(ctx context.Context, f models.WarningFilter) ([]models.ControversyWarning, error)

	// DeleteWarningByPost удаляет предупреждение поста. Если его нет — ErrNotFound.
	DeleteWarningByPost(ctx context.Context, postID uuid.UUID) error

	// Close закрывает соединения/ресурсы хранилища.
	Close()
}

// Directory — разрешение идентичностей, принадлежащее окружающей системе (пользователи и посты).
type Directory interface {
	// UserIDByUsername возвращает идентификатор пользователя или ErrNotFound.
	UserIDByUsername(ctx context.Context, username string) (uuid.UUID, error)

	// PostAuthor подтверждает существование поста и возвращает его автора или ErrNotFound.
	PostAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error)

	// PostsByAuthor возвращает идентификаторы постов автора (возможно пустой срез).
	PostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error)
}
