package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/pkg/log"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

// ReactionQuery — параметры выборки реакций.
// Правила:
//   - PostID задан — реакции одного поста (emotion, created_at, id);
//   - PostAuthor задан — реакции на посты этого автора (UUID или имя);
//   - Author задан — реакции, оставленные этим пользователем (UUID или имя);
//   - без фильтров — все реакции, последние изменённые первыми.
type ReactionQuery struct {
	PostID     uuid.UUID
	Author     string
	PostAuthor string
}

func validateKey(postID, userID uuid.UUID) error {
	if postID == uuid.Nil {
		return errors.New("empty post_id")
	}

	if userID == uuid.Nil {
		return errors.New("empty user_id")
	}

	return nil
}

// React — создание реакции пользователя на пост.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустые идентификаторы;
//   - ErrInvalidEmotion — метка вне набора (сравнение без учёта регистра);
//   - ErrNotFound — пост не найден в справочнике;
//   - ErrConflict — реакция на (post, user) уже есть, нужен UpdateReaction;
//   - ErrInternal — прочие ошибки стораджа.
func (s *Service) React(ctx context.Context, postID, userID uuid.UUID, emotion string) (*models.Reaction, error) {
	const op = "service/reactions/React"

	lg := log.From(ctx).With("op", op, "post_id", postID.String(), "user_id", userID.String())

	if err := validateKey(postID, userID); err != nil {
		lg.Warn("invalid argument: " + err.Error())
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	e, ok := models.ParseEmotion(emotion)
	if !ok {
		lg.Warn("invalid emotion", "emotion", emotion)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmotion)
	}

	if err := s.ensurePost(ctx, postID); err != nil {
		lg.Warn("post check failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := models.Reaction{PostID: postID, AuthorID: userID, Emotion: e}

	result, err := s.storage.CreateReaction(ctx, r, s.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			lg.Warn("reaction already exists")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		default:
			lg.Error("storage error on CreateReaction", "err", err)
			return nil, internalErr(op, err)
		}
	}

	s.metrics.ReactionOp("create", 1)
	lg.Debug("reaction_created", "emotion", string(e))

	return result, nil
}

// UpdateReaction — смена emotion существующей реакции (created_at не меняется).
//
// Поведение/ошибки:
//   - ErrInvalidArgument / ErrInvalidEmotion — как в React;
//   - ErrNotFound — реакции нет;
//   - ErrInternal — прочие ошибки стораджа.
func (s *Service) UpdateReaction(ctx context.Context, postID, userID uuid.UUID, emotion string) (*models.Reaction, error) {
	const op = "service/reactions/UpdateReaction"

	lg := log.From(ctx).With("op", op, "post_id", postID.String(), "user_id", userID.String())

	if err := validateKey(postID, userID); err != nil {
		lg.Warn("invalid argument: " + err.Error())
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	e, ok := models.ParseEmotion(emotion)
	if !ok {
		lg.Warn("invalid emotion", "emotion", emotion)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmotion)
	}

	result, err := s.storage.UpdateReaction(ctx, postID, userID, e, s.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("reaction not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateReaction", "err", err)
			return nil, internalErr(op, err)
		}
	}

	s.metrics.ReactionOp("update", 1)

	return result, nil
}

// RemoveReaction — удаление реакции. Повторное удаление — ErrNotFound.
func (s *Service) RemoveReaction(ctx context.Context, postID, userID uuid.UUID) error {
	const op = "service/reactions/RemoveReaction"

	lg := log.From(ctx).With("op", op, "post_id", postID.String(), "user_id", userID.String())

	if err := validateKey(postID, userID); err != nil {
		lg.Warn("invalid argument: " + err.Error())
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteReaction(ctx, postID, userID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("reaction not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteReaction", "err", err)
			return internalErr(op, err)
		}
	}

	s.metrics.ReactionOp("delete", 1)

	return nil
}

// FindReaction — реакция пользователя на пост. Отсутствие — обычный результат (nil, false, nil).
func (s *Service) FindReaction(ctx context.Context, postID, userID uuid.UUID) (*models.Reaction, bool, error) {
	const op = "service/reactions/FindReaction"

	lg := log.From(ctx).With("op", op, "post_id", postID.String(), "user_id", userID.String())

	if err := validateKey(postID, userID); err != nil {
		lg.Warn("invalid argument: " + err.Error())
		return nil, false, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.ReactionByPostAndAuthor(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}

		lg.Error("storage error on ReactionByPostAndAuthor", "err", err)
		return nil, false, internalErr(op, err)
	}

	return result, true, nil
}

// ListReactions — выборка реакций по ReactionQuery.
//
// Поведение/ошибки:
//   - ErrNotFound — не найден пользователь, заданный по имени;
//   - ErrInvalidArgument — фильтр по имени без подключённого справочника;
//   - ErrInternal — прочие ошибки стораджа.
func (s *Service) ListReactions(ctx context.Context, q ReactionQuery) ([]models.Reaction, error) {
	const op = "service/reactions/ListReactions"

	lg := log.From(ctx).With("op", op)

	var f models.ReactionFilter

	if q.PostID != uuid.Nil {
		f.PostIDs = []uuid.UUID{q.PostID}
	}

	if strings.TrimSpace(q.PostAuthor) != "" {
		posts, err := s.postsOf(ctx, q.PostAuthor)
		if err != nil {
			lg.Warn("post author filter failed", "post_author", q.PostAuthor, "err", err)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		f.PostIDs = intersect(f.PostIDs, posts)
	}

	if strings.TrimSpace(q.Author) != "" {
		authorID, err := s.resolveUser(ctx, q.Author)
		if err != nil {
			lg.Warn("author filter failed", "author", q.Author, "err", err)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		f.AuthorID = authorID
	}

	items, err := s.storage.ListReactions(ctx, f)
	if err != nil {
		lg.Error("storage error on ListReactions", "err", err)
		return nil, internalErr(op, err)
	}

	if f.PostIDs == nil {
		models.SortByRecent(items)
	}

	return items, nil
}

// PurgePost — каскадное удаление сигналов уничтоженного поста: все реакции и предупреждение.
// Возвращает число удалённых реакций.
func (s *Service) PurgePost(ctx context.Context, postID uuid.UUID) (int64, error) {
	const op = "service/reactions/PurgePost"

	lg := log.From(ctx).With("op", op, "post_id", postID.String())

	if postID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	n, err := s.storage.DeleteReactionsByPost(ctx, postID)
	if err != nil {
		lg.Error("storage error on DeleteReactionsByPost", "err", err)
		return 0, internalErr(op, err)
	}

	if err := s.storage.DeleteWarningByPost(ctx, postID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		lg.Error("storage error on DeleteWarningByPost", "err", err)
		return n, internalErr(op, err)
	}

	s.dropCached(ctx, postID)
	s.metrics.ReactionOp("purge", int(n))
	lg.Info("post_signals_purged", "reactions", n)

	return n, nil
}

// PurgeAuthor — удаление всех реакций удалённого пользователя.
func (s *Service) PurgeAuthor(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "service/reactions/PurgeAuthor"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	n, err := s.storage.DeleteReactionsByAuthor(ctx, userID)
	if err != nil {
		lg.Error("storage error on DeleteReactionsByAuthor", "err", err)
		return 0, internalErr(op, err)
	}

	s.metrics.ReactionOp("purge", int(n))
	lg.Info("author_reactions_purged", "reactions", n)

	return n, nil
}

// intersect сужает выборку постов; nil в base означает «без ограничения».
func intersect(base, posts []uuid.UUID) []uuid.UUID {
	if base == nil {
		return posts
	}

	out := []uuid.UUID{}
	for _, id := range base {
		for _, p := range posts {
			if id == p {
				out = append(out, id)
				break
			}
		}
	}

	return out
}
