package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/metrics"
	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/pkg/log"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

// WarningQuery — параметры выборки предупреждений.
//   - PostID задан — предупреждение одного поста (пусто, если его нет);
//   - PostAuthor задан — предупреждения постов автора (UUID или имя);
//   - без фильтров — все предупреждения, последние изменённые первыми.
type WarningQuery struct {
	PostID     uuid.UUID
	PostAuthor string
}

// CreateWarning — создание предупреждения о спорности (ноль голосов).
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой post_id;
//   - ErrForbidden — active=true при включённом запрете предактивации;
//   - ErrNotFound — пост не найден в справочнике;
//   - ErrConflict — предупреждение для поста уже есть;
//   - ErrInternal — прочие ошибки стораджа.
func (s *Service) CreateWarning(ctx context.Context, postID uuid.UUID, active bool) (*models.ControversyWarning, error) {
	const op = "service/warnings/CreateWarning"

	lg := log.From(ctx).With("op", op, "post_id", postID.String(), "active", active)

	if postID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if active && s.cfg.DenyPreactivated {
		lg.Warn("preactivated warning is not allowed")
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := s.ensurePost(ctx, postID); err != nil {
		lg.Warn("post check failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.storage.CreateWarning(ctx, postID, active, s.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			lg.Warn("warning already exists")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		default:
			lg.Error("storage error on CreateWarning", "err", err)
			return nil, internalErr(op, err)
		}
	}

	if active {
		s.metrics.Activated()
	}
	s.storeCached(ctx, result)
	lg.Info("warning_created")

	return result, nil
}

// CastVote — голос пользователя за предупреждение.
// Проверка повторного голоса, добавление в voters, инкремент и активация —
// одна атомарная операция хранилища (storage.AddVote).
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустые идентификаторы;
//   - ErrNotFound — предупреждения нет;
//   - ErrAlreadyVoted — пользователь уже голосовал, счётчик не меняется;
//   - ErrInternal — прочие ошибки стораджа.
func (s *Service) CastVote(ctx context.Context, postID, userID uuid.UUID) (*models.ControversyWarning, error) {
	const op = "service/warnings/CastVote"

	lg := log.From(ctx).With("op", op, "post_id", postID.String(), "user_id", userID.String())

	if err := validateKey(postID, userID); err != nil {
		lg.Warn("invalid argument: " + err.Error())
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, activated, err := s.storage.AddVote(ctx, postID, userID, s.cfg.ActivationThreshold, s.now())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			s.metrics.Vote(metrics.VoteNotFound)
			lg.Warn("warning not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrAlreadyVoted):
			s.metrics.Vote(metrics.VoteDuplicate)
			lg.Warn("already voted")
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyVoted)
		default:
			s.metrics.Vote(metrics.VoteStorageError)
			lg.Error("storage error on AddVote", "err", err)
			return nil, internalErr(op, err)
		}
	}

	s.metrics.Vote(metrics.VoteAccepted)
	if activated {
		s.metrics.Activated()
		lg.Info("warning_activated", "votes", result.VoteCount, "threshold", s.cfg.ActivationThreshold)
	}
	s.storeCached(ctx, result)

	return result, nil
}

// FindWarning — предупреждение поста. Сначала кэш, затем хранилище.
// Отсутствие — обычный результат (nil, false, nil).
func (s *Service) FindWarning(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, bool, error) {
	const op = "service/warnings/FindWarning"

	lg := log.From(ctx).With("op", op, "post_id", postID.String())

	if postID == uuid.Nil {
		lg.Warn("invalid argument: empty post_id")
		return nil, false, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if s.cache != nil {
		w, ok, err := s.cache.Get(ctx, postID)
		switch {
		case err != nil:
			lg.Warn("cache get failed", "err", err)
		case ok:
			s.metrics.CacheLookup(true)
			return w, true, nil
		default:
			s.metrics.CacheLookup(false)
		}
	}

	result, err := s.storage.WarningByPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}

		lg.Error("storage error on WarningByPost", "err", err)
		return nil, false, internalErr(op, err)
	}

	s.storeCached(ctx, result)

	return result, true, nil
}

// ListWarnings — выборка предупреждений по WarningQuery, последние изменённые первыми.
func (s *Service) ListWarnings(ctx context.Context, q WarningQuery) ([]models.ControversyWarning, error) {
	const op = "service/warnings/ListWarnings"

	lg := log.From(ctx).With("op", op)

	var f models.WarningFilter

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

	items, err := s.storage.ListWarnings(ctx, f)
	if err != nil {
		lg.Error("storage error on ListWarnings", "err", err)
		return nil, internalErr(op, err)
	}

	models.SortWarningsByRecent(items)

	return items, nil
}

// storeCached обновляет кэш; сбой кэша не влияет на результат операции.
func (s *Service) storeCached(ctx context.Context, w *models.ControversyWarning) {
	if s.cache == nil || w == nil {
		return
	}

	if err := s.cache.Set(ctx, w); err != nil {
		log.From(ctx).Warn("cache set failed", "post_id", w.PostID.String(), "err", err)
	}
}

func (s *Service) dropCached(ctx context.Context, postID uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, postID); err != nil {
		log.From(ctx).Warn("cache delete failed", "post_id", postID.String(), "err", err)
	}
}
