// service содержит бизнес-логику сервиса сигналов: реестр реакций и подсчёт голосов за предупреждения.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/cache"
	"github.com/pribylovaa/fritter-signals/internal/config"
	"github.com/pribylovaa/fritter-signals/internal/metrics"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует (реакция, предупреждение, пост или пользователь).
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (повторная реакция, повторное предупреждение).
	ErrConflict = errors.New("conflict")
	// ErrAlreadyVoted — пользователь уже голосовал по предупреждению.
	ErrAlreadyVoted = errors.New("already voted")
	// ErrInvalidEmotion — метка вне закрытого набора.
	ErrInvalidEmotion = errors.New("invalid emotion")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrForbidden — создание предактивированного предупреждения запрещено конфигурацией.
	ErrForbidden = errors.New("forbidden")
	// ErrInternal — внутренняя ошибка (стораж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Service — бизнес-логика signals-service.
type Service struct {
	storage storage.Storage
	dir     storage.Directory
	cache   cache.WarningCache
	metrics *metrics.Metrics
	cfg     config.SignalsConfig
	now     func() time.Time
}

// Option настраивает необязательные зависимости сервиса.
type Option func(*Service)

// WithDirectory подключает справочник пользователей и постов.
// Без него существование постов не проверяется, а фильтры принимают только UUID.
func WithDirectory(d storage.Directory) Option {
	return func(s *Service) { s.dir = d }
}

// WithCache подключает кэш предупреждений.
func WithCache(c cache.WarningCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics подключает прикладные метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создает новый экземпляр Service.
func New(st storage.Storage, cfg config.SignalsConfig, opts ...Option) *Service {
	if cfg.ActivationThreshold < 1 {
		cfg.ActivationThreshold = 1
	}

	s := &Service{
		storage: st,
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Threshold возвращает порог активации предупреждений.
func (s *Service) Threshold() int {
	return s.cfg.ActivationThreshold
}

// internalErr сохраняет ошибку контекста рядом с ErrInternal, чтобы транспорт отличал дедлайн.
func internalErr(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, ErrInternal, context.DeadlineExceeded)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %w", op, ErrInternal, context.Canceled)
	default:
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}

// ensurePost проверяет существование поста через справочник (если он подключён).
func (s *Service) ensurePost(ctx context.Context, postID uuid.UUID) error {
	const op = "service/ensurePost"

	if s.dir == nil {
		return nil
	}

	if _, err := s.dir.PostAuthor(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: post: %w", op, ErrNotFound)
		}

		return internalErr(op, err)
	}

	return nil
}

// resolveUser принимает UUID или имя пользователя; имя разрешается через справочник.
func (s *Service) resolveUser(ctx context.Context, ref string) (uuid.UUID, error) {
	const op = "service/resolveUser"

	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}

	if s.dir == nil || ref == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	id, err := s.dir.UserIDByUsername(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%s: user: %w", op, ErrNotFound)
		}

		return uuid.Nil, internalErr(op, err)
	}

	return id, nil
}

// postsOf возвращает идентификаторы постов автора (по UUID или имени).
func (s *Service) postsOf(ctx context.Context, authorRef string) ([]uuid.UUID, error) {
	const op = "service/postsOf"

	if s.dir == nil {
		return nil, fmt.Errorf("%s: directory is not configured: %w", op, ErrInvalidArgument)
	}

	authorID, err := s.resolveUser(ctx, authorRef)
	if err != nil {
		return nil, err
	}

	posts, err := s.dir.PostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, internalErr(op, err)
	}

	if posts == nil {
		posts = []uuid.UUID{}
	}

	return posts, nil
}
