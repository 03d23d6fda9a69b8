// Package syncer — координатор синхронизации клиентского зеркала с API сервиса.
//
// Полное обновление тянет реакции и предупреждения параллельно и применяет их
// к зеркалу одной заменой. Локальные мутации сначала точечно патчат зеркало
// возвращённой записью, затем запускают полное обновление. Повторов нет:
// ошибка выборки оставляет зеркало прежним и возвращается вызывающему.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/fritter-signals/internal/metrics"
	"github.com/pribylovaa/fritter-signals/internal/mirror"
	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/pkg/log"
)

// ErrStale — мутация выполнена, но следующее за ней полное обновление не удалось:
// зеркало содержит только точечный патч.
var ErrStale = errors.New("mirror is stale")

// Source — внешний источник авторитетного состояния (HTTP-клиент API).
type Source interface {
	Caller() uuid.UUID
	ListReactions(ctx context.Context, postAuthor string) ([]models.Reaction, error)
	ListWarnings(ctx context.Context, postAuthor string) ([]models.ControversyWarning, error)
	React(ctx context.Context, postID uuid.UUID, emotion string) (*models.Reaction, error)
	UpdateReaction(ctx context.Context, postID uuid.UUID, emotion string) (*models.Reaction, error)
	RemoveReaction(ctx context.Context, postID uuid.UUID) error
	CreateWarning(ctx context.Context, postID uuid.UUID, active bool) (*models.ControversyWarning, error)
	CastVote(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, error)
}

// Coordinator держит зеркало в согласии с источником.
type Coordinator struct {
	src     Source
	mirror  *mirror.Mirror
	metrics *metrics.Metrics
	timeout time.Duration
	notify  func(*mirror.Snapshot)

	group singleflight.Group

	// mu упорядочивает применение к зеркалу: патчи мутаций, смену области и замену снимком.
	// gen растёт при каждой мутации и смене области; выборка, начатая до этого, не применяется.
	mu     sync.RWMutex
	author string
	gen    uint64
}

// Option настраивает Coordinator.
type Option func(*Coordinator)

// WithTimeout ограничивает длительность одного полного обновления.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// WithMetrics подключает счётчик обновлений.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithAuthorFilter задаёт начальную область: посты одного автора (UUID или имя).
func WithAuthorFilter(author string) Option {
	return func(c *Coordinator) { c.author = author }
}

// WithOnRefresh вызывает fn с новым снимком после каждого успешного полного обновления.
func WithOnRefresh(fn func(*mirror.Snapshot)) Option {
	return func(c *Coordinator) { c.notify = fn }
}

// New создаёт координатор поверх src и m.
func New(src Source, m *mirror.Mirror, opts ...Option) *Coordinator {
	c := &Coordinator{src: src, mirror: m}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Mirror возвращает обслуживаемое зеркало.
func (c *Coordinator) Mirror() *mirror.Mirror {
	return c.mirror
}

// AuthorFilter — текущая область синхронизации ("" — все посты).
func (c *Coordinator) AuthorFilter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.author
}

// SetAuthorFilter меняет область; следующий Refresh заменит зеркало выборкой новой области.
// Выборки старой области, ещё не применённые к зеркалу, отбрасываются.
func (c *Coordinator) SetAuthorFilter(author string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.author = author
	c.gen++
}

func (c *Coordinator) scope() (string, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.author, c.gen
}

// Refresh — полное обновление зеркала. Одновременные вызовы для одной области
// выполняются одной выборкой.
// Вызов после мутации не присоединяется к выборке, начатой до неё.
func (c *Coordinator) Refresh(ctx context.Context) error {
	author, gen := c.scope()

	key := "refresh:" + author + ":" + strconv.FormatUint(gen, 10)
	_, err, _ := c.group.Do(key, func() (any, error) {
		return nil, c.refresh(ctx, author, gen)
	})

	return err
}

func (c *Coordinator) refresh(ctx context.Context, author string, gen uint64) error {
	const op = "syncer/Refresh"

	lg := log.From(ctx).With(slog.String("op", op), slog.String("author", author))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		reactions []models.Reaction
		warnings  []models.ControversyWarning
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reactions, err = c.src.ListReactions(gctx, author)
		return err
	})
	g.Go(func() error {
		var err error
		warnings, err = c.src.ListWarnings(gctx, author)
		return err
	})

	if err := g.Wait(); err != nil {
		c.metrics.Refresh(err)
		lg.Warn("sync_refresh_failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	applied, err := c.replace(gen, reactions, warnings)
	if err != nil {
		c.metrics.Refresh(err)
		lg.Error("sync_snapshot_rejected", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if !applied {
		// Зеркало уже содержит более новые патчи; их подтвердит выборка, начатая после них.
		lg.Debug("sync_refresh_superseded", slog.Uint64("gen", gen))
		return nil
	}

	c.metrics.Refresh(nil)

	snap := c.mirror.Snapshot()
	lg.Debug("sync_refreshed",
		slog.Int("reactions", len(reactions)),
		slog.Int("warnings", len(warnings)),
		slog.Uint64("version", snap.Version()),
	)

	if c.notify != nil {
		c.notify(snap)
	}

	return nil
}

// Run обновляет зеркало сразу и затем каждые interval до отмены ctx.
// Ошибки отдельных обновлений логируются и не прерывают цикл.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) error {
	const op = "syncer/Run"

	if interval <= 0 {
		return fmt.Errorf("%s: interval must be > 0", op)
	}

	_ = c.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

// React — новая реакция вызывающего; зеркало патчится результатом и затем обновляется.
func (c *Coordinator) React(ctx context.Context, postID uuid.UUID, emotion string) (*models.Reaction, error) {
	const op = "syncer/React"

	r, err := c.src.React(ctx, postID, emotion)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, c.afterMutation(ctx, op, c.patch(func() error { return c.mirror.ApplyReaction(*r) }))
}

// UpdateReaction — смена метки реакции вызывающего.
func (c *Coordinator) UpdateReaction(ctx context.Context, postID uuid.UUID, emotion string) (*models.Reaction, error) {
	const op = "syncer/UpdateReaction"

	r, err := c.src.UpdateReaction(ctx, postID, emotion)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, c.afterMutation(ctx, op, c.patch(func() error { return c.mirror.ApplyReaction(*r) }))
}

// RemoveReaction — удаление реакции вызывающего.
func (c *Coordinator) RemoveReaction(ctx context.Context, postID uuid.UUID) error {
	const op = "syncer/RemoveReaction"

	if err := c.src.RemoveReaction(ctx, postID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	patchErr := c.patch(func() error {
		c.mirror.RemoveReaction(postID, c.src.Caller())
		return nil
	})

	return c.afterMutation(ctx, op, patchErr)
}

// CreateWarning — пометка поста спорным.
func (c *Coordinator) CreateWarning(ctx context.Context, postID uuid.UUID, active bool) (*models.ControversyWarning, error) {
	const op = "syncer/CreateWarning"

	w, err := c.src.CreateWarning(ctx, postID, active)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return w, c.afterMutation(ctx, op, c.patch(func() error { return c.mirror.ApplyWarning(*w) }))
}

// CastVote — голос вызывающего.
func (c *Coordinator) CastVote(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, error) {
	const op = "syncer/CastVote"

	w, err := c.src.CastVote(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return w, c.afterMutation(ctx, op, c.patch(func() error { return c.mirror.ApplyWarning(*w) }))
}

// replace применяет выборку, если с её начала не было мутаций и смены области.
func (c *Coordinator) replace(gen uint64, reactions []models.Reaction, warnings []models.ControversyWarning) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false, nil
	}

	if err := c.mirror.Replace(reactions, warnings); err != nil {
		return false, err
	}

	return true, nil
}

// patch применяет результат мутации и делает устаревшими все начатые выборки.
func (c *Coordinator) patch(apply func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++

	return apply()
}

// afterMutation запускает полное обновление после успешной мутации.
// Ошибки патча и обновления возвращаются как ErrStale: сама мутация уже выполнена.
func (c *Coordinator) afterMutation(ctx context.Context, op string, patchErr error) error {
	if patchErr != nil {
		log.From(ctx).Warn("sync_patch_rejected", slog.String("op", op), slog.String("err", patchErr.Error()))
	}

	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrStale, err)
	}

	return nil
}
