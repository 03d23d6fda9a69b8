// Package mirror — клиентское зеркало агрегированных сигналов: реакции и предупреждение по каждому посту.
//
// Зеркало не авторитетно. Каждое обновление публикует новый неизменяемый Snapshot
// через atomic.Pointer: читатель видит либо старый снимок целиком, либо новый.
// Точечные обновления копируют верхнюю карту и срез затронутого поста,
// срезы остальных постов разделяются со старым снимком и никогда не изменяются.
package mirror

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/models"
)

// ErrMalformedSnapshot — входные записи противоречивы; зеркало остаётся прежним.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Entry — агрегат одного поста.
type Entry struct {
	Reactions []models.Reaction
	Warning   *models.ControversyWarning
}

func (e Entry) empty() bool {
	return len(e.Reactions) == 0 && e.Warning == nil
}

// Snapshot — неизменяемый снимок зеркала.
type Snapshot struct {
	posts   map[uuid.UUID]Entry
	version uint64
}

// Version — номер публикации; растёт при каждом изменении зеркала.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Len — число постов с реакциями или предупреждением.
func (s *Snapshot) Len() int {
	return len(s.posts)
}

// PostIDs возвращает посты снимка в детерминированном порядке.
func (s *Snapshot) PostIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.posts))
	for id := range s.posts {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}

// Reactions возвращает копию реакций поста (emotion, created_at, id).
func (s *Snapshot) Reactions(postID uuid.UUID) []models.Reaction {
	return slices.Clone(s.posts[postID].Reactions)
}

// Reaction ищет реакцию пользователя на пост.
func (s *Snapshot) Reaction(postID, authorID uuid.UUID) (models.Reaction, bool) {
	for _, r := range s.posts[postID].Reactions {
		if r.AuthorID == authorID {
			return r, true
		}
	}

	return models.Reaction{}, false
}

// Warning возвращает копию предупреждения поста.
func (s *Snapshot) Warning(postID uuid.UUID) (models.ControversyWarning, bool) {
	w := s.posts[postID].Warning
	if w == nil {
		return models.ControversyWarning{}, false
	}

	return w.Clone(), true
}

// Counts — число реакций поста по меткам.
func (s *Snapshot) Counts(postID uuid.UUID) map[models.Emotion]int {
	out := make(map[models.Emotion]int)
	for _, r := range s.posts[postID].Reactions {
		out[r.Emotion]++
	}

	return out
}

// Mirror — публикуемое зеркало. Читатели не блокируются; писатели сериализованы.
type Mirror struct {
	mu  sync.Mutex
	cur atomic.Pointer[Snapshot]
}

// New создаёт пустое зеркало.
func New() *Mirror {
	m := &Mirror{}
	m.cur.Store(&Snapshot{posts: map[uuid.UUID]Entry{}})

	return m
}

// Snapshot возвращает текущий снимок. Его содержимое не меняется последующими обновлениями.
func (m *Mirror) Snapshot() *Snapshot {
	return m.cur.Load()
}

// Replace перестраивает зеркало целиком из плоских списков реакций и предупреждений.
func (m *Mirror) Replace(reactions []models.Reaction, warnings []models.ControversyWarning) error {
	const op = "mirror/Replace"

	byPost, err := groupReactions(reactions)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	warnByPost, err := groupWarnings(warnings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.publish(merge(byPost, warnByPost))

	return nil
}

// ReplaceReactions заменяет все реакции, сохраняя предупреждения текущего снимка.
func (m *Mirror) ReplaceReactions(reactions []models.Reaction) error {
	const op = "mirror/ReplaceReactions"

	byPost, err := groupReactions(reactions)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	warnByPost := make(map[uuid.UUID]*models.ControversyWarning)
	for id, e := range m.cur.Load().posts {
		if e.Warning != nil {
			warnByPost[id] = e.Warning
		}
	}

	m.publish(merge(byPost, warnByPost))

	return nil
}

// ReplaceWarnings заменяет все предупреждения, сохраняя реакции текущего снимка.
func (m *Mirror) ReplaceWarnings(warnings []models.ControversyWarning) error {
	const op = "mirror/ReplaceWarnings"

	warnByPost, err := groupWarnings(warnings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	byPost := make(map[uuid.UUID][]models.Reaction)
	for id, e := range m.cur.Load().posts {
		if len(e.Reactions) > 0 {
			byPost[id] = e.Reactions
		}
	}

	m.publish(merge(byPost, warnByPost))

	return nil
}

// ApplyReaction добавляет новую или заменяет существующую реакцию того же автора на тот же пост.
func (m *Mirror) ApplyReaction(r models.Reaction) error {
	const op = "mirror/ApplyReaction"

	if err := validateReaction(r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.cur.Load()
	entry := prev.posts[r.PostID]

	next := make([]models.Reaction, 0, len(entry.Reactions)+1)
	for _, old := range entry.Reactions {
		if old.AuthorID != r.AuthorID {
			next = append(next, old)
		}
	}
	next = append(next, r)
	models.SortReactionsByPost(next)

	entry.Reactions = next
	m.publish(patch(prev.posts, r.PostID, entry))

	return nil
}

// RemoveReaction убирает реакцию автора с поста. false — реакции не было, зеркало не менялось.
func (m *Mirror) RemoveReaction(postID, authorID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.cur.Load()
	entry, ok := prev.posts[postID]
	if !ok {
		return false
	}

	idx := slices.IndexFunc(entry.Reactions, func(r models.Reaction) bool { return r.AuthorID == authorID })
	if idx < 0 {
		return false
	}

	entry.Reactions = slices.Delete(slices.Clone(entry.Reactions), idx, idx+1)
	m.publish(patch(prev.posts, postID, entry))

	return true
}

// ApplyWarning подставляет созданное или обновлённое голосованием предупреждение.
// Запись того же предупреждения (по ID) с меньшим числом голосов считается устаревшей и игнорируется.
// Предупреждение с другим ID (пересозданное после очистки поста) заменяет прежнее целиком.
func (m *Mirror) ApplyWarning(w models.ControversyWarning) error {
	const op = "mirror/ApplyWarning"

	if err := validateWarning(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.cur.Load()
	entry := prev.posts[w.PostID]

	same := entry.Warning != nil && entry.Warning.ID == w.ID
	if same && entry.Warning.VoteCount > w.VoteCount {
		return nil
	}

	next := w.Clone()
	if same && entry.Warning.Active {
		next.Active = true
	}

	entry.Warning = &next
	m.publish(patch(prev.posts, w.PostID, entry))

	return nil
}

// publish выставляет новый снимок. Вызывается под m.mu.
func (m *Mirror) publish(posts map[uuid.UUID]Entry) {
	m.cur.Store(&Snapshot{posts: posts, version: m.cur.Load().version + 1})
}

// patch копирует верхнюю карту и подменяет одну запись; пустая запись удаляется.
func patch(prev map[uuid.UUID]Entry, postID uuid.UUID, entry Entry) map[uuid.UUID]Entry {
	out := make(map[uuid.UUID]Entry, len(prev)+1)
	for id, e := range prev {
		out[id] = e
	}

	if entry.empty() {
		delete(out, postID)
	} else {
		out[postID] = entry
	}

	return out
}

func merge(byPost map[uuid.UUID][]models.Reaction, warnByPost map[uuid.UUID]*models.ControversyWarning) map[uuid.UUID]Entry {
	out := make(map[uuid.UUID]Entry, len(byPost)+len(warnByPost))
	for id, rs := range byPost {
		out[id] = Entry{Reactions: rs}
	}

	for id, w := range warnByPost {
		e := out[id]
		e.Warning = w
		out[id] = e
	}

	return out
}

// groupReactions группирует реакции по посту в собственные срезы; дубль (post, author) — ошибка.
func groupReactions(items []models.Reaction) (map[uuid.UUID][]models.Reaction, error) {
	type key struct{ post, author uuid.UUID }

	seen := make(map[key]struct{}, len(items))
	out := make(map[uuid.UUID][]models.Reaction)

	for _, r := range items {
		if err := validateReaction(r); err != nil {
			return nil, err
		}

		k := key{r.PostID, r.AuthorID}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("duplicate reaction post=%s author=%s: %w", r.PostID, r.AuthorID, ErrMalformedSnapshot)
		}
		seen[k] = struct{}{}

		out[r.PostID] = append(out[r.PostID], r)
	}

	for _, rs := range out {
		models.SortReactionsByPost(rs)
	}

	return out, nil
}

// groupWarnings индексирует предупреждения по посту; второе предупреждение того же поста — ошибка.
func groupWarnings(items []models.ControversyWarning) (map[uuid.UUID]*models.ControversyWarning, error) {
	out := make(map[uuid.UUID]*models.ControversyWarning, len(items))

	for _, w := range items {
		if err := validateWarning(w); err != nil {
			return nil, err
		}

		if _, dup := out[w.PostID]; dup {
			return nil, fmt.Errorf("duplicate warning post=%s: %w", w.PostID, ErrMalformedSnapshot)
		}

		c := w.Clone()
		out[w.PostID] = &c
	}

	return out, nil
}

func validateReaction(r models.Reaction) error {
	switch {
	case r.ID == "":
		return fmt.Errorf("reaction without id: %w", ErrMalformedSnapshot)
	case r.PostID == uuid.Nil:
		return fmt.Errorf("reaction %s without post id: %w", r.ID, ErrMalformedSnapshot)
	case r.AuthorID == uuid.Nil:
		return fmt.Errorf("reaction %s without author: %w", r.ID, ErrMalformedSnapshot)
	case !r.Emotion.Valid():
		return fmt.Errorf("reaction %s emotion %q: %w", r.ID, r.Emotion, ErrMalformedSnapshot)
	}

	return nil
}

func validateWarning(w models.ControversyWarning) error {
	if w.PostID == uuid.Nil {
		return fmt.Errorf("warning %s without post id: %w", w.ID, ErrMalformedSnapshot)
	}

	if w.VoteCount != len(w.Voters) {
		return fmt.Errorf("warning %s count %d != voters %d: %w", w.ID, w.VoteCount, len(w.Voters), ErrMalformedSnapshot)
	}

	seen := make(map[uuid.UUID]struct{}, len(w.Voters))
	for _, v := range w.Voters {
		if v == uuid.Nil {
			return fmt.Errorf("warning %s has empty voter: %w", w.ID, ErrMalformedSnapshot)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("warning %s duplicate voter %s: %w", w.ID, v, ErrMalformedSnapshot)
		}
		seen[v] = struct{}{}
	}

	return nil
}
