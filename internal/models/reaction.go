// Package models содержит доменные сущности сервиса сигналов сообщества:
// реакции пользователей на посты и предупреждения о спорности.
package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Emotion — метка реакции из фиксированного закрытого набора.
type Emotion string

const (
	EmotionHappy    Emotion = "happy"
	EmotionSad      Emotion = "sad"
	EmotionAngry    Emotion = "angry"
	EmotionConfused Emotion = "confused"
	EmotionShocked  Emotion = "shocked"
)

var emotions = map[Emotion]struct{}{
	EmotionHappy:    {},
	EmotionSad:      {},
	EmotionAngry:    {},
	EmotionConfused: {},
	EmotionShocked:  {},
}

// Emotions возвращает все допустимые метки в алфавитном порядке.
func Emotions() []Emotion {
	out := make([]Emotion, 0, len(emotions))
	for e := range emotions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// ParseEmotion нормализует метку (TrimSpace + нижний регистр) и проверяет её по набору.
func ParseEmotion(s string) (Emotion, bool) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	_, ok := emotions[e]

	return e, ok
}

// Valid сообщает, входит ли метка в закрытый набор (без нормализации).
func (e Emotion) Valid() bool {
	_, ok := emotions[e]
	return ok
}

// Reaction — реакция одного пользователя на один пост.
// Важно:
//   - пара (PostID, AuthorID) уникальна: не более одной реакции на пост от пользователя;
//   - ID — идентификатор записи в хранилище (ObjectID в MongoDB, UUID в PostgreSQL), наружу строка;
//   - CreatedAt не меняется при обновлении, ModifiedAt сдвигается.
type Reaction struct {
	ID         string
	PostID     uuid.UUID
	AuthorID   uuid.UUID
	Emotion    Emotion
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// ReactionFilter — условия выборки реакций.
//   - PostIDs == nil — без ограничения по постам; пустой не-nil срез — пустая выборка;
//   - AuthorID == uuid.Nil — без ограничения по автору реакции.
type ReactionFilter struct {
	PostIDs  []uuid.UUID
	AuthorID uuid.UUID
}

// SortReactionsByPost упорядочивает реакции одного поста: emotion ASC, затем created_at и id.
// Порядок детерминирован для одинакового входа.
func SortReactionsByPost(items []Reaction) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Emotion != b.Emotion {
			return a.Emotion < b.Emotion
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}

		return a.ID < b.ID
	})
}

// SortByRecent упорядочивает реакции от последних изменённых к старым (тай-брейк по id).
func SortByRecent(items []Reaction) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ModifiedAt.Equal(b.ModifiedAt) {
			return a.ModifiedAt.After(b.ModifiedAt)
		}

		return a.ID > b.ID
	})
}
