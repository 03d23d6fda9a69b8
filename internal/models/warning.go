package models

import (
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// WarningState — состояние автомата предупреждения.
type WarningState string

const (
	// StatePending — голосов пока меньше порога.
	StatePending WarningState = "PENDING"
	// StateActive — терминальное состояние: порог достигнут или создано предактивированным.
	StateActive WarningState = "ACTIVE"
)

// ControversyWarning — предупреждение о спорности поста (не более одного на пост).
// Инварианты:
//   - VoteCount == len(Voters), голосующий встречается в Voters не более одного раза;
//   - Active монотонен: после true никогда не возвращается в false;
//   - Active становится true ровно когда VoteCount достигает порога (либо при предактивированном создании).
type ControversyWarning struct {
	ID         string
	PostID     uuid.UUID
	VoteCount  int
	Voters     []uuid.UUID
	Active     bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// WarningFilter — условия выборки предупреждений; PostIDs == nil — все посты.
type WarningFilter struct {
	PostIDs []uuid.UUID
}

// State возвращает текущее состояние автомата.
func (w ControversyWarning) State() WarningState {
	if w.Active {
		return StateActive
	}

	return StatePending
}

// HasVoted сообщает, голосовал ли пользователь.
func (w ControversyWarning) HasVoted(userID uuid.UUID) bool {
	return slices.Contains(w.Voters, userID)
}

// Clone возвращает копию, не разделяющую срез Voters с оригиналом.
func (w ControversyWarning) Clone() ControversyWarning {
	w.Voters = slices.Clone(w.Voters)
	return w
}

// Voted — чистый переход автомата при голосе voter.
// Возвращает новое состояние и признак того, что этот голос перевёл PENDING -> ACTIVE.
// Проверку на повторный голос делает вызывающий (атомарно в хранилище).
func (w ControversyWarning) Voted(voter uuid.UUID, threshold int, at time.Time) (ControversyWarning, bool) {
	next := w.Clone()
	next.Voters = append(next.Voters, voter)
	next.VoteCount++
	next.ModifiedAt = at

	activated := false
	if !next.Active && next.VoteCount >= threshold {
		next.Active = true
		activated = true
	}

	return next, activated
}

// SortWarningsByRecent упорядочивает предупреждения от последних изменённых к старым.
func SortWarningsByRecent(items []ControversyWarning) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ModifiedAt.Equal(b.ModifiedAt) {
			return a.ModifiedAt.After(b.ModifiedAt)
		}

		return a.ID > b.ID
	})
}
