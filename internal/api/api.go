// Package api — JSON-модели публичного API signals-service, общие для сервера и клиента.
package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/models"
)

// Reaction — реакция в ответе API.
// DateCreated/DateModified — отображаемые строки, CreatedAt/ModifiedAt — машиночитаемые (RFC 3339).
type Reaction struct {
	ID           string    `json:"id"`
	PostID       string    `json:"postId"`
	Author       string    `json:"author"`
	Emotion      string    `json:"emotion"`
	CreatedAt    time.Time `json:"createdAt"`
	ModifiedAt   time.Time `json:"modifiedAt"`
	DateCreated  string    `json:"dateCreated"`
	DateModified string    `json:"dateModified"`
}

// Warning — предупреждение о спорности в ответе API.
type Warning struct {
	ID           string    `json:"id"`
	PostID       string    `json:"postId"`
	Count        int       `json:"count"`
	Voters       []string  `json:"voters"`
	Active       bool      `json:"active"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
	ModifiedAt   time.Time `json:"modifiedAt"`
	DateCreated  string    `json:"dateCreated"`
	DateModified string    `json:"dateModified"`
}

// ReactRequest — тело POST/PUT /posts/{post_id}/reactions.
type ReactRequest struct {
	Emotion string `json:"emotion" validate:"emotion"`
}

// CreateWarningRequest — тело POST /posts/{post_id}/warning (может отсутствовать).
type CreateWarningRequest struct {
	Active bool `json:"active"`
}

// ReactionList — ответ списка реакций.
type ReactionList struct {
	Items []Reaction `json:"items"`
}

// WarningList — ответ списка предупреждений.
type WarningList struct {
	Items []Warning `json:"items"`
}

// EmotionList — допустимые метки реакций.
type EmotionList struct {
	Items []string `json:"items"`
}

// FromReaction переводит доменную реакцию в модель API.
func FromReaction(r models.Reaction) Reaction {
	return Reaction{
		ID:           r.ID,
		PostID:       r.PostID.String(),
		Author:       r.AuthorID.String(),
		Emotion:      string(r.Emotion),
		CreatedAt:    r.CreatedAt.UTC(),
		ModifiedAt:   r.ModifiedAt.UTC(),
		DateCreated:  models.FormatDisplay(r.CreatedAt),
		DateModified: models.FormatDisplay(r.ModifiedAt),
	}
}

// FromReactions переводит срез реакций; nil превращается в пустой список.
func FromReactions(items []models.Reaction) ReactionList {
	out := make([]Reaction, 0, len(items))
	for _, r := range items {
		out = append(out, FromReaction(r))
	}

	return ReactionList{Items: out}
}

// FromWarning переводит доменное предупреждение в модель API.
func FromWarning(w models.ControversyWarning) Warning {
	voters := make([]string, 0, len(w.Voters))
	for _, v := range w.Voters {
		voters = append(voters, v.String())
	}

	return Warning{
		ID:           w.ID,
		PostID:       w.PostID.String(),
		Count:        w.VoteCount,
		Voters:       voters,
		Active:       w.Active,
		State:        string(w.State()),
		CreatedAt:    w.CreatedAt.UTC(),
		ModifiedAt:   w.ModifiedAt.UTC(),
		DateCreated:  models.FormatDisplay(w.CreatedAt),
		DateModified: models.FormatDisplay(w.ModifiedAt),
	}
}

// FromWarnings переводит срез предупреждений; nil превращается в пустой список.
func FromWarnings(items []models.ControversyWarning) WarningList {
	out := make([]Warning, 0, len(items))
	for _, w := range items {
		out = append(out, FromWarning(w))
	}

	return WarningList{Items: out}
}

// Model разбирает реакцию из ответа API обратно в доменную модель.
// Метка не проверяется: это делает потребитель (зеркало).
func (r Reaction) Model() (models.Reaction, error) {
	postID, err := uuid.Parse(r.PostID)
	if err != nil {
		return models.Reaction{}, fmt.Errorf("reaction %q: postId: %w", r.ID, err)
	}

	authorID, err := uuid.Parse(r.Author)
	if err != nil {
		return models.Reaction{}, fmt.Errorf("reaction %q: author: %w", r.ID, err)
	}

	return models.Reaction{
		ID:         r.ID,
		PostID:     postID,
		AuthorID:   authorID,
		Emotion:    models.Emotion(r.Emotion),
		CreatedAt:  r.CreatedAt,
		ModifiedAt: r.ModifiedAt,
	}, nil
}

// Model разбирает предупреждение из ответа API обратно в доменную модель.
func (w Warning) Model() (models.ControversyWarning, error) {
	postID, err := uuid.Parse(w.PostID)
	if err != nil {
		return models.ControversyWarning{}, fmt.Errorf("warning %q: postId: %w", w.ID, err)
	}

	voters := make([]uuid.UUID, 0, len(w.Voters))
	for _, v := range w.Voters {
		id, err := uuid.Parse(v)
		if err != nil {
			return models.ControversyWarning{}, fmt.Errorf("warning %q: voter: %w", w.ID, err)
		}
		voters = append(voters, id)
	}

	return models.ControversyWarning{
		ID:         w.ID,
		PostID:     postID,
		VoteCount:  w.Count,
		Voters:     voters,
		Active:     w.Active,
		CreatedAt:  w.CreatedAt,
		ModifiedAt: w.ModifiedAt,
	}, nil
}

// Models разбирает список реакций.
func (l ReactionList) Models() ([]models.Reaction, error) {
	out := make([]models.Reaction, 0, len(l.Items))
	for _, r := range l.Items {
		m, err := r.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}

// Models разбирает список предупреждений.
func (l WarningList) Models() ([]models.ControversyWarning, error) {
	out := make([]models.ControversyWarning, 0, len(l.Items))
	for _, w := range l.Items {
		m, err := w.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}
