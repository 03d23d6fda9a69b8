package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/api"
	apierrors "github.com/pribylovaa/fritter-signals/internal/errors"
	"github.com/pribylovaa/fritter-signals/internal/http/middleware"
	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/service"
)

// Service — операции реестра реакций и подсчёта голосов, которые выставляет HTTP-слой.
type Service interface {
	React(ctx context.Context, postID, userID uuid.UUID, emotion string) (*models.Reaction, error)
	UpdateReaction(ctx context.Context, postID, userID uuid.UUID, emotion string) (*models.Reaction, error)
	RemoveReaction(ctx context.Context, postID, userID uuid.UUID) error
	FindReaction(ctx context.Context, postID, userID uuid.UUID) (*models.Reaction, bool, error)
	ListReactions(ctx context.Context, q service.ReactionQuery) ([]models.Reaction, error)
	PurgePost(ctx context.Context, postID uuid.UUID) (int64, error)
	PurgeAuthor(ctx context.Context, userID uuid.UUID) (int64, error)

	CreateWarning(ctx context.Context, postID uuid.UUID, active bool) (*models.ControversyWarning, error)
	CastVote(ctx context.Context, postID, userID uuid.UUID) (*models.ControversyWarning, error)
	FindWarning(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, bool, error)
	ListWarnings(ctx context.Context, q service.WarningQuery) ([]models.ControversyWarning, error)
}

// Handlers агрегирует зависимости HTTP-обработчиков.
type Handlers struct {
	svc      Service
	validate *validator.Validate
}

// New собирает обработчики и регистрирует правило валидации "emotion".
func New(svc Service) *Handlers {
	v := validator.New()
	_ = v.RegisterValidation("emotion", validateEmotion)

	return &Handlers{svc: svc, validate: v}
}

// validateEmotion — метка входит в закрытый набор (без учёта регистра и пробелов).
func validateEmotion(fl validator.FieldLevel) bool {
	_, ok := models.ParseEmotion(fl.Field().String())
	return ok
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// decodeOptional — как decodeStrict, но пустое тело допустимо.
func decodeOptional(r *http.Request, value any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	if err := decodeStrict(r, value); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// invalidArgument — локальная ошибка разбора запроса -> service.ErrInvalidArgument.
func invalidArgument(what string) error {
	return fmt.Errorf("handlers: %s: %w", what, service.ErrInvalidArgument)
}

// validationError переводит ошибки validator в ошибки сервиса.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "emotion" {
				return fmt.Errorf("handlers: %s: %w", fe.Field(), service.ErrInvalidEmotion)
			}
		}
	}

	return invalidArgument("body")
}

// pathUUID разбирает UUID из параметра маршрута.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, invalidArgument(name)
	}

	return id, nil
}

// queryUUID разбирает необязательный UUID из query; пусто — uuid.Nil.
func queryUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidArgument(name)
	}

	return id, nil
}

// caller возвращает идентичность вызывающего или ErrUnauthenticated.
func caller(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.CallerID(r.Context())
	if !ok {
		return uuid.Nil, apierrors.ErrUnauthenticated
	}

	return id, nil
}

// ListEmotions — GET /emotions.
func (h *Handlers) ListEmotions(w http.ResponseWriter, r *http.Request) {
	all := models.Emotions()
	out := make([]string, 0, len(all))
	for _, e := range all {
		out = append(out, string(e))
	}

	writeJSON(w, http.StatusOK, api.EmotionList{Items: out})
}
