package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/api"
	apierrors "github.com/pribylovaa/fritter-signals/internal/errors"
	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/service"
)

// ListWarnings — GET /warnings?post_id=&post_author=.
// Только post_id идёт через FindWarning (кэш), ответ — список из 0 или 1 элемента.
func (h *Handlers) ListWarnings(w http.ResponseWriter, r *http.Request) {
	postID, err := queryUUID(r, "post_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	postAuthor := strings.TrimSpace(r.URL.Query().Get("post_author"))

	if postAuthor == "" && postID != uuid.Nil {
		found, ok, err := h.svc.FindWarning(r.Context(), postID)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		var items []models.ControversyWarning
		if ok {
			items = append(items, *found)
		}

		writeJSON(w, http.StatusOK, api.FromWarnings(items))
		return
	}

	items, err := h.svc.ListWarnings(r.Context(), service.WarningQuery{PostID: postID, PostAuthor: postAuthor})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.FromWarnings(items))
}

// GetWarning — GET /posts/{post_id}/warning (404, если предупреждения нет).
func (h *Handlers) GetWarning(w http.ResponseWriter, r *http.Request) {
	postID, err := pathUUID(r, "post_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	found, ok, err := h.svc.FindWarning(r.Context(), postID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if !ok {
		apierrors.WriteError(w, r, service.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, api.FromWarning(*found))
}

// CreateWarning — POST /posts/{post_id}/warning, тело {"active": bool} необязательно.
func (h *Handlers) CreateWarning(w http.ResponseWriter, r *http.Request) {
	postID, err := pathUUID(r, "post_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if _, err := caller(r); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in api.CreateWarningRequest
	if err := decodeOptional(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("body"))
		return
	}

	out, err := h.svc.CreateWarning(r.Context(), postID, in.Active)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.FromWarning(*out))
}

// CastVote — PUT /posts/{post_id}/warning/votes: голос вызывающего.
func (h *Handlers) CastVote(w http.ResponseWriter, r *http.Request) {
	postID, err := pathUUID(r, "post_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	userID, err := caller(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out, err := h.svc.CastVote(r.Context(), postID, userID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.FromWarning(*out))
}
