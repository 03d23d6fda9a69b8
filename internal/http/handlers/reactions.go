package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/api"
	apierrors "github.com/pribylovaa/fritter-signals/internal/errors"
	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/service"
)

// ListReactions — GET /reactions?post_id=&author=&post_author=.
func (h *Handlers) ListReactions(w http.ResponseWriter, r *http.Request) {
	postID, err := queryUUID(r, "post_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	q := service.ReactionQuery{
		PostID:     postID,
		Author:     r.URL.Query().Get("author"),
		PostAuthor: r.URL.Query().Get("post_author"),
	}

	items, err := h.svc.ListReactions(r.Context(), q)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.FromReactions(items))
}

// MyReaction — GET /posts/{post_id}/reactions/mine.
func (h *Handlers) MyReaction(w http.ResponseWriter, r *http.Request) {
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

	found, ok, err := h.svc.FindReaction(r.Context(), postID, userID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if !ok {
		apierrors.WriteError(w, r, service.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, api.FromReaction(*found))
}

// React — POST /posts/{post_id}/reactions.
func (h *Handlers) React(w http.ResponseWriter, r *http.Request) {
	h.writeReaction(w, r, h.svc.React, http.StatusCreated)
}

// UpdateReaction — PUT /posts/{post_id}/reactions.
func (h *Handlers) UpdateReaction(w http.ResponseWriter, r *http.Request) {
	h.writeReaction(w, r, h.svc.UpdateReaction, http.StatusOK)
}

// writeReaction — общий разбор запроса для React и UpdateReaction.
func (h *Handlers) writeReaction(
	w http.ResponseWriter,
	r *http.Request,
	call func(ctx context.Context, postID, userID uuid.UUID, emotion string) (*models.Reaction, error),
	status int,
) {
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

	var in api.ReactRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("body"))
		return
	}

	if err := h.validate.Struct(in); err != nil {
		apierrors.WriteError(w, r, validationError(err))
		return
	}

	out, err := call(r.Context(), postID, userID, in.Emotion)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, status, api.FromReaction(*out))
}

// RemoveReaction — DELETE /posts/{post_id}/reactions.
func (h *Handlers) RemoveReaction(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.RemoveReaction(r.Context(), postID, userID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PurgePost — DELETE /posts/{post_id}: каскад после удаления поста во внешней системе.
func (h *Handlers) PurgePost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathUUID(r, "post_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if _, err := h.svc.PurgePost(r.Context(), postID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PurgeAuthor — DELETE /users/{user_id}/reactions: каскад после удаления пользователя.
func (h *Handlers) PurgeAuthor(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "user_id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if _, err := h.svc.PurgeAuthor(r.Context(), userID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
