package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/fritter-signals/internal/service"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"invalid_emotion", service.ErrInvalidEmotion, http.StatusBadRequest, "invalid_emotion"},
		{"not_found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", service.ErrConflict, http.StatusConflict, "already_exists"},
		{"already_voted", service.ErrAlreadyVoted, http.StatusConflict, "already_voted"},
		{"unauth", ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "permission_denied"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", service.ErrInternal, http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(fmt.Errorf("service/op: %w", tc.in))
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_DeadlineWinsOverInternal(t *testing.T) {
	err := fmt.Errorf("service/op: %w: %w", service.ErrInternal, context.DeadlineExceeded)

	gotStatus, resp := ToHTTP(err)
	require.Equal(t, http.StatusGatewayTimeout, gotStatus)
	require.Equal(t, "deadline_exceeded", resp.Error.Code)
}

func TestWriteError_RequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()

	WriteError(rr, req, service.ErrAlreadyVoted)

	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "already_voted", body.Error.Code)
	require.Equal(t, "rid-1", body.Error.RequestID)
}

func TestFromCode_RoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		service.ErrInvalidArgument,
		service.ErrInvalidEmotion,
		service.ErrNotFound,
		service.ErrConflict,
		service.ErrAlreadyVoted,
		service.ErrForbidden,
		ErrUnauthenticated,
		context.Canceled,
		context.DeadlineExceeded,
		service.ErrInternal,
	} {
		_, resp := ToHTTP(sentinel)
		require.ErrorIs(t, FromCode(resp.Error.Code), sentinel, resp.Error.Code)
	}

	require.ErrorIs(t, FromCode("something_new"), service.ErrInternal)
}
