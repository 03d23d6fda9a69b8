package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/fritter-signals/internal/errors"
	"github.com/pribylovaa/fritter-signals/internal/service"
)

// HeaderUserID — заголовок с идентичностью вызывающего; его выставляет внешний слой аутентификации.
const HeaderUserID = "X-User-Id"

type callerKey struct{}

// Identity читает X-User-Id и кладёт UUID вызывающего в контекст.
// Пустой заголовок пропускается (операции чтения анонимны), битый UUID -> 400.
func Identity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(raw)
			if err != nil || id == uuid.Nil {
				apierrors.WriteError(w, r, fmt.Errorf("middleware/Identity: %w", service.ErrInvalidArgument))
				return
			}

			ctx := context.WithValue(r.Context(), callerKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID возвращает идентичность вызывающего из контекста.
func CallerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(callerKey{}).(uuid.UUID)
	return id, ok
}

// WithCallerID кладёт идентичность вызывающего в контекст (для тестов хендлеров).
func WithCallerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}
