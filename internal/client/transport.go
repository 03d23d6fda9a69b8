package client

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/fritter-signals/internal/pkg/log"
)

const (
	headerRequestID = "X-Request-Id"
	userAgent       = "signalsctl"
)

type requestIDKey struct{}

// WithRequestID задаёт request id для исходящих вызовов этого контекста.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

func requestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// RoundTripperFunc — адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Tripperware оборачивает транспорт.
type Tripperware func(http.RoundTripper) http.RoundTripper

// Chain собирает транспорт: первый элемент — внешний.
func Chain(base http.RoundTripper, tw ...Tripperware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	for i := len(tw) - 1; i >= 0; i-- {
		base = tw[i](base)
	}

	return base
}

// WithMetadata проставляет X-Request-Id (из контекста или новый) и User-Agent.
// Запрос клонируется: исходный не меняется.
func WithMetadata(ua string) Tripperware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r = r.Clone(r.Context())

			if r.Header.Get(headerRequestID) == "" {
				rid := requestIDFrom(r.Context())
				if rid == "" {
					rid = uuid.NewString()
				}
				r.Header.Set(headerRequestID, rid)
			}

			if ua != "" && r.Header.Get("User-Agent") == "" {
				r.Header.Set("User-Agent", ua)
			}

			return next.RoundTrip(r)
		})
	}
}

// WithLogging пишет одну запись на вызов: msg="http_call", status, dur, request_id.
// Тела и заголовок идентичности не логируются.
func WithLogging() Tripperware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			l := log.From(r.Context()).With(
				slog.String("request_id", r.Header.Get(headerRequestID)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			resp, err := next.RoundTrip(r)
			if err != nil {
				l.Warn("http_error", slog.Duration("dur", time.Since(start)), slog.String("err", err.Error()))
				return nil, err
			}

			l.Debug("http_call", slog.Int("status", resp.StatusCode), slog.Duration("dur", time.Since(start)))

			return resp, nil
		})
	}
}
