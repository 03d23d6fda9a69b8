package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/fritter-signals/internal/http/handlers"
	"github.com/pribylovaa/fritter-signals/internal/http/middleware"
	"github.com/pribylovaa/fritter-signals/internal/metrics"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	Metrics  *metrics.Metrics
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Metrics),
		middleware.Identity(), // X-User-Id от внешнего слоя аутентификации
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/emotions", h.ListEmotions)

	// reactions
	r.Get("/reactions", h.ListReactions)
	r.Get("/posts/{post_id}/reactions/mine", h.MyReaction)
	r.Post("/posts/{post_id}/reactions", h.React)
	r.Put("/posts/{post_id}/reactions", h.UpdateReaction)
	r.Delete("/posts/{post_id}/reactions", h.RemoveReaction)

	// warnings
	r.Get("/warnings", h.ListWarnings)
	r.Get("/posts/{post_id}/warning", h.GetWarning)
	r.Post("/posts/{post_id}/warning", h.CreateWarning)
	r.Put("/posts/{post_id}/warning/votes", h.CastVote)

	// cascades
	r.Delete("/posts/{post_id}", h.PurgePost)
	r.Delete("/users/{user_id}/reactions", h.PurgeAuthor)
}
