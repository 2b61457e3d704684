package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/config"
)

// NewRouter wires the recompute trigger and shortlist read endpoints.
// OPTIONS preflights are answered by the CORS middleware.
func NewRouter(cfg *config.Config, appCtx *app.AppContext) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.HTTP.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := NewHandler(cfg, appCtx)
	// Method-agnostic on purpose: schedulers POST, humans poke it with GET.
	r.HandleFunc("/internal/recompute", h.Recompute)
	r.Get("/users/{id}/recommendations", h.ListRecommendations)

	return r
}
