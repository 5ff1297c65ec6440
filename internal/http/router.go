package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/fantasy-squad-service/internal/http/handlers"
	"github.com/preston-bernstein/fantasy-squad-service/internal/http/middleware"
	"github.com/preston-bernstein/fantasy-squad-service/internal/metrics"
)

// NewRouter registers HTTP routes on a chi router behind the logging middleware.
// admin may be nil, leaving the admin routes unregistered.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))
	r.NotFound(handlers.NotFound(logger))
	r.MethodNotAllowed(handlers.MethodNotAllowed(logger))

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Get("/", handler.Roster)
	r.Get("/roster", handler.Roster)
	r.Get("/roster/{role}", handler.RosterByRole)
	r.Post("/swap", handler.Swap)
	r.Post("/update-role", handler.UpdateRole)
	r.Get("/lineup", handler.Lineup)

	r.Route("/team-stats", func(r chi.Router) {
		r.Get("/", handler.TeamStats)
		r.Post("/", handler.UpdateTeamStats)
		r.Get("/export", handler.ExportTeamStats)
	})

	if admin != nil {
		r.Post("/admin/seed", admin.Seed)
	}
	return r
}
