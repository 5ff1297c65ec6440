package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
	"github.com/preston-bernstein/fantasy-squad-service/internal/http/requestutil"
	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
	"github.com/preston-bernstein/fantasy-squad-service/internal/seed"
)

// AdminHandler exposes admin-only endpoints (e.g., seeding an empty catalog).
type AdminHandler struct {
	target seed.Target
	squad  func() ([]players.Player, error)
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. squad loads the roster to seed.
func NewAdminHandler(target seed.Target, squad func() ([]players.Player, error), token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		target: target,
		squad:  squad,
		token:  token,
		logger: logger,
	}
}

// Seed loads the squad into the catalog when it is empty.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.target == nil || h.squad == nil {
		writeError(w, r, http.StatusServiceUnavailable, "seeding not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	squad, err := h.squad()
	if err != nil {
		logging.Error(logger, "admin seed load failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load seed roster", logger)
		return
	}
	n, err := seed.Apply(r.Context(), h.target, squad, logger)
	if err != nil {
		logging.Error(logger, "admin seed failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to seed catalog", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"inserted": n,
	}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
