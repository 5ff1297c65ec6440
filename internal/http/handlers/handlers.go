package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/fantasy-squad-service/internal/app/roster"
	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the catalog backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires HTTP routes to the roster engine.
type Handler struct {
	engine     *roster.Engine
	pinger     Pinger
	logger     *slog.Logger
	lineupSize int
}

// NewHandler constructs a Handler. pinger may be nil.
func NewHandler(engine *roster.Engine, pinger Pinger, logger *slog.Logger, lineupSize int) *Handler {
	return &Handler{
		engine:     engine,
		pinger:     pinger,
		logger:     logger,
		lineupSize: lineupSize,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic once the catalog answers a ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			logging.Warn(loggerFromContext(r, h.logger), "catalog not ready", slog.Any("err", err))
			writeError(w, r, http.StatusServiceUnavailable, "catalog unavailable", h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Roster returns the squad split into starters, bench and reserves.
func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	part, err := h.engine.PartitionByRole(r.Context())
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, part, h.logger)
}

// RosterByRole lists the players holding the role named in the path.
func (h *Handler) RosterByRole(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	role, err := roster.ParseRole("role", chi.URLParam(r, "role"))
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	ps, err := h.engine.ByRole(r.Context(), role)
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"role": role, "players": ps}, h.logger)
}

// Swap applies a drag-and-drop event: a role swap when a target player is
// given, otherwise a move into target_role.
func (h *Handler) Swap(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	var req swapRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !req.DraggedID.set {
		writeError(w, r, http.StatusBadRequest, "dragged_id is required", h.logger)
		return
	}

	err := h.engine.SwapOrMove(r.Context(), roster.SwapRequest{
		DraggedID:  req.DraggedID.value,
		TargetID:   req.TargetID.ptr(),
		SourceRole: req.SourceRole,
		TargetRole: req.TargetRole,
	})
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Swap successful"}, h.logger)
}

// UpdateRole sets one player's role directly.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	var req updateRoleRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !req.PlayerID.set {
		writeError(w, r, http.StatusBadRequest, "player_id is required", h.logger)
		return
	}
	role, err := roster.ParseRole("new_role", req.NewRole)
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	if err := h.engine.SetRole(r.Context(), req.PlayerID.value, role); err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"}, h.logger)
}

// Lineup returns the top players by points. ?limit overrides the configured size.
func (h *Handler) Lineup(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	limit := h.lineupSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer", h.logger)
			return
		}
		limit = n
	}
	ps, err := h.engine.TopByPoints(r.Context(), limit)
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"limit": limit, "players": ps}, h.logger)
}

// TeamStats lists every player with its editable fields.
func (h *Handler) TeamStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	ps, err := h.engine.Players(r.Context())
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": ps}, h.logger)
}

// UpdateTeamStats applies the team-stats form as one bulk update.
func (h *Handler) UpdateTeamStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form body", h.logger)
		return
	}
	edits, err := roster.DecodeEditForm(r.PostForm)
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	n, err := h.engine.BulkUpdate(r.Context(), edits)
	if err != nil {
		writeEngineError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "updated": n}, h.logger)
}

// ExportTeamStats streams the squad as an XLSX download.
func (h *Handler) ExportTeamStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="team-stats.xlsx"`)
	if err := h.engine.ExportSheet(r.Context(), w); err != nil {
		logging.Error(loggerFromContext(r, h.logger), "team stats export failed", err)
		w.Header().Del("Content-Disposition")
		writeEngineError(w, r, err, h.logger)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "invalid request body", slog.Any("err", err))
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return false
	}
	return true
}
