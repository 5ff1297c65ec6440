// Package roster moves players between the start, bench and reserve roles and
// derives the read-side views of the squad.
package roster

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
	"github.com/preston-bernstein/fantasy-squad-service/internal/metrics"
)

const tracerName = "github.com/preston-bernstein/fantasy-squad-service/internal/app/roster"

// Mutation op names used in logs, metrics and spans.
const (
	OpSwap       = "swap"
	OpMove       = "move"
	OpSetRole    = "set_role"
	OpBulkUpdate = "bulk_update"
)

// Engine is the only writer of player roles. Each protocol call holds the
// engine lock from first read to commit and produces one catalog batch.
type Engine struct {
	mu      sync.Mutex
	catalog Catalog
	logger  *slog.Logger
	metrics *metrics.Recorder
	tracer  trace.Tracer
}

// NewEngine constructs an Engine over catalog. logger and recorder may be nil.
func NewEngine(catalog Catalog, logger *slog.Logger, recorder *metrics.Recorder) *Engine {
	return &Engine{
		catalog: catalog,
		logger:  logger,
		metrics: recorder,
		tracer:  otel.Tracer(tracerName),
	}
}

// SwapRequest is a drag-and-drop drop event. A nil TargetID means the player
// was dropped on an empty slot of TargetRole. SourceRole is informational.
type SwapRequest struct {
	DraggedID  int64
	TargetID   *int64
	SourceRole string
	TargetRole string
}

// SwapOrMove swaps roles with the target player when one is given, otherwise
// moves the dragged player into TargetRole.
func (e *Engine) SwapOrMove(ctx context.Context, req SwapRequest) error {
	logging.Debug(logging.FromContext(ctx, e.logger), "drop received",
		slog.Int64(logging.FieldPlayerID, req.DraggedID),
		slog.String("source_role", req.SourceRole),
		slog.String("target_role", req.TargetRole),
	)
	if req.TargetID != nil {
		return e.Swap(ctx, req.DraggedID, *req.TargetID)
	}
	// The dragged player is resolved before the role label is checked.
	return e.assign(ctx, OpMove, SubjectDragged, req.DraggedID, func() (players.Role, error) {
		return ParseRole("target_role", req.TargetRole)
	})
}

// Swap exchanges the roles of two players. Both ids must resolve or nothing is written.
func (e *Engine) Swap(ctx context.Context, draggedID, targetID int64) error {
	return e.mutate(ctx, OpSwap, func(ctx context.Context, tx players.Tx) (int, error) {
		dragged, err := lookup(ctx, tx, SubjectDragged, draggedID)
		if err != nil {
			return 0, err
		}
		target, err := lookup(ctx, tx, SubjectTarget, targetID)
		if err != nil {
			return 0, err
		}
		if draggedID == targetID {
			return 0, nil
		}

		dragged.Role, target.Role = target.Role, dragged.Role
		if err := save(ctx, tx, dragged); err != nil {
			return 0, err
		}
		if err := save(ctx, tx, target); err != nil {
			return 0, err
		}

		logging.Info(logging.FromContext(ctx, e.logger), "players swapped",
			slog.Int64(logging.FieldPlayerID, draggedID),
			slog.Int64(logging.FieldTargetID, targetID),
			slog.String("dragged_role", string(dragged.Role)),
			slog.String("target_role", string(target.Role)),
		)
		return 2, nil
	})
}

// Move puts a player into role with no compensating change elsewhere.
func (e *Engine) Move(ctx context.Context, draggedID int64, role players.Role) error {
	if err := checkRole(role); err != nil {
		return err
	}
	return e.assign(ctx, OpMove, SubjectDragged, draggedID, fixedRole(role))
}

// SetRole sets a single player's role directly.
func (e *Engine) SetRole(ctx context.Context, playerID int64, role players.Role) error {
	if err := checkRole(role); err != nil {
		return err
	}
	return e.assign(ctx, OpSetRole, SubjectPlayer, playerID, fixedRole(role))
}

func checkRole(role players.Role) error {
	if !role.Valid() {
		return &ValidationError{Field: "role", Value: string(role), Reason: "must be start, bench or reserve"}
	}
	return nil
}

func fixedRole(role players.Role) func() (players.Role, error) {
	return func() (players.Role, error) { return role, nil }
}

// assign looks the player up, then asks resolve for the role to write.
func (e *Engine) assign(ctx context.Context, op, subject string, id int64, resolve func() (players.Role, error)) error {
	return e.mutate(ctx, op, func(ctx context.Context, tx players.Tx) (int, error) {
		p, err := lookup(ctx, tx, subject, id)
		if err != nil {
			return 0, err
		}
		role, err := resolve()
		if err != nil {
			return 0, err
		}
		previous := p.Role
		p.Role = role
		if err := save(ctx, tx, p); err != nil {
			return 0, err
		}
		logging.Info(logging.FromContext(ctx, e.logger), "player role set",
			slog.String(logging.FieldOp, op),
			slog.Int64(logging.FieldPlayerID, id),
			slog.String("previous_role", string(previous)),
			slog.String(logging.FieldRole, string(role)),
		)
		return 1, nil
	})
}

// mutate runs fn as one serialized catalog batch and records the outcome.
func (e *Engine) mutate(ctx context.Context, op string, fn func(ctx context.Context, tx players.Tx) (int, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "roster."+op)
	defer span.End()

	start := time.Now()
	updated := 0
	err := e.catalog.Apply(ctx, func(tx players.Tx) error {
		n, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		updated = n
		return nil
	})
	err = classify(op, err)
	if err != nil {
		updated = 0
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger := logging.FromContext(ctx, e.logger)
		if errors.Is(err, ErrPersistence) {
			logging.Error(logger, "roster mutation failed", err, slog.String(logging.FieldOp, op))
		} else {
			logging.Warn(logger, "roster mutation rejected", slog.String(logging.FieldOp, op), slog.Any("error", err))
		}
	}
	span.SetAttributes(attribute.Int("roster.players_updated", updated))
	e.metrics.RecordRosterMutation(op, updated, time.Since(start), err)
	return err
}

// classify keeps domain errors as they are and wraps everything else as a
// persistence failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func lookup(ctx context.Context, tx players.Tx, subject string, id int64) (players.Player, error) {
	p, err := tx.Get(ctx, id)
	if errors.Is(err, players.ErrNotFound) {
		return players.Player{}, &NotFoundError{Subject: subject, ID: id}
	}
	if err != nil {
		return players.Player{}, &PersistenceError{Op: "get", Err: err}
	}
	return p, nil
}

func save(ctx context.Context, tx players.Tx, p players.Player) error {
	err := tx.Save(ctx, p)
	if errors.Is(err, players.ErrNotFound) {
		return &NotFoundError{Subject: SubjectPlayer, ID: p.ID}
	}
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// ParseRole validates a role label from an external request, reporting field on failure.
func ParseRole(field, raw string) (players.Role, error) {
	role, err := players.ParseRole(raw)
	if err != nil {
		return "", &ValidationError{Field: field, Value: raw, Reason: "must be start, bench or reserve"}
	}
	return role, nil
}
