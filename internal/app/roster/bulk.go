package roster

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
)

// PlayerEdit carries the editable fields of one player from the team-stats form.
// Points is not editable.
type PlayerEdit struct {
	ID          int64
	Name        string
	Position    string
	Team        string
	MarketValue float64
	BidValue    float64
	Role        players.Role
}

// Validate checks the edit without touching the catalog.
func (e PlayerEdit) Validate() error {
	if e.ID <= 0 {
		return &ValidationError{Field: "id", Value: strconv.FormatInt(e.ID, 10), Reason: "must be positive"}
	}
	required := []struct{ field, value string }{
		{"name", e.Name},
		{"position", e.Position},
		{"team", e.Team},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: fieldFor(r.field, e.ID), Reason: "must not be empty"}
		}
	}
	if err := checkAmount(fieldFor("market", e.ID), e.MarketValue); err != nil {
		return err
	}
	if err := checkAmount(fieldFor("bid", e.ID), e.BidValue); err != nil {
		return err
	}
	if !e.Role.Valid() {
		return &ValidationError{Field: fieldFor("role", e.ID), Value: string(e.Role), Reason: "must be start, bench or reserve"}
	}
	return nil
}

func (e PlayerEdit) apply(p players.Player) players.Player {
	p.Name = strings.TrimSpace(e.Name)
	p.Position = strings.TrimSpace(e.Position)
	p.Team = strings.TrimSpace(e.Team)
	p.MarketValue = e.MarketValue
	p.BidValue = e.BidValue
	p.Role = e.Role
	return p
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &ValidationError{Field: field, Value: strconv.FormatFloat(v, 'f', -1, 64), Reason: "must be a finite non-negative number"}
	}
	return nil
}

func fieldFor(prefix string, id int64) string {
	return fmt.Sprintf("%s_%d", prefix, id)
}

// BulkUpdate overwrites the editable fields of every player in edits as one batch.
// Any invalid edit or unknown id rejects the whole batch. An empty batch is a no-op.
func (e *Engine) BulkUpdate(ctx context.Context, edits []PlayerEdit) (int, error) {
	seen := make(map[int64]struct{}, len(edits))
	for _, edit := range edits {
		if err := edit.Validate(); err != nil {
			return 0, err
		}
		if _, dup := seen[edit.ID]; dup {
			return 0, &ValidationError{Field: "id", Value: strconv.FormatInt(edit.ID, 10), Reason: "appears more than once"}
		}
		seen[edit.ID] = struct{}{}
	}
	if len(edits) == 0 {
		return 0, nil
	}

	var updated int
	err := e.mutate(ctx, OpBulkUpdate, func(ctx context.Context, tx players.Tx) (int, error) {
		for _, edit := range edits {
			p, err := lookup(ctx, tx, SubjectPlayer, edit.ID)
			if err != nil {
				return 0, err
			}
			if err := save(ctx, tx, edit.apply(p)); err != nil {
				return 0, err
			}
		}
		updated = len(edits)
		return updated, nil
	})
	if err != nil {
		return 0, err
	}
	logging.Info(logging.FromContext(ctx, e.logger), "team stats updated", slog.Int(logging.FieldCount, updated))
	return updated, nil
}

// DecodeEditForm reads the team-stats form. Each `player_<id>` key marks a row
// whose fields are name_<id>, position_<id>, team_<id>, market_<id>, bid_<id>
// and role_<id>. Edits come back ordered by id.
func DecodeEditForm(form url.Values) ([]PlayerEdit, error) {
	var ids []int64
	for key := range form {
		raw, ok := strings.CutPrefix(key, "player_")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, &ValidationError{Field: key, Reason: "player key must end in a positive id"}
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	edits := make([]PlayerEdit, 0, len(ids))
	for _, id := range ids {
		market, err := formAmount(form, fieldFor("market", id))
		if err != nil {
			return nil, err
		}
		bid, err := formAmount(form, fieldFor("bid", id))
		if err != nil {
			return nil, err
		}
		roleField := fieldFor("role", id)
		role, err := ParseRole(roleField, form.Get(roleField))
		if err != nil {
			return nil, err
		}
		edits = append(edits, PlayerEdit{
			ID:          id,
			Name:        form.Get(fieldFor("name", id)),
			Position:    form.Get(fieldFor("position", id)),
			Team:        form.Get(fieldFor("team", id)),
			MarketValue: market,
			BidValue:    bid,
			Role:        role,
		})
	}
	return edits, nil
}

func formAmount(form url.Values, field string) (float64, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "must be a number"}
	}
	if err := checkAmount(field, v); err != nil {
		return 0, err
	}
	return v, nil
}
