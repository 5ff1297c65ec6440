package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// playerID accepts a JSON number, a numeric string, an empty string or null.
// Browsers post ids read from data attributes as strings.
type playerID struct {
	value int64
	set   bool
}

func (id *playerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = playerID{}
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = playerID{}
			return nil
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("player id %q is not an integer", raw)
	}
	*id = playerID{value: v, set: v != 0}
	return nil
}

// ptr returns nil for an absent or zero id.
func (id playerID) ptr() *int64 {
	if !id.set {
		return nil
	}
	v := id.value
	return &v
}

type swapRequest struct {
	DraggedID  playerID `json:"dragged_id"`
	TargetID   playerID `json:"target_id"`
	SourceRole string   `json:"source_role"`
	TargetRole string   `json:"target_role"`
}

type updateRoleRequest struct {
	PlayerID playerID `json:"player_id"`
	NewRole  string   `json:"new_role"`
}
