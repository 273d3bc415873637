package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/tessera/pkg/layout"
)

// ErrInvalidSnapshot is returned when persisted or imported text does not
// have the snapshot shape.
var ErrInvalidSnapshot = errors.New("invalid dashboard snapshot")

// Snapshot is the unit of persistence: the full dashboard state plus the time
// it was written. Its JSON form is the storage and export format.
type Snapshot struct {
	Widgets   []Widget      `json:"widgets"`
	Layout    []layout.Item `json:"layout"`
	IsEditing bool          `json:"isEditing"`
	LastSaved string        `json:"lastSaved"` // RFC 3339, UTC
}

// NewSnapshot captures state as of savedAt.
func NewSnapshot(state State, savedAt time.Time) *Snapshot {
	widgets := make([]Widget, len(state.Widgets))
	for i, w := range state.Widgets {
		widgets[i] = w.clone()
	}
	return &Snapshot{
		Widgets:   widgets,
		Layout:    layout.Clone(state.Layout),
		IsEditing: state.Editing(),
		LastSaved: savedAt.UTC().Format(time.RFC3339Nano),
	}
}

// SavedAt parses LastSaved. Returns the zero time if it is empty or malformed.
func (s *Snapshot) SavedAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.LastSaved)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Command returns the LoadDashboard command that restores this snapshot.
func (s *Snapshot) Command() LoadDashboard {
	return LoadDashboard{Widgets: s.Widgets, Layout: s.Layout, Editing: s.IsEditing}
}

// Marshal encodes the snapshot as compact JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// ParseSnapshot decodes and shape-checks snapshot JSON.
// "widgets" and "layout" must both be present as arrays, every widget must
// carry an id and a type and every layout item must lie within
// layout.MaxExtent; anything else is ErrInvalidSnapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	for _, name := range []string{"widgets", "layout"} {
		raw, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidSnapshot, name)
		}
		if !isArray(raw) {
			return nil, fmt.Errorf("%w: %q is not an array", ErrInvalidSnapshot, name)
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	for i := range snap.Widgets {
		if err := snap.Widgets[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}

	for _, it := range snap.Layout {
		if err := layout.CheckExtent(it); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}

	return &snap, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
