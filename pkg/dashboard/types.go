package dashboard

import (
	"fmt"
	"maps"
	"regexp"

	"github.com/dyluth/tessera/pkg/layout"
)

const (
	// MaxIDLength is the maximum length of a dashboard id.
	MaxIDLength = 63
)

var (
	// IDPattern is the pattern for valid dashboard ids: lowercase alphanumeric,
	// hyphens allowed but not at start or end.
	IDPattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
)

// ValidateID checks that a dashboard id can be used in storage keys.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("dashboard id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return fmt.Errorf("dashboard id too long: %d characters (max: %d)", len(id), MaxIDLength)
	}

	if !IDPattern.MatchString(id) {
		return fmt.Errorf("invalid dashboard id '%s': must be lowercase alphanumeric with hyphens (not at start/end)", id)
	}

	return nil
}

// Config is a widget's open-ended configuration.
type Config map[string]any

// Clone returns a shallow copy. A nil Config clones to an empty one.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	maps.Copy(out, c)
	return out
}

// Widget is one configurable tile on a dashboard.
// The store treats Type as an opaque tag; resolving it to a renderer is the
// registry's and the UI's concern.
type Widget struct {
	ID     string      `json:"id"`     // Opaque unique token
	Type   string      `json:"type"`   // Registry entry name, e.g. "vehicle-status"
	Config Config      `json:"config"` // Widget-specific settings
	Size   layout.Size `json:"size"`   // Declared size and bounds in grid units
}

// Validate checks the fields the store relies on.
func (w *Widget) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("widget id is required")
	}
	if w.Type == "" {
		return fmt.Errorf("widget %s: type is required", w.ID)
	}
	s := w.Size
	if s.W < 0 || s.H < 0 || s.MinW < 0 || s.MinH < 0 || s.MaxW < 0 || s.MaxH < 0 {
		return fmt.Errorf("widget %s: size values must not be negative", w.ID)
	}
	if s.MaxW > 0 && s.MinW > s.MaxW {
		return fmt.Errorf("widget %s: minW (%d) exceeds maxW (%d)", w.ID, s.MinW, s.MaxW)
	}
	if s.MaxH > 0 && s.MinH > s.MaxH {
		return fmt.Errorf("widget %s: minH (%d) exceeds maxH (%d)", w.ID, s.MinH, s.MaxH)
	}
	return nil
}

// clone returns a copy with its own Config map.
func (w Widget) clone() Widget {
	w.Config = w.Config.Clone()
	return w
}

// Mode is the edit state of a dashboard.
type Mode int

const (
	// Viewing rejects raw geometry edits.
	Viewing Mode = iota

	// Editing accepts UpdateLayout.
	Editing
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is a point-in-time copy of a dashboard's owned state.
type State struct {
	Widgets []Widget
	Layout  []layout.Item
	Mode    Mode
}

// Editing reports whether the state is in editing mode.
func (s State) Editing() bool {
	return s.Mode == Editing
}
