package filter

import (
	"fmt"
	"path/filepath"

	"github.com/dyluth/tessera/pkg/dashboard"
)

// Criteria defines filtering criteria for widgets.
// All filters are ANDed together - a widget must match ALL criteria to pass.
type Criteria struct {
	TypeGlob  string // Glob pattern for widget type, empty = no filter
	ConfigKey string // Key that must be present in the widget config, empty = no filter
}

// Validate checks that TypeGlob is a well-formed pattern.
func (c *Criteria) Validate() error {
	if c.TypeGlob == "" {
		return nil
	}
	if _, err := filepath.Match(c.TypeGlob, ""); err != nil {
		return fmt.Errorf("invalid type pattern '%s': %w", c.TypeGlob, err)
	}
	return nil
}

// Matches returns true if the widget matches all filter criteria.
// Empty criteria values are treated as "match all" for that criterion.
func (c *Criteria) Matches(w dashboard.Widget) bool {
	if c.TypeGlob != "" {
		matched, err := filepath.Match(c.TypeGlob, w.Type)
		if err != nil || !matched {
			return false
		}
	}

	if c.ConfigKey != "" {
		if _, ok := w.Config[c.ConfigKey]; !ok {
			return false
		}
	}

	return true
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return c.TypeGlob != "" || c.ConfigKey != ""
}

// Apply returns the widgets matching c, in their original order.
func (c *Criteria) Apply(widgets []dashboard.Widget) []dashboard.Widget {
	if !c.HasFilters() {
		return widgets
	}
	matched := make([]dashboard.Widget, 0, len(widgets))
	for _, w := range widgets {
		if c.Matches(w) {
			matched = append(matched, w)
		}
	}
	return matched
}
