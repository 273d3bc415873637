package layout

import (
	"fmt"
	"sort"
)

// Grid defaults
const (
	// DefaultColumns is the column count of the canonical breakpoint.
	DefaultColumns = 12

	// DefaultRowHeightPx is the rendered height of one grid row.
	DefaultRowHeightPx = 30

	// DefaultMarginPx is the rendered gap between widgets.
	DefaultMarginPx = 10

	// DefaultMaxWidgetHeight is the tallest a widget may be, in rows.
	DefaultMaxWidgetHeight = 8

	// MinWidgetSize is the smallest width and height a widget may have.
	MinWidgetSize = 2
)

// Grid describes the canonical placement grid.
// Pixel values are carried for the rendering layer; placement only uses
// Columns, MaxWidgetHeight and MinWidgetSize.
type Grid struct {
	Columns         int `json:"columns" yaml:"columns"`
	RowHeightPx     int `json:"rowHeightPx" yaml:"row_height_px"`
	MarginPx        int `json:"marginPx" yaml:"margin_px"`
	MaxWidgetHeight int `json:"maxWidgetHeight" yaml:"max_widget_height"`
	MinWidgetSize   int `json:"minWidgetSize" yaml:"min_widget_size"`
}

// DefaultGrid returns the 12-column grid used when nothing is configured.
func DefaultGrid() Grid {
	return Grid{
		Columns:         DefaultColumns,
		RowHeightPx:     DefaultRowHeightPx,
		MarginPx:        DefaultMarginPx,
		MaxWidgetHeight: DefaultMaxWidgetHeight,
		MinWidgetSize:   MinWidgetSize,
	}
}

// Validate checks that the grid can hold at least one minimum-sized widget.
func (g Grid) Validate() error {
	if g.MinWidgetSize < 1 {
		return fmt.Errorf("min widget size must be >= 1, got %d", g.MinWidgetSize)
	}
	if g.Columns < g.MinWidgetSize {
		return fmt.Errorf("grid must have at least %d columns, got %d", g.MinWidgetSize, g.Columns)
	}
	if g.MaxWidgetHeight < g.MinWidgetSize {
		return fmt.Errorf("max widget height (%d) must be >= min widget size (%d)", g.MaxWidgetHeight, g.MinWidgetSize)
	}
	if g.RowHeightPx < 0 || g.MarginPx < 0 {
		return fmt.Errorf("row height and margin must not be negative")
	}
	return nil
}

// Breakpoint is a named viewport-width bucket with its own column count.
type Breakpoint struct {
	Name       string `json:"name" yaml:"name"`
	MinWidthPx int    `json:"minWidthPx" yaml:"min_width_px"`
	Columns    int    `json:"columns" yaml:"columns"`
	MinW       int    `json:"minW,omitempty" yaml:"min_w,omitempty"` // Defaults to MinWidgetSize (capped at Columns)
	MaxW       int    `json:"maxW,omitempty" yaml:"max_w,omitempty"` // Defaults to Columns
}

// DefaultBreakpoints returns the standard lg/md/sm/xs/xxs breakpoints,
// widest first.
func DefaultBreakpoints() []Breakpoint {
	return []Breakpoint{
		{Name: "lg", MinWidthPx: 1200, Columns: 12},
		{Name: "md", MinWidthPx: 996, Columns: 10},
		{Name: "sm", MinWidthPx: 768, Columns: 6},
		{Name: "xs", MinWidthPx: 480, Columns: 4},
		{Name: "xxs", MinWidthPx: 0, Columns: 2},
	}
}

// widthBounds returns the effective [minW, maxW] for the breakpoint.
func (b Breakpoint) widthBounds() (int, int) {
	maxW := b.MaxW
	if maxW <= 0 || maxW > b.Columns {
		maxW = b.Columns
	}
	minW := b.MinW
	if minW <= 0 {
		minW = MinWidgetSize
	}
	if minW > maxW {
		minW = maxW
	}
	return minW, maxW
}

// Validate checks a single breakpoint definition.
func (b Breakpoint) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("breakpoint name is required")
	}
	if b.Columns < 1 {
		return fmt.Errorf("breakpoint '%s': columns must be >= 1, got %d", b.Name, b.Columns)
	}
	if b.MinWidthPx < 0 {
		return fmt.Errorf("breakpoint '%s': min_width_px must be >= 0", b.Name)
	}
	if b.MaxW > b.Columns {
		return fmt.Errorf("breakpoint '%s': max_w (%d) exceeds columns (%d)", b.Name, b.MaxW, b.Columns)
	}
	if b.MaxW > 0 && b.MinW > b.MaxW {
		return fmt.Errorf("breakpoint '%s': min_w (%d) exceeds max_w (%d)", b.Name, b.MinW, b.MaxW)
	}
	return nil
}

// ValidateBreakpoints checks a breakpoint list: at least one entry, unique
// names, unique minimum widths.
func ValidateBreakpoints(bps []Breakpoint) error {
	if len(bps) == 0 {
		return fmt.Errorf("no breakpoints defined")
	}

	names := make(map[string]bool, len(bps))
	widths := make(map[int]string, len(bps))
	for _, bp := range bps {
		if err := bp.Validate(); err != nil {
			return err
		}
		if names[bp.Name] {
			return fmt.Errorf("duplicate breakpoint name '%s'", bp.Name)
		}
		names[bp.Name] = true

		if other, exists := widths[bp.MinWidthPx]; exists {
			return fmt.Errorf("breakpoints '%s' and '%s' share min_width_px %d", other, bp.Name, bp.MinWidthPx)
		}
		widths[bp.MinWidthPx] = bp.Name
	}
	return nil
}

// SortBreakpoints returns a copy of bps ordered widest first.
func SortBreakpoints(bps []Breakpoint) []Breakpoint {
	sorted := make([]Breakpoint, len(bps))
	copy(sorted, bps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinWidthPx > sorted[j].MinWidthPx
	})
	return sorted
}

// Canonical returns the widest breakpoint.
// Returns false if bps is empty.
func Canonical(bps []Breakpoint) (Breakpoint, bool) {
	if len(bps) == 0 {
		return Breakpoint{}, false
	}
	return SortBreakpoints(bps)[0], true
}

// BreakpointFor returns the widest breakpoint whose minimum width fits the
// viewport. Viewports narrower than every breakpoint get the narrowest one.
func BreakpointFor(bps []Breakpoint, viewportPx int) (Breakpoint, bool) {
	sorted := SortBreakpoints(bps)
	if len(sorted) == 0 {
		return Breakpoint{}, false
	}
	for _, bp := range sorted {
		if viewportPx >= bp.MinWidthPx {
			return bp, true
		}
	}
	return sorted[len(sorted)-1], true
}
