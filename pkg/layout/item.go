package layout

import "fmt"

// Size is a requested widget size with optional bounds, in grid units.
// Zero bounds mean "unbounded" and fall back to the grid limits.
type Size struct {
	W    int `json:"w"`
	H    int `json:"h"`
	MinW int `json:"minW"`
	MinH int `json:"minH"`
	MaxW int `json:"maxW"`
	MaxH int `json:"maxH"`
}

// Rect is a rectangle in cell space.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Right returns the first column right of the rectangle.
func (r Rect) Right() int {
	return r.X + r.W
}

// Overlaps reports whether two rectangles share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Item is the placement of one widget. WidgetID is serialized as "i" to match
// the layout arrays produced by grid drag-and-drop libraries.
type Item struct {
	WidgetID string `json:"i"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w"`
	H        int    `json:"h"`
	MinW     int    `json:"minW,omitempty"`
	MinH     int    `json:"minH,omitempty"`
	MaxW     int    `json:"maxW,omitempty"`
	MaxH     int    `json:"maxH,omitempty"`
}

// Rect returns the item's rectangle.
func (it Item) Rect() Rect {
	return Rect{X: it.X, Y: it.Y, W: it.W, H: it.H}
}

// NewItem builds the item for a widget placed at r, carrying the widget's
// size bounds.
func NewItem(widgetID string, r Rect, size Size) Item {
	return Item{
		WidgetID: widgetID,
		X:        r.X,
		Y:        r.Y,
		W:        r.W,
		H:        r.H,
		MinW:     size.MinW,
		MinH:     size.MinH,
		MaxW:     size.MaxW,
		MaxH:     size.MaxH,
	}
}

// MaxExtent bounds every coordinate and dimension of a stored item, in grid
// units. Layouts beyond it are rejected when loaded or imported.
const MaxExtent = 1 << 16

// CheckExtent returns an error if any field of it lies outside
// [-MaxExtent, MaxExtent] or if the item ends below row MaxExtent.
func CheckExtent(it Item) error {
	for _, v := range []int{it.X, it.Y, it.W, it.H, it.MinW, it.MinH, it.MaxW, it.MaxH} {
		if v < -MaxExtent || v > MaxExtent {
			return fmt.Errorf("item %s: value %d outside [-%d, %d]", it.WidgetID, v, MaxExtent, MaxExtent)
		}
	}
	if it.Bottom() > MaxExtent {
		return fmt.Errorf("item %s: ends at row %d, past row %d", it.WidgetID, it.Bottom(), MaxExtent)
	}
	return nil
}

// Bottom returns the first row below the item.
func (it Item) Bottom() int {
	return it.Y + it.H
}

// Clone returns a copy of items. A nil input yields an empty, non-nil slice.
func Clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Bottom returns the first row below every item (0 for an empty layout).
func Bottom(items []Item) int {
	bottom := 0
	for _, it := range items {
		if b := it.Y + it.H; b > bottom {
			bottom = b
		}
	}
	return bottom
}

// Find returns the index of the item for widgetID, or -1.
func Find(items []Item, widgetID string) int {
	for i, it := range items {
		if it.WidgetID == widgetID {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
