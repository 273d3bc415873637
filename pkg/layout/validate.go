package layout

import (
	"errors"
	"fmt"
)

// Overlap names two items sharing at least one cell.
type Overlap struct {
	A string
	B string
}

// Problems collects every invariant violation found in a layout.
type Problems struct {
	OutOfBounds []string  // Widget IDs with x < 0, y < 0, x+w > columns or y+h > MaxExtent
	Overlaps    []Overlap // Pairs of overlapping items
	Duplicates  []string  // Widget IDs with more than one item
}

// Empty reports whether no violation was found.
func (p Problems) Empty() bool {
	return len(p.OutOfBounds) == 0 && len(p.Overlaps) == 0 && len(p.Duplicates) == 0
}

// Err converts the problems into an error, or nil if there are none.
func (p Problems) Err() error {
	if p.Empty() {
		return nil
	}
	var errs []error
	for _, id := range p.OutOfBounds {
		errs = append(errs, fmt.Errorf("item %s is outside the grid", id))
	}
	for _, o := range p.Overlaps {
		errs = append(errs, fmt.Errorf("items %s and %s overlap", o.A, o.B))
	}
	for _, id := range p.Duplicates {
		errs = append(errs, fmt.Errorf("widget %s has more than one item", id))
	}
	return errors.Join(errs...)
}

// Check inspects a canonical layout for bounds violations, duplicate widget
// references and overlapping items.
func Check(items []Item, columns int) Problems {
	var p Problems

	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.X < 0 || it.Y < 0 || it.W < 1 || it.H < 1 || it.X+it.W > columns || it.Bottom() > MaxExtent {
			p.OutOfBounds = append(p.OutOfBounds, it.WidgetID)
		}
		if seen[it.WidgetID] {
			p.Duplicates = append(p.Duplicates, it.WidgetID)
		}
		seen[it.WidgetID] = true
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i].Rect().Overlaps(items[j].Rect()) {
				p.Overlaps = append(p.Overlaps, Overlap{A: items[i].WidgetID, B: items[j].WidgetID})
			}
		}
	}
	return p
}

// Validate is Check(items, columns).Err().
func Validate(items []Item, columns int) error {
	return Check(items, columns).Err()
}
