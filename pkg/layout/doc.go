// Package layout places dashboard widgets on a column grid and derives
// per-breakpoint layouts from the canonical one.
//
// # Overview
//
// A dashboard layout is a list of Items, one per widget, expressed in grid
// units. The canonical layout belongs to the widest breakpoint; every other
// breakpoint's layout is derived from it by Generate and is never stored.
//
// # Placement
//
// Placer implements first-fit placement: candidate top-left cells are scanned
// row by row (y ascending, then x ascending) and the first position that does
// not overlap any existing item is returned. When the bounded scan finds
// nothing the widget is appended below everything else, so placement never
// fails.
//
//	p := layout.NewPlacer(layout.DefaultGrid(), existing)
//	rect := p.Place(layout.Size{W: 4, H: 3})
//	// rect = {X: 0, Y: 0, W: 4, H: 3} on an empty grid
//
// Placement is first-fit, not optimal packing: gaps opened by removing a widget
// are only reused by widgets placed afterwards.
//
// # Breakpoints
//
// Generate scales widths by the ratio of column counts, keeps each item's
// aspect ratio, and stacks items full-width on the narrowest breakpoint.
// Collisions at non-canonical breakpoints are not resolved here; a downstream
// vertical compaction step in the renderer is expected to settle them.
package layout
