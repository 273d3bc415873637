package layout

import (
	"math"
	"sort"
)

// Generate derives one layout per breakpoint from the canonical layout.
//
// The widest breakpoint is canonical and gets the items unchanged. Every other
// breakpoint scales width by targetColumns/canonicalColumns, clamps it to the
// breakpoint's [MinW, MaxW], and derives height from the canonical aspect
// ratio (never below MinWidgetSize rows). The narrowest breakpoint instead
// stacks every item full width at its original height, in reading order.
//
// Overlaps introduced by scaling are left for the renderer's vertical
// compaction; no collision detection runs here.
func Generate(canonical []Item, bps []Breakpoint) map[string][]Item {
	out := make(map[string][]Item, len(bps))
	sorted := SortBreakpoints(bps)
	if len(sorted) == 0 {
		return out
	}

	base := sorted[0]
	narrowest := sorted[len(sorted)-1]

	for i, bp := range sorted {
		switch {
		case i == 0:
			out[bp.Name] = Clone(canonical)
		case bp.Name == narrowest.Name:
			out[bp.Name] = stack(canonical, bp)
		default:
			out[bp.Name] = scale(canonical, base.Columns, bp)
		}
	}
	return out
}

// scale maps canonical items onto a narrower breakpoint.
func scale(canonical []Item, canonicalColumns int, bp Breakpoint) []Item {
	ratio := float64(bp.Columns) / float64(canonicalColumns)
	minW, maxW := bp.widthBounds()

	items := make([]Item, len(canonical))
	for i, it := range canonical {
		w := clamp(round(float64(it.W)*ratio), minW, maxW)

		aspect := 1.0
		if it.W > 0 {
			aspect = float64(it.H) / float64(it.W)
		}
		h := max(round(float64(w)*aspect), MinWidgetSize)

		x := clamp(round(float64(it.X)*ratio), 0, bp.Columns-w)

		scaled := it
		scaled.X, scaled.W, scaled.H = x, w, h
		items[i] = scaled
	}
	return items
}

// stack lays canonical items out one per row, full width, keeping their
// heights. Output order matches the canonical slice; y follows reading order.
func stack(canonical []Item, bp Breakpoint) []Item {
	_, maxW := bp.widthBounds()

	order := make([]int, len(canonical))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := canonical[order[a]], canonical[order[b]]
		if ia.Y != ib.Y {
			return ia.Y < ib.Y
		}
		return ia.X < ib.X
	})

	items := make([]Item, len(canonical))
	y := 0
	for _, idx := range order {
		it := canonical[idx]
		stacked := it
		stacked.X, stacked.Y, stacked.W = 0, y, maxW
		items[idx] = stacked
		y += it.H
	}
	return items
}

func round(v float64) int {
	return int(math.Round(v))
}
