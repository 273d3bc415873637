package layout

import "slices"

// Placer finds free rectangles on the canonical grid using first-fit.
// It keeps the occupied rectangles so consecutive placements against the same
// Placer never overlap each other.
//
// A Placer is not safe for concurrent use; the dashboard store owns one per
// transition.
type Placer struct {
	grid     Grid
	occupied []Rect // clipped to the grid's columns and to y >= 0
	bottom   int
}

// NewPlacer creates a placer seeded with items.
// MinWidgetSize is capped at Columns so a placed widget always fits the grid.
func NewPlacer(grid Grid, items []Item) *Placer {
	if grid.Columns < 1 {
		grid = DefaultGrid()
	}
	if grid.MinWidgetSize < 1 {
		grid.MinWidgetSize = MinWidgetSize
	}
	if grid.MinWidgetSize > grid.Columns {
		grid.MinWidgetSize = grid.Columns
	}
	if grid.MaxWidgetHeight < grid.MinWidgetSize {
		grid.MaxWidgetHeight = max(DefaultMaxWidgetHeight, grid.MinWidgetSize)
	}

	p := &Placer{grid: grid}
	for _, it := range items {
		p.Occupy(it.Rect())
	}
	return p
}

// Grid returns the grid the placer works on.
func (p *Placer) Grid() Grid {
	return p.grid
}

// Bottom returns the first row below every occupied cell.
func (p *Placer) Bottom() int {
	return p.bottom
}

// Occupy marks every in-grid cell of r as taken.
// Cells outside the column range are ignored.
func (p *Placer) Occupy(r Rect) {
	p.bottom = max(p.bottom, r.Bottom())

	x0, x1 := max(r.X, 0), min(r.Right(), p.grid.Columns)
	y0 := max(r.Y, 0)
	if x1 <= x0 || r.Bottom() <= y0 {
		return
	}
	p.occupied = append(p.occupied, Rect{X: x0, Y: y0, W: x1 - x0, H: r.Bottom() - y0})
}

// Clamp resolves the size a widget will actually get: the widget's own bounds
// first, then the grid's (width in [MinWidgetSize, Columns], height in
// [MinWidgetSize, MaxWidgetHeight]).
func (p *Placer) Clamp(size Size) (w, h int) {
	w, h = size.W, size.H
	if size.MinW > 0 && w < size.MinW {
		w = size.MinW
	}
	if size.MaxW > 0 && w > size.MaxW {
		w = size.MaxW
	}
	if size.MinH > 0 && h < size.MinH {
		h = size.MinH
	}
	if size.MaxH > 0 && h > size.MaxH {
		h = size.MaxH
	}

	w = clamp(w, p.grid.MinWidgetSize, p.grid.Columns)
	h = clamp(h, p.grid.MinWidgetSize, p.grid.MaxWidgetHeight)
	return w, h
}

// Place returns the first free rectangle for size in row-major order and
// marks it occupied. It never fails: when no row above the current bottom has
// room, the rectangle is appended at x=0 directly below everything else.
//
// Only row 0 and the bottom edges of occupied rectangles are tried: if a
// rectangle fits at some row, it also fits at the nearest such row above it.
// The same holds for columns and right edges, so the work depends on the
// number of items and never on their coordinates.
func (p *Placer) Place(size Size) Rect {
	w, h := p.Clamp(size)

	for _, y := range p.candidateRows() {
		for _, x := range p.candidateCols(w) {
			r := Rect{X: x, Y: y, W: w, H: h}
			if p.fits(r) {
				p.Occupy(r)
				return r
			}
		}
	}

	r := Rect{X: 0, Y: p.bottom, W: w, H: h}
	p.Occupy(r)
	return r
}

// candidateRows returns 0 and every occupied bottom edge above p.bottom,
// ascending and without duplicates.
func (p *Placer) candidateRows() []int {
	rows := []int{0}
	for _, o := range p.occupied {
		if o.Bottom() < p.bottom {
			rows = append(rows, o.Bottom())
		}
	}
	slices.Sort(rows)
	return slices.Compact(rows)
}

// candidateCols returns 0 and every occupied right edge leaving room for w.
func (p *Placer) candidateCols(w int) []int {
	cols := []int{0}
	for _, o := range p.occupied {
		if o.Right()+w <= p.grid.Columns {
			cols = append(cols, o.Right())
		}
	}
	slices.Sort(cols)
	return slices.Compact(cols)
}

func (p *Placer) fits(r Rect) bool {
	for _, o := range p.occupied {
		if r.Overlaps(o) {
			return false
		}
	}
	return true
}

// PlaceAll places every size in order on an empty grid and returns the
// rectangles. The result depends only on the input, so repeated calls agree.
func PlaceAll(grid Grid, sizes []Size) []Rect {
	p := NewPlacer(grid, nil)
	rects := make([]Rect, len(sizes))
	for i, s := range sizes {
		rects[i] = p.Place(s)
	}
	return rects
}
