package dashboard

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dyluth/tessera/pkg/layout"
)

// Change describes an effective state transition delivered to observers.
type Change struct {
	DashboardID string
	Command     Command
}

// Store owns the state of one dashboard.
// Every transition runs under a single mutex, so transitions never interleave.
// Observers run after the lock is released and may read the store.
type Store struct {
	id   string
	grid layout.Grid

	mu      sync.Mutex
	widgets []Widget
	items   []layout.Item
	mode    Mode

	obsMu     sync.Mutex
	observers map[int]func(Change)
	nextObs   int
}

// NewStore creates an empty dashboard in viewing mode.
func NewStore(id string, grid layout.Grid) *Store {
	return &Store{
		id:        id,
		grid:      grid,
		widgets:   []Widget{},
		items:     []layout.Item{},
		observers: make(map[int]func(Change)),
	}
}

// ID returns the dashboard id.
func (s *Store) ID() string {
	return s.id
}

// Grid returns the canonical grid.
func (s *Store) Grid() layout.Grid {
	return s.grid
}

// Subscribe registers fn to be called after every effective change.
// The returned function removes the observer.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// Dispatch applies cmd and reports whether the state changed.
// Observers are notified only when it did.
func (s *Store) Dispatch(cmd Command) bool {
	s.mu.Lock()
	changed := s.apply(cmd)
	s.mu.Unlock()

	if changed {
		s.notify(Change{DashboardID: s.id, Command: cmd})
	}
	return changed
}

func (s *Store) notify(c Change) {
	s.obsMu.Lock()
	fns := slices.Collect(maps.Values(s.observers))
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// apply is the transition function. Callers hold s.mu.
func (s *Store) apply(cmd Command) bool {
	switch c := cmd.(type) {
	case AddWidget:
		return s.addWidget(c.Widget)
	case RemoveWidget:
		return s.removeWidget(c.ID)
	case UpdateWidgetConfig:
		return s.updateWidgetConfig(c.ID, c.Config)
	case UpdateLayout:
		return s.updateLayout(c.Layout)
	case SetEditMode:
		return s.setEditMode(c.Editing)
	case ResetLayout:
		return s.resetLayout(c.Layout)
	case LoadDashboard:
		return s.loadDashboard(c)
	default:
		panic(fmt.Sprintf("dashboard: unhandled command %T", cmd))
	}
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) addWidget(w Widget) bool {
	if err := w.Validate(); err != nil {
		return false
	}
	if s.indexOf(w.ID) >= 0 {
		return false
	}

	w = w.clone()
	rect := layout.NewPlacer(s.grid, s.items).Place(w.Size)

	s.widgets = append(s.widgets, w)
	s.items = append(s.items, layout.NewItem(w.ID, rect, w.Size))
	return true
}

func (s *Store) removeWidget(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	s.widgets = slices.Delete(s.widgets, idx, idx+1)
	s.items = slices.DeleteFunc(s.items, func(it layout.Item) bool {
		return it.WidgetID == id
	})
	return true
}

func (s *Store) updateWidgetConfig(id string, partial Config) bool {
	idx := s.indexOf(id)
	if idx < 0 || len(partial) == 0 {
		return false
	}

	merged := s.widgets[idx].Config.Clone()
	maps.Copy(merged, partial)
	s.widgets[idx].Config = merged
	return true
}

func (s *Store) updateLayout(items []layout.Item) bool {
	if s.mode != Editing {
		return false
	}
	if slices.Equal(s.items, items) {
		return false
	}
	s.items = layout.Clone(items)
	return true
}

func (s *Store) setEditMode(editing bool) bool {
	next := Viewing
	if editing {
		next = Editing
	}
	if s.mode == next {
		return false
	}
	s.mode = next
	return true
}

func (s *Store) resetLayout(items []layout.Item) bool {
	var next []layout.Item
	if items != nil {
		next = layout.Clone(items)
	} else {
		next = s.recompute()
	}

	if slices.Equal(s.items, next) {
		return false
	}
	s.items = next
	return true
}

// recompute places every widget in list order on an empty grid.
func (s *Store) recompute() []layout.Item {
	sizes := make([]layout.Size, len(s.widgets))
	for i, w := range s.widgets {
		sizes[i] = w.Size
	}

	rects := layout.PlaceAll(s.grid, sizes)
	items := make([]layout.Item, len(rects))
	for i, r := range rects {
		items[i] = layout.NewItem(s.widgets[i].ID, r, s.widgets[i].Size)
	}
	return items
}

func (s *Store) loadDashboard(c LoadDashboard) bool {
	widgets := make([]Widget, len(c.Widgets))
	for i, w := range c.Widgets {
		widgets[i] = w.clone()
	}

	s.widgets = widgets
	s.items = layout.Clone(c.Layout)
	s.mode = Viewing
	if c.Editing {
		s.mode = Editing
	}
	return true
}

// Convenience wrappers around Dispatch.

// AddWidget dispatches AddWidget.
func (s *Store) AddWidget(w Widget) bool {
	return s.Dispatch(AddWidget{Widget: w})
}

// RemoveWidget dispatches RemoveWidget.
func (s *Store) RemoveWidget(id string) bool {
	return s.Dispatch(RemoveWidget{ID: id})
}

// UpdateWidgetConfig dispatches UpdateWidgetConfig.
func (s *Store) UpdateWidgetConfig(id string, partial Config) bool {
	return s.Dispatch(UpdateWidgetConfig{ID: id, Config: partial})
}

// UpdateLayout dispatches UpdateLayout.
func (s *Store) UpdateLayout(items []layout.Item) bool {
	return s.Dispatch(UpdateLayout{Layout: items})
}

// SetEditMode dispatches SetEditMode.
func (s *Store) SetEditMode(editing bool) bool {
	return s.Dispatch(SetEditMode{Editing: editing})
}

// ResetLayout dispatches ResetLayout. Pass nil to recompute from scratch.
func (s *Store) ResetLayout(items []layout.Item) bool {
	return s.Dispatch(ResetLayout{Layout: items})
}

// LoadDashboard dispatches LoadDashboard.
func (s *Store) LoadDashboard(widgets []Widget, items []layout.Item, editing bool) bool {
	return s.Dispatch(LoadDashboard{Widgets: widgets, Layout: items, Editing: editing})
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	widgets := make([]Widget, len(s.widgets))
	for i, w := range s.widgets {
		widgets[i] = w.clone()
	}
	return State{
		Widgets: widgets,
		Layout:  layout.Clone(s.items),
		Mode:    s.mode,
	}
}

// Widget returns a copy of the widget with the given id.
func (s *Store) Widget(id string) (Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Widget{}, false
	}
	return s.widgets[idx].clone(), true
}

// WidgetIDs returns the ids of all widgets in list order.
func (s *Store) WidgetIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.widgets))
	for i, w := range s.widgets {
		ids[i] = w.ID
	}
	return ids
}

// Len returns the number of widgets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.widgets)
}

// Mode returns the current edit mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Layouts derives the per-breakpoint layouts of the current canonical layout.
func (s *Store) Layouts(bps []layout.Breakpoint) map[string][]layout.Item {
	s.mu.Lock()
	items := layout.Clone(s.items)
	s.mu.Unlock()

	return layout.Generate(items, bps)
}
