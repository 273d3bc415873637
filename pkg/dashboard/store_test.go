package dashboard

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dyluth/tessera/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore("test-dashboard", layout.DefaultGrid())
}

func widget(id string, w, h int) Widget {
	return Widget{
		ID:     id,
		Type:   "X",
		Config: Config{},
		Size:   layout.Size{W: w, H: h},
	}
}

func TestStore_AddWidget(t *testing.T) {
	t.Run("first widget goes to the origin", func(t *testing.T) {
		store := newTestStore(t)
		require.True(t, store.AddWidget(widget("a", 4, 3)))

		state := store.Snapshot()
		require.Len(t, state.Widgets, 1)
		require.Len(t, state.Layout, 1)
		assert.Equal(t, layout.Rect{X: 0, Y: 0, W: 4, H: 3}, state.Layout[0].Rect())
		assert.Equal(t, "a", state.Layout[0].WidgetID)
	})

	t.Run("second widget is placed beside the first", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		store.AddWidget(widget("b", 4, 3))

		state := store.Snapshot()
		assert.Equal(t, layout.Rect{X: 4, Y: 0, W: 4, H: 3}, state.Layout[1].Rect())
	})

	t.Run("third wide widget wraps to the next free row", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 5, 3))
		store.AddWidget(widget("b", 5, 3))
		store.AddWidget(widget("c", 5, 3))

		state := store.Snapshot()
		assert.Equal(t, 0, state.Layout[0].X)
		assert.Equal(t, 5, state.Layout[1].X)
		assert.Equal(t, layout.Rect{X: 0, Y: 3, W: 5, H: 3}, state.Layout[2].Rect())
	})

	t.Run("duplicate id is a no-op", func(t *testing.T) {
		store := newTestStore(t)
		require.True(t, store.AddWidget(widget("a", 4, 3)))
		assert.False(t, store.AddWidget(widget("a", 6, 2)))

		state := store.Snapshot()
		assert.Len(t, state.Widgets, 1)
		assert.Len(t, state.Layout, 1)
		assert.Equal(t, 4, state.Layout[0].W)
	})

	t.Run("invalid widget is ignored", func(t *testing.T) {
		store := newTestStore(t)
		assert.False(t, store.AddWidget(Widget{ID: "", Type: "X"}))
		assert.Equal(t, 0, store.Len())
	})

	t.Run("item carries the widget's size bounds", func(t *testing.T) {
		store := newTestStore(t)
		w := widget("a", 4, 3)
		w.Size.MinW, w.Size.MaxH = 3, 6
		store.AddWidget(w)

		item := store.Snapshot().Layout[0]
		assert.Equal(t, 3, item.MinW)
		assert.Equal(t, 6, item.MaxH)
	})

	t.Run("any sequence keeps the layout collision free", func(t *testing.T) {
		store := newTestStore(t)
		for i := 0; i < 30; i++ {
			store.AddWidget(widget(fmt.Sprintf("w%02d", i), 2+i%9, 2+i%5))
		}
		state := store.Snapshot()
		assert.Len(t, state.Layout, 30)
		assert.NoError(t, layout.Validate(state.Layout, layout.DefaultColumns))
	})
}

func TestStore_RemoveWidget(t *testing.T) {
	t.Run("removes widget and layout item together", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		store.AddWidget(widget("b", 4, 3))

		require.True(t, store.RemoveWidget("a"))

		state := store.Snapshot()
		require.Len(t, state.Widgets, 1)
		require.Len(t, state.Layout, 1)
		assert.Equal(t, "b", state.Widgets[0].ID)
		assert.Equal(t, "b", state.Layout[0].WidgetID)
	})

	t.Run("unknown id leaves state unchanged", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		before := store.Snapshot()

		assert.False(t, store.RemoveWidget("missing"))
		assert.Equal(t, before, store.Snapshot())
	})

	t.Run("freed space is used by the next widget", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		store.AddWidget(widget("b", 4, 3))
		store.RemoveWidget("a")
		store.AddWidget(widget("c", 4, 3))

		state := store.Snapshot()
		assert.Equal(t, layout.Rect{X: 0, Y: 0, W: 4, H: 3}, state.Layout[1].Rect())
	})
}

func TestStore_UpdateWidgetConfig(t *testing.T) {
	store := newTestStore(t)
	w := widget("a", 4, 3)
	w.Config = Config{"vehicle": "truck-7", "refresh": 30}
	store.AddWidget(w)

	t.Run("shallow merges into existing config", func(t *testing.T) {
		require.True(t, store.UpdateWidgetConfig("a", Config{"refresh": 60, "units": "km"}))

		got, ok := store.Widget("a")
		require.True(t, ok)
		assert.Equal(t, Config{"vehicle": "truck-7", "refresh": 60, "units": "km"}, got.Config)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		assert.False(t, store.UpdateWidgetConfig("missing", Config{"x": 1}))
	})

	t.Run("empty partial is a no-op", func(t *testing.T) {
		assert.False(t, store.UpdateWidgetConfig("a", Config{}))
	})

	t.Run("nil config is initialised on merge", func(t *testing.T) {
		bare := widget("b", 2, 2)
		bare.Config = nil
		store.AddWidget(bare)
		require.True(t, store.UpdateWidgetConfig("b", Config{"k": "v"}))

		got, _ := store.Widget("b")
		assert.Equal(t, Config{"k": "v"}, got.Config)
	})
}

func TestStore_UpdateLayout(t *testing.T) {
	moved := []layout.Item{{WidgetID: "a", X: 6, Y: 2, W: 6, H: 4}}

	t.Run("ignored while viewing", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		before := store.Snapshot()

		assert.False(t, store.UpdateLayout(moved))
		assert.Equal(t, before, store.Snapshot())
	})

	t.Run("accepted while editing", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		store.SetEditMode(true)

		require.True(t, store.UpdateLayout(moved))
		assert.Equal(t, moved, store.Snapshot().Layout)
	})

	t.Run("ignored again after leaving edit mode", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		store.SetEditMode(true)
		store.SetEditMode(false)

		assert.False(t, store.UpdateLayout(moved))
		assert.Equal(t, 0, store.Snapshot().Layout[0].X)
	})

	t.Run("caller slice is copied", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		store.SetEditMode(true)

		next := layout.Clone(moved)
		store.UpdateLayout(next)
		next[0].X = 0
		assert.Equal(t, 6, store.Snapshot().Layout[0].X)
	})
}

func TestStore_SetEditMode(t *testing.T) {
	store := newTestStore(t)
	store.AddWidget(widget("a", 4, 3))
	before := store.Snapshot()

	assert.Equal(t, Viewing, store.Mode())
	assert.False(t, store.SetEditMode(false))
	assert.True(t, store.SetEditMode(true))
	assert.Equal(t, Editing, store.Mode())
	assert.False(t, store.SetEditMode(true))

	after := store.Snapshot()
	assert.Equal(t, before.Widgets, after.Widgets)
	assert.Equal(t, before.Layout, after.Layout)
}

func TestStore_ResetLayout(t *testing.T) {
	t.Run("recomputes from an empty grid in list order", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		store.AddWidget(widget("b", 4, 3))
		store.SetEditMode(true)
		store.UpdateLayout([]layout.Item{
			{WidgetID: "a", X: 8, Y: 5, W: 4, H: 3},
			{WidgetID: "b", X: 0, Y: 9, W: 4, H: 3},
		})

		require.True(t, store.ResetLayout(nil))
		state := store.Snapshot()
		assert.Equal(t, layout.Rect{X: 0, Y: 0, W: 4, H: 3}, state.Layout[0].Rect())
		assert.Equal(t, layout.Rect{X: 4, Y: 0, W: 4, H: 3}, state.Layout[1].Rect())
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newTestStore(t)
		for i := 0; i < 8; i++ {
			store.AddWidget(widget(fmt.Sprintf("w%d", i), 3+i%4, 2+i%3))
		}

		store.ResetLayout(nil)
		first := store.Snapshot().Layout
		assert.False(t, store.ResetLayout(nil))
		second := store.Snapshot().Layout
		assert.Equal(t, first, second)
	})

	t.Run("explicit layout replaces current one in any mode", func(t *testing.T) {
		store := newTestStore(t)
		store.AddWidget(widget("a", 4, 3))
		explicit := []layout.Item{{WidgetID: "a", X: 2, Y: 1, W: 4, H: 3}}

		require.True(t, store.ResetLayout(explicit))
		assert.Equal(t, explicit, store.Snapshot().Layout)
	})
}

func TestStore_LoadDashboard(t *testing.T) {
	store := newTestStore(t)
	store.AddWidget(widget("old", 4, 3))

	widgets := []Widget{widget("x", 6, 2), widget("y", 6, 2)}
	items := []layout.Item{
		{WidgetID: "x", X: 0, Y: 0, W: 6, H: 2},
		{WidgetID: "y", X: 6, Y: 0, W: 6, H: 2},
	}
	require.True(t, store.LoadDashboard(widgets, items, true))

	state := store.Snapshot()
	assert.Equal(t, widgets, state.Widgets)
	assert.Equal(t, items, state.Layout)
	assert.True(t, state.Editing())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := newTestStore(t)
	w := widget("a", 4, 3)
	w.Config = Config{"k": "v"}
	store.AddWidget(w)

	state := store.Snapshot()
	state.Widgets[0].Config["k"] = "changed"
	state.Layout[0].X = 99

	again := store.Snapshot()
	assert.Equal(t, "v", again.Widgets[0].Config["k"])
	assert.Equal(t, 0, again.Layout[0].X)

	w.Config["k"] = "mutated by caller"
	got, _ := store.Widget("a")
	assert.Equal(t, "v", got.Config["k"])
}

func TestStore_Subscribe(t *testing.T) {
	store := newTestStore(t)

	var changes []Change
	unsubscribe := store.Subscribe(func(c Change) {
		changes = append(changes, c)
	})

	store.AddWidget(widget("a", 4, 3))
	store.RemoveWidget("missing")
	store.UpdateLayout([]layout.Item{})
	store.SetEditMode(true)

	require.Len(t, changes, 2)
	assert.Equal(t, "test-dashboard", changes[0].DashboardID)
	assert.Equal(t, "add_widget", CommandName(changes[0].Command))
	assert.Equal(t, "set_edit_mode", CommandName(changes[1].Command))

	unsubscribe()
	store.SetEditMode(false)
	assert.Len(t, changes, 2)
}

func TestStore_ObserverCanReadStore(t *testing.T) {
	store := newTestStore(t)

	var seen int
	store.Subscribe(func(Change) {
		seen = store.Len()
	})

	store.AddWidget(widget("a", 4, 3))
	assert.Equal(t, 1, seen)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.AddWidget(widget(fmt.Sprintf("w%02d", i), 3, 2))
		}(i)
	}
	wg.Wait()

	state := store.Snapshot()
	assert.Len(t, state.Widgets, 20)
	assert.NoError(t, layout.Validate(state.Layout, layout.DefaultColumns))
}

func TestStore_Layouts(t *testing.T) {
	store := newTestStore(t)
	store.AddWidget(widget("a", 6, 4))

	layouts := store.Layouts(layout.DefaultBreakpoints())
	require.Contains(t, layouts, "sm")
	assert.Equal(t, 3, layouts["sm"][0].W)
	assert.Equal(t, 2, layouts["sm"][0].H)
	assert.Equal(t, 2, layouts["xxs"][0].W)
	assert.Equal(t, 4, layouts["xxs"][0].H)
}

func TestStore_GridNarrowerThanMinimumWidget(t *testing.T) {
	grid := layout.Grid{Columns: 1, MinWidgetSize: 2, MaxWidgetHeight: 8}
	store := NewStore("narrow", grid)

	require.True(t, store.AddWidget(widget("a", 4, 3)))
	require.True(t, store.AddWidget(widget("b", 2, 2)))

	state := store.Snapshot()
	for _, it := range state.Layout {
		assert.LessOrEqual(t, it.X+it.W, grid.Columns, "item %s", it.WidgetID)
	}
	assert.NoError(t, layout.Validate(state.Layout, grid.Columns))
}

func TestStore_AddWidgetAfterFarAwayItem(t *testing.T) {
	store := newTestStore(t)
	far := widget("far", 2, 2)
	require.True(t, store.LoadDashboard(
		[]Widget{far},
		[]layout.Item{{WidgetID: "far", X: 0, Y: 1_000_000_000, W: 2, H: 2}},
		false,
	))

	require.True(t, store.AddWidget(widget("a", 4, 3)))
	state := store.Snapshot()
	assert.Equal(t, layout.Rect{X: 0, Y: 0, W: 4, H: 3}, state.Layout[1].Rect())
}
