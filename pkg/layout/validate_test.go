package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	t.Run("clean layout has no problems", func(t *testing.T) {
		items := []Item{
			{WidgetID: "a", X: 0, Y: 0, W: 6, H: 2},
			{WidgetID: "b", X: 6, Y: 0, W: 6, H: 2},
		}
		assert.True(t, Check(items, 12).Empty())
		assert.NoError(t, Validate(items, 12))
	})

	t.Run("reports out of bounds items", func(t *testing.T) {
		items := []Item{
			{WidgetID: "neg", X: -1, Y: 0, W: 2, H: 2},
			{WidgetID: "wide", X: 8, Y: 4, W: 6, H: 2},
			{WidgetID: "deep", X: 0, Y: MaxExtent, W: 2, H: 2},
		}
		p := Check(items, 12)
		assert.ElementsMatch(t, []string{"neg", "wide", "deep"}, p.OutOfBounds)
	})

	t.Run("reports overlapping pairs", func(t *testing.T) {
		items := []Item{
			{WidgetID: "a", X: 0, Y: 0, W: 4, H: 4},
			{WidgetID: "b", X: 3, Y: 3, W: 4, H: 4},
			{WidgetID: "c", X: 8, Y: 0, W: 4, H: 4},
		}
		p := Check(items, 12)
		assert.Equal(t, []Overlap{{A: "a", B: "b"}}, p.Overlaps)
		assert.ErrorContains(t, p.Err(), "items a and b overlap")
	})

	t.Run("touching edges do not overlap", func(t *testing.T) {
		a := Rect{X: 0, Y: 0, W: 4, H: 4}
		b := Rect{X: 4, Y: 0, W: 4, H: 4}
		c := Rect{X: 0, Y: 4, W: 4, H: 4}
		assert.False(t, a.Overlaps(b))
		assert.False(t, a.Overlaps(c))
	})

	t.Run("reports duplicate widget references", func(t *testing.T) {
		items := []Item{
			{WidgetID: "a", X: 0, Y: 0, W: 2, H: 2},
			{WidgetID: "a", X: 4, Y: 0, W: 2, H: 2},
		}
		assert.Equal(t, []string{"a"}, Check(items, 12).Duplicates)
	})
}
