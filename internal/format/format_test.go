package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/tessera/internal/persistence"
	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/layout"
	"github.com/dyluth/tessera/pkg/registry"
)

func sampleState() dashboard.State {
	return dashboard.State{
		Widgets: []dashboard.Widget{
			{ID: "3f2a9c1e-7b7d-4c1a-9a57-0e5d1b9e2f10", Type: "vehicle-status", Config: dashboard.Config{"vehicle": "VAN-7", "refresh": 30}},
			{ID: "map", Type: "trip-map", Config: dashboard.Config{}},
		},
		Layout: []layout.Item{
			{WidgetID: "3f2a9c1e-7b7d-4c1a-9a57-0e5d1b9e2f10", X: 0, Y: 0, W: 4, H: 2},
			{WidgetID: "map", X: 4, Y: 0, W: 8, H: 3},
		},
		Mode: dashboard.Editing,
	}
}

func TestFormatWidgets(t *testing.T) {
	var buf bytes.Buffer
	n := FormatWidgets(&buf, "fleet", sampleState())
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, "Widgets on dashboard 'fleet' (editing)")
	assert.Contains(t, out, "3f2a9c1e ")
	assert.NotContains(t, out, "7b7d-4c1a")
	assert.Contains(t, out, "refresh=30 vehicle=VAN-7")
	assert.Contains(t, out, "4,0")
	assert.Contains(t, out, "8x3")
	assert.Contains(t, out, "2 widgets")
}

func TestFormatWidgets_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 0, FormatWidgets(&buf, "fleet", dashboard.State{}))
	assert.Equal(t, "No widgets on dashboard 'fleet'\n", buf.String())
}

func TestFormatJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSONL(&buf, sampleState().Widgets))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var w dashboard.Widget
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &w))
	assert.Equal(t, "map", w.ID)
}

func TestFormatSingleJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatSingleJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestFormatLayout(t *testing.T) {
	var buf bytes.Buffer
	FormatLayout(&buf, "xs", 4, []layout.Item{
		{WidgetID: "a", X: 0, Y: 0, W: 2, H: 1},
		{WidgetID: "b", X: 1, Y: 0, W: 2, H: 2},
	})

	want := "xs (4 columns)\n" +
		"  |A#B.|\n" +
		"  |.BB.|\n" +
		"  A a 0,0 2x1\n" +
		"  B b 1,0 2x2\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatLayouts_WidestFirst(t *testing.T) {
	var buf bytes.Buffer
	FormatLayouts(&buf, []layout.Breakpoint{
		{Name: "xxs", MinWidthPx: 0, Columns: 2},
		{Name: "lg", MinWidthPx: 1200, Columns: 12},
	}, map[string][]layout.Item{})

	out := buf.String()
	assert.Less(t, strings.Index(out, "lg (12 columns)"), strings.Index(out, "xxs (2 columns)"))
	assert.Contains(t, out, "(empty)")
}

func TestFormatProblems(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, FormatProblems(&buf, layout.Problems{}))

	ok := FormatProblems(&buf, layout.Problems{
		OutOfBounds: []string{"a"},
		Overlaps:    []layout.Overlap{{A: "b", B: "c"}},
		Duplicates:  []string{"d"},
	})
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "out of bounds: a")
	assert.Contains(t, buf.String(), "overlap: b and c")
	assert.Contains(t, buf.String(), "duplicate item: d")
}

func TestFormatBackups(t *testing.T) {
	now := time.Date(2025, 10, 29, 14, 0, 0, 0, time.UTC)
	backups := []persistence.Backup{
		{Key: "tessera:fleet:backup:2", SavedAt: now.Add(-90 * time.Second)},
		{Key: "tessera:fleet:backup:1", SavedAt: now.Add(-3 * time.Hour)},
	}

	var buf bytes.Buffer
	assert.Equal(t, 2, FormatBackups(&buf, "fleet", backups, now))
	assert.Contains(t, buf.String(), "1m ago")
	assert.Contains(t, buf.String(), "3h ago")
	assert.Contains(t, buf.String(), "tessera:fleet:backup:1")

	buf.Reset()
	assert.Equal(t, 0, FormatBackups(&buf, "fleet", nil, now))
	assert.Contains(t, buf.String(), "No backups")
}

func TestFormatCatalog(t *testing.T) {
	var buf bytes.Buffer
	FormatCatalog(&buf, registry.NewFleet().List())
	out := buf.String()
	assert.Contains(t, out, "vehicle-status")
	assert.Contains(t, out, "maintenance-due")

	buf.Reset()
	FormatCatalog(&buf, nil)
	assert.Equal(t, "No widget types found\n", buf.String())
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, 10, 29, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "5s ago", formatAge(now.Add(-5*time.Second), now))
	assert.Equal(t, "2d ago", formatAge(now.Add(-50*time.Hour), now))
}
