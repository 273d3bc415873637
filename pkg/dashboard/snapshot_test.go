package dashboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dyluth/tessera/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	state := State{
		Widgets: []Widget{{ID: "a", Type: "trip-map", Config: Config{"zoom": 7.0}, Size: layout.Size{W: 4, H: 3}}},
		Layout:  []layout.Item{{WidgetID: "a", X: 0, Y: 0, W: 4, H: 3}},
		Mode:    Editing,
	}
	savedAt := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)

	snap := NewSnapshot(state, savedAt)
	assert.True(t, snap.IsEditing)
	assert.Equal(t, "2026-03-04T10:30:00Z", snap.LastSaved)
	assert.True(t, savedAt.Equal(snap.SavedAt()))

	data, err := snap.Marshal()
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Contains(t, wire, "widgets")
	assert.Contains(t, wire, "layout")
	assert.Equal(t, true, wire["isEditing"])

	item := wire["layout"].([]any)[0].(map[string]any)
	assert.Equal(t, "a", item["i"])
	assert.NotContains(t, item, "minW", "zero bounds are omitted")

	w := wire["widgets"].([]any)[0].(map[string]any)
	size := w["size"].(map[string]any)
	assert.Equal(t, 4.0, size["w"])
	assert.Contains(t, size, "maxH")
}

func TestParseSnapshot(t *testing.T) {
	t.Run("parses the storage format", func(t *testing.T) {
		text := `{
			"widgets": [{"id": "w1", "type": "vehicle-status", "config": {"fleet": "north"},
			             "size": {"w": 4, "h": 3, "minW": 2, "minH": 2, "maxW": 12, "maxH": 8}}],
			"layout":  [{"i": "w1", "x": 0, "y": 0, "w": 4, "h": 3}],
			"isEditing": false,
			"lastSaved": "2026-01-02T03:04:05Z"
		}`

		snap, err := ParseSnapshot([]byte(text))
		require.NoError(t, err)
		require.Len(t, snap.Widgets, 1)
		assert.Equal(t, "vehicle-status", snap.Widgets[0].Type)
		assert.Equal(t, "north", snap.Widgets[0].Config["fleet"])
		assert.Equal(t, 12, snap.Widgets[0].Size.MaxW)
		assert.Equal(t, layout.Item{WidgetID: "w1", X: 0, Y: 0, W: 4, H: 3}, snap.Layout[0])

		cmd := snap.Command()
		assert.False(t, cmd.Editing)
		assert.Len(t, cmd.Widgets, 1)
	})

	t.Run("accepts empty arrays", func(t *testing.T) {
		snap, err := ParseSnapshot([]byte(`{"widgets": [], "layout": []}`))
		require.NoError(t, err)
		assert.Empty(t, snap.Widgets)
		assert.True(t, snap.SavedAt().IsZero())
	})

	invalid := []struct {
		name string
		text string
	}{
		{"not json", `{"widgets": [`},
		{"not an object", `[1, 2, 3]`},
		{"missing widgets", `{"layout": []}`},
		{"missing layout", `{"widgets": []}`},
		{"widgets is an object", `{"widgets": {}, "layout": []}`},
		{"layout is null", `{"widgets": [], "layout": null}`},
		{"layout is a string", `{"widgets": [], "layout": "[]"}`},
		{"widget has wrong field type", `{"widgets": [{"id": 5}], "layout": []}`},
		{"widget without type", `{"widgets": [{"id": "a"}], "layout": []}`},
		{"item far below the grid", `{"widgets": [], "layout": [{"i": "a", "x": 0, "y": 1000000, "w": 2, "h": 2}]}`},
		{"item ending past the last row", `{"widgets": [], "layout": [{"i": "a", "x": 0, "y": 65535, "w": 2, "h": 2}]}`},
		{"huge width", `{"widgets": [], "layout": [{"i": "a", "x": 0, "y": 0, "w": 100000, "h": 2}]}`},
		{"huge negative x", `{"widgets": [], "layout": [{"i": "a", "x": -100000, "y": 0, "w": 2, "h": 2}]}`},
	}
	for _, tt := range invalid {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			snap, err := ParseSnapshot([]byte(tt.text))
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestSchemaKeys(t *testing.T) {
	at := time.UnixMilli(1760000000123)

	assert.Equal(t, "tessera:fleet:snapshot", SnapshotKey("fleet"))
	assert.Equal(t, "tessera:fleet:backup:", BackupPrefix("fleet"))
	assert.Equal(t, "tessera:fleet:backup:1760000000123", BackupKey("fleet", at))

	got, ok := BackupTime("fleet", BackupKey("fleet", at))
	require.True(t, ok)
	assert.True(t, at.Equal(got))

	_, ok = BackupTime("fleet", SnapshotKey("fleet"))
	assert.False(t, ok)
	_, ok = BackupTime("other", BackupKey("fleet", at))
	assert.False(t, ok)
	_, ok = BackupTime("fleet", "tessera:fleet:backup:notanumber")
	assert.False(t, ok)
}

func TestValidateID(t *testing.T) {
	valid := []string{"fleet", "fleet-overview", "a", "dash-01"}
	for _, id := range valid {
		assert.NoError(t, ValidateID(id), id)
	}

	invalid := []string{"", "-fleet", "fleet-", "Fleet", "fleet:1", "fleet*", string(make([]byte, 64))}
	for _, id := range invalid {
		assert.Error(t, ValidateID(id), id)
	}
}

func TestWidgetValidate(t *testing.T) {
	ok := Widget{ID: "a", Type: "t", Size: layout.Size{W: 2, H: 2, MinW: 2, MaxW: 4}}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Size.MinW = 6
	assert.ErrorContains(t, bad.Validate(), "exceeds maxW")

	neg := ok
	neg.Size.H = -1
	assert.ErrorContains(t, neg.Validate(), "must not be negative")
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
