// Package format renders dashboards, layouts, backups and the widget
// catalogue for the terminal.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dyluth/tessera/internal/persistence"
	"github.com/dyluth/tessera/internal/resolver"
	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/layout"
	"github.com/dyluth/tessera/pkg/registry"
)

const maxConfigWidth = 40

// FormatWidgets writes the widgets of state as a table, joined with their
// canonical placement. Returns the number of widgets formatted.
func FormatWidgets(w io.Writer, dashboardID string, state dashboard.State) int {
	if len(state.Widgets) == 0 {
		fmt.Fprintf(w, "No widgets on dashboard '%s'\n", dashboardID)
		return 0
	}

	fmt.Fprintf(w, "Widgets on dashboard '%s' (%s):\n\n", dashboardID, state.Mode)

	row := "%-10s %-20s %-9s %-7s %s\n"
	fmt.Fprintf(w, row, "ID", "TYPE", "POS", "SIZE", "CONFIG")
	fmt.Fprintf(w, row, "----------", "--------------------", "---------", "-------", strings.Repeat("-", maxConfigWidth))

	for _, widget := range state.Widgets {
		pos, size := "-", "-"
		if i := layout.Find(state.Layout, widget.ID); i >= 0 {
			it := state.Layout[i]
			pos = fmt.Sprintf("%d,%d", it.X, it.Y)
			size = fmt.Sprintf("%dx%d", it.W, it.H)
		}
		fmt.Fprintf(w, row,
			resolver.ShortID(widget.ID),
			truncate(widget.Type, 20),
			pos,
			size,
			formatConfig(widget.Config),
		)
	}

	fmt.Fprintf(w, "\n%d %s\n", len(state.Widgets), plural(len(state.Widgets), "widget", "widgets"))
	return len(state.Widgets)
}

// FormatJSONL writes widgets as line-delimited JSON, one widget per line.
func FormatJSONL(w io.Writer, widgets []dashboard.Widget) error {
	for _, widget := range widgets {
		data, err := json.Marshal(widget)
		if err != nil {
			return fmt.Errorf("failed to marshal widget to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatSingleJSON writes v as pretty-printed JSON followed by a newline.
func FormatSingleJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// FormatLayout writes one breakpoint's layout as a character grid. Each
// widget is drawn with a letter; the legend maps letters to widget ids.
// Overlapping cells are drawn as '#'.
func FormatLayout(w io.Writer, name string, columns int, items []layout.Item) {
	fmt.Fprintf(w, "%s (%d columns)\n", name, columns)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}

	rows := layout.Bottom(items)
	cells := make([][]byte, rows)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", columns))
	}

	for i, it := range items {
		mark := glyph(i)
		for y := max(it.Y, 0); y < it.Y+it.H && y < rows; y++ {
			for x := max(it.X, 0); x < it.X+it.W && x < columns; x++ {
				if cells[y][x] != '.' {
					cells[y][x] = '#'
					continue
				}
				cells[y][x] = mark
			}
		}
	}

	for _, line := range cells {
		fmt.Fprintf(w, "  |%s|\n", line)
	}
	for i, it := range items {
		fmt.Fprintf(w, "  %c %s %d,%d %dx%d\n", glyph(i), resolver.ShortID(it.WidgetID), it.X, it.Y, it.W, it.H)
	}
}

// FormatLayouts writes every breakpoint's layout, widest first.
func FormatLayouts(w io.Writer, bps []layout.Breakpoint, layouts map[string][]layout.Item) {
	for i, bp := range layout.SortBreakpoints(bps) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		FormatLayout(w, bp.Name, bp.Columns, layouts[bp.Name])
	}
}

// FormatProblems writes layout problems, one per line.
// Returns false if there are none.
func FormatProblems(w io.Writer, p layout.Problems) bool {
	if p.Empty() {
		return false
	}
	for _, id := range p.Duplicates {
		fmt.Fprintf(w, "  duplicate item: %s\n", id)
	}
	for _, id := range p.OutOfBounds {
		fmt.Fprintf(w, "  out of bounds: %s\n", id)
	}
	for _, o := range p.Overlaps {
		fmt.Fprintf(w, "  overlap: %s and %s\n", o.A, o.B)
	}
	return true
}

// FormatBackups writes backups as a table with their age relative to now.
func FormatBackups(w io.Writer, dashboardID string, backups []persistence.Backup, now time.Time) int {
	if len(backups) == 0 {
		fmt.Fprintf(w, "No backups for dashboard '%s'\n", dashboardID)
		return 0
	}

	fmt.Fprintf(w, "Backups for dashboard '%s':\n\n", dashboardID)
	row := "%-3s %-25s %-8s %s\n"
	fmt.Fprintf(w, row, "#", "SAVED", "AGE", "KEY")
	for i, b := range backups {
		fmt.Fprintf(w, row,
			fmt.Sprintf("%d", i+1),
			b.SavedAt.UTC().Format(time.RFC3339),
			formatAge(b.SavedAt, now),
			b.Key,
		)
	}
	return len(backups)
}

// FormatCatalog writes registry entries grouped by category.
func FormatCatalog(w io.Writer, entries []registry.Metadata) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No widget types found")
		return
	}

	category := ""
	for _, m := range entries {
		if m.Category != category {
			if category != "" {
				fmt.Fprintln(w)
			}
			category = m.Category
			fmt.Fprintf(w, "%s\n", category)
		}
		fmt.Fprintf(w, "  %-20s %-24s %dx%d  %s\n",
			m.Type, m.Title, m.DefaultSize.W, m.DefaultSize.H, m.Description)
	}
}

func glyph(i int) byte {
	const glyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	return glyphs[i%len(glyphs)]
}

// formatConfig renders a widget config as sorted key=value pairs.
func formatConfig(c dashboard.Config) string {
	if len(c) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, c[k])
	}
	return truncate(strings.Join(parts, " "), maxConfigWidth)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatAge formats the time between t and now as "2m ago", "1h ago", etc.
func formatAge(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
