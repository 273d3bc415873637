package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/tessera/internal/filter"
	"github.com/dyluth/tessera/internal/format"
	"github.com/dyluth/tessera/internal/printer"
	"github.com/dyluth/tessera/internal/resolver"
	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/layout"
	"github.com/dyluth/tessera/pkg/registry"
)

var (
	addWidgetID string
	addSettings []string
	listOutput  string
	listType    string
	listHas     string
)

var addCmd = &cobra.Command{
	Use:   "add TYPE",
	Short: "Add a widget to the dashboard",
	Long: `Add a widget of the given catalogue type.

The widget gets the type's default size and is placed in the first free
position scanning rows top to bottom, left to right. If nothing fits it is
appended below the lowest widget.

Examples:
  tessera add vehicle-status
  tessera add trip-map --set region=north --set zoom=9`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove WIDGET_ID",
	Aliases: []string{"rm"},
	Short:   "Remove a widget and its layout item",
	Long: `Remove a widget by full id or unique prefix.

Other widgets keep their positions; the gap is not compacted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var configureCmd = &cobra.Command{
	Use:   "configure WIDGET_ID KEY=VALUE...",
	Short: "Merge settings into a widget's configuration",
	Long: `Shallow-merge KEY=VALUE pairs into a widget's configuration.

Values are parsed as YAML scalars, so numbers and booleans keep their type:
  tessera configure 3f2a refresh=30 live=true vehicle=VAN-7`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConfigure,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the dashboard's widgets",
	Long: `List widgets with their canonical position and configuration.

Output Formats:
  default - Human-readable table
  jsonl   - Line-delimited JSON, one widget per line

Filters:
  --type  - Glob pattern for the widget type, e.g. 'vehicle-*'
  --has   - Only widgets whose configuration sets this key`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	addCmd.Flags().StringVar(&addWidgetID, "id", "", "Widget id (a UUID is generated if omitted)")
	addCmd.Flags().StringArrayVar(&addSettings, "set", nil, "Initial configuration as KEY=VALUE (repeatable)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "default", "Output format: default or jsonl")
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by widget type (glob pattern)")
	listCmd.Flags().StringVar(&listHas, "has", "", "Filter by configuration key")

	rootCmd.AddCommand(addCmd, removeCmd, configureCmd, listCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	widgetType := args[0]

	settings, err := parseSettings(addSettings)
	if err != nil {
		return printer.Error("invalid --set value", err.Error(), []string{"Use KEY=VALUE, e.g. --set refresh=30"})
	}

	return withSession(cmd, func(s *session) error {
		newID := registry.UUIDGenerator
		if addWidgetID != "" {
			newID = func() string { return addWidgetID }
		}

		w, err := s.catalog.NewWidget(widgetType, newID)
		if err != nil {
			return unknownTypeError(s.catalog, widgetType)
		}
		w.Config = settings

		if !s.store.AddWidget(w) {
			return printer.Error(
				fmt.Sprintf("widget '%s' already exists", w.ID),
				"Widget ids must be unique within a dashboard.",
				[]string{"Omit --id to generate a fresh id"},
			)
		}

		state := s.store.Snapshot()
		it := state.Layout[layout.Find(state.Layout, w.ID)]
		printer.Success("Added %s %s at %d,%d (%dx%d)\n", w.Type, resolver.ShortID(w.ID), it.X, it.Y, it.W, it.H)
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		id, err := s.resolveWidget(args[0])
		if err != nil {
			return err
		}

		s.store.RemoveWidget(id)
		printer.Success("Removed widget %s\n", resolver.ShortID(id))
		return nil
	})
}

func runConfigure(cmd *cobra.Command, args []string) error {
	settings, err := parseSettings(args[1:])
	if err != nil {
		return printer.Error("invalid setting", err.Error(), []string{"Use KEY=VALUE, e.g. refresh=30"})
	}

	return withSession(cmd, func(s *session) error {
		id, err := s.resolveWidget(args[0])
		if err != nil {
			return err
		}

		s.store.UpdateWidgetConfig(id, settings)
		printer.Success("Updated %d %s on widget %s\n", len(settings), pluralize(len(settings), "setting", "settings"), resolver.ShortID(id))
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	if listOutput != "default" && listOutput != "jsonl" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", listOutput),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	criteria := &filter.Criteria{TypeGlob: listType, ConfigKey: listHas}
	if err := criteria.Validate(); err != nil {
		return printer.Error("invalid filter", err.Error(), []string{"Use shell-style patterns, e.g. --type 'vehicle-*'"})
	}

	return withSession(cmd, func(s *session) error {
		state := s.store.Snapshot()
		state.Widgets = criteria.Apply(state.Widgets)
		if listOutput == "jsonl" {
			return format.FormatJSONL(printer.Out(), state.Widgets)
		}
		format.FormatWidgets(printer.Out(), s.manager.DashboardID(), state)
		return nil
	})
}

// parseSettings parses KEY=VALUE pairs. Values are decoded as YAML so that
// numbers, booleans and lists keep their type; anything else stays a string.
func parseSettings(pairs []string) (dashboard.Config, error) {
	settings := make(dashboard.Config, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got '%s'", pair)
		}

		var value any = raw
		if raw != "" {
			var decoded any
			if err := yaml.Unmarshal([]byte(raw), &decoded); err == nil && decoded != nil {
				value = decoded
			}
		}
		settings[key] = value
	}
	return settings, nil
}

func unknownTypeError(catalog *registry.Registry, widgetType string) error {
	suggestions := []string{"Run 'tessera catalog' to list widget types"}
	if matches := catalog.Search(widgetType); len(matches) > 0 {
		suggestions = append([]string{fmt.Sprintf("Did you mean '%s'?", matches[0].Type)}, suggestions...)
	}
	return printer.Error(
		fmt.Sprintf("unknown widget type '%s'", widgetType),
		"The widget catalogue has no entry with that type.",
		suggestions,
	)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
