package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/format"
	"github.com/dyluth/tessera/internal/printer"
	"github.com/dyluth/tessera/pkg/registry"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [QUERY]",
	Short: "Browse the widget catalogue",
	Long: `List widget types with their default size.

With QUERY, fuzzy-match titles and categories, best match first:
  tessera catalog maint
  tessera catalog "veh stat"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	catalog := registry.NewFleet()

	if len(args) == 0 {
		format.FormatCatalog(printer.Out(), catalog.List())
		return nil
	}

	matches := catalog.Search(args[0])
	if len(matches) == 0 {
		printer.Info("No widget types match '%s'\n", args[0])
		return nil
	}
	for _, m := range matches {
		printer.Printf("%-20s %-24s %dx%d  %s\n", m.Type, m.Title, m.DefaultSize.W, m.DefaultSize.H, m.Category)
	}
	return nil
}
