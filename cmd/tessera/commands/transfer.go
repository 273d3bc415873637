package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/persistence"
	"github.com/dyluth/tessera/internal/printer"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the dashboard as portable JSON",
	Long: `Export the dashboard (widgets, layout, edit mode) as JSON.

The output can be loaded into any dashboard with 'tessera import'.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the dashboard with exported JSON",
	Long: `Replace the dashboard with the JSON in FILE ('-' for stdin).

The input must contain "widgets" and "layout" arrays. Invalid input leaves the
dashboard untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Write to FILE instead of stdout")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		text, err := s.manager.Export()
		if err != nil {
			return fmt.Errorf("failed to export dashboard: %w", err)
		}

		if exportFile == "" {
			printer.Println(text)
			return nil
		}
		if err := os.WriteFile(exportFile, []byte(text+"\n"), 0644); err != nil {
			return printer.Error("failed to write export", err.Error(), nil)
		}
		printer.Success("Exported %d widgets to %s\n", s.store.Len(), exportFile)
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return printer.Error("failed to read import", err.Error(), nil)
	}

	return withSession(cmd, func(s *session) error {
		if err := s.manager.Import(string(data)); err != nil {
			if errors.Is(err, persistence.ErrInvalidSnapshot) {
				return printer.Error(
					"invalid dashboard export",
					err.Error(),
					[]string{"Import a file produced by 'tessera export'"},
				)
			}
			return fmt.Errorf("failed to import dashboard: %w", err)
		}

		printer.Success("Imported %d widgets into '%s'\n", s.store.Len(), s.manager.DashboardID())
		return nil
	})
}
