package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/printer"
)

var editCmd = &cobra.Command{
	Use:   "edit on|off",
	Short: "Enter or leave edit mode",
	Long: `Toggle edit mode.

Layout changes ('tessera layout apply') are only accepted while editing.
Entering edit mode takes no snapshot; use 'tessera backups' to recover an
earlier arrangement.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	var editing bool
	switch args[0] {
	case "on":
		editing = true
	case "off":
		editing = false
	default:
		return printer.Error("invalid edit mode", "Expected 'on' or 'off', got '"+args[0]+"'.", nil)
	}

	return withSession(cmd, func(s *session) error {
		if !s.store.SetEditMode(editing) {
			printer.Info("Dashboard '%s' is already %s\n", s.manager.DashboardID(), s.store.Mode())
			return nil
		}
		printer.Success("Dashboard '%s' is now %s\n", s.manager.DashboardID(), s.store.Mode())
		return nil
	})
}
