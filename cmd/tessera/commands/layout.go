package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/format"
	"github.com/dyluth/tessera/internal/printer"
	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/layout"
)

var (
	showBreakpoint string
	showWidth      int
	applyForce     bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect and change the dashboard layout",
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw the layout of every breakpoint",
	Long: `Draw the canonical layout and the layouts derived for each breakpoint.

Derived layouts are not collision-resolved; overlapping cells are drawn as '#'.

Examples:
  tessera layout show
  tessera layout show --breakpoint sm
  tessera layout show --width 800`,
	Args: cobra.NoArgs,
	RunE: runLayoutShow,
}

var layoutApplyCmd = &cobra.Command{
	Use:   "apply FILE",
	Short: "Replace the canonical layout (edit mode only)",
	Long: `Replace the canonical layout with the JSON array in FILE ('-' for stdin).

Items use the keys "i", "x", "y", "w" and "h". The dashboard must be in edit
mode. Layouts with overlapping or out-of-bounds items are rejected unless
--force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runLayoutApply,
}

var layoutCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the canonical layout for overlaps and bounds violations",
	Args:  cobra.NoArgs,
	RunE:  runLayoutCheck,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Recompute the layout from scratch",
	Long: `Discard the current arrangement and re-place every widget, in list order,
on an empty grid.

This cannot be undone except by restoring a backup.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	layoutShowCmd.Flags().StringVarP(&showBreakpoint, "breakpoint", "b", "", "Only show this breakpoint")
	layoutShowCmd.Flags().IntVar(&showWidth, "width", 0, "Only show the breakpoint used at this viewport width in pixels")
	layoutApplyCmd.Flags().BoolVar(&applyForce, "force", false, "Apply even if the layout has problems")

	layoutCmd.AddCommand(layoutShowCmd, layoutApplyCmd, layoutCheckCmd)
	rootCmd.AddCommand(layoutCmd, resetCmd)
}

func runLayoutShow(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		bps := s.cfg.Breakpoints
		layouts := s.store.Layouts(bps)

		switch {
		case showBreakpoint != "":
			for _, bp := range bps {
				if bp.Name == showBreakpoint {
					format.FormatLayout(printer.Out(), bp.Name, bp.Columns, layouts[bp.Name])
					return nil
				}
			}
			return printer.Error(
				fmt.Sprintf("unknown breakpoint '%s'", showBreakpoint),
				"The configuration defines no breakpoint with that name.",
				[]string{"Run 'tessera layout show' to see all breakpoints"},
			)

		case showWidth > 0:
			bp, _ := layout.BreakpointFor(bps, showWidth)
			format.FormatLayout(printer.Out(), bp.Name, bp.Columns, layouts[bp.Name])
			return nil

		default:
			format.FormatLayouts(printer.Out(), bps, layouts)
			return nil
		}
	})
}

func runLayoutApply(cmd *cobra.Command, args []string) error {
	items, err := readLayout(cmd, args[0])
	if err != nil {
		return printer.Error("invalid layout", err.Error(), []string{`Expected a JSON array like [{"i":"id","x":0,"y":0,"w":4,"h":2}]`})
	}

	return withSession(cmd, func(s *session) error {
		if s.store.Mode() != dashboard.Editing {
			return printer.Error(
				"dashboard is not in edit mode",
				"Layout changes are ignored while viewing.",
				[]string{"Run 'tessera edit on' first"},
			)
		}

		if problems := layout.Check(items, s.store.Grid().Columns); !problems.Empty() && !applyForce {
			printer.Warning("Layout has problems:\n")
			format.FormatProblems(printer.Out(), problems)
			return printer.Error("layout rejected", "Fix the problems above or pass --force.", nil)
		}

		if !s.store.UpdateLayout(items) {
			printer.Info("Layout unchanged\n")
			return nil
		}
		printer.Success("Applied layout with %d items\n", len(items))
		return nil
	})
}

func runLayoutCheck(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		state := s.store.Snapshot()
		problems := layout.Check(state.Layout, s.store.Grid().Columns)
		if problems.Empty() {
			printer.Success("Layout of '%s' is valid (%d items)\n", s.manager.DashboardID(), len(state.Layout))
			return nil
		}

		format.FormatProblems(printer.Out(), problems)
		return printer.Error("layout has problems", problems.Err().Error(), []string{"Run 'tessera reset' to recompute the layout"})
	})
}

func runReset(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		if !s.store.ResetLayout(nil) {
			printer.Info("Layout already matches a fresh placement\n")
			return nil
		}
		printer.Success("Recomputed layout for %d widgets\n", s.store.Len())
		return nil
	})
}

func readLayout(cmd *cobra.Command, path string) ([]layout.Item, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}

	var items []layout.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse layout JSON: %w", err)
	}
	for _, it := range items {
		if err := layout.CheckExtent(it); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// readInput reads path, or the command's stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
