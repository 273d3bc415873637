package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/format"
	"github.com/dyluth/tessera/internal/persistence"
	"github.com/dyluth/tessera/internal/printer"
	"github.com/dyluth/tessera/internal/timespec"
)

var (
	backupsSince string
	backupsUntil string
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List and restore dashboard backups",
	Long: `Every save also writes a timestamped backup; the newest few are kept.

Backups are the only way to recover an arrangement after 'tessera reset' or
a layout change.`,
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	Long: `List backups, newest first.

Time Filters:
  --since  - Only backups saved after this time
  --until  - Only backups saved before this time

Both accept a duration ("2h", "30m") or an RFC3339 timestamp.`,
	Args: cobra.NoArgs,
	RunE: runBackupsList,
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore KEY|NUMBER",
	Short: "Restore a backup",
	Long: `Restore a backup by its storage key or by its number in 'tessera backups list'.

The restored dashboard becomes the current one and is saved immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupsRestore,
}

func init() {
	backupsListCmd.Flags().StringVar(&backupsSince, "since", "", "Show backups after time (duration or RFC3339)")
	backupsListCmd.Flags().StringVar(&backupsUntil, "until", "", "Show backups before time (duration or RFC3339)")

	backupsCmd.AddCommand(backupsListCmd, backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}

func runBackupsList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	window, err := timespec.ParseRange(backupsSince, backupsUntil, now)
	if err != nil {
		return printer.Error("invalid time filter", err.Error(), nil)
	}

	return withSession(cmd, func(s *session) error {
		backups, err := s.manager.Backups(cmd.Context())
		if err != nil {
			return printer.Error("failed to list backups", err.Error(), nil)
		}

		filtered := backups[:0]
		for _, b := range backups {
			if window.Contains(b.SavedAt) {
				filtered = append(filtered, b)
			}
		}

		format.FormatBackups(printer.Out(), s.manager.DashboardID(), filtered, now)
		if len(filtered) > 0 {
			printer.Muted("\nRestore with 'tessera backups restore NUMBER'\n")
		}
		return nil
	})
}

func runBackupsRestore(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		ctx := cmd.Context()

		key := args[0]
		if n, err := strconv.Atoi(key); err == nil {
			backups, err := s.manager.Backups(ctx)
			if err != nil {
				return printer.Error("failed to list backups", err.Error(), nil)
			}
			if n < 1 || n > len(backups) {
				return printer.Error(
					fmt.Sprintf("no backup number %d", n),
					fmt.Sprintf("Dashboard '%s' has %d backups.", s.manager.DashboardID(), len(backups)),
					[]string{"Run 'tessera backups list' to see backup numbers"},
				)
			}
			key = backups[n-1].Key
		}

		if err := s.manager.RestoreBackup(ctx, key); err != nil {
			if errors.Is(err, persistence.ErrUnknownBackup) {
				return printer.Error(
					"backup not found",
					err.Error(),
					[]string{"Run 'tessera backups list' to see available backups"},
				)
			}
			return printer.Error("failed to restore backup", err.Error(), nil)
		}

		printer.Success("Restored %s (%d widgets)\n", key, s.store.Len())
		return nil
	})
}
