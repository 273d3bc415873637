package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Storage key helpers
//
// All keys are namespaced by dashboard id so that many dashboards can share
// one key-value store.
//
// Key pattern: tessera:{dashboard_id}:{entity}[:{suffix}]

// SnapshotKey returns the key holding the primary snapshot.
// Pattern: tessera:{dashboard_id}:snapshot
func SnapshotKey(dashboardID string) string {
	return fmt.Sprintf("tessera:%s:snapshot", dashboardID)
}

// BackupPrefix returns the prefix shared by every backup of a dashboard.
// Pattern: tessera:{dashboard_id}:backup:
func BackupPrefix(dashboardID string) string {
	return fmt.Sprintf("tessera:%s:backup:", dashboardID)
}

// BackupKey returns the key for a backup written at the given time.
// Pattern: tessera:{dashboard_id}:backup:{unix_ms}
func BackupKey(dashboardID string, at time.Time) string {
	return BackupPrefix(dashboardID) + strconv.FormatInt(at.UnixMilli(), 10)
}

// BackupTime extracts the timestamp from a backup key.
// Returns false if key is not a backup key of dashboardID.
func BackupTime(dashboardID, key string) (time.Time, bool) {
	suffix, ok := strings.CutPrefix(key, BackupPrefix(dashboardID))
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
