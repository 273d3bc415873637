// Package dashboard provides the owned state of one dashboard and the storage
// schema used to persist it.
//
// # Overview
//
// A Store holds the widgets of a dashboard, their canonical layout and whether
// the dashboard is being edited. All mutation goes through Dispatch with one
// of a closed set of commands; each command is applied atomically under the
// store's lock and observers are notified after every effective change.
//
// # Commands
//
//	AddWidget          append a widget and place it with first-fit
//	RemoveWidget       remove a widget and its layout item
//	UpdateWidgetConfig shallow-merge configuration values
//	UpdateLayout       replace the canonical layout (editing only)
//	SetEditMode        switch between viewing and editing
//	ResetLayout        replace or fully recompute the layout
//	LoadDashboard      replace the whole state (startup and import)
//
// # Edit mode
//
// Raw geometry coming from a drag-and-drop grid is only accepted while the
// store is in editing mode; UpdateLayout is silently ignored otherwise. There
// is no undo stack. ResetLayout is destructive, and earlier arrangements are
// recovered from persisted backups.
//
// # Usage Example
//
//	store := dashboard.NewStore("fleet-overview", layout.DefaultGrid())
//	store.AddWidget(dashboard.Widget{
//		ID:   uuid.NewString(),
//		Type: "vehicle-status",
//		Size: layout.Size{W: 4, H: 3},
//	})
//	state := store.Snapshot()
//	// state.Layout[0] = {i: <id>, x: 0, y: 0, w: 4, h: 3}
//
// # Storage Schema
//
// All storage keys are namespaced by dashboard id:
//
// Snapshot: tessera:{dashboard_id}:snapshot
// Backups:  tessera:{dashboard_id}:backup:{unix_ms}
//
// Dashboard ids are DNS-label style so they are safe inside key patterns.
package dashboard
