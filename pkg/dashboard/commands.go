package dashboard

import "github.com/dyluth/tessera/pkg/layout"

// Command is a state transition request. The set is closed: only the types in
// this file implement it, and Store.Dispatch handles every one of them.
type Command interface {
	isCommand()
}

// AddWidget appends a widget and places it on the canonical grid.
// Ignored if a widget with the same ID already exists.
type AddWidget struct {
	Widget Widget
}

// RemoveWidget removes a widget and its layout item.
// Ignored if the ID is unknown.
type RemoveWidget struct {
	ID string
}

// UpdateWidgetConfig shallow-merges Config into the widget's configuration.
// Ignored if the ID is unknown.
type UpdateWidgetConfig struct {
	ID     string
	Config Config
}

// UpdateLayout replaces the canonical layout wholesale.
// Only accepted while editing; ignored while viewing.
type UpdateLayout struct {
	Layout []layout.Item
}

// SetEditMode switches between viewing and editing.
type SetEditMode struct {
	Editing bool
}

// ResetLayout replaces the layout with Layout, or recomputes it from scratch
// by placing every widget in list order when Layout is nil.
type ResetLayout struct {
	Layout []layout.Item
}

// LoadDashboard replaces the entire state. Used on startup and import.
type LoadDashboard struct {
	Widgets []Widget
	Layout  []layout.Item
	Editing bool
}

func (AddWidget) isCommand()          {}
func (RemoveWidget) isCommand()       {}
func (UpdateWidgetConfig) isCommand() {}
func (UpdateLayout) isCommand()       {}
func (SetEditMode) isCommand()        {}
func (ResetLayout) isCommand()        {}
func (LoadDashboard) isCommand()      {}

// CommandName returns a short name for logging.
func CommandName(cmd Command) string {
	switch cmd.(type) {
	case AddWidget:
		return "add_widget"
	case RemoveWidget:
		return "remove_widget"
	case UpdateWidgetConfig:
		return "update_widget_config"
	case UpdateLayout:
		return "update_layout"
	case SetEditMode:
		return "set_edit_mode"
	case ResetLayout:
		return "reset_layout"
	case LoadDashboard:
		return "load_dashboard"
	default:
		return "unknown"
	}
}
