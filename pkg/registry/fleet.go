package registry

import "github.com/dyluth/tessera/pkg/layout"

// Widget categories used by the built-in catalogue.
const (
	CategoryVehicles    = "Vehicles"
	CategoryDrivers     = "Drivers"
	CategoryTrips       = "Trips"
	CategoryMaintenance = "Maintenance"
	CategoryOperations  = "Operations"
)

// Fleet returns the built-in fleet-management widget catalogue.
func Fleet() []Metadata {
	return []Metadata{
		{
			Type:        "vehicle-status",
			Title:       "Vehicle Status",
			Description: "Counts of vehicles by status: active, idle, in maintenance",
			Category:    CategoryVehicles,
			Icon:        "truck",
			DefaultSize: layout.Size{W: 4, H: 3, MinW: 2, MinH: 2, MaxW: 12, MaxH: 8},
		},
		{
			Type:        "fuel-usage",
			Title:       "Fuel Usage",
			Description: "Fuel consumption over the selected period",
			Category:    CategoryVehicles,
			Icon:        "fuel",
			DefaultSize: layout.Size{W: 6, H: 4, MinW: 4, MinH: 3, MaxW: 12, MaxH: 8},
		},
		{
			Type:        "utilisation-chart",
			Title:       "Fleet Utilisation",
			Description: "Share of fleet hours in use",
			Category:    CategoryVehicles,
			Icon:        "chart",
			DefaultSize: layout.Size{W: 6, H: 4, MinW: 4, MinH: 3, MaxW: 12, MaxH: 8},
		},
		{
			Type:        "driver-roster",
			Title:       "Driver Roster",
			Description: "Drivers on shift and their assigned vehicles",
			Category:    CategoryDrivers,
			Icon:        "users",
			DefaultSize: layout.Size{W: 4, H: 5, MinW: 3, MinH: 3, MaxW: 8, MaxH: 8},
		},
		{
			Type:        "trip-map",
			Title:       "Trip Map",
			Description: "Live positions of vehicles on active trips",
			Category:    CategoryTrips,
			Icon:        "map",
			DefaultSize: layout.Size{W: 8, H: 6, MinW: 4, MinH: 4, MaxW: 12, MaxH: 8},
		},
		{
			Type:        "active-assignments",
			Title:       "Active Assignments",
			Description: "Current driver-to-vehicle assignments",
			Category:    CategoryOperations,
			Icon:        "clipboard",
			DefaultSize: layout.Size{W: 4, H: 4, MinW: 3, MinH: 2, MaxW: 12, MaxH: 8},
		},
		{
			Type:        "alerts-feed",
			Title:       "Alerts Feed",
			Description: "Recent alerts raised by vehicles and drivers",
			Category:    CategoryOperations,
			Icon:        "bell",
			DefaultSize: layout.Size{W: 4, H: 4, MinW: 2, MinH: 2, MaxW: 6, MaxH: 8},
		},
		{
			Type:        "maintenance-due",
			Title:       "Maintenance Due",
			Description: "Vehicles with service due in the next 30 days",
			Category:    CategoryMaintenance,
			Icon:        "wrench",
			DefaultSize: layout.Size{W: 4, H: 3, MinW: 3, MinH: 2, MaxW: 8, MaxH: 6},
		},
	}
}

// NewFleet returns a registry preloaded with Fleet().
func NewFleet() *Registry {
	r, err := New(Fleet()...)
	if err != nil {
		panic(err)
	}
	return r
}
