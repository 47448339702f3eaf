package model

// DeliveryStatusCounts groups today's deliveries by status class.
type DeliveryStatusCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

type DashboardStats struct {
	ActiveVehicles      int64                `json:"active_vehicles"`
	ActiveDrivers       int64                `json:"active_drivers"`
	TotalDrivers        int64                `json:"total_drivers"`
	DriversWithAccounts int64                `json:"drivers_with_accounts"`
	ActiveRoutes        int64                `json:"active_routes"`
	TodayDeliveries     DeliveryStatusCounts `json:"today_deliveries"`
	CompletedDeliveries int64                `json:"completed_deliveries"`
}

type ImportResult struct {
	DeliveriesImported int `json:"deliveries_imported"`
	RoutesCreated      int `json:"routes_created"`
	DriversAssigned    int `json:"drivers_assigned"`
}

type TransferResult struct {
	Requested   int `json:"requested"`
	Transferred int `json:"transferred"`
	FromTotal   int `json:"from_total_stops"`
	ToTotal     int `json:"to_total_stops"`
}
