package enums

// Priority is the badge shown on map markers.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Demand is the coarse demand label shown on map markers.
type Demand string

const (
	DemandLow           Demand = "Low"
	DemandMedium        Demand = "Medium"
	DemandHigh          Demand = "High"
	DemandNotApplicable Demand = "N/A"
)

// StockStatus buckets an item's fill percentage.
type StockStatus string

const (
	StockCriticallyLow StockStatus = "CRITICALLY LOW"
	StockLow           StockStatus = "LOW"
	StockAdequate      StockStatus = "ADEQUATE"
)

// StockStatusFor buckets a 0-100 fill percentage.
func StockStatusFor(percent int) StockStatus {
	switch {
	case percent < 30:
		return StockCriticallyLow
	case percent < 60:
		return StockLow
	default:
		return StockAdequate
	}
}
