package stores

import "github.com/angelmondragon/supplynet-dashboard/pkg/enums"

// PlaceholderID identifies the synthetic record served when no listing is available.
const PlaceholderID = "placeholder"

// Placeholder is the single synthetic record that keeps the selection list non-empty.
// It has no coordinates, so it never lands on the map.
func Placeholder() StoreRecord {
	return StoreRecord{
		ID:        PlaceholderID,
		Name:      "Store data unavailable",
		StoreType: "unknown",
		Items:     []InventoryItem{},
		Conditions: Conditions{
			EconomicConditions:   enums.ConditionUnset,
			PoliticalInstability: enums.ConditionUnset,
			EnvironmentalIssues:  enums.ConditionUnset,
		},
	}
}
