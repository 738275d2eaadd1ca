package stores

import (
	"math"

	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
	"github.com/angelmondragon/supplynet-dashboard/pkg/types"
)

// StoreRecord is a node in the supply network as served by the upstream API.
type StoreRecord struct {
	ID        string          `json:"_id"`
	Name      string          `json:"store_name"`
	Address   string          `json:"store_address"`
	Phone     string          `json:"store_phone"`
	Email     string          `json:"store_email"`
	OwnerName string          `json:"owner_name"`
	StoreType string          `json:"store_type"`
	Items     []InventoryItem `json:"items"`
	Conditions
	IsActive  bool     `json:"is_active"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// InventoryItem is one stocked line. CurrentQuantity may exceed MaxQuantity.
type InventoryItem struct {
	Name            string  `json:"item_name"`
	CurrentQuantity int     `json:"current_quantity"`
	MaxQuantity     int     `json:"max_quantity"`
	Unit            string  `json:"unit"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
}

// Position returns the record's map position when both coordinates are set.
func (s StoreRecord) Position() (types.GeoPoint, bool) {
	return types.NewGeoPoint(s.Latitude, s.Longitude)
}

// Kind classifies the record for map presentation.
func (s StoreRecord) Kind() enums.StoreKind {
	return enums.StoreKindFor(s.StoreType)
}

// Clone returns a deep copy safe to hand across goroutines.
func (s StoreRecord) Clone() StoreRecord {
	cpy := s
	if s.Items != nil {
		cpy.Items = make([]InventoryItem, len(s.Items))
		copy(cpy.Items, s.Items)
	}
	if s.Latitude != nil {
		lat := *s.Latitude
		cpy.Latitude = &lat
	}
	if s.Longitude != nil {
		lng := *s.Longitude
		cpy.Longitude = &lng
	}
	return cpy
}

// InventoryPercent is round(100*Σcurrent/Σmax), or 0 when nothing has capacity.
func InventoryPercent(items []InventoryItem) int {
	var current, max int
	for _, item := range items {
		current += item.CurrentQuantity
		max += item.MaxQuantity
	}
	return Percent(current, max)
}

// StockPercent is the fill percentage of a single item.
func (i InventoryItem) StockPercent() int {
	return Percent(i.CurrentQuantity, i.MaxQuantity)
}

// StockStatus buckets the item's fill percentage.
func (i InventoryItem) StockStatus() enums.StockStatus {
	return enums.StockStatusFor(i.StockPercent())
}

// OverCapacity reports a current quantity above the configured maximum.
func (i InventoryItem) OverCapacity() bool {
	return i.CurrentQuantity > i.MaxQuantity
}

// Percent rounds half away from zero and defines x/0 as 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
