package enums

import "strings"

// StoreKind distinguishes retail nodes from fulfilling warehouses on the map.
type StoreKind string

const (
	StoreKindRetail    StoreKind = "store"
	StoreKindWarehouse StoreKind = "warehouse"
)

// String implements fmt.Stringer.
func (s StoreKind) String() string {
	return string(s)
}

// StoreKindFor classifies the free-text store_type reported upstream.
// Main stores and distribution centres fulfil orders like warehouses.
func StoreKindFor(storeType string) StoreKind {
	normalized := strings.ToLower(strings.TrimSpace(storeType))
	for _, marker := range []string{"warehouse", "main", "distribution"} {
		if strings.Contains(normalized, marker) {
			return StoreKindWarehouse
		}
	}
	return StoreKindRetail
}
