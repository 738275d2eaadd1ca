package orders

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
)

// OrderLine is one requested item in a manual order.
type OrderLine struct {
	ItemName string  `json:"item_name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category"`
}

// OrderDraft is the payload posted to the upstream order endpoint.
type OrderDraft struct {
	StoreID     string      `json:"store_id" validate:"required"`
	StoreName   string      `json:"store_name"`
	MainStoreID string      `json:"main_store_id" validate:"required"`
	Items       []OrderLine `json:"items" validate:"required,min=1,dive"`
	Notes       string      `json:"notes"`
}

// CreateOrderResult is the upstream acknowledgement of a created order.
type CreateOrderResult struct {
	OrderID string `json:"order_id"`
}

// OrderSummary is the subset of an upstream order the dashboard reads.
type OrderSummary struct {
	ID          string            `json:"_id"`
	StoreID     string            `json:"store_id"`
	StoreName   string            `json:"store_name,omitempty"`
	MainStoreID string            `json:"main_store_id,omitempty"`
	Status      enums.OrderStatus `json:"status"`
	CreatedAt   string            `json:"created_at,omitempty"`
}

// LineTotal is quantity times price.
func (l OrderLine) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal sums the lines, rounded to cents.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total.Round(2)
}
