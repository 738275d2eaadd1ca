package enums

import "strings"

// OrderStatus is the upstream order lifecycle status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsOpen reports whether the order still counts toward the pending badge.
func (s OrderStatus) IsOpen() bool {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case OrderStatusPending, OrderStatusProcessing:
		return true
	}
	return false
}
