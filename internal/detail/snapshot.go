package detail

import (
	"github.com/angelmondragon/supplynet-dashboard/internal/orders"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
)

// ItemView is one inventory row with its order draft.
type ItemView struct {
	stores.InventoryItem
	StockPercent int               `json:"stock_percent"`
	StockStatus  enums.StockStatus `json:"stock_status"`
	OverCapacity bool              `json:"over_capacity"`
	Draft        int               `json:"order_quantity"`
	LineTotal    string            `json:"line_total"`
}

// Snapshot is the serialisable state of a detail view.
type Snapshot struct {
	StoreID              string              `json:"store_id"`
	Loading              bool                `json:"loading"`
	Error                string              `json:"error,omitempty"`
	Store                *stores.StoreRecord `json:"store,omitempty"`
	Conditions           stores.Conditions   `json:"conditions"`
	Items                []ItemView          `json:"items"`
	Notes                string              `json:"notes"`
	OrderTotal           string              `json:"order_total"`
	SubmittingOrder      bool                `json:"submitting_order"`
	SubmittingConditions bool                `json:"submitting_conditions"`
	LastOrderID          string              `json:"last_order_id,omitempty"`
}

// Snapshot copies the current view state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		StoreID:              s.storeID,
		Loading:              s.loading,
		Conditions:           s.conditions,
		Items:                []ItemView{},
		Notes:                s.notes,
		SubmittingOrder:      s.submittingOrder,
		SubmittingConditions: s.submittingConditions,
		LastOrderID:          s.lastOrderID,
	}
	if s.loadErr != nil {
		snap.Error = s.loadErr.Error()
	}
	if s.record != nil {
		rec := s.record.Clone()
		snap.Store = &rec
		for _, item := range rec.Items {
			draft := s.drafts[item.Name]
			line := orders.OrderLine{Quantity: draft, Price: item.Price}
			snap.Items = append(snap.Items, ItemView{
				InventoryItem: item,
				StockPercent:  item.StockPercent(),
				StockStatus:   item.StockStatus(),
				OverCapacity:  item.OverCapacity(),
				Draft:         draft,
				LineTotal:     line.LineTotal().StringFixed(2),
			})
		}
	}
	snap.OrderTotal = orders.LinesTotal(s.buildDraft().Items).StringFixed(2)
	return snap
}
