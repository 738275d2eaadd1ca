package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/supplynet-dashboard/api/responses"
	"github.com/angelmondragon/supplynet-dashboard/internal/fleet"
	"github.com/angelmondragon/supplynet-dashboard/internal/mapview"
	"github.com/angelmondragon/supplynet-dashboard/internal/orders"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

// OrderLister reads upstream orders for the pending badge.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]orders.OrderSummary, error)
}

// SessionCounter reports live assistant sessions.
type SessionCounter interface {
	LiveSessions() int
}

type summaryResponse struct {
	TotalStores    int  `json:"total_stores"`
	ActiveVehicles int  `json:"active_vehicles"`
	PendingOrders  *int `json:"pending_orders"`
	LiveSessions   int  `json:"live_assistant_sessions"`
	DirectoryError bool `json:"directory_error"`
}

// MapProjection returns markers, routes and vehicles for the map.
func MapProjection(dir Directory, vehicles *fleet.Fleet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, mapview.Project(dir.List(), vehicles.List()))
	}
}

// Summary returns the header badges. An unreachable order endpoint leaves
// pending_orders null instead of failing the whole response.
func Summary(dir Directory, vehicles *fleet.Fleet, orderAPI OrderLister, sessions SessionCounter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total := 0
		for _, rec := range dir.List() {
			if rec.ID != stores.PlaceholderID {
				total++
			}
		}
		resp := summaryResponse{
			TotalStores:    total,
			ActiveVehicles: vehicles.ActiveCount(),
			DirectoryError: dir.Status().Error,
		}
		if sessions != nil {
			resp.LiveSessions = sessions.LiveSessions()
		}
		if orderAPI != nil {
			list, err := orderAPI.ListOrders(r.Context())
			if err != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "pending order count unavailable")
			} else {
				pending := 0
				for _, o := range list {
					if o.Status.IsOpen() {
						pending++
					}
				}
				resp.PendingOrders = &pending
			}
		}
		responses.WriteSuccess(w, resp)
	}
}
