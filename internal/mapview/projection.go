package mapview

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/angelmondragon/supplynet-dashboard/internal/fleet"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
	"github.com/angelmondragon/supplynet-dashboard/pkg/types"
)

// markerCellLevel groups markers into cells of roughly one square kilometre.
const markerCellLevel = 13

// Marker is one placed store.
type Marker struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Kind             enums.StoreKind `json:"kind"`
	Position         types.GeoPoint  `json:"position"`
	Cell             string          `json:"cell"`
	InventoryPercent int             `json:"inventory_percent"`
	Demand           enums.Demand    `json:"demand"`
	Priority         enums.Priority  `json:"priority"`
	Active           bool            `json:"is_active"`
	ItemCount        int             `json:"item_count"`
}

// Route links a warehouse to a store it supplies.
type Route struct {
	FromID     string         `json:"from_id"`
	ToID       string         `json:"to_id"`
	From       types.GeoPoint `json:"from"`
	To         types.GeoPoint `json:"to"`
	DistanceKm float64        `json:"distance_km"`
}

// Bounds is the smallest lat/lng box holding every marker and vehicle.
type Bounds struct {
	SouthWest types.GeoPoint `json:"south_west"`
	NorthEast types.GeoPoint `json:"north_east"`
}

// Projection is the map view derived from the directory.
type Projection struct {
	Markers  []Marker        `json:"markers"`
	Routes   []Route         `json:"routes"`
	Vehicles []fleet.Vehicle `json:"vehicles"`
	Bounds   *Bounds         `json:"bounds,omitempty"`
}

// Project derives the map view. It is pure: the same input always yields the same output.
// Records without both coordinates are skipped and duplicate ids keep their first occurrence.
func Project(records []stores.StoreRecord, vehicles []fleet.Vehicle) Projection {
	out := Projection{
		Markers:  make([]Marker, 0, len(records)),
		Routes:   []Route{},
		Vehicles: make([]fleet.Vehicle, 0, len(vehicles)),
	}
	rect := s2.EmptyRect()
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		pos, ok := rec.Position()
		if !ok {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out.Markers = append(out.Markers, markerFor(rec, pos))
		rect = rect.AddPoint(pos.LatLng())
	}

	for _, v := range vehicles {
		if !v.Position.Valid() {
			continue
		}
		out.Vehicles = append(out.Vehicles, v)
		rect = rect.AddPoint(v.Position.LatLng())
	}

	out.Routes = routesFor(out.Markers)
	if !rect.IsEmpty() {
		out.Bounds = &Bounds{
			SouthWest: types.GeoPoint{Lat: rect.Lo().Lat.Degrees(), Lng: rect.Lo().Lng.Degrees()},
			NorthEast: types.GeoPoint{Lat: rect.Hi().Lat.Degrees(), Lng: rect.Hi().Lng.Degrees()},
		}
	}
	return out
}

func markerFor(rec stores.StoreRecord, pos types.GeoPoint) Marker {
	kind := rec.Kind()
	pct := stores.InventoryPercent(rec.Items)
	return Marker{
		ID:               rec.ID,
		Name:             rec.Name,
		Kind:             kind,
		Position:         pos,
		Cell:             s2.CellIDFromLatLng(pos.LatLng()).Parent(markerCellLevel).ToToken(),
		InventoryPercent: pct,
		Demand:           DemandFor(kind, pct),
		Priority:         PriorityFor(rec.Conditions),
		Active:           rec.IsActive,
		ItemCount:        len(rec.Items),
	}
}

// PriorityFor maps condition ratings onto the marker badge. Any high or
// critical rating yields Critical, any medium yields High, otherwise Low.
func PriorityFor(c stores.Conditions) enums.Priority {
	worst := enums.ConditionUnset
	for _, level := range c.Levels() {
		if level.AtLeast(worst) {
			worst = level
		}
	}
	switch {
	case worst.AtLeast(enums.ConditionHigh):
		return enums.PriorityCritical
	case worst == enums.ConditionMedium:
		return enums.PriorityHigh
	default:
		return enums.PriorityLow
	}
}

// DemandFor derives the demand label from the fill level. Warehouses have none.
func DemandFor(kind enums.StoreKind, inventoryPercent int) enums.Demand {
	if kind == enums.StoreKindWarehouse {
		return enums.DemandNotApplicable
	}
	switch {
	case inventoryPercent < 30:
		return enums.DemandHigh
	case inventoryPercent < 60:
		return enums.DemandMedium
	default:
		return enums.DemandLow
	}
}

// routesFor connects every retail marker to its nearest warehouse.
func routesFor(markers []Marker) []Route {
	var warehouses []Marker
	for _, m := range markers {
		if m.Kind == enums.StoreKindWarehouse {
			warehouses = append(warehouses, m)
		}
	}
	routes := []Route{}
	if len(warehouses) == 0 {
		return routes
	}
	for _, m := range markers {
		if m.Kind == enums.StoreKindWarehouse {
			continue
		}
		nearest, dist := nearestWarehouse(m.Position, warehouses)
		routes = append(routes, Route{
			FromID:     nearest.ID,
			ToID:       m.ID,
			From:       nearest.Position,
			To:         m.Position,
			DistanceKm: math.Round(dist*100) / 100,
		})
	}
	return routes
}

func nearestWarehouse(pos types.GeoPoint, warehouses []Marker) (Marker, float64) {
	best := warehouses[0]
	bestDist := pos.DistanceKm(best.Position)
	for _, w := range warehouses[1:] {
		if d := pos.DistanceKm(w.Position); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best, bestDist
}
