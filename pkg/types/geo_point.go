package types

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean radius used to convert s2 angles into distances.
const EarthRadiusKm = 6371.0088

// GeoPoint is a WGS84 latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// NewGeoPoint returns a point when both coordinates are present and in range.
func NewGeoPoint(lat, lng *float64) (GeoPoint, bool) {
	if lat == nil || lng == nil {
		return GeoPoint{}, false
	}
	p := GeoPoint{Lat: *lat, Lng: *lng}
	return p, p.Valid()
}

// Valid reports whether the point lies on the globe.
func (g GeoPoint) Valid() bool {
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lng) {
		return false
	}
	return g.LatLng().IsValid()
}

// LatLng converts the point into its s2 representation.
func (g GeoPoint) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(g.Lat, g.Lng)
}

// DistanceKm is the great-circle distance between two points.
func (g GeoPoint) DistanceKm(other GeoPoint) float64 {
	return g.LatLng().Distance(other.LatLng()).Radians() * EarthRadiusKm
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("%.5f,%.5f", g.Lat, g.Lng)
}
