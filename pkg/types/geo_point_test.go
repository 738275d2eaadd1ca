package types

import (
	"math"
	"testing"
)

func TestNewGeoPointRequiresBothCoordinates(t *testing.T) {
	lat := 28.6139
	if _, ok := NewGeoPoint(&lat, nil); ok {
		t.Fatalf("expected missing longitude to be rejected")
	}
	if _, ok := NewGeoPoint(nil, &lat); ok {
		t.Fatalf("expected missing latitude to be rejected")
	}
	lng := 77.2090
	p, ok := NewGeoPoint(&lat, &lng)
	if !ok {
		t.Fatalf("expected valid point")
	}
	if p.Lat != lat || p.Lng != lng {
		t.Fatalf("unexpected point %v", p)
	}
}

func TestGeoPointValidRejectsOutOfRange(t *testing.T) {
	if (GeoPoint{Lat: 91, Lng: 0}).Valid() {
		t.Fatalf("latitude 91 should be invalid")
	}
	if (GeoPoint{Lat: math.NaN(), Lng: 0}).Valid() {
		t.Fatalf("NaN latitude should be invalid")
	}
}

func TestDistanceKm(t *testing.T) {
	delhi := GeoPoint{Lat: 28.6139, Lng: 77.2090}
	northDelhi := GeoPoint{Lat: 28.7041, Lng: 77.1025}

	got := delhi.DistanceKm(northDelhi)
	if got < 14 || got > 15 {
		t.Fatalf("expected roughly 14.5km, got %.3f", got)
	}
	if d := delhi.DistanceKm(delhi); d != 0 {
		t.Fatalf("expected zero self distance, got %f", d)
	}
}
