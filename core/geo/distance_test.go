package geo

import (
	"math"
	"testing"

	"github.com/fieldops/dispatch/core/model"
)

func TestDistanceKm_Symmetry(t *testing.T) {
	a := model.Coordinate{Lat: -33.8688, Lon: 151.2093}
	b := model.Coordinate{Lat: -33.8915, Lon: 151.2767}
	if d1, d2 := DistanceKm(a, b), DistanceKm(b, a); d1 != d2 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceKm_Zero(t *testing.T) {
	a := model.Coordinate{Lat: 48.8566, Lon: 2.3522}
	if d := DistanceKm(a, a); d != 0 {
		t.Fatalf("expected zero distance got %f", d)
	}
}

func TestDistanceKm_KnownPair(t *testing.T) {
	// Sydney CBD to Circular Quay area, roughly one kilometer.
	a := model.Coordinate{Lat: -33.8688, Lon: 151.2093}
	b := model.Coordinate{Lat: -33.8600, Lon: 151.2090}
	d := DistanceKm(a, b)
	if d < 0.8 || d > 1.2 {
		t.Fatalf("expected ~1km got %f", d)
	}
}

func TestDistanceKm_NaNPropagates(t *testing.T) {
	a := model.Coordinate{Lat: math.NaN(), Lon: 0}
	b := model.Coordinate{Lat: 0, Lon: 0}
	if !math.IsNaN(DistanceKm(a, b)) {
		t.Fatal("NaN input must propagate")
	}
}
