package geo

import (
	"math"
	"testing"
)

// Taipei 101 and Taipei Main Station, roughly 4.2 km apart.
const (
	lat101, lon101         = 25.0340, 121.5645
	latStation, lonStation = 25.0478, 121.5170
)

func TestHaversine_KnownDistance(t *testing.T) {
	d := Haversine(lat101, lon101, latStation, lonStation)

	if d < 4.5 || d > 5.3 {
		t.Errorf("expected roughly 4.9 km, got %v", d)
	}
}

func TestHaversine_Commutative(t *testing.T) {
	ab := Haversine(lat101, lon101, latStation, lonStation)
	ba := Haversine(latStation, lonStation, lat101, lon101)

	if ab != ba {
		t.Errorf("distance not commutative: %v != %v", ab, ba)
	}
}

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	if d := Haversine(lat101, lon101, lat101, lon101); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

// The box must be a strict superset of the Haversine circle: every point
// within the radius is inside the box.
func TestBox_SupersetOfRadius(t *testing.T) {
	const radius = 5.0
	box := NewBox(lat101, lon101, radius)

	for i := 0; i < 360; i += 15 {
		bearing := float64(i) * math.Pi / 180
		// Walk just inside the radius in each direction.
		dLat := radius / kmPerDegreeLat * 0.99 * math.Cos(bearing)
		dLon := radius / kmPerDegreeLat * 0.99 * math.Sin(bearing) / math.Cos(lat101*math.Pi/180)

		lat := lat101 + dLat
		lon := lon101 + dLon
		if Haversine(lat101, lon101, lat, lon) <= radius && !box.Contains(lat, lon) {
			t.Errorf("box excluded in-radius point (%v, %v)", lat, lon)
		}
	}
}

func TestBox_ExcludesFarPoints(t *testing.T) {
	box := NewBox(lat101, lon101, 1.0)

	if box.Contains(26.2, 121.5645) {
		t.Error("box should exclude a point 130 km north")
	}
	if box.Contains(25.0340, 122.8) {
		t.Error("box should exclude a point far east")
	}
}

func TestBox_NearPoleCoversAllLongitudes(t *testing.T) {
	box := NewBox(89.5, 0, 10)

	if !box.Contains(89.5, 179) || !box.Contains(89.5, -179) {
		t.Error("near-pole box must cover all longitudes")
	}
}

func TestBox_AntimeridianWrap(t *testing.T) {
	box := NewBox(0, 179.95, 20)

	if !box.Contains(0, -179.95) {
		t.Error("box should wrap across the antimeridian")
	}
}

func TestValidateCoordinates(t *testing.T) {
	if !ValidateCoordinates(25.0, 121.5) {
		t.Error("valid coordinates rejected")
	}
	if ValidateCoordinates(91, 0) || ValidateCoordinates(0, 181) || ValidateCoordinates(-90.1, 0) {
		t.Error("out-of-range coordinates accepted")
	}
}
