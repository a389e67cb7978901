package geo

import "math"

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// kmPerDegreeLat is the distance covered by one degree of latitude.
const kmPerDegreeLat = EarthRadiusKm * math.Pi / 180

// Haversine returns the great-circle distance in kilometers between two
// points specified by latitude and longitude in degrees. The formula is
// symmetric in its arguments.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Box is a latitude/longitude bounding box used as a cheap pre-filter before
// the exact Haversine check. It is a strict superset of the radius circle:
// it may admit extra candidates but never excludes a true match.
type Box struct {
	minLat, maxLat float64
	lonDelta       float64 // half-width in degrees; >= 180 means all longitudes
	centerLon      float64
}

// NewBox builds a bounding box around a center point for the given radius.
// The deltas are widened by 1% against floating point edge effects; near the
// poles the box degenerates to a latitude band covering all longitudes.
func NewBox(lat, lon, radiusKm float64) Box {
	latDelta := radiusKm / kmPerDegreeLat * 1.01

	b := Box{
		minLat:    math.Max(lat-latDelta, -90),
		maxLat:    math.Min(lat+latDelta, 90),
		centerLon: lon,
	}

	// cos(lat) shrinks toward the poles; clamp so the division stays sane and
	// fall back to the full longitude span when the box touches a pole.
	absLat := math.Abs(lat)
	if absLat+latDelta >= 89 {
		b.lonDelta = 180
		return b
	}
	b.lonDelta = latDelta / math.Cos(lat*math.Pi/180)
	if b.lonDelta > 180 {
		b.lonDelta = 180
	}
	return b
}

// Contains reports whether the point falls inside the box, handling
// antimeridian wrap-around.
func (b Box) Contains(lat, lon float64) bool {
	if lat < b.minLat || lat > b.maxLat {
		return false
	}
	if b.lonDelta >= 180 {
		return true
	}
	diff := math.Abs(lon - b.centerLon)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff <= b.lonDelta
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
