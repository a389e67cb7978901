package place

// features is the registry of known feature ids (many-to-many facet).
var features = map[string]struct{}{
	"wifi":                  {},
	"outdoor_seating":       {},
	"pet_friendly":          {},
	"parking":               {},
	"delivery":              {},
	"takeout":               {},
	"reservations":          {},
	"wheelchair_accessible": {},
	"live_music":            {},
	"vegan_options":         {},
	"late_night":            {},
	"kid_friendly":          {},
}

// KnownFeature reports whether the id is a recognized feature.
func KnownFeature(id string) bool {
	_, ok := features[id]
	return ok
}
