package result

import "github.com/citystory/placesearch/internal/domain/place"

// Projection is the serializable slice of a place that search results carry.
type Projection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	Type        string   `json:"type"`
	District    string   `json:"district"`
	PriceLevel  int      `json:"price_level,omitempty"`
	Features    []string `json:"features,omitempty"`
	Rating      float64  `json:"rating"`
	Latitude    *float64 `json:"lat,omitempty"`
	Longitude   *float64 `json:"lng,omitempty"`
}

// Project builds the result projection of a place.
func Project(p *place.Place) Projection {
	proj := Projection{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Address:     p.Address(),
		Type:        string(p.PlaceType()),
		District:    p.District(),
		PriceLevel:  p.PriceLevel(),
		Features:    p.FeatureIDs(),
		Rating:      p.Rating(),
	}
	if c := p.Coordinates(); c != nil {
		lat, lng := c.Latitude, c.Longitude
		proj.Latitude = &lat
		proj.Longitude = &lng
	}
	return proj
}

// Ranked is a single scored search hit. Constructed per request; the cache
// layer may hold its serialized form for one TTL window only.
type Ranked struct {
	Place Projection `json:"place"`

	// TextScore is the weighted multi-field relevance score.
	TextScore float64 `json:"text_score"`

	// FuzzyScore is set only when the fuzzy fallback tier produced this hit.
	FuzzyScore float64 `json:"fuzzy_score,omitempty"`

	// DistanceKm is present only when a query point was supplied and the
	// place carries coordinates.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	// Highlights maps field name to a marked-up snippet.
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Page is a composed, ordered slice of the full result set.
type Page struct {
	// Count is the total number of matches across all pages.
	Count int `json:"count"`

	// HasNext and HasPrevious drive the envelope's next/previous links.
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`

	// TextQuery records whether a text query scored these results, so the
	// transport knows to emit relevance values.
	TextQuery bool `json:"text_query"`

	Results []Ranked `json:"results"`
}
