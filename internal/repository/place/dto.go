package place

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/citystory/placesearch/internal/domain/moderation"
	"github.com/citystory/placesearch/internal/domain/place"
)

// Hash field names of the stored place record.
const (
	fieldID          = "id"
	fieldName        = "name"
	fieldDescription = "description"
	fieldAddress     = "address"
	fieldType        = "type"
	fieldDistrict    = "district"
	fieldPriceLevel  = "price_level"
	fieldFeatures    = "features"
	fieldLat         = "lat"
	fieldLng         = "lng"
	fieldRating      = "rating"
	fieldOwnerID     = "owner_id"
	fieldStatus      = "status"
	fieldModeratedAt = "moderated_at"
	fieldModerator   = "moderator"
)

// toHash flattens a place into the string map Redis hashes require.
// Optional fields are written only when set so HGetAll stays compact.
func toHash(p *place.Place) map[string]string {
	h := map[string]string{
		fieldID:       p.ID(),
		fieldName:     p.Name(),
		fieldType:     string(p.PlaceType()),
		fieldDistrict: p.District(),
		fieldRating:   strconv.FormatFloat(p.Rating(), 'f', -1, 64),
		fieldOwnerID:  p.OwnerID(),
		fieldStatus:   string(p.Status()),
	}
	if p.Description() != "" {
		h[fieldDescription] = p.Description()
	}
	if p.Address() != "" {
		h[fieldAddress] = p.Address()
	}
	if p.PriceLevel() != 0 {
		h[fieldPriceLevel] = strconv.Itoa(p.PriceLevel())
	}
	if ids := p.FeatureIDs(); len(ids) > 0 {
		h[fieldFeatures] = strings.Join(ids, ",")
	}
	if c := p.Coordinates(); c != nil {
		h[fieldLat] = strconv.FormatFloat(c.Latitude, 'f', -1, 64)
		h[fieldLng] = strconv.FormatFloat(c.Longitude, 'f', -1, 64)
	}
	if !p.ModeratedAt().IsZero() {
		h[fieldModeratedAt] = p.ModeratedAt().UTC().Format(time.RFC3339Nano)
	}
	if p.Moderator() != "" {
		h[fieldModerator] = p.Moderator()
	}
	return h
}

// fromHash rebuilds a place from its stored hash.
func fromHash(h map[string]string) (place.Place, error) {
	id := h[fieldID]
	if id == "" {
		return place.Place{}, fmt.Errorf("place record missing id")
	}

	rating, err := parseFloat(h[fieldRating], fieldRating, id)
	if err != nil {
		return place.Place{}, err
	}

	var priceLevel int
	if raw := h[fieldPriceLevel]; raw != "" {
		priceLevel, err = strconv.Atoi(raw)
		if err != nil {
			return place.Place{}, fmt.Errorf("place %s: bad price_level %q: %w", id, raw, err)
		}
	}

	var features []string
	if raw := h[fieldFeatures]; raw != "" {
		features = strings.Split(raw, ",")
	}

	var coords *place.Coordinates
	if h[fieldLat] != "" && h[fieldLng] != "" {
		lat, err := parseFloat(h[fieldLat], fieldLat, id)
		if err != nil {
			return place.Place{}, err
		}
		lng, err := parseFloat(h[fieldLng], fieldLng, id)
		if err != nil {
			return place.Place{}, err
		}
		coords = &place.Coordinates{Latitude: lat, Longitude: lng}
	}

	var moderatedAt time.Time
	if raw := h[fieldModeratedAt]; raw != "" {
		moderatedAt, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return place.Place{}, fmt.Errorf("place %s: bad moderated_at %q: %w", id, raw, err)
		}
	}

	return place.Reconstruct(
		id, h[fieldName], h[fieldDescription], h[fieldAddress],
		place.Type(h[fieldType]), h[fieldDistrict], priceLevel,
		features, coords,
		rating, h[fieldOwnerID],
		moderation.Status(h[fieldStatus]), moderatedAt, h[fieldModerator],
	), nil
}

func parseFloat(raw, field, id string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("place %s: bad %s %q: %w", id, field, raw, err)
	}
	return v, nil
}
