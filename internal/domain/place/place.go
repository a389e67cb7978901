package place

import (
	"fmt"
	"sort"
	"time"

	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/moderation"
)

// Price level bounds (inclusive).
const (
	MinPriceLevel = 1
	MaxPriceLevel = 4
)

// Coordinates is a geocoded latitude/longitude pair.
// Places that have not been geocoded carry no coordinates.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Place is the searchable read model of a venue.
// The rating aggregate is precomputed by the review subsystem; it is never
// derived here.
type Place struct {
	id          string
	name        string
	description string
	address     string
	placeType   Type
	district    string
	priceLevel  int
	featureIDs  []string
	coords      *Coordinates
	rating      float64
	ownerID     string
	status      moderation.Status
	moderatedAt time.Time
	moderator   string
}

// Compile-time check: Place passes through moderation.
var _ moderation.Moderatable = (*Place)(nil)

// New validates and creates a Place.
func New(
	id, name, description, address string,
	placeType Type, district string, priceLevel int,
	featureIDs []string, coords *Coordinates,
	rating float64, ownerID string,
	status moderation.Status,
) (Place, error) {
	if id == "" {
		return Place{}, fmt.Errorf("place id is required")
	}
	if name == "" {
		return Place{}, fmt.Errorf("place name is required")
	}
	if !placeType.IsValid() {
		return Place{}, fmt.Errorf("%w: %q", domain.ErrInvalidPlaceType, placeType)
	}
	if priceLevel != 0 && (priceLevel < MinPriceLevel || priceLevel > MaxPriceLevel) {
		return Place{}, fmt.Errorf("%w: %d", domain.ErrInvalidPriceLevel, priceLevel)
	}
	if !status.IsValid() {
		return Place{}, fmt.Errorf("invalid status %q", status)
	}
	if coords != nil && (coords.Latitude < -90 || coords.Latitude > 90 ||
		coords.Longitude < -180 || coords.Longitude > 180) {
		return Place{}, fmt.Errorf("%w: (%v, %v)", domain.ErrInvalidCoordinates, coords.Latitude, coords.Longitude)
	}

	features := dedupe(featureIDs)

	return Place{
		id:          id,
		name:        name,
		description: description,
		address:     address,
		placeType:   placeType,
		district:    district,
		priceLevel:  priceLevel,
		featureIDs:  features,
		coords:      coords,
		rating:      rating,
		ownerID:     ownerID,
		status:      status,
	}, nil
}

// Reconstruct rebuilds a Place from storage without re-validation.
func Reconstruct(
	id, name, description, address string,
	placeType Type, district string, priceLevel int,
	featureIDs []string, coords *Coordinates,
	rating float64, ownerID string,
	status moderation.Status, moderatedAt time.Time, moderator string,
) Place {
	return Place{
		id:          id,
		name:        name,
		description: description,
		address:     address,
		placeType:   placeType,
		district:    district,
		priceLevel:  priceLevel,
		featureIDs:  featureIDs,
		coords:      coords,
		rating:      rating,
		ownerID:     ownerID,
		status:      status,
		moderatedAt: moderatedAt,
		moderator:   moderator,
	}
}

// ID returns the place identifier.
func (p *Place) ID() string { return p.id }

// Name returns the place name.
func (p *Place) Name() string { return p.name }

// Description returns the place description.
func (p *Place) Description() string { return p.description }

// Address returns the street address.
func (p *Place) Address() string { return p.address }

// PlaceType returns the venue type.
func (p *Place) PlaceType() Type { return p.placeType }

// District returns the district code.
func (p *Place) District() string { return p.district }

// PriceLevel returns the price level, 0 when unset.
func (p *Place) PriceLevel() int { return p.priceLevel }

// FeatureIDs returns the feature identifiers.
func (p *Place) FeatureIDs() []string { return p.featureIDs }

// HasFeature reports whether the place carries the given feature id.
func (p *Place) HasFeature(id string) bool {
	for _, f := range p.featureIDs {
		if f == id {
			return true
		}
	}
	return false
}

// Coordinates returns the geocoded point, nil when ungeocoded.
func (p *Place) Coordinates() *Coordinates { return p.coords }

// Rating returns the precomputed review rating aggregate.
func (p *Place) Rating() float64 { return p.rating }

// OwnerID returns the submitting user's id.
func (p *Place) OwnerID() string { return p.ownerID }

// Status returns the publication state.
func (p *Place) Status() moderation.Status { return p.status }

// ModeratedAt returns the time of the last moderation decision.
func (p *Place) ModeratedAt() time.Time { return p.moderatedAt }

// Moderator returns the id of the last moderator.
func (p *Place) Moderator() string { return p.moderator }

// WithStatus returns a copy with the status transition applied.
func (p Place) WithStatus(status moderation.Status, moderator string, at time.Time) (Place, error) {
	if err := moderation.Transition(p.status, status); err != nil {
		return Place{}, fmt.Errorf("%w: %s -> %s", err, p.status, status)
	}
	p.status = status
	p.moderator = moderator
	p.moderatedAt = at
	return p, nil
}

// VisibleTo reports whether the place may appear in results for the given
// viewer. Anonymous viewers pass "". Non-approved places are visible only to
// their owner.
func (p *Place) VisibleTo(viewerID string) bool {
	if p.status == moderation.Approved {
		return true
	}
	return viewerID != "" && viewerID == p.ownerID
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
