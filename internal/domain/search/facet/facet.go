package facet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/place"
)

// Filter is a validated, normalized facet predicate.
//
// Place type is strictly validated (unknown values are a client error); the
// multi-value district and feature lists are lenient: unrecognized codes are
// silently dropped, and an input that normalizes to an empty set yields a
// "match no entity" predicate rather than an error. Price bounds are kept
// as-given; min > max is simply unsatisfiable.
type Filter struct {
	placeType      place.Type
	districts      []string
	districtsGiven bool
	features       []string
	featuresGiven  bool
	priceMin       *int
	priceMax       *int
}

// New validates and normalizes raw facet parameters.
// typeParam and the CSV lists may be empty; priceMin/priceMax may be nil.
func New(typeParam, districtCSV, featureCSV string, priceMin, priceMax *int) (Filter, error) {
	var f Filter

	if typeParam != "" {
		t := place.Type(strings.ToLower(strings.TrimSpace(typeParam)))
		if !t.IsValid() {
			return Filter{}, fmt.Errorf("%w: %q", domain.ErrInvalidPlaceType, typeParam)
		}
		f.placeType = t
	}

	if strings.TrimSpace(districtCSV) != "" {
		f.districtsGiven = true
		f.districts = normalizeSet(districtCSV, place.KnownDistrict)
	}

	if strings.TrimSpace(featureCSV) != "" {
		f.featuresGiven = true
		f.features = normalizeSet(featureCSV, place.KnownFeature)
	}

	f.priceMin = priceMin
	f.priceMax = priceMax

	return f, nil
}

// normalizeSet splits a CSV list, lowercases, dedupes, drops values the
// known predicate rejects, and sorts for order-independent signatures.
func normalizeSet(csv string, known func(string) bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range strings.Split(csv, ",") {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || !known(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MatchesNone reports whether the predicate can never be satisfied: a given
// district/feature list that normalized to the empty set.
func (f *Filter) MatchesNone() bool {
	return (f.districtsGiven && len(f.districts) == 0) ||
		(f.featuresGiven && len(f.features) == 0)
}

// Matches applies the facet predicate to a place.
func (f *Filter) Matches(p *place.Place) bool {
	if f.MatchesNone() {
		return false
	}
	if f.placeType != "" && p.PlaceType() != f.placeType {
		return false
	}
	if f.districtsGiven && !contains(f.districts, p.District()) {
		return false
	}
	if f.featuresGiven {
		for _, feat := range f.features {
			if !p.HasFeature(feat) {
				return false
			}
		}
	}
	if f.priceMin != nil && p.PriceLevel() < *f.priceMin {
		return false
	}
	if f.priceMax != nil && p.PriceLevel() > *f.priceMax {
		return false
	}
	return true
}

// IsEmpty reports whether the filter constrains nothing.
func (f *Filter) IsEmpty() bool {
	return f.placeType == "" && !f.districtsGiven && !f.featuresGiven &&
		f.priceMin == nil && f.priceMax == nil
}

// PlaceType returns the selected type, "" when unset.
func (f *Filter) PlaceType() place.Type { return f.placeType }

// Districts returns the normalized district set.
func (f *Filter) Districts() []string { return f.districts }

// Features returns the normalized feature set.
func (f *Filter) Features() []string { return f.features }

// Signature returns the canonical filter fragment for cache keys.
// Set values are sorted, so order-only differences hash identically.
func (f *Filter) Signature() string {
	var sb strings.Builder
	sb.WriteString("type=")
	sb.WriteString(string(f.placeType))
	sb.WriteString("|districts=")
	if f.districtsGiven {
		sb.WriteString(strings.Join(f.districts, ","))
	} else {
		sb.WriteString("*")
	}
	sb.WriteString("|features=")
	if f.featuresGiven {
		sb.WriteString(strings.Join(f.features, ","))
	} else {
		sb.WriteString("*")
	}
	sb.WriteString("|price=")
	sb.WriteString(boundString(f.priceMin))
	sb.WriteString("-")
	sb.WriteString(boundString(f.priceMax))
	return sb.String()
}

func boundString(b *int) string {
	if b == nil {
		return "*"
	}
	return strconv.Itoa(*b)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
