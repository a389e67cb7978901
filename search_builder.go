package placesearch

import (
	"context"
	"strings"

	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/facet"
	"github.com/citystory/placesearch/internal/domain/search/request"
	"github.com/citystory/placesearch/internal/domain/search/result"
	"github.com/citystory/placesearch/internal/domain/search/sortmode"
)

// Sort modes accepted by SortBy.
const (
	SortRelevance = string(sortmode.Relevance)
	SortRating    = string(sortmode.Rating)
	SortName      = string(sortmode.Name)
	SortDistance  = string(sortmode.Distance)
)

// SearchBuilder is a fluent builder for search queries.
type SearchBuilder struct {
	client *Client

	query     string
	placeType string
	districts []string
	features  []string
	priceMin  *int
	priceMax  *int

	point    *request.GeoPoint
	radiusKm float64

	sort      string
	highlight bool
	fuzzy     bool
	minRank   float64
	fields    []string
	page      int
	pageSize  int
	viewer    string
}

// Query sets the text query; phrases in double quotes, -term excludes.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Type restricts results to one venue type.
func (b *SearchBuilder) Type(t string) *SearchBuilder {
	b.placeType = t
	return b
}

// District adds a district code to the district filter set.
func (b *SearchBuilder) District(code string) *SearchBuilder {
	b.districts = append(b.districts, code)
	return b
}

// Feature adds a required feature id; results must carry all of them.
func (b *SearchBuilder) Feature(id string) *SearchBuilder {
	b.features = append(b.features, id)
	return b
}

// PriceBetween bounds the price level, inclusive.
func (b *SearchBuilder) PriceBetween(min, max int) *SearchBuilder {
	b.priceMin = &min
	b.priceMax = &max
	return b
}

// Near sets the query point for distance computation.
func (b *SearchBuilder) Near(lat, lng float64) *SearchBuilder {
	b.point = &request.GeoPoint{Latitude: lat, Longitude: lng}
	return b
}

// WithinKm restricts results to a radius around the query point.
func (b *SearchBuilder) WithinKm(radius float64) *SearchBuilder {
	b.radiusKm = radius
	return b
}

// SortBy sets the ordering strategy; defaults to relevance when a text query
// is present and rating otherwise.
func (b *SearchBuilder) SortBy(mode string) *SearchBuilder {
	b.sort = mode
	return b
}

// Highlight requests marked-up match snippets.
func (b *SearchBuilder) Highlight() *SearchBuilder {
	b.highlight = true
	return b
}

// Fuzzy lets the trigram fallback tier engage on sparse exact recall.
func (b *SearchBuilder) Fuzzy() *SearchBuilder {
	b.fuzzy = true
	return b
}

// MinRank overrides the configured exact-tier score floor.
func (b *SearchBuilder) MinRank(v float64) *SearchBuilder {
	b.minRank = v
	return b
}

// Fields restricts scoring to the named text fields.
func (b *SearchBuilder) Fields(names ...string) *SearchBuilder {
	b.fields = append(b.fields, names...)
	return b
}

// Page selects an offset page, 1-based.
func (b *SearchBuilder) Page(page, size int) *SearchBuilder {
	b.page = page
	b.pageSize = size
	return b
}

// AsViewer attributes the search to a user, making their own unapproved
// places visible. Such searches bypass the shared cache.
func (b *SearchBuilder) AsViewer(userID string) *SearchBuilder {
	b.viewer = userID
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) (*result.Page, error) {
	return b.client.runSearch(ctx, b)
}

func (b *SearchBuilder) build(limits request.Limits) (*request.Request, error) {
	filters, err := facet.New(
		b.placeType, strings.Join(b.districts, ","), strings.Join(b.features, ","),
		b.priceMin, b.priceMax,
	)
	if err != nil {
		return nil, err
	}

	req, err := request.New(
		b.query, filters, b.point, b.radiusKm,
		sortmode.Mode(b.sort),
		b.highlight, b.fuzzy, b.minRank, b.fields,
		request.Paging{Page: b.page, Size: b.pageSize},
		limits,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// KnownDistrict reports whether a district code is recognized.
func KnownDistrict(code string) bool { return place.KnownDistrict(code) }

// KnownFeature reports whether a feature id is recognized.
func KnownFeature(id string) bool { return place.KnownFeature(id) }
