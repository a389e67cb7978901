package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/geo"
	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/facet"
	"github.com/citystory/placesearch/internal/domain/search/query"
	"github.com/citystory/placesearch/internal/domain/search/sortmode"
)

// MaxQueryLength is the maximum allowed search query length.
const MaxQueryLength = 1024

// GeoPoint holds the query point for distance computation.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Paging holds validated offset pagination parameters.
type Paging struct {
	Page int // 1-based
	Size int
}

// Limits carries the configured pagination bounds into validation.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Request is a validated search request.
type Request struct {
	parsed    query.Parsed
	filters   facet.Filter
	geoPoint  *GeoPoint
	radiusKm  float64
	sort      sortmode.Mode
	highlight bool
	fuzzy     bool
	minRank   float64 // 0 means "use configured default"
	fields    []string
	paging    Paging
}

// New validates and normalizes search parameters.
// Defaults: sort=relevance when a text query is present, rating otherwise;
// page size is defaulted and clamped per limits.
func New(
	rawQuery string,
	filters facet.Filter,
	geoPoint *GeoPoint,
	radiusKm float64,
	sort sortmode.Mode,
	highlight, fuzzy bool,
	minRank float64,
	fields []string,
	paging Paging,
	limits Limits,
) (Request, error) {
	if len(rawQuery) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}

	parsed := query.Parse(rawQuery)

	if geoPoint != nil && !geo.ValidateCoordinates(geoPoint.Latitude, geoPoint.Longitude) {
		return Request{}, fmt.Errorf(
			"%w: (%v, %v)", domain.ErrInvalidCoordinates, geoPoint.Latitude, geoPoint.Longitude,
		)
	}
	if radiusKm < 0 {
		return Request{}, fmt.Errorf("radius must be non-negative, got %v", radiusKm)
	}
	if radiusKm > 0 && geoPoint == nil {
		return Request{}, fmt.Errorf("%w: radius given without lat/lng", domain.ErrMissingGeoPoint)
	}

	if sort == "" {
		if parsed.IsEmpty() {
			sort = sortmode.Rating
		} else {
			sort = sortmode.Relevance
		}
	}
	if !sort.IsValid() {
		return Request{}, fmt.Errorf("%w: %q", domain.ErrInvalidSortMode, sort)
	}
	if sort == sortmode.Distance && geoPoint == nil {
		return Request{}, fmt.Errorf("%w: sort=distance needs lat/lng", domain.ErrMissingGeoPoint)
	}

	if minRank < 0 {
		return Request{}, fmt.Errorf("min_rank must be non-negative, got %v", minRank)
	}

	// Unknown field names are dropped, mirroring the lenient district lists.
	var searched []string
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if place.KnownField(f) {
			searched = append(searched, f)
		}
	}

	if paging.Page <= 0 {
		paging.Page = 1
	}
	if paging.Size <= 0 {
		paging.Size = limits.DefaultPageSize
	}
	if limits.MaxPageSize > 0 && paging.Size > limits.MaxPageSize {
		paging.Size = limits.MaxPageSize
	}

	return Request{
		parsed:    parsed,
		filters:   filters,
		geoPoint:  geoPoint,
		radiusKm:  radiusKm,
		sort:      sort,
		highlight: highlight,
		fuzzy:     fuzzy,
		minRank:   minRank,
		fields:    searched,
		paging:    paging,
	}, nil
}

// Query returns the parsed text query.
func (r *Request) Query() *query.Parsed { return &r.parsed }

// Filters returns the facet predicate.
func (r *Request) Filters() *facet.Filter { return &r.filters }

// GeoPoint returns the query point, nil when absent.
func (r *Request) GeoPoint() *GeoPoint { return r.geoPoint }

// RadiusKm returns the radius filter, 0 when absent.
func (r *Request) RadiusKm() float64 { return r.radiusKm }

// Sort returns the ordering strategy.
func (r *Request) Sort() sortmode.Mode { return r.sort }

// Highlight reports whether matched snippets were requested.
func (r *Request) Highlight() bool { return r.highlight }

// Fuzzy reports whether the fuzzy fallback tier may engage.
func (r *Request) Fuzzy() bool { return r.fuzzy }

// MinRank returns the requested exact-tier score floor, 0 for the configured default.
func (r *Request) MinRank() float64 { return r.minRank }

// Fields returns the searched field subset, empty meaning all fields.
func (r *Request) Fields() []string { return r.fields }

// Paging returns the normalized page parameters.
func (r *Request) Paging() Paging { return r.paging }

// Signature returns the canonical cache key material. Two requests that are
// semantically identical produce equal signatures: facet sets are sorted, the
// query is whitespace-normalized, and coordinates are rounded to a fixed
// precision.
func (r *Request) Signature() string {
	var sb strings.Builder
	sb.WriteString("q=")
	sb.WriteString(r.parsed.Normalized())
	sb.WriteString("|")
	sb.WriteString(r.filters.Signature())
	sb.WriteString("|geo=")
	if r.geoPoint != nil {
		sb.WriteString(round3(r.geoPoint.Latitude))
		sb.WriteString(",")
		sb.WriteString(round3(r.geoPoint.Longitude))
	}
	sb.WriteString("|radius=")
	sb.WriteString(round3(r.radiusKm))
	sb.WriteString("|sort=")
	sb.WriteString(string(r.sort))
	sb.WriteString("|hl=")
	sb.WriteString(strconv.FormatBool(r.highlight))
	sb.WriteString("|fuzzy=")
	sb.WriteString(strconv.FormatBool(r.fuzzy))
	sb.WriteString("|min_rank=")
	sb.WriteString(strconv.FormatFloat(r.minRank, 'f', -1, 64))
	sb.WriteString("|fields=")
	sb.WriteString(strings.Join(r.fields, ","))
	sb.WriteString("|page=")
	sb.WriteString(strconv.Itoa(r.paging.Page))
	sb.WriteString("|size=")
	sb.WriteString(strconv.Itoa(r.paging.Size))
	return sb.String()
}

func round3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
