package request

import (
	"errors"
	"testing"

	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/search/facet"
	"github.com/citystory/placesearch/internal/domain/search/sortmode"
)

var testLimits = Limits{DefaultPageSize: 20, MaxPageSize: 100}

func newRequest(t *testing.T, rawQuery string, geoPoint *GeoPoint, radius float64, sort sortmode.Mode) Request {
	t.Helper()
	r, err := New(rawQuery, facet.Filter{}, geoPoint, radius, sort, false, false, 0, nil, Paging{}, testLimits)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNew_DefaultSort(t *testing.T) {
	withQuery := newRequest(t, "coffee", nil, 0, "")
	if withQuery.Sort() != sortmode.Relevance {
		t.Errorf("expected relevance default with query, got %q", withQuery.Sort())
	}

	withoutQuery := newRequest(t, "", nil, 0, "")
	if withoutQuery.Sort() != sortmode.Rating {
		t.Errorf("expected rating default without query, got %q", withoutQuery.Sort())
	}
}

func TestNew_DistanceSortRequiresPoint(t *testing.T) {
	_, err := New("", facet.Filter{}, nil, 0, sortmode.Distance, false, false, 0, nil, Paging{}, testLimits)
	if !errors.Is(err, domain.ErrMissingGeoPoint) {
		t.Fatalf("expected ErrMissingGeoPoint, got %v", err)
	}
}

func TestNew_RadiusRequiresPoint(t *testing.T) {
	_, err := New("", facet.Filter{}, nil, 2.5, "", false, false, 0, nil, Paging{}, testLimits)
	if !errors.Is(err, domain.ErrMissingGeoPoint) {
		t.Fatalf("expected ErrMissingGeoPoint, got %v", err)
	}
}

func TestNew_InvalidCoordinates(t *testing.T) {
	_, err := New("", facet.Filter{}, &GeoPoint{Latitude: 95, Longitude: 0}, 0, "", false, false, 0, nil, Paging{}, testLimits)
	if !errors.Is(err, domain.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestNew_InvalidSortMode(t *testing.T) {
	_, err := New("", facet.Filter{}, nil, 0, "popularity", false, false, 0, nil, Paging{}, testLimits)
	if !errors.Is(err, domain.ErrInvalidSortMode) {
		t.Fatalf("expected ErrInvalidSortMode, got %v", err)
	}
}

func TestNew_PageSizeClamped(t *testing.T) {
	r, err := New("", facet.Filter{}, nil, 0, "", false, false, 0, nil, Paging{Page: 2, Size: 5000}, testLimits)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Paging().Size != 100 {
		t.Errorf("expected clamp to 100, got %d", r.Paging().Size)
	}
	if r.Paging().Page != 2 {
		t.Errorf("expected page preserved, got %d", r.Paging().Page)
	}
}

func TestNew_PageDefaults(t *testing.T) {
	r := newRequest(t, "", nil, 0, "")
	if r.Paging().Page != 1 || r.Paging().Size != 20 {
		t.Errorf("unexpected paging defaults: %+v", r.Paging())
	}
}

func TestNew_UnknownFieldsDropped(t *testing.T) {
	r, err := New("coffee", facet.Filter{}, nil, 0, "", false, false, 0,
		[]string{"name", "menu", "description"}, Paging{}, testLimits)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	fields := r.Fields()
	if len(fields) != 2 || fields[0] != "name" || fields[1] != "description" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestSignature_Equivalence(t *testing.T) {
	fa, _ := facet.New("cafe", "xinyi,daan", "wifi", nil, nil)
	fb, _ := facet.New("cafe", "daan,xinyi", "wifi", nil, nil)

	a, _ := New("Craft  Beer", fa, &GeoPoint{25.034, 121.5645}, 2, "", true, false, 0, nil, Paging{}, testLimits)
	b, _ := New("craft beer", fb, &GeoPoint{25.034, 121.5645}, 2, "", true, false, 0, nil, Paging{}, testLimits)

	if a.Signature() != b.Signature() {
		t.Errorf("equivalent requests produced different signatures:\n%s\n%s", a.Signature(), b.Signature())
	}
}

func TestSignature_SensitiveToPage(t *testing.T) {
	a, _ := New("coffee", facet.Filter{}, nil, 0, "", false, false, 0, nil, Paging{Page: 1}, testLimits)
	b, _ := New("coffee", facet.Filter{}, nil, 0, "", false, false, 0, nil, Paging{Page: 2}, testLimits)

	if a.Signature() == b.Signature() {
		t.Error("different pages must produce different signatures")
	}
}

func TestSignature_RadiusRounded(t *testing.T) {
	p := &GeoPoint{25.034, 121.5645}
	a, _ := New("", facet.Filter{}, p, 2.00004, "", false, false, 0, nil, Paging{}, testLimits)
	b, _ := New("", facet.Filter{}, p, 2.00049, "", false, false, 0, nil, Paging{}, testLimits)

	if a.Signature() != b.Signature() {
		t.Error("radius differences below the precision floor must hash identically")
	}
}
