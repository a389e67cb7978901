package placesearch

import (
	"strings"
	"testing"

	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/search/request"
)

func TestNewNoAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
	if !strings.Contains(err.Error(), "database address required") {
		t.Errorf("err = %v", err)
	}
}

func testLimits() request.Limits {
	return request.Limits{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestSearchBuilderBuild(t *testing.T) {
	b := (&SearchBuilder{}).
		Query(`"flat white" -decaf`).
		Type("cafe").
		District("xinyi").
		District("daan").
		Feature("wifi").
		PriceBetween(1, 3).
		Near(25.0330, 121.5654).
		WithinKm(2).
		Highlight().
		Fuzzy().
		Page(2, 10)

	req, err := b.build(testLimits())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	sig := req.Signature()
	for _, want := range []string{
		"flat white", "-decaf",
		"type=cafe", "districts=daan,xinyi", "features=wifi",
		"price=1-3", "geo=25.033,121.565", "radius=2.000",
		"hl=true", "fuzzy=true", "page=2", "size=10",
	} {
		if !strings.Contains(sig, want) {
			t.Errorf("signature %q missing %q", sig, want)
		}
	}
	if req.Paging().Page != 2 || req.Paging().Size != 10 {
		t.Errorf("paging = %+v", req.Paging())
	}
}

func TestSearchBuilderDefaults(t *testing.T) {
	req, err := (&SearchBuilder{}).build(testLimits())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.Paging().Page != 1 || req.Paging().Size != 20 {
		t.Errorf("default paging = %+v", req.Paging())
	}
	if string(req.Sort()) != SortRating {
		t.Errorf("empty-query default sort = %s, want rating", req.Sort())
	}

	req, err = (&SearchBuilder{}).Query("coffee").build(testLimits())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if string(req.Sort()) != SortRelevance {
		t.Errorf("text-query default sort = %s, want relevance", req.Sort())
	}
}

func TestSearchBuilderInvalidType(t *testing.T) {
	_, err := (&SearchBuilder{}).Type("hotel").build(testLimits())
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !strings.Contains(err.Error(), domain.ErrInvalidPlaceType.Error()) {
		t.Errorf("err = %v", err)
	}
}

func TestSearchBuilderDistanceNeedsPoint(t *testing.T) {
	_, err := (&SearchBuilder{}).SortBy(SortDistance).build(testLimits())
	if err == nil {
		t.Fatal("expected error for distance sort without a point")
	}
}

func TestKnownLookups(t *testing.T) {
	if !KnownDistrict("xinyi") || KnownDistrict("narnia") {
		t.Error("KnownDistrict misbehaves")
	}
	if !KnownFeature("wifi") || KnownFeature("teleporter") {
		t.Error("KnownFeature misbehaves")
	}
}
