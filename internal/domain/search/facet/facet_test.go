package facet

import (
	"errors"
	"testing"

	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/moderation"
	"github.com/citystory/placesearch/internal/domain/place"
)

func intPtr(v int) *int { return &v }

func testPlace(t *testing.T, placeType place.Type, district string, priceLevel int, features []string) place.Place {
	t.Helper()
	p, err := place.New(
		"p1", "Coffee House", "Single origin pour overs", "12 Songgao Rd",
		placeType, district, priceLevel, features, nil, 4.5, "u1", moderation.Approved,
	)
	if err != nil {
		t.Fatalf("place.New: %v", err)
	}
	return p
}

func TestNew_InvalidPlaceType(t *testing.T) {
	_, err := New("castle", "", "", nil, nil)
	if !errors.Is(err, domain.ErrInvalidPlaceType) {
		t.Fatalf("expected ErrInvalidPlaceType, got %v", err)
	}
}

func TestNew_UnknownDistrictsDropped(t *testing.T) {
	f, err := New("", "xinyi,atlantis,daan", "", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := f.Districts()
	if len(got) != 2 || got[0] != "daan" || got[1] != "xinyi" {
		t.Errorf("unexpected districts: %v", got)
	}
	if f.MatchesNone() {
		t.Error("non-empty normalized set should not match none")
	}
}

func TestNew_AllUnknownDistrictsMatchesNone(t *testing.T) {
	f, err := New("", "madeupcode", "", nil, nil)
	if err != nil {
		t.Fatalf("unknown district codes must not error: %v", err)
	}
	if !f.MatchesNone() {
		t.Fatal("expected match-none predicate")
	}

	p := testPlace(t, place.TypeCafe, "xinyi", 2, nil)
	if f.Matches(&p) {
		t.Error("match-none predicate matched a place")
	}
}

func TestMatches_District(t *testing.T) {
	f, _ := New("", "xinyi,daan", "", nil, nil)

	in := testPlace(t, place.TypeCafe, "xinyi", 2, nil)
	out := testPlace(t, place.TypeCafe, "zhongshan", 2, nil)

	if !f.Matches(&in) {
		t.Error("expected xinyi place to match")
	}
	if f.Matches(&out) {
		t.Error("expected zhongshan place not to match")
	}
}

func TestMatches_Features(t *testing.T) {
	f, _ := New("", "", "wifi,parking", nil, nil)

	both := testPlace(t, place.TypeCafe, "xinyi", 2, []string{"wifi", "parking", "takeout"})
	one := testPlace(t, place.TypeCafe, "xinyi", 2, []string{"wifi"})

	if !f.Matches(&both) {
		t.Error("expected place with both features to match")
	}
	if f.Matches(&one) {
		t.Error("feature filter requires all listed features")
	}
}

func TestMatches_PriceBoundsInverted(t *testing.T) {
	// min > max is accepted as-given; the predicate is simply unsatisfiable.
	f, err := New("", "", "", intPtr(3), intPtr(1))
	if err != nil {
		t.Fatalf("inverted bounds must not error: %v", err)
	}

	p := testPlace(t, place.TypeCafe, "xinyi", 2, nil)
	if f.Matches(&p) {
		t.Error("inverted price bounds matched a place")
	}
}

func TestSignature_OrderIndependent(t *testing.T) {
	a, _ := New("cafe", "daan,xinyi", "wifi,parking", intPtr(1), intPtr(3))
	b, _ := New("cafe", "xinyi,daan", "parking,wifi", intPtr(1), intPtr(3))

	if a.Signature() != b.Signature() {
		t.Errorf("signatures differ:\n%s\n%s", a.Signature(), b.Signature())
	}
}

func TestSignature_DistinguishesEmptyFromUnset(t *testing.T) {
	unset, _ := New("", "", "", nil, nil)
	emptied, _ := New("", "madeupcode", "", nil, nil)

	if unset.Signature() == emptied.Signature() {
		t.Error("an absent district filter and an emptied one must not share a signature")
	}
}
