package query

import (
	"reflect"
	"testing"
)

func TestParse_PlainTerms(t *testing.T) {
	p := Parse("craft beer bar")

	if !reflect.DeepEqual(p.Terms(), []string{"craft", "beer", "bar"}) {
		t.Errorf("unexpected terms: %v", p.Terms())
	}
	if len(p.Excluded()) != 0 || len(p.Phrases()) != 0 {
		t.Errorf("unexpected excluded/phrases: %v %v", p.Excluded(), p.Phrases())
	}
}

func TestParse_ExcludedTerms(t *testing.T) {
	p := Parse("bar -craft")

	if !reflect.DeepEqual(p.Terms(), []string{"bar"}) {
		t.Errorf("unexpected terms: %v", p.Terms())
	}
	if !reflect.DeepEqual(p.Excluded(), []string{"craft"}) {
		t.Errorf("unexpected excluded: %v", p.Excluded())
	}
}

func TestParse_Phrases(t *testing.T) {
	p := Parse(`best "craft beers" in town`)

	if !reflect.DeepEqual(p.Phrases(), []string{"craft beers"}) {
		t.Errorf("unexpected phrases: %v", p.Phrases())
	}
	if !reflect.DeepEqual(p.Terms(), []string{"best", "in", "town"}) {
		t.Errorf("unexpected terms: %v", p.Terms())
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	p := Parse(`coffee "craft beers`)

	// Best-effort: the dangling quote is a token boundary, never an error.
	if len(p.Phrases()) != 0 {
		t.Errorf("expected no phrases, got %v", p.Phrases())
	}
	if !reflect.DeepEqual(p.Terms(), []string{"coffee", "craft", "beers"}) {
		t.Errorf("unexpected terms: %v", p.Terms())
	}
}

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		p := Parse(raw)
		if !p.IsEmpty() {
			t.Errorf("Parse(%q) should be empty", raw)
		}
	}
}

func TestParse_ExcludedOnlyIsEmpty(t *testing.T) {
	p := Parse("-craft")

	if !p.IsEmpty() {
		t.Error("a query with only exclusions has no positive criteria")
	}
	if !reflect.DeepEqual(p.Excluded(), []string{"craft"}) {
		t.Errorf("unexpected excluded: %v", p.Excluded())
	}
}

func TestParse_Lowercases(t *testing.T) {
	p := Parse(`COFFEE "Craft Beers"`)

	if p.Terms()[0] != "coffee" {
		t.Errorf("expected lowercase term, got %q", p.Terms()[0])
	}
	if p.Phrases()[0] != "craft beers" {
		t.Errorf("expected lowercase phrase, got %q", p.Phrases()[0])
	}
}

func TestParse_BareDash(t *testing.T) {
	p := Parse("coffee -")

	if !reflect.DeepEqual(p.Terms(), []string{"coffee"}) {
		t.Errorf("unexpected terms: %v", p.Terms())
	}
	if len(p.Excluded()) != 0 {
		t.Errorf("bare dash should not produce an exclusion: %v", p.Excluded())
	}
}

func TestNormalized(t *testing.T) {
	p := Parse("  Craft   BEER \t bar ")

	if got := p.Normalized(); got != "craft beer bar" {
		t.Errorf("unexpected normalized form: %q", got)
	}
}
