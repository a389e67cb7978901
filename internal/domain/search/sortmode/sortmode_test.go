package sortmode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{Relevance, Rating, Name, Distance}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("expected %q to be valid", m)
		}
	}

	for _, m := range []Mode{"", "popularity", "RELEVANCE"} {
		if m.IsValid() {
			t.Errorf("expected %q to be invalid", m)
		}
	}
}
