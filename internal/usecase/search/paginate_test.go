package search

import (
	"fmt"
	"testing"

	"github.com/citystory/placesearch/internal/domain/search/request"
	"github.com/citystory/placesearch/internal/domain/search/result"
)

func rankedFixtures(n int) []result.Ranked {
	out := make([]result.Ranked, n)
	for i := range out {
		out[i] = result.Ranked{Place: result.Projection{ID: fmt.Sprintf("p%02d", i)}}
	}
	return out
}

func TestPaginate(t *testing.T) {
	all := rankedFixtures(5)

	tests := []struct {
		name     string
		page     int
		size     int
		wantIDs  []string
		wantNext bool
		wantPrev bool
	}{
		{name: "first page", page: 1, size: 2, wantIDs: []string{"p00", "p01"}, wantNext: true},
		{name: "middle page", page: 2, size: 2, wantIDs: []string{"p02", "p03"}, wantNext: true, wantPrev: true},
		{name: "last short page", page: 3, size: 2, wantIDs: []string{"p04"}, wantPrev: true},
		{name: "past the end", page: 4, size: 2, wantIDs: nil, wantPrev: true},
		{name: "single page", page: 1, size: 10, wantIDs: []string{"p00", "p01", "p02", "p03", "p04"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slice, next, prev := paginate(all, request.Paging{Page: tt.page, Size: tt.size})
			if len(slice) != len(tt.wantIDs) {
				t.Fatalf("got %d results, want %d", len(slice), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if slice[i].Place.ID != id {
					t.Errorf("result[%d] = %q, want %q", i, slice[i].Place.ID, id)
				}
			}
			if next != tt.wantNext || prev != tt.wantPrev {
				t.Errorf("next/prev = %v/%v, want %v/%v", next, prev, tt.wantNext, tt.wantPrev)
			}
		})
	}
}

func TestPaginateCoversAllWithoutOverlap(t *testing.T) {
	all := rankedFixtures(7)
	seen := make(map[string]int)
	for page := 1; ; page++ {
		slice, next, _ := paginate(all, request.Paging{Page: page, Size: 3})
		for _, r := range slice {
			seen[r.Place.ID]++
		}
		if !next {
			break
		}
	}
	if len(seen) != 7 {
		t.Fatalf("pages covered %d distinct ids, want 7", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s appeared %d times", id, n)
		}
	}
}

func TestPageAfter(t *testing.T) {
	all := rankedFixtures(5)

	first := pageAfter(all, "", 2)
	if len(first) != 2 || first[0].Place.ID != "p00" {
		t.Fatalf("empty cursor should start at the beginning, got %v", first)
	}

	next := pageAfter(all, first[len(first)-1].Place.ID, 2)
	if len(next) != 2 || next[0].Place.ID != "p02" {
		t.Fatalf("cursor page should resume after p01, got %v", next)
	}

	tail := pageAfter(all, "p04", 2)
	if tail != nil {
		t.Errorf("cursor at the last entry should yield nil, got %v", tail)
	}
}
