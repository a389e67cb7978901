package search

import (
	"github.com/citystory/placesearch/internal/domain/search/request"
	"github.com/citystory/placesearch/internal/domain/search/result"
)

// paginate slices the fully ordered result sequence by offset paging.
// Ordering is deterministic upstream, so adjacent pages never overlap and
// never omit an entity.
func paginate(all []result.Ranked, paging request.Paging) (pageSlice []result.Ranked, hasNext, hasPrev bool) {
	start := (paging.Page - 1) * paging.Size
	if start >= len(all) {
		return nil, false, paging.Page > 1
	}
	end := start + paging.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], end < len(all), start > 0
}

// pageAfter slices the same ordered sequence cursor-style: everything after
// the entity with the cursor id. An empty cursor starts at the beginning.
// The deterministic order makes the cursor stable across requests.
func pageAfter(all []result.Ranked, cursorID string, size int) []result.Ranked {
	start := 0
	if cursorID != "" {
		for i := range all {
			if all[i].Place.ID == cursorID {
				start = i + 1
				break
			}
		}
	}
	if start >= len(all) {
		return nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
