package search

import (
	"context"

	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/result"
)

// PlaceSource supplies materialized searchable places. The store owns the
// rows; this engine only derives request-scoped structures from them.
type PlaceSource interface {
	All(ctx context.Context) ([]place.Place, error)
}

// ResultCache memoizes composed result pages by canonical request signature.
// Implementations must treat the cache as an optimization: a backend failure
// falls through to compute, never to an error.
type ResultCache interface {
	GetOrCompute(
		ctx context.Context, signature string,
		compute func() (*result.Page, error),
	) (*result.Page, error)
}
