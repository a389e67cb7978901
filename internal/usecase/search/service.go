package search

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/citystory/placesearch/internal/domain/geo"
	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/request"
	"github.com/citystory/placesearch/internal/domain/search/result"
	"github.com/citystory/placesearch/internal/domain/search/sortmode"
	"github.com/citystory/placesearch/internal/metrics"
)

// Tuning holds the ranking thresholds. These were unexplained constants in
// earlier incarnations of the engine; here they are explicit and overridable.
type Tuning struct {
	MinRank            float64 // exact-tier score floor
	FuzzyTriggerCount  int     // exact hits below this engage the fuzzy tier
	FuzzyDamping       float64 // multiplier on fuzzy-only scores
	FuzzyMinSimilarity float64 // similarity floor for fuzzy-only hits
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		MinRank:            0.1,
		FuzzyTriggerCount:  5,
		FuzzyDamping:       0.8,
		FuzzyMinSimilarity: 0.3,
	}
}

// Service runs the search pipeline: facet filter, relevance scoring, fuzzy
// fallback, geo distance, composition, highlighting, and pagination.
type Service struct {
	source PlaceSource
	cache  ResultCache
	tuning Tuning
}

// New creates a search service. cache may be nil to disable memoization.
func New(source PlaceSource, cache ResultCache) *Service {
	return &Service{source: source, cache: cache, tuning: DefaultTuning()}
}

// WithTuning overrides the ranking thresholds.
func (s *Service) WithTuning(t Tuning) *Service {
	if t.MinRank > 0 {
		s.tuning.MinRank = t.MinRank
	}
	if t.FuzzyTriggerCount > 0 {
		s.tuning.FuzzyTriggerCount = t.FuzzyTriggerCount
	}
	if t.FuzzyDamping > 0 {
		s.tuning.FuzzyDamping = t.FuzzyDamping
	}
	if t.FuzzyMinSimilarity > 0 {
		s.tuning.FuzzyMinSimilarity = t.FuzzyMinSimilarity
	}
	return s
}

// Search executes a search request. viewerID is empty for anonymous requests;
// a non-empty viewer additionally sees their own unapproved places, and such
// requests bypass the shared cache so private rows never leak into it.
func (s *Service) Search(ctx context.Context, req *request.Request, viewerID string) (*result.Page, error) {
	if s.cache != nil && viewerID == "" {
		return s.cache.GetOrCompute(ctx, req.Signature(), func() (*result.Page, error) {
			return s.compute(ctx, req, "")
		})
	}
	return s.compute(ctx, req, viewerID)
}

// scored pairs a ranked hit with its ordering score.
type scored struct {
	res   result.Ranked
	score float64
	p     place.Place
}

func (s *Service) compute(ctx context.Context, req *request.Request, viewerID string) (*result.Page, error) {
	places, err := s.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}

	// Visibility and facets are hard filters applied before any scoring.
	filters := req.Filters()
	candidates := places[:0:0]
	for i := range places {
		p := &places[i]
		if !p.VisibleTo(viewerID) {
			continue
		}
		if !filters.Matches(p) {
			continue
		}
		candidates = append(candidates, *p)
	}

	q := req.Query()

	// The text and geo passes are independent; run them in parallel.
	scores := make(map[string]float64, len(candidates))
	excluded := make(map[string]bool)
	dists := make(map[string]float64)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// A query with no positive criteria still runs the scan when it
		// carries exclusions: excluded terms suppress matches regardless of
		// whether anything else is asked for.
		if q.IsEmpty() && len(q.Excluded()) == 0 {
			return nil
		}
		for i := range candidates {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p := &candidates[i]
			sc, ex := scoreExact(q, p, req.Fields())
			if ex {
				excluded[p.ID()] = true
				continue
			}
			scores[p.ID()] = sc
		}
		return nil
	})
	g.Go(func() error {
		point := req.GeoPoint()
		if point == nil {
			return nil
		}
		var box geo.Box
		useBox := req.RadiusKm() > 0
		if useBox {
			box = geo.NewBox(point.Latitude, point.Longitude, req.RadiusKm())
		}
		for i := range candidates {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p := &candidates[i]
			c := p.Coordinates()
			if c == nil {
				continue
			}
			// Cheap bounding-box pre-filter; the exact formula below decides.
			if useBox && !box.Contains(c.Latitude, c.Longitude) {
				continue
			}
			dists[p.ID()] = geo.Haversine(point.Latitude, point.Longitude, c.Latitude, c.Longitude)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search passes: %w", err)
	}

	minRank := s.tuning.MinRank
	if req.MinRank() > 0 {
		minRank = req.MinRank()
	}

	needGeo := req.RadiusKm() > 0 || req.Sort() == sortmode.Distance

	admitted := func(p *place.Place) (float64, bool) {
		d, hasDist := dists[p.ID()]
		if req.RadiusKm() > 0 && (!hasDist || d > req.RadiusKm()) {
			return 0, false
		}
		if needGeo && !hasDist {
			return 0, false
		}
		return d, true
	}

	var exactTier []scored
	inTier := make(map[string]bool)
	for i := range candidates {
		p := &candidates[i]
		if excluded[p.ID()] {
			continue
		}
		d, ok := admitted(p)
		if !ok {
			continue
		}
		var sc float64
		if !q.IsEmpty() {
			sc = scores[p.ID()]
			if sc <= minRank {
				continue
			}
		}
		r := result.Ranked{Place: result.Project(p), TextScore: sc}
		if _, hasDist := dists[p.ID()]; hasDist {
			dd := d
			r.DistanceKm = &dd
		}
		exactTier = append(exactTier, scored{res: r, score: sc, p: *p})
		inTier[p.ID()] = true
	}

	// Fuzzy fallback: engages only when exact recall is sparse.
	if !q.IsEmpty() && req.Fuzzy() && len(exactTier) < s.tuning.FuzzyTriggerCount {
		engaged := false
		queryNorm := q.Normalized()
		for i := range candidates {
			p := &candidates[i]
			if inTier[p.ID()] || excluded[p.ID()] {
				continue
			}
			d, ok := admitted(p)
			if !ok {
				continue
			}
			sim := bestSimilarity(queryNorm, p, req.Fields())
			if sim < s.tuning.FuzzyMinSimilarity {
				continue
			}
			engaged = true
			blended := sim * s.tuning.FuzzyDamping
			r := result.Ranked{Place: result.Project(p), TextScore: blended, FuzzyScore: sim}
			if _, hasDist := dists[p.ID()]; hasDist {
				dd := d
				r.DistanceKm = &dd
			}
			exactTier = append(exactTier, scored{res: r, score: blended, p: *p})
		}
		if engaged && metrics.FuzzyFallbackTotal != nil {
			metrics.FuzzyFallbackTotal.Inc()
		}
	}

	orderResults(exactTier, req.Sort())

	all := make([]result.Ranked, len(exactTier))
	for i := range exactTier {
		all[i] = exactTier[i].res
	}

	pageSlice, hasNext, hasPrev := paginate(all, req.Paging())

	if req.Highlight() && !q.IsEmpty() {
		for i := range pageSlice {
			p := findPlace(exactTier, pageSlice[i].Place.ID)
			if p == nil {
				continue
			}
			pageSlice[i].Highlights = highlightFields(q, p, req.Fields())
		}
	}

	return &result.Page{
		Count:       len(all),
		HasNext:     hasNext,
		HasPrevious: hasPrev,
		TextQuery:   !q.IsEmpty(),
		Results:     pageSlice,
	}, nil
}

// orderResults sorts in place with fully deterministic tie-breaks so that
// pagination never overlaps or omits entries.
func orderResults(items []scored, mode sortmode.Mode) {
	less := func(a, b *scored) bool {
		switch mode {
		case sortmode.Rating:
			if a.res.Place.Rating != b.res.Place.Rating {
				return a.res.Place.Rating > b.res.Place.Rating
			}
			if a.score != b.score {
				return a.score > b.score
			}
			if a.res.Place.Name != b.res.Place.Name {
				return a.res.Place.Name < b.res.Place.Name
			}
		case sortmode.Name:
			if a.res.Place.Name != b.res.Place.Name {
				return a.res.Place.Name < b.res.Place.Name
			}
		case sortmode.Distance:
			da, db := distOf(a), distOf(b)
			if da != db {
				return da < db
			}
		default: // relevance
			if a.score != b.score {
				return a.score > b.score
			}
			if a.res.Place.Rating != b.res.Place.Rating {
				return a.res.Place.Rating > b.res.Place.Rating
			}
		}
		return a.res.Place.ID < b.res.Place.ID
	}
	sort.Slice(items, func(i, j int) bool { return less(&items[i], &items[j]) })
}

func distOf(s *scored) float64 {
	if s.res.DistanceKm == nil {
		return 0
	}
	return *s.res.DistanceKm
}

func findPlace(items []scored, id string) *place.Place {
	for i := range items {
		if items[i].p.ID() == id {
			return &items[i].p
		}
	}
	return nil
}
