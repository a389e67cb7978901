package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline metrics. Registered explicitly from main, no init() side effects,
// so tests can construct services without touching the default registry.
var (
	// SearchDuration tracks end-to-end search pipeline latency per endpoint.
	SearchDuration *prometheus.HistogramVec

	// SearchCacheTotal counts query cache outcomes: hit, miss, bypass.
	// Bypass means the result set exceeded the cache size ceiling.
	SearchCacheTotal *prometheus.CounterVec

	// FuzzyFallbackTotal counts searches where the fuzzy tier engaged.
	FuzzyFallbackTotal prometheus.Counter
)

// RegisterSearchMetrics creates and registers the search metrics.
func RegisterSearchMetrics() {
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "placesearch",
			Name:      "search_duration_seconds",
			Help:      "Search pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"endpoint"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placesearch",
			Name:      "search_cache_total",
			Help:      "Query cache outcomes",
		},
		[]string{"result"},
	)

	FuzzyFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "placesearch",
			Name:      "search_fuzzy_fallback_total",
			Help:      "Searches where the fuzzy fallback tier engaged",
		},
	)

	prometheus.MustRegister(SearchDuration, SearchCacheTotal, FuzzyFallbackTotal)
}
