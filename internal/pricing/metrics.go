package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_cache_hits",
		Help: "The total number of quote lookups answered from cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_cache_misses",
		Help: "The total number of quote lookups that missed the cache",
	})
)
