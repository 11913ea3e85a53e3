package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quoteCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotes",
		Help: "The total number of quote requests answered",
	})
	quoteMissCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quote_misses",
		Help: "The total number of quote requests no provider prices",
	})
	comparisonCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comparisons",
		Help: "The total number of comparisons answered",
	})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_response_duration_seconds",
		Help: "Latency of requests in second.",
	}, []string{"path", "code"})
)

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Label by route pattern so unknown paths share one series.
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		httpDuration.WithLabelValues(path, http.StatusText(ww.Status())).Observe(time.Since(start).Seconds())
	})
}
