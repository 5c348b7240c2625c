package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GenerationTotal counts question generations by source and failure reason
	GenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testgen_generation_total",
			Help: "Question generations by source (live or fallback) and failure reason",
		},
		[]string{"source", "reason"},
	)

	// DocstoreRequests counts document store calls by operation and status code
	DocstoreRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testgen_docstore_requests_total",
			Help: "Document store requests by operation and HTTP status (0 on transport failure)",
		},
		[]string{"op", "code"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "testgen_http_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(GenerationTotal, DocstoreRequests, RequestDuration)
}

// ObserveDocstore records one document store call
func ObserveDocstore(op string, status int) {
	DocstoreRequests.WithLabelValues(op, strconv.Itoa(status)).Inc()
}

// ObserveGeneration records one generation outcome
func ObserveGeneration(source, reason string) {
	GenerationTotal.WithLabelValues(source, reason).Inc()
}

// Middleware times every request by its route template
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
