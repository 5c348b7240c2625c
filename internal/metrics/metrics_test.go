package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCounters(t *testing.T) {
	before := testutil.ToFloat64(DocstoreRequests.WithLabelValues("get", "404"))
	ObserveDocstore("get", 404)
	require.Equal(t, before+1, testutil.ToFloat64(DocstoreRequests.WithLabelValues("get", "404")))

	before = testutil.ToFloat64(GenerationTotal.WithLabelValues("fallback", "transport"))
	ObserveGeneration("fallback", "transport")
	ObserveGeneration("fallback", "transport")
	require.Equal(t, before+2, testutil.ToFloat64(GenerationTotal.WithLabelValues("fallback", "transport")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/v1/tests/{testId}/export", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/tests/abc/export", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/tests/def/export", nil))

	require.Equal(t, 1, testutil.CollectAndCount(RequestDuration, "testgen_http_request_duration_seconds"))
}

func TestHandlerServesScrape(t *testing.T) {
	ObserveDocstore("patch", 200)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "testgen_docstore_requests_total")
}
