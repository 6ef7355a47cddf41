package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRunCreated()
	c.RecordRunOutcome("completed")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "parcour_runs_created_total") {
		t.Fatalf("expected parcour_runs_created_total in scrape output")
	}
	if !strings.Contains(string(body), `parcour_run_outcomes_total{outcome="completed"} 1`) {
		t.Fatalf("expected outcome counter in scrape output: %s", body)
	}
}

func TestMiddleware_CountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /parcours", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := c.Middleware(mux)

	req := httptest.NewRequest(http.MethodGet, "/parcours", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	scrape := httptest.NewRecorder()
	Handler(reg).ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := scrape.Body.String()
	if !strings.Contains(body, `parcour_http_requests_total{method="GET",route="GET /parcours",status="200"} 1`) {
		t.Fatalf("expected request counter in scrape output: %s", body)
	}
}
