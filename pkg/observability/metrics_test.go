package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from metrics handler, got %d", w.Code)
	}
	return w.Body.String()
}

func TestRecordLoad(t *testing.T) {
	m := NewMetrics()
	m.RecordLoad("node", "ok")
	m.RecordLoad("node", "ok")
	m.RecordLoad("credential", "error")

	body := scrape(t, m)
	if !strings.Contains(body, `scion_type_loads_total{kind="node",outcome="ok"} 2`) {
		t.Errorf("Expected node load counter at 2, got:\n%s", body)
	}
	if !strings.Contains(body, `scion_type_loads_total{kind="credential",outcome="error"} 1`) {
		t.Errorf("Expected credential error counter at 1, got:\n%s", body)
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewMetrics()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	wrapped := m.Middleware(next)

	req := httptest.NewRequest("GET", "/node-types", nil)
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, m)
	if !strings.Contains(body, `scion_http_requests_total{route="/node-types",status="404"} 1`) {
		t.Errorf("Expected request counter with path label, got:\n%s", body)
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances must not share counters.
	a := NewMetrics()
	b := NewMetrics()
	a.RecordLoad("node", "ok")

	if strings.Contains(scrape(t, b), `scion_type_loads_total{kind="node",outcome="ok"}`) {
		t.Error("Expected second instance to start empty")
	}
}
