package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestObserve(t *testing.T) {
	m := New("test")

	m.Observe(http.MethodGet, "/leads", http.StatusOK, 20*time.Millisecond)
	m.Observe(http.MethodGet, "/leads", http.StatusOK, 30*time.Millisecond)
	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	out := scrape(t, m)

	for _, want := range []string{
		`test_http_requests_total{method="GET",route="/leads",status="200"} 2`,
		`test_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
		`test_http_request_duration_seconds_count{method="GET",route="/leads"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New("test")
	b := New("test")

	a.Observe(http.MethodPost, "/auth/login", http.StatusOK, time.Millisecond)

	if strings.Contains(scrape(t, b), `route="/auth/login"`) {
		t.Error("observations leaked between instances")
	}
}
