package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorderAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	if err != nil {
		t.Fatalf("new prometheus recorder: %v", err)
	}

	rec.ObserveCalculation("margin_percent", OutcomeOK, true, 2*time.Millisecond)
	rec.ObserveCalculation("margin_percent", OutcomeOK, false, time.Millisecond)
	rec.ObserveCalculation("cost_plus", OutcomeError, false, time.Millisecond)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics endpoint: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	text := string(body)
	for _, want := range []string{
		`hpp_pricing_calculations_total{mode="margin_percent",outcome="ok"} 2`,
		`hpp_pricing_calculations_total{mode="cost_plus",outcome="error"} 1`,
		`hpp_pricing_floor_clamps_total{mode="margin_percent"} 1`,
		`hpp_pricing_calculation_duration_seconds_count 3`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in metrics output:\n%s", want, text)
		}
	}
}

func TestNewPrometheusRecorderRejectsNilRegistry(t *testing.T) {
	if _, err := NewPrometheusRecorder(nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func TestNewPrometheusRecorderRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusRecorder(reg); err != nil {
		t.Fatalf("first recorder: %v", err)
	}
	if _, err := NewPrometheusRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
