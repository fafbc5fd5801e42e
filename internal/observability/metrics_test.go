package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAICall("gemini", "vision", nil, time.Second)
	m.IncVisionFallback()
	m.IncAnalysis("success")
	m.IncTransition("LANDING", "AUTH")
	m.SetActiveSessions(3)
	m.IncExport("pdf", false, nil)
	m.SSEStreamOpened()
	m.SSEStreamClosed()
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveAICall("gemini", "narrative", nil, 2*time.Second)
	m.ObserveAICall("gemini", "narrative", errors.New("boom"), time.Second)
	m.IncVisionFallback()
	m.IncAnalysis("success")
	m.IncAnalysis("success")
	m.IncTransition("INTAKE", "PROCESSING")
	m.IncTransition("INTAKE", "INTAKE")
	m.SetActiveSessions(4)
	m.IncExport("PDF", true, nil)
	m.SSEStreamOpened()
	m.SSEStreamOpened()
	m.SSEStreamClosed()

	if got := testutil.ToFloat64(m.aiCalls.WithLabelValues("gemini", "narrative", "ok")); got != 1 {
		t.Fatalf("ai ok calls: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.aiCalls.WithLabelValues("gemini", "narrative", "error")); got != 1 {
		t.Fatalf("ai error calls: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.visionFallback); got != 1 {
		t.Fatalf("vision fallback: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.analyses.WithLabelValues("success")); got != 2 {
		t.Fatalf("analyses: want=2 got=%v", got)
	}
	if got := testutil.CollectAndCount(m.transitions); got != 1 {
		t.Fatalf("self transitions must not count: want=1 series got=%d", got)
	}
	if got := testutil.ToFloat64(m.sseStreams); got != 1 {
		t.Fatalf("sse streams: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 4 {
		t.Fatalf("active sessions: want=4 got=%v", got)
	}
	if got := testutil.ToFloat64(m.exports.WithLabelValues("pdf", "fallback")); got != 1 {
		t.Fatalf("exports: want=1 got=%v", got)
	}
}

func TestNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewMetrics(reg)
	b := NewMetrics(reg)
	a.IncAnalysis("success")
	if got := testutil.ToFloat64(b.analyses.WithLabelValues("success")); got != 1 {
		t.Fatalf("shared collector: want=1 got=%v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveAPI("GET", "/healthcheck", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lovepattern_http_requests_total") {
		t.Fatalf("missing http counter in exposition:\n%s", rec.Body.String())
	}
}
