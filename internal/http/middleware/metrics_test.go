package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yungbote/lovepattern-backend/internal/observability"
)

func scrape(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestMetricsRoutesAndStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/catalog/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	var during string
	r.GET("/api/session/events", func(c *gin.Context) {
		during = scrape(t, m)
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/catalog/products", "/wp-login.php", "/api/session/events"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if !strings.Contains(during, "lovepattern_sse_streams 1") {
		t.Fatalf("stream gauge should be 1 while streaming:\n%s", during)
	}
	after := scrape(t, m)
	for _, want := range []string{
		`route="/api/catalog/products"`,
		`route="unmatched"`,
		"lovepattern_sse_streams 0",
	} {
		if !strings.Contains(after, want) {
			t.Fatalf("missing %s in:\n%s", want, after)
		}
	}
	if strings.Contains(after, `route="/api/session/events"`) {
		t.Fatalf("stream route must not be in the latency series")
	}
	if strings.Contains(after, "wp-login") {
		t.Fatalf("raw paths must not become labels")
	}
}
