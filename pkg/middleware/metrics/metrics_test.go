package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/server/router"
	ginadapter "github.com/nimburion/catalog-api/pkg/server/router/gin"
)

func scrape(t *testing.T, reg *metrics.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	return string(body)
}

func TestMetrics_RecordsRouteLabel(t *testing.T) {
	// Given: A router instrumented with a fresh registry
	reg := metrics.NewRegistry()
	r := ginadapter.NewRouter()
	r.Use(Metrics(reg))
	r.GET("/products/:id", func(c router.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
	})

	// When: Two different ids are requested
	for _, id := range []string{"507f1f77bcf86cd799439011", "000000000000000000000000"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	}

	// Then: Both requests share one collapsed path label
	body := scrape(t, reg)
	want := `http_requests_total{method="GET",path="/products/:id",status="404"} 2`
	if !strings.Contains(body, want) {
		t.Fatalf("expected %q in metrics output:\n%s", want, body)
	}
	if !strings.Contains(body, "http_requests_in_flight 0") {
		t.Error("expected in-flight gauge to return to 0")
	}
}

func TestMetrics_ErrorRequestCountsAs500(t *testing.T) {
	reg := metrics.NewRegistry()
	r := ginadapter.NewRouter()
	r.Use(Metrics(reg))
	r.GET("/error", func(c router.Context) error {
		return errors.New("test error")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/error", nil))

	want := `http_requests_total{method="GET",path="/error",status="500"} 1`
	if body := scrape(t, reg); !strings.Contains(body, want) {
		t.Fatalf("expected %q in metrics output", want)
	}
}
