package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/nimburion/catalog-api/pkg/middleware/requestid"
	"github.com/nimburion/catalog-api/pkg/server/router"
	ginadapter "github.com/nimburion/catalog-api/pkg/server/router/gin"
)

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func setup(t *testing.T, cfg Config) (router.Router, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	cfg.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	cfg.Propagator = propagation.TraceContext{}

	r := ginadapter.NewRouter()
	r.Use(requestid.RequestID(), Tracing(cfg))
	r.GET("/products/:id", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"_id": c.Param("id")})
	})
	r.GET("/services", func(c router.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	})
	r.GET("/fail", func(c router.Context) error {
		return errors.New("storage unavailable")
	})
	r.GET("/span", func(c router.Context) error {
		sc := trace.SpanContextFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]string{"trace_id": sc.TraceID().String()})
	})
	return r, recorder
}

func TestTracing_CreatesServerSpan(t *testing.T) {
	// Given: A router with tracing middleware
	r, recorder := setup(t, Config{})

	// When: A product is requested by id
	req := httptest.NewRequest(http.MethodGet, "/products/507f1f77bcf86cd799439011", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	// Then: One server span with the route template name is recorded
	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "HTTP GET /products/:id" {
		t.Errorf("unexpected span name %q", span.Name())
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("expected server span, got %v", span.SpanKind())
	}
	if v, ok := attrValue(span.Attributes(), "request.id"); !ok || v.AsString() != "req-42" {
		t.Errorf("expected request.id attribute, got %v", v)
	}
	if v, ok := attrValue(span.Attributes(), "http.status_code"); !ok || v.AsInt64() != 200 {
		t.Errorf("expected http.status_code 200, got %v", v)
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("expected OK status, got %v", span.Status().Code)
	}
}

func TestTracing_ServerErrorStatus(t *testing.T) {
	r, recorder := setup(t, Config{})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/services", nil))

	span := recorder.Ended()[0]
	if span.Status().Code != codes.Error || span.Status().Description != "HTTP 500" {
		t.Errorf("unexpected status %+v", span.Status())
	}
}

func TestTracing_RecordsHandlerError(t *testing.T) {
	r, recorder := setup(t, Config{})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	span := recorder.Ended()[0]
	if span.Status().Code != codes.Error || span.Status().Description != "storage unavailable" {
		t.Errorf("unexpected status %+v", span.Status())
	}
	if len(span.Events()) == 0 {
		t.Error("expected error event on span")
	}
}

func TestTracing_ExcludedPathPrefixes(t *testing.T) {
	r, recorder := setup(t, Config{ExcludedPathPrefixes: []string{"/products"}})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/507f1f77bcf86cd799439011", nil))

	if n := len(recorder.Ended()); n != 0 {
		t.Fatalf("expected no spans for excluded path, got %d", n)
	}
}

func TestTracing_PropagatesIncomingContext(t *testing.T) {
	// Given: An incoming W3C traceparent header
	r, recorder := setup(t, Config{})
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	req := httptest.NewRequest(http.MethodGet, "/span", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Then: The server span continues the caller's trace
	span := recorder.Ended()[0]
	if got := span.SpanContext().TraceID().String(); got != traceID {
		t.Errorf("expected trace id %s, got %s", traceID, got)
	}
	if got := span.Parent().SpanID().String(); got != "00f067aa0ba902b7" {
		t.Errorf("expected remote parent span id, got %s", got)
	}
	if body := w.Body.String(); body != "{\"trace_id\":\""+traceID+"\"}\n" {
		t.Errorf("expected handler to see span context, got %s", body)
	}
}
