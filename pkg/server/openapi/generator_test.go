package openapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

func noop(c router.Context) error { return nil }

func annotatedHandler(c router.Context) error { return nil }

func TestCollectRoutes(t *testing.T) {
	routes := CollectRoutes(func(r router.Router) {
		r.GET("/b", noop)
		api := r.Group("/api/")
		api.GET("items/:id", noop)
		api.Group("v1").GET("/", noop)
	})

	want := []string{"/api/items/:id", "/api/v1", "/b"}
	if len(routes) != len(want) {
		t.Fatalf("expected %d routes, got %+v", len(want), routes)
	}
	for i, route := range routes {
		if route.Path != want[i] || route.Method != http.MethodGet {
			t.Errorf("route %d: expected GET %s, got %s %s", i, want[i], route.Method, route.Path)
		}
	}
}

func TestCollectRoutes_Nil(t *testing.T) {
	if routes := CollectRoutes(nil); len(routes) != 0 {
		t.Errorf("expected no routes, got %v", routes)
	}
}

func TestBuildSpec_Defaults(t *testing.T) {
	routes := CollectRoutes(func(r router.Router) {
		r.GET("/widgets/:widget_id", noop)
	})

	doc, err := BuildSpec("", "", routes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Info.Title != "API" || doc.Info.Version != "0.0.0" {
		t.Errorf("expected default info, got %+v", doc.Info)
	}
	op := doc.Paths.Value("/widgets/{widget_id}").Get
	if op == nil {
		t.Fatal("expected GET /widgets/{widget_id}")
	}
	if op.OperationID != "getWidgetsByWidgetId" {
		t.Errorf("unexpected operationId %s", op.OperationID)
	}
	if len(op.Tags) != 1 || op.Tags[0] != "widgets" {
		t.Errorf("expected tag widgets, got %v", op.Tags)
	}
	param := op.Parameters.GetByInAndName("path", "widget_id")
	if param == nil || !param.Required {
		t.Fatal("expected required path parameter widget_id")
	}
	if op.Responses.Status(http.StatusOK) == nil {
		t.Error("expected default 200 response")
	}
	if op.Responses.Len() != 1 || op.Responses.Default() != nil {
		t.Errorf("expected only the 200 response, got %v", op.Responses.Map())
	}
}

func TestBuildSpec_Annotations(t *testing.T) {
	handler := Annotate(annotatedHandler, EndpointAnnotations{
		OperationID:  "getThing",
		Summary:      "Get a thing",
		Tags:         []string{"things"},
		QueryParams:  []QueryParam{{Name: "q", Description: "search"}},
		PathPatterns: map[string]string{"id": "^[0-9a-f]{24}$"},
		Responses: []ResponseDoc{
			{Status: http.StatusOK, Description: "found", Schema: SchemaDocument},
			{Status: http.StatusNotFound, Description: "missing", Schema: SchemaError},
		},
	})
	routes := CollectRoutes(func(r router.Router) { r.GET("/things/:id", handler) })

	doc, err := BuildSpec("things", "1.0.0", routes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	op := doc.Paths.Value("/things/{id}").Get
	if op.OperationID != "getThing" || op.Summary != "Get a thing" {
		t.Errorf("annotations not applied: %+v", op)
	}
	if p := op.Parameters.GetByInAndName("query", "q"); p == nil || p.Required {
		t.Error("expected optional query parameter q")
	}
	if p := op.Parameters.GetByInAndName("path", "id"); p == nil || p.Schema.Value.Pattern != "^[0-9a-f]{24}$" {
		t.Error("expected id pattern to be applied")
	}
	notFound := op.Responses.Status(http.StatusNotFound)
	if notFound == nil || notFound.Value.Content.Get("application/json") == nil {
		t.Fatal("expected JSON 404 response")
	}
}

func TestEncode(t *testing.T) {
	doc, err := BuildSpec("svc", "1.0.0", CollectRoutes(func(r router.Router) { r.GET("/x", noop) }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jsonData, err := Encode(doc, "json")
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if parsed["openapi"] != "3.0.3" {
		t.Errorf("expected openapi 3.0.3, got %v", parsed["openapi"])
	}

	yamlData, err := Encode(doc, "YAML")
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	var fromYAML map[string]interface{}
	if err := yaml.Unmarshal(yamlData, &fromYAML); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if _, ok := fromYAML["paths"]; !ok {
		t.Error("expected paths in yaml output")
	}

	if _, err := Encode(doc, "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := Encode(nil, "json"); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestWriteSpec(t *testing.T) {
	doc, err := BuildSpec("svc", "1.0.0", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dir := t.TempDir()

	for _, name := range []string{"nested/openapi.json", "openapi.yaml"} {
		path := filepath.Join(dir, name)
		if err := WriteSpec(path, doc); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		isJSON := strings.HasPrefix(strings.TrimSpace(string(data)), "{")
		if isJSON != strings.HasSuffix(name, ".json") {
			t.Errorf("%s written in the wrong format", name)
		}
	}

	if err := WriteSpec(" ", doc); err == nil {
		t.Error("expected error for empty path")
	}
}
