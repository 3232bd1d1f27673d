// Package openapi builds the OpenAPI document of the public API from its
// registered routes and serves it with Swagger UI.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

// Route describes one registered endpoint.
type Route struct {
	Method      string
	Path        string
	Annotations EndpointAnnotations
}

// Schema names the shape of a response body.
type Schema string

const (
	SchemaDocument     Schema = "document"
	SchemaDocumentList Schema = "document_list"
	SchemaError        Schema = "error"
)

// QueryParam documents an optional query-string parameter.
type QueryParam struct {
	Name        string
	Description string
}

// ResponseDoc documents one response of an operation.
type ResponseDoc struct {
	Status      int
	Description string
	Schema      Schema
}

// EndpointAnnotations customizes generated OpenAPI operation metadata.
type EndpointAnnotations struct {
	Summary     string
	Description string
	Tags        []string
	OperationID string
	QueryParams []QueryParam
	// PathPatterns constrains path parameters by name with a regular expression.
	PathPatterns map[string]string
	Responses    []ResponseDoc
}

var endpointAnnotationsRegistry sync.Map

// Annotate registers OpenAPI annotations for a specific handler.
// Pass the returned handler to route registration.
func Annotate(handler router.HandlerFunc, annotations EndpointAnnotations) router.HandlerFunc {
	if handler == nil {
		return nil
	}
	endpointAnnotationsRegistry.Store(handlerAnnotationsKey(handler), annotations)
	return handler
}

// CollectRoutes executes the provided route registration callback and returns all
// registered routes sorted by path.
func CollectRoutes(register func(router.Router)) []Route {
	if register == nil {
		return []Route{}
	}
	c := newRouteCollector()
	register(c)
	routes := c.Routes()
	sort.SliceStable(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	return routes
}

// BuildSpec builds and validates an OpenAPI 3 document from collected routes.
func BuildSpec(title, version string, routes []Route) (*openapi3.T, error) {
	title, version = strings.TrimSpace(title), strings.TrimSpace(version)
	if title == "" {
		title = "API"
	}
	if version == "" {
		version = "0.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
	}

	for _, route := range routes {
		path := normalizeOpenAPIPath(route.Path)
		if path == "" {
			continue
		}
		doc.AddOperation(path, route.Method, buildOperation(route.Method, path, route.Annotations))
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

func buildOperation(method, path string, a EndpointAnnotations) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = a.OperationID
	if op.OperationID == "" {
		op.OperationID = buildOperationID(method, path)
	}
	op.Summary = a.Summary
	if op.Summary == "" {
		op.Summary = method + " " + path
	}
	op.Description = a.Description
	op.Tags = a.Tags
	if len(op.Tags) == 0 {
		op.Tags = buildTags(path)
	}

	for _, name := range pathParameterNames(path) {
		schema := openapi3.NewStringSchema()
		if pattern := a.PathPatterns[name]; pattern != "" {
			schema = schema.WithPattern(pattern)
		}
		op.AddParameter(openapi3.NewPathParameter(name).WithSchema(schema))
	}
	for _, q := range a.QueryParams {
		op.AddParameter(openapi3.NewQueryParameter(q.Name).
			WithDescription(q.Description).
			WithSchema(openapi3.NewStringSchema()))
	}

	responses := a.Responses
	if len(responses) == 0 {
		responses = []ResponseDoc{{Status: http.StatusOK, Description: "OK"}}
	}
	op.Responses = openapi3.NewResponsesWithCapacity(len(responses))
	for _, r := range responses {
		resp := openapi3.NewResponse().WithDescription(r.Description)
		if schema := schemaFor(r.Schema); schema != nil {
			resp = resp.WithJSONSchema(schema)
		}
		op.AddResponse(r.Status, resp)
	}
	return op
}

func schemaFor(s Schema) *openapi3.Schema {
	switch s {
	case SchemaDocument:
		return documentSchema()
	case SchemaDocumentList:
		return openapi3.NewArraySchema().WithItems(documentSchema())
	case SchemaError:
		schema := openapi3.NewObjectSchema().WithProperty("message", openapi3.NewStringSchema())
		schema.Required = []string{"message"}
		return schema
	}
	return nil
}

// documentSchema describes a stored document: an _id plus arbitrary fields.
func documentSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("_id", openapi3.NewStringSchema().WithPattern("^[0-9a-fA-F]{24}$")).
		WithAnyAdditionalProperties()
}

// Encode renders doc as JSON, or as YAML when format is "yaml" or "yml".
func Encode(doc *openapi3.T, format string) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("openapi spec is nil")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return data, nil
	case "yaml", "yml":
		var tree interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("convert openapi spec to yaml: %w", err)
		}
		out, err := yaml.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("marshal openapi spec: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: json, yaml)", format)
	}
}

// WriteSpec writes the OpenAPI document as YAML or JSON based on file extension.
func WriteSpec(path string, doc *openapi3.T) error {
	outputPath := strings.TrimSpace(path)
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(outputPath), ".json") {
		format = "json"
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write openapi spec: %w", err)
	}
	return nil
}

type routeCollector struct {
	routes *[]Route
	prefix string
}

func newRouteCollector() *routeCollector {
	routes := make([]Route, 0)
	return &routeCollector{routes: &routes}
}

func (r *routeCollector) GET(path string, handler router.HandlerFunc, _ ...router.MiddlewareFunc) {
	annotations, _ := annotationsForHandler(handler)
	*r.routes = append(*r.routes, Route{
		Method:      http.MethodGet,
		Path:        joinPaths(r.prefix, path),
		Annotations: annotations,
	})
}

func (r *routeCollector) Group(prefix string, _ ...router.MiddlewareFunc) router.Router {
	return &routeCollector{
		routes: r.routes,
		prefix: joinPaths(r.prefix, prefix),
	}
}

func (r *routeCollector) Use(_ ...router.MiddlewareFunc) {}

func (r *routeCollector) ServeHTTP(_ http.ResponseWriter, _ *http.Request) {}

// Routes returns all registered routes.
func (r *routeCollector) Routes() []Route {
	cloned := make([]Route, len(*r.routes))
	copy(cloned, *r.routes)
	return cloned
}

func joinPaths(prefix, path string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	path = strings.Trim(strings.TrimSpace(path), "/")
	switch {
	case prefix == "" && path == "":
		return "/"
	case prefix == "":
		return "/" + path
	case path == "":
		return "/" + prefix
	}
	return "/" + prefix + "/" + path
}

// normalizeOpenAPIPath turns :name segments into {name}.
func normalizeOpenAPIPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") && len(part) > 1 {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func pathParameterNames(path string) []string {
	var names []string
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") && len(part) > 2 {
			names = append(names, part[1:len(part)-1])
		}
	}
	return names
}

func buildTags(path string) []string {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" || strings.HasPrefix(part, "{") {
			continue
		}
		return []string{part}
	}
	return []string{"default"}
}

func buildOperationID(method, path string) string {
	base := strings.ToLower(method)
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			part = "by_" + part[1:len(part)-1]
		}
		base += toPascalCase(part)
	}
	if base == strings.ToLower(method) {
		base += "Root"
	}
	return base
}

func toPascalCase(value string) string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var out strings.Builder
	for _, part := range parts {
		lower := strings.ToLower(part)
		out.WriteString(strings.ToUpper(lower[:1]))
		out.WriteString(lower[1:])
	}
	return out.String()
}

func handlerAnnotationsKey(handler router.HandlerFunc) uintptr {
	return reflect.ValueOf(handler).Pointer()
}

func annotationsForHandler(handler router.HandlerFunc) (EndpointAnnotations, bool) {
	if handler == nil {
		return EndpointAnnotations{}, false
	}
	value, ok := endpointAnnotationsRegistry.Load(handlerAnnotationsKey(handler))
	if !ok {
		return EndpointAnnotations{}, false
	}
	annotations, ok := value.(EndpointAnnotations)
	return annotations, ok
}
