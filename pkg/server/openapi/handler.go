package openapi

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

// SpecPath is where the management server exposes the document.
const SpecPath = "/openapi.json"

// Handler serves a pre-rendered OpenAPI document.
type Handler struct {
	data []byte
}

// NewHandler renders doc once as JSON.
func NewHandler(doc *openapi3.T) (*Handler, error) {
	data, err := Encode(doc, "json")
	if err != nil {
		return nil, err
	}
	return &Handler{data: data}, nil
}

// ServeSpec writes the OpenAPI document
func (h *Handler) ServeSpec(c router.Context) error {
	c.Response().Header().Set("Content-Type", "application/json")
	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	c.Response().WriteHeader(http.StatusOK)
	_, err := c.Response().Write(h.data)
	return err
}

// RegisterRoutes registers the document route on the given router
func (h *Handler) RegisterRoutes(r router.Router) {
	r.GET(SpecPath, h.ServeSpec)
}
