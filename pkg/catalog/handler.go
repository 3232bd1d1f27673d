package catalog

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimburion/catalog-api/pkg/controller"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"github.com/nimburion/catalog-api/pkg/repository/document"
	"github.com/nimburion/catalog-api/pkg/server/openapi"
	"github.com/nimburion/catalog-api/pkg/server/router"
)

// Client-facing messages. The two invalid-id responses differ in wording and
// status code and are kept that way for existing clients.
const (
	MsgInvalidProductID = "Invalid product id"
	MsgProductNotFound  = "Product not found"
	MsgInvalidServiceID = "Invalid service ID"
	MsgServiceNotFound  = "Service not found"
)

// Handler serves the catalog endpoints.
type Handler struct {
	products Store
	services Store
	log      logger.Logger
}

// NewHandler creates a handler reading from the given stores.
func NewHandler(products, services Store, log logger.Logger) *Handler {
	return &Handler{products: products, services: services, log: log}
}

// Register mounts the catalog routes on r.
func (h *Handler) Register(r router.Router) {
	r.GET("/products", openapi.Annotate(h.ListProducts, listProductsDoc))
	r.GET("/products/:id", openapi.Annotate(h.GetProduct, getProductDoc))
	r.GET("/services", openapi.Annotate(h.ListServices, listServicesDoc))
	r.GET("/services/:id", openapi.Annotate(h.GetService, getServiceDoc))
}

// ListProducts handles GET /products.
func (h *Handler) ListProducts(c router.Context) error {
	docs, err := h.products.FindAll(c.Request().Context(), ParseProductQuery(c).ToQuery())
	if err != nil {
		return h.fail(c, "error retrieving products", err)
	}
	return controller.Success(c, docs)
}

// ListServices handles GET /services.
func (h *Handler) ListServices(c router.Context) error {
	docs, err := h.services.FindAll(c.Request().Context(), ParseServiceQuery(c).ToQuery())
	if err != nil {
		return h.fail(c, "error retrieving services", err)
	}
	return controller.Success(c, docs)
}

// GetProduct handles GET /products/:id. A malformed id answers 404.
func (h *Handler) GetProduct(c router.Context) error {
	id, ok := parseObjectID(c.Param("id"))
	if !ok {
		return controller.Error(c, controller.NewValidationError(MsgInvalidProductID).WithHTTPStatus(http.StatusNotFound))
	}
	return h.getByID(c, h.products, id, MsgProductNotFound, "error retrieving product")
}

// GetService handles GET /services/:id. A malformed id answers 400.
func (h *Handler) GetService(c router.Context) error {
	id, ok := parseObjectID(c.Param("id"))
	if !ok {
		return controller.Error(c, controller.NewValidationError(MsgInvalidServiceID))
	}
	return h.getByID(c, h.services, id, MsgServiceNotFound, "error retrieving service")
}

func (h *Handler) getByID(c router.Context, store Store, id primitive.ObjectID, notFound, failure string) error {
	doc, err := store.FindByID(c.Request().Context(), id)
	switch {
	case errors.Is(err, document.ErrNotFound):
		return controller.Error(c, controller.NewNotFoundError(notFound))
	case err != nil:
		return h.fail(c, failure, err)
	}
	return controller.Success(c, doc)
}

func (h *Handler) fail(c router.Context, msg string, err error) error {
	req := c.Request()
	h.log.WithContext(req.Context()).Error(msg, "error", err, "path", req.URL.Path)
	return controller.Error(c, controller.NewInternalError(msg, fmt.Errorf("%s: %w", req.URL.Path, err)))
}

// parseObjectID accepts exactly 24 hex characters.
func parseObjectID(s string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
