package catalog

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/nimburion/catalog-api/pkg/server/openapi"
)

const objectIDPattern = "^[0-9a-fA-F]{24}$"

var sortByParam = openapi.QueryParam{Name: ParamSortBy, Description: "Field to sort ascending by."}

var (
	listOK      = openapi.ResponseDoc{Status: http.StatusOK, Description: "Matching documents, possibly empty.", Schema: openapi.SchemaDocumentList}
	internalErr = openapi.ResponseDoc{Status: http.StatusInternalServerError, Description: "Storage failure.", Schema: openapi.SchemaError}
)

var listProductsDoc = openapi.EndpointAnnotations{
	OperationID: "listProducts",
	Summary:     "List products",
	Description: "Present parameters are combined with AND. Searches match a literal substring ignoring case.",
	Tags:        []string{"products"},
	QueryParams: []openapi.QueryParam{
		{Name: ParamCategory, Description: "Exact match on " + FieldProductCategory + "."},
		{Name: ParamTitleSearch, Description: "Substring of " + FieldProductName + "."},
		sortByParam,
	},
	Responses: []openapi.ResponseDoc{listOK, internalErr},
}

var getProductDoc = openapi.EndpointAnnotations{
	OperationID:  "getProduct",
	Summary:      "Get a product by id",
	Tags:         []string{"products"},
	PathPatterns: map[string]string{"id": objectIDPattern},
	Responses: []openapi.ResponseDoc{
		{Status: http.StatusOK, Description: "The product.", Schema: openapi.SchemaDocument},
		{Status: http.StatusNotFound, Description: "Malformed id or no such product.", Schema: openapi.SchemaError},
		internalErr,
	},
}

var listServicesDoc = openapi.EndpointAnnotations{
	OperationID: "listServices",
	Summary:     "List services",
	Description: "Present parameters are combined with AND. Searches match a literal substring ignoring case.",
	Tags:        []string{"services"},
	QueryParams: []openapi.QueryParam{
		{Name: ParamCategory, Description: "Exact match on " + FieldServiceCategory + "."},
		{Name: ParamLocationSearch, Description: "Substring of " + FieldLocation + "."},
		{Name: ParamServiceSearch, Description: "Substring of " + FieldServiceName + "."},
		sortByParam,
	},
	Responses: []openapi.ResponseDoc{listOK, internalErr},
}

var getServiceDoc = openapi.EndpointAnnotations{
	OperationID:  "getService",
	Summary:      "Get a service by id",
	Tags:         []string{"services"},
	PathPatterns: map[string]string{"id": objectIDPattern},
	Responses: []openapi.ResponseDoc{
		{Status: http.StatusOK, Description: "The service.", Schema: openapi.SchemaDocument},
		{Status: http.StatusBadRequest, Description: "Malformed id.", Schema: openapi.SchemaError},
		{Status: http.StatusNotFound, Description: "No such service.", Schema: openapi.SchemaError},
		internalErr,
	},
}

// OpenAPI returns the OpenAPI document of the catalog endpoints.
func OpenAPI(title, version string) (*openapi3.T, error) {
	h := NewHandler(nil, nil, nil)
	return openapi.BuildSpec(title, version, openapi.CollectRoutes(h.Register))
}
