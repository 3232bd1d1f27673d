package catalog

import (
	"github.com/nimburion/catalog-api/pkg/repository/document"
	"github.com/nimburion/catalog-api/pkg/server/router"
)

// Stored field names read by the query translation.
const (
	FieldProductName     = "productName"
	FieldProductCategory = "productCategory"
	FieldServiceName     = "serviceName"
	FieldServiceCategory = "serviceCategory"
	FieldLocation        = "location"
)

// Query-string parameters recognised by the list endpoints.
const (
	ParamCategory       = "category"
	ParamTitleSearch    = "title_search"
	ParamLocationSearch = "location_search"
	ParamServiceSearch  = "service_search"
	ParamSortBy         = "sort_by"
)

// ProductQuery holds the recognised GET /products parameters.
// Empty fields are absent.
type ProductQuery struct {
	Category    string
	TitleSearch string
	SortBy      string
}

// ParseProductQuery reads the product parameters from the request; any
// other parameter is ignored.
func ParseProductQuery(c router.Context) ProductQuery {
	return ProductQuery{
		Category:    c.Query(ParamCategory),
		TitleSearch: c.Query(ParamTitleSearch),
		SortBy:      c.Query(ParamSortBy),
	}
}

// ToQuery converts the parameters into a document query. Present
// parameters are combined with AND and none present matches everything.
func (p ProductQuery) ToQuery() document.Query {
	var q document.Query
	if p.Category != "" {
		q = q.Where(document.Eq(FieldProductCategory, p.Category))
	}
	if p.TitleSearch != "" {
		q = q.Where(document.Contains(FieldProductName, p.TitleSearch))
	}
	if p.SortBy != "" {
		q = q.OrderBy(p.SortBy)
	}
	return q
}

// ServiceQuery holds the recognised GET /services parameters.
type ServiceQuery struct {
	Category       string
	LocationSearch string
	ServiceSearch  string
	SortBy         string
}

// ParseServiceQuery reads the GET /services parameters from c.
func ParseServiceQuery(c router.Context) ServiceQuery {
	return ServiceQuery{
		Category:       c.Query(ParamCategory),
		LocationSearch: c.Query(ParamLocationSearch),
		ServiceSearch:  c.Query(ParamServiceSearch),
		SortBy:         c.Query(ParamSortBy),
	}
}

// ToQuery converts the parameters into a document.Query; empty values are skipped.
func (p ServiceQuery) ToQuery() document.Query {
	var q document.Query
	if p.Category != "" {
		q = q.Where(document.Eq(FieldServiceCategory, p.Category))
	}
	if p.LocationSearch != "" {
		q = q.Where(document.Contains(FieldLocation, p.LocationSearch))
	}
	if p.ServiceSearch != "" {
		q = q.Where(document.Contains(FieldServiceName, p.ServiceSearch))
	}
	if p.SortBy != "" {
		q = q.OrderBy(p.SortBy)
	}
	return q
}
