package catalog

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nimburion/catalog-api/pkg/middleware/testutil"
	"github.com/nimburion/catalog-api/pkg/repository/document"
	"github.com/nimburion/catalog-api/pkg/server/router/factory"
)

type product struct {
	Name     string
	Category string
}

func genCatalog() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.OneConstOf("Red Hammer", "blue hammer", "Saw", "Garden Hose", "HAMMOCK", "drill"),
		gen.OneConstOf("tools", "garden", "outdoor"),
	).Map(func(values []interface{}) product {
		return product{Name: values[0].(string), Category: values[1].(string)}
	}))
}

func productServer(items []product) http.Handler {
	repo := document.NewMemoryRepository()
	for _, p := range items {
		repo.Insert(document.Document{"productName": p.Name, "productCategory": p.Category})
	}
	r, _ := factory.NewRouter("gin")
	NewHandler(repo, document.NewMemoryRepository(), &testutil.MockLogger{}).Register(r)
	return r
}

func listProducts(h http.Handler, params url.Values) ([]map[string]interface{}, bool) {
	w := get(h, "/products?"+params.Encode())
	if w.Code != http.StatusOK {
		return nil, false
	}
	var out []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		return nil, false
	}
	return out, true
}

func TestProperty_ProductListing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every result has the requested category", prop.ForAll(
		func(items []product, category string) bool {
			docs, ok := listProducts(productServer(items), url.Values{"category": {category}})
			if !ok {
				return false
			}
			expected := 0
			for _, p := range items {
				if p.Category == category {
					expected++
				}
			}
			for _, d := range docs {
				if d["productCategory"] != category {
					return false
				}
			}
			return len(docs) == expected
		},
		genCatalog(),
		gen.OneConstOf("tools", "garden", "outdoor", "toys"),
	))

	properties.Property("title search and category combine with AND", prop.ForAll(
		func(items []product, category, needle string) bool {
			docs, ok := listProducts(productServer(items), url.Values{"category": {category}, "title_search": {needle}})
			if !ok {
				return false
			}
			expected := 0
			for _, p := range items {
				if p.Category == category && strings.Contains(strings.ToLower(p.Name), strings.ToLower(needle)) {
					expected++
				}
			}
			for _, d := range docs {
				name, _ := d["productName"].(string)
				if d["productCategory"] != category || !strings.Contains(strings.ToLower(name), strings.ToLower(needle)) {
					return false
				}
			}
			return len(docs) == expected
		},
		genCatalog(),
		gen.OneConstOf("tools", "garden", "outdoor"),
		gen.OneConstOf("ham", "HAM", "e", "saw", "(", "mock"),
	))

	properties.Property("sort_by yields a non-decreasing sequence", prop.ForAll(
		func(items []product, field string) bool {
			docs, ok := listProducts(productServer(items), url.Values{"sort_by": {field}})
			if !ok || len(docs) != len(items) {
				return false
			}
			for i := 1; i < len(docs); i++ {
				prev, _ := docs[i-1][field].(string)
				cur, _ := docs[i][field].(string)
				if prev > cur {
					return false
				}
			}
			return true
		},
		genCatalog(),
		gen.OneConstOf("productName", "productCategory"),
	))

	properties.Property("fetching by id round-trips the identifier", prop.ForAll(
		func(items []product) bool {
			h := productServer(items)
			docs, ok := listProducts(h, url.Values{})
			if !ok {
				return false
			}
			for _, d := range docs {
				id, _ := d["_id"].(string)
				w := get(h, "/products/"+id)
				if w.Code != http.StatusOK {
					return false
				}
				var got map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got["_id"] != id {
					return false
				}
			}
			return true
		},
		genCatalog(),
	))

	properties.TestingRun(t)
}

func TestProperty_MalformedIDs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	h := productServer(nil)
	r, _ := factory.NewRouter("gorilla")
	NewHandler(document.NewMemoryRepository(), document.NewMemoryRepository(), &testutil.MockLogger{}).Register(r)

	properties.Property("ids that are not 24 hex characters are rejected", prop.ForAll(
		func(id string) bool {
			if len(id) == 24 {
				return true
			}
			products := get(h, "/products/"+id)
			services := get(r, "/services/"+id)
			return products.Code == http.StatusNotFound &&
				strings.Contains(products.Body.String(), MsgInvalidProductID) &&
				services.Code == http.StatusBadRequest &&
				strings.Contains(services.Body.String(), MsgInvalidServiceID)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}
