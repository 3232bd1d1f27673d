// Package contract holds the conformance suite every router adapter must pass.
package contract

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

// TestRouterContract runs the shared router conformance suite.
func TestRouterContract(t *testing.T, createRouter func() router.Router) {
	t.Helper()

	t.Run("get_and_not_found", func(t *testing.T) {
		r := createRouter()
		r.GET("/products", func(c router.Context) error {
			return c.JSON(http.StatusOK, []string{"a"})
		})

		res := performRequest(r, http.MethodGet, "/products", nil)
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
		if ct := res.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected application/json, got %q", ct)
		}

		res = performRequest(r, http.MethodGet, "/not-registered", nil)
		if res.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unregistered route, got %d", res.Code)
		}
	})

	t.Run("path_params_and_query", func(t *testing.T) {
		r := createRouter()
		r.GET("/products/:id", func(c router.Context) error {
			return c.JSON(http.StatusOK, map[string]string{
				"id":       c.Param("id"),
				"category": c.Query("category"),
			})
		})

		res := performRequest(r, http.MethodGet, "/products/abc123?category=tools", nil)
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["id"] != "abc123" || body["category"] != "tools" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("query_first_value_and_decoding", func(t *testing.T) {
		r := createRouter()
		r.GET("/services", func(c router.Context) error {
			return c.JSON(http.StatusOK, map[string]string{
				"category": c.Query("category"),
				"location": c.Query("location_search"),
				"missing":  c.Query("sort_by"),
			})
		})

		res := performRequest(r, http.MethodGet, "/services?category=repair&category=cleaning&location_search=New%20York", nil)
		var body map[string]string
		if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["category"] != "repair" {
			t.Fatalf("expected first category value, got %q", body["category"])
		}
		if body["location"] != "New York" {
			t.Fatalf("expected decoded location, got %q", body["location"])
		}
		if body["missing"] != "" {
			t.Fatalf("expected empty value for absent parameter, got %q", body["missing"])
		}
	})

	t.Run("head_and_trailing_slash", func(t *testing.T) {
		r := createRouter()
		r.GET("/products", func(c router.Context) error { return c.JSON(http.StatusOK, "list") })
		r.GET("/products/:id", func(c router.Context) error { return c.JSON(http.StatusOK, c.Param("id")) })

		if res := performRequest(r, http.MethodHead, "/products", nil); res.Code != http.StatusOK {
			t.Fatalf("expected 200 for HEAD, got %d", res.Code)
		}
		res := performRequest(r, http.MethodGet, "/products/", nil)
		if res.Code != http.StatusOK || res.Body.String() != "\"list\"\n" {
			t.Fatalf("expected /products/ to serve the list route, got %d %q", res.Code, res.Body.String())
		}
		res = performRequest(r, http.MethodGet, "/products/abc/?category=x", nil)
		if res.Code != http.StatusOK || res.Body.String() != "\"abc\"\n" {
			t.Fatalf("expected /products/abc/ to match :id, got %d %q", res.Code, res.Body.String())
		}
	})

	t.Run("groups", func(t *testing.T) {
		r := createRouter()
		api := r.Group("/api")
		api.GET("/services", func(c router.Context) error { return c.JSON(http.StatusOK, "ok") })

		if res := performRequest(r, http.MethodGet, "/api/services", nil); res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}

		tagged := r.Group("/tagged", func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Set("group_mw", "on")
				return next(c)
			}
		})
		tagged.GET("/hello", func(c router.Context) error {
			return c.JSON(http.StatusOK, c.Get("group_mw"))
		})

		res := performRequest(r, http.MethodGet, "/tagged/hello", nil)
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
		if got := res.Body.String(); got != "\"on\"\n" {
			t.Fatalf("expected middleware value, got %q", got)
		}
	})

	t.Run("middleware_order", func(t *testing.T) {
		r := createRouter()
		order := make([]string, 0, 3)

		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "global")
				return next(c)
			}
		})
		r.GET("/m", func(c router.Context) error {
			order = append(order, "handler")
			return c.JSON(http.StatusOK, nil)
		}, func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "route")
				return next(c)
			}
		})

		if res := performRequest(r, http.MethodGet, "/m", nil); res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
		expected := []string{"global", "route", "handler"}
		if len(order) != len(expected) {
			t.Fatalf("expected %v, got %v", expected, order)
		}
		for i := range expected {
			if order[i] != expected[i] {
				t.Fatalf("expected %v, got %v", expected, order)
			}
		}
	})

	t.Run("options_route_runs_global_middleware", func(t *testing.T) {
		r := createRouter()
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Response().Header().Set("X-Seen", "yes")
				return next(c)
			}
		})
		r.GET("/products", func(c router.Context) error { return c.JSON(http.StatusOK, nil) })

		res := performRequest(r, http.MethodOptions, "/products", nil)
		if res.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", res.Code)
		}
		if res.Header().Get("X-Seen") != "yes" {
			t.Fatal("expected global middleware to run for OPTIONS")
		}
	})

	t.Run("unwritten_error_becomes_500", func(t *testing.T) {
		r := createRouter()
		r.GET("/boom", func(c router.Context) error { return errors.New("boom") })

		if res := performRequest(r, http.MethodGet, "/boom", nil); res.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", res.Code)
		}
	})

	t.Run("response_status_tracking", func(t *testing.T) {
		r := createRouter()
		var status int
		var written bool
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				err := next(c)
				status = c.Response().Status()
				written = c.Response().Written()
				return err
			}
		})
		r.GET("/teapot", func(c router.Context) error {
			return c.JSON(http.StatusTeapot, map[string]string{"message": "short and stout"})
		})

		performRequest(r, http.MethodGet, "/teapot", nil)
		if status != http.StatusTeapot || !written {
			t.Fatalf("expected tracked status 418 written=true, got %d written=%v", status, written)
		}
	})
}

func performRequest(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
