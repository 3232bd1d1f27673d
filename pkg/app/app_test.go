package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nimburion/catalog-api/pkg/config"
	"github.com/nimburion/catalog-api/pkg/health"
	"github.com/nimburion/catalog-api/pkg/middleware/testutil"
	"github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/repository/document"
	"github.com/nimburion/catalog-api/pkg/server"
	sharedtestutil "github.com/nimburion/catalog-api/pkg/testutil"
)

type staticChecker struct {
	err error
}

func (c staticChecker) Name() string { return "mongodb" }

func (c staticChecker) Check(context.Context) health.CheckResult {
	if c.err != nil {
		return health.CheckResult{Name: c.Name(), Status: health.StatusUnhealthy, Error: c.err.Error()}
	}
	return health.CheckResult{Name: c.Name(), Status: health.StatusHealthy}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Database.URL = "mongodb://localhost:27017"
	cfg.Database.Name = "catalog"
	return cfg
}

func buildServers(t *testing.T, cfg *config.Config, deps Dependencies) (*server.HTTPServers, *testutil.MockLogger) {
	t.Helper()
	log := &testutil.MockLogger{}
	opts, err := NewServerOptions(cfg, log, deps)
	if err != nil {
		t.Fatalf("server options: %v", err)
	}
	servers, err := server.BuildHTTPServers(opts)
	if err != nil {
		t.Fatalf("build servers: %v", err)
	}
	return servers, log
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewServerOptions_RequiresStores(t *testing.T) {
	_, err := NewServerOptions(testConfig(), &testutil.MockLogger{}, Dependencies{Products: document.NewMemoryRepository()})
	if err == nil {
		t.Fatal("expected error without a services store")
	}
}

func TestService_EndToEnd(t *testing.T) {
	for _, routerType := range []string{config.RouterTypeGin, config.RouterTypeGorilla} {
		t.Run(routerType, func(t *testing.T) {
			// Given: the wired service over in-memory stores
			cfg := testConfig()
			cfg.RouterType = routerType
			reg := metrics.NewRegistry()
			products := document.NewMemoryRepository(
				document.Document{"_id": sharedtestutil.ObjectID(t, "507f1f77bcf86cd799439011"), "productName": "Hammer", "productCategory": "tools"},
				document.Document{"productName": "Spade", "productCategory": "garden"},
			)
			servers, _ := buildServers(t, cfg, Dependencies{
				Products: products,
				Services: document.NewMemoryRepository(),
				Checkers: []health.Checker{staticChecker{}},
				Metrics:  reg,
			})
			public := servers.Public.Router()

			// When / Then: catalog routes answer through the public stack
			rec := get(public, "/products?category=tools")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var list []map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
				t.Fatalf("decode list: %v", err)
			}
			if len(list) != 1 || list[0]["productName"] != "Hammer" {
				t.Fatalf("unexpected products %v", list)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatal("expected request id header from the public middleware")
			}

			rec = get(public, "/products/507f1f77bcf86cd799439011")
			if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"507f1f77bcf86cd799439011"`) {
				t.Fatalf("unexpected get-by-id response %d %s", rec.Code, rec.Body.String())
			}

			rec = get(public, "/services")
			if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
				t.Fatalf("expected empty services array, got %d %s", rec.Code, rec.Body.String())
			}

			// And: the management surface reports readiness, metrics and the API document
			management := servers.Management.Router()
			if rec := get(management, "/ready"); rec.Code != http.StatusOK {
				t.Fatalf("expected ready, got %d", rec.Code)
			}
			rec = get(management, "/metrics")
			if !strings.Contains(rec.Body.String(), "http_requests_total") {
				t.Fatal("expected HTTP metrics recorded for public traffic")
			}
			rec = get(management, "/openapi.json")
			for _, path := range []string{"/products/{id}", "/services/{id}"} {
				if !strings.Contains(rec.Body.String(), path) {
					t.Fatalf("expected %s in API document", path)
				}
			}
		})
	}
}

func TestService_NotReadyWhenDatabaseDown(t *testing.T) {
	servers, _ := buildServers(t, testConfig(), Dependencies{
		Products: document.NewMemoryRepository(),
		Services: document.NewMemoryRepository(),
		Checkers: []health.Checker{staticChecker{err: errors.New("server selection timeout")}},
	})

	rec := get(servers.Management.Router(), "/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if rec := get(servers.Management.Router(), "/health"); rec.Code != http.StatusOK {
		t.Fatalf("liveness must not depend on the database, got %d", rec.Code)
	}
}

func TestService_StorageFailureIsGeneric(t *testing.T) {
	products := document.NewMemoryRepository()
	products.SetFailure(errors.New("connection reset by peer"))
	servers, log := buildServers(t, testConfig(), Dependencies{
		Products: products,
		Services: document.NewMemoryRepository(),
	})

	rec := get(servers.Public.Router(), "/products")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"message":"Internal server error"}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	found := false
	for _, entry := range log.Entries() {
		if entry.Level == "error" && strings.Contains(entry.Msg, "products") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the storage error to be logged, got %+v", log.Entries())
	}
}

func unreachableConfig() *config.Config {
	cfg := testConfig()
	cfg.Database.URL = "mongodb://127.0.0.1:1"
	cfg.Database.ConnectTimeout = 300 * time.Millisecond
	return cfg
}

func TestRun_RefusesToServeWithoutDatabase(t *testing.T) {
	log := &testutil.MockLogger{}

	err := Run(context.Background(), unreachableConfig(), log)

	if err == nil {
		t.Fatal("expected startup failure")
	}
	if _, ok := log.Find("error", "failed to connect to MongoDB"); !ok {
		t.Fatalf("expected connection failure to be logged")
	}
}

func TestCheckDependencies_Unreachable(t *testing.T) {
	if err := CheckDependencies(context.Background(), unreachableConfig(), &testutil.MockLogger{}); err == nil {
		t.Fatal("expected healthcheck failure")
	}
}
