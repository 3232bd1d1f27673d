package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nimburion/catalog-api/pkg/middleware/testutil"
	sharedtestutil "github.com/nimburion/catalog-api/pkg/testutil"
)

func startMongoURL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestRunAndHealthcheck_Integration(t *testing.T) {
	sharedtestutil.RequireIntegration(t)
	cfg := testConfig()
	cfg.Database.URL = startMongoURL(t)
	cfg.HTTP.Port = 0
	cfg.Management.Port = 0

	log := &testutil.MockLogger{}
	if err := CheckDependencies(context.Background(), cfg, log); err != nil {
		t.Fatalf("healthcheck against a live database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, log) }()

	deadline := time.Now().Add(10 * time.Second)
	for {
		if _, ok := log.Find("info", "starting server"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("service did not start")
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("service did not stop")
	}
	if _, ok := log.Find("info", "shutdown hook complete"); !ok {
		t.Fatal("expected shutdown hooks to run")
	}
}
