package health

import (
	"context"
	"testing"
	"time"
)

type mockChecker struct {
	name   string
	status Status
	delay  time.Duration
}

func (m *mockChecker) Check(ctx context.Context) CheckResult {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return CheckResult{Name: m.name, Status: m.status}
}

func (m *mockChecker) Name() string {
	return m.name
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	if len(registry.List()) != 0 {
		t.Errorf("New registry should have 0 checkers, got %d", len(registry.List()))
	}
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	registry.Register(&mockChecker{name: "mongodb", status: StatusHealthy})
	registry.Register(&mockChecker{name: "api", status: StatusHealthy})
	registry.Register(&mockChecker{name: "mongodb", status: StatusUnhealthy})

	names := registry.List()
	if len(names) != 2 || names[0] != "api" || names[1] != "mongodb" {
		t.Fatalf("expected [api mongodb], got %v", names)
	}

	// The replacement checker is the one that runs
	result := registry.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("expected replaced checker to be unhealthy, got %s", result.Status)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{name: "empty registry", want: StatusHealthy},
		{name: "all healthy", statuses: []Status{StatusHealthy, StatusHealthy}, want: StatusHealthy},
		{name: "one unhealthy", statuses: []Status{StatusHealthy, StatusUnhealthy}, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			for i, status := range tt.statuses {
				registry.Register(&mockChecker{name: string(rune('a' + i)), status: status})
			}

			result := registry.Check(context.Background())

			if result.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, result.Status)
			}
			if len(result.Checks) != len(tt.statuses) {
				t.Errorf("expected %d results, got %d", len(tt.statuses), len(result.Checks))
			}
			if result.IsHealthy() != (tt.want == StatusHealthy) {
				t.Errorf("IsHealthy() disagrees with status %s", result.Status)
			}
		})
	}
}

func TestRegistry_Check_OrderedByName(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		registry.Register(&mockChecker{name: name, status: StatusHealthy})
	}

	result := registry.Check(context.Background())

	for i, want := range []string{"alpha", "mid", "zeta"} {
		if result.Checks[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, result.Checks[i].Name)
		}
	}
}

func TestRegistry_Check_Concurrent(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"a", "b", "c"} {
		registry.Register(&mockChecker{name: name, status: StatusHealthy, delay: 100 * time.Millisecond})
	}

	start := time.Now()
	registry.Check(context.Background())
	elapsed := time.Since(start)

	if elapsed > 250*time.Millisecond {
		t.Errorf("checks should run concurrently, took %v", elapsed)
	}
}
