// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireIntegration skips tests that need Docker. They run by default on a
// developer machine, are skipped with -short, and in CI only run when
// INTEGRATION_TESTS=1 is set.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("INTEGRATION_TESTS") == "" && os.Getenv("CI") != "" {
		t.Skip("skipping integration test (set INTEGRATION_TESTS=1 to run)")
	}
}

// ObjectID parses a 24-character hex id or fails the test.
func ObjectID(t testing.TB, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("invalid object id %q: %v", hex, err)
	}
	return id
}
