//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "pedidos-api"
	ConsumerName = "pedidos-portal"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order with id 101 exists"
	StateOrderMissing   = "no order with id 404"
)

const (
	ExistingOrderID int64 = 101
	MissingOrderID  int64 = 404
)

const (
	ExampleRequester = "Ana Souza"
	ExampleOrderDate = "2024-06-12"
	ExampleUnit      = "Escola Norte"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload provides stable test data for order interactions.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"requester":  ExampleRequester,
		"order_date": ExampleOrderDate,
		"unit":       ExampleUnit,
		"notes":      "weekly restock",
		"items": []map[string]any{
			{"name": "rice", "label": "Rice 5kg", "quantity": "5kg"},
			{"name": "beans", "quantity": "2kg"},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
