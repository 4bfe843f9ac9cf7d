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
	ProviderName = "dog-registry-api"
	ConsumerName = "dog-portal"

	StateBreedsBaseline = "breeds baseline"
	StateBreedExists    = "breed with id 101 exists"
	StateBreedMissing   = "no breed with id 404"
	StateOwnersBaseline = "owners baseline"
)

const (
	ExistingBreedID int64 = 101
	MissingBreedID  int64 = 404

	// AdminToken is accepted by the provider's contract verifier as an ADMIN caller.
	AdminToken = "pact-admin-token"
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

// PactFile returns the canonical pact file path for the dog portal consumer.
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

// ExampleBreedPayload provides stable breed data for pact interactions.
func ExampleBreedPayload() map[string]any {
	return map[string]any{
		"breedName":             "Pact Corgi",
		"averageLifeExpectancy": 13,
		"originCountry":         "Wales",
		"easyToTrain":           true,
	}
}

// ExampleOwnerPayload is a self-registration body.
func ExampleOwnerPayload() map[string]any {
	return map[string]any{
		"firstName": "Pact",
		"lastName":  "Owner",
		"age":       34,
		"city":      "Oslo",
		"email":     "pact.owner@example.com",
		"password":  "pact-secret",
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
