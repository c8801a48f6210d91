// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"testing"

	"tsarchiver/internal/catalog"
	"tsarchiver/internal/config"
)

// NewConfig produces a config with repository defaults, suitable for tests
// that never touch the network.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := config.Default()
	return &cfg
}

// NewArchiveDir returns a fresh archive root.
func NewArchiveDir(t testing.TB) string {
	t.Helper()
	return t.TempDir()
}

// MustCreateStore creates a catalog in a fresh archive root and closes it
// when the test finishes.
func MustCreateStore(t testing.TB, dir string) *catalog.Store {
	t.Helper()
	store, err := catalog.Create(dir)
	if err != nil {
		t.Fatalf("create catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
