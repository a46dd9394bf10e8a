// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"testing"

	"crd/internal/config"
	"crd/internal/queue"
)

// NewConfig returns a validated config rooted in per-test temp directories.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DownloadDir = base + "/downloads"
	cfg.Paths.InstallDir = base + "/install"
	cfg.Paths.LogDir = base + "/logs"
	cfg.Paths.DataDir = base + "/data"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// MustOpenStore opens a queue store for the given config and closes it when
// the test finishes.
func MustOpenStore(t *testing.T, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}
