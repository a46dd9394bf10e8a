package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"crd/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Default()
	if cfg.Subtitles.Render.SourceWidth != 640 || cfg.Subtitles.Render.TargetWidth != 1920 {
		t.Fatalf("unexpected render defaults: %+v", cfg.Subtitles.Render)
	}
	if cfg.Subtitles.Styles.LegacyFont != "Arial" {
		t.Fatalf("unexpected legacy font: %q", cfg.Subtitles.Styles.LegacyFont)
	}
	if cfg.Subtitles.DefaultLocale != "de-DE" {
		t.Fatalf("unexpected default locale: %q", cfg.Subtitles.DefaultLocale)
	}
}

func TestLoadAppliesFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
download_dir = "` + filepath.Join(dir, "downloads") + `"
data_dir = "` + filepath.Join(dir, "data") + `"

[downloads]
quality = 720
format = "mp4"

[subtitles.render]
source_width = 1280
source_height = 720
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Downloads.Quality != 720 || cfg.Downloads.Format != "mp4" {
		t.Fatalf("unexpected downloads config: %+v", cfg.Downloads)
	}
	if cfg.Subtitles.Render.SourceWidth != 1280 {
		t.Fatalf("expected overridden source width, got %d", cfg.Subtitles.Render.SourceWidth)
	}
	if cfg.Subtitles.Render.TargetWidth != 1920 {
		t.Fatalf("expected default target width to survive, got %d", cfg.Subtitles.Render.TargetWidth)
	}
}

func TestLoadRejectsBadQuality(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[downloads]\nquality = 999\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for quality 999")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CRD_DOWNLOAD_DIR", filepath.Join(dir, "env-downloads"))
	t.Setenv("CRD_LOG_LEVEL", "debug")

	cfg, _, _, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Paths.DownloadDir != filepath.Join(dir, "env-downloads") {
		t.Fatalf("env override not applied: %q", cfg.Paths.DownloadDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("env log level not applied: %q", cfg.Logging.Level)
	}
}
