package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsarchiver/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolvedPath, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Error("exists should be false for a missing file")
	}
	if resolvedPath != path {
		t.Errorf("resolvedPath = %q, want %q", resolvedPath, path)
	}

	defaults := config.Default()
	if cfg.Scan.BaseURL != defaults.Scan.BaseURL {
		t.Errorf("BaseURL = %q", cfg.Scan.BaseURL)
	}
	if cfg.Scan.WindowTagesschau != defaults.Scan.WindowTagesschau {
		t.Errorf("WindowTagesschau = %d", cfg.Scan.WindowTagesschau)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[scan]
base_url = "https://mirror.example.test/"
window_tagesschau = 40
request_timeout = 30

[subtitles]
exclude_file = "subignore.txt"

[logging]
format = "json"
level = "debug"
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("exists should be true")
	}
	if cfg.Scan.BaseURL != "https://mirror.example.test" {
		t.Errorf("trailing slash not trimmed: %q", cfg.Scan.BaseURL)
	}
	if cfg.Scan.WindowTagesschau != 40 {
		t.Errorf("WindowTagesschau = %d", cfg.Scan.WindowTagesschau)
	}
	// Unset fields keep their defaults.
	if cfg.Scan.WindowNachtmagazin != config.Default().Scan.WindowNachtmagazin {
		t.Errorf("WindowNachtmagazin = %d", cfg.Scan.WindowNachtmagazin)
	}
	if !filepath.IsAbs(cfg.Subtitles.ExcludeFile) {
		t.Errorf("exclude_file not expanded: %q", cfg.Subtitles.ExcludeFile)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "relative base url",
			contents: "[scan]\nbase_url = \"tagesschau.de\"\n",
			wantErr:  "base_url",
		},
		{
			name:     "window too small",
			contents: "[scan]\nwindow_tagesthemen = 1\n",
			wantErr:  "window_tagesthemen",
		},
		{
			name:     "zero timeout",
			contents: "[scan]\nrequest_timeout = 0\n",
			wantErr:  "request_timeout",
		},
		{
			name:     "bad log format",
			contents: "[logging]\nformat = \"xml\"\n",
			wantErr:  "logging.format",
		},
		{
			name:     "bad log level",
			contents: "[logging]\nlevel = \"verbose\"\n",
			wantErr:  "logging.level",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tc.contents))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}

	// The sample must load and validate as-is.
	cfg, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("Load sample = exists %v, err %v", exists, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config invalid: %v", err)
	}

	if err := config.WriteSample(path); err == nil {
		t.Error("WriteSample must refuse to overwrite")
	}
}
