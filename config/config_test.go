package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CINE_API_URL", "")
	t.Setenv("CINE_HTTP_TIMEOUT", "")
	t.Setenv("CINE_REDIRECT_DELAY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("unexpected api url: %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout || cfg.RedirectDelay != DefaultRedirectDelay {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CINE_API_URL", "http://cinema.test/api/")
	t.Setenv("CINE_REDIRECT_DELAY", "500ms")
	t.Setenv("CINE_HTTP_TIMEOUT", "not-a-duration")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.APIURL != "http://cinema.test/api" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.RedirectDelay != 500*time.Millisecond {
		t.Fatalf("unexpected redirect delay: %v", cfg.RedirectDelay)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout {
		t.Fatalf("expected fallback timeout, got %v", cfg.HTTPTimeout)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cine.env")
	if err := os.WriteFile(path, []byte("CINE_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	os.Unsetenv("CINE_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("CINE_LOG_LEVEL") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}

	if _, err := Load(filepath.Join(dir, "missing.env")); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
