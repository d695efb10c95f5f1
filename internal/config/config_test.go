package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Search.BaseURL == "" {
		t.Fatal("expected a default base URL")
	}
	if cfg.Ledger.Capacity != 5000 {
		t.Fatalf("expected default capacity 5000, got %d", cfg.Ledger.Capacity)
	}
	if cfg.Ledger.Backend != "file" {
		t.Fatalf("expected file backend, got %s", cfg.Ledger.Backend)
	}
	if cfg.Search.NavigationTimeoutD() != 120*time.Second {
		t.Fatalf("unexpected navigation timeout: %s", cfg.Search.NavigationTimeoutD())
	}
	if cfg.Scheduler.IntervalD() != 24*time.Hour {
		t.Fatalf("unexpected interval: %s", cfg.Scheduler.IntervalD())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.example.org")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USER", "watcher@example.org")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("MAIL_TO", "ops@example.org")
	t.Setenv("WATCH_PRODUCT_CODES", "ABC, XYZ ,")
	t.Setenv("WATCH_APPLICANTS", " Acme ")

	cfg := Load()

	if cfg.SMTP.Host != "mail.example.org" || cfg.SMTP.Port != 2525 {
		t.Fatalf("smtp overrides not applied: %+v", cfg.SMTP)
	}
	if !cfg.SMTP.Configured() {
		t.Fatal("expected smtp to be configured")
	}
	if len(cfg.Watch.ProductCodes) != 2 || cfg.Watch.ProductCodes[1] != "XYZ" {
		t.Fatalf("unexpected product codes: %v", cfg.Watch.ProductCodes)
	}
	if len(cfg.Watch.Applicants) != 1 || cfg.Watch.Applicants[0] != "Acme" {
		t.Fatalf("unexpected applicants: %v", cfg.Watch.Applicants)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
logging:
  level: debug
search:
  navigationTimeout: 45s
watch:
  productCodes: [ABC]
ledger:
  backend: sqlite
  path: ledger.db
  capacity: 100
scheduler:
  interval: 6h
  timezone: UTC
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FILING_WATCH_CONFIG", path)

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level: %s", cfg.Logging.Level)
	}
	if cfg.Search.NavigationTimeoutD() != 45*time.Second {
		t.Fatalf("unexpected navigation timeout: %s", cfg.Search.NavigationTimeoutD())
	}
	if cfg.Ledger.Backend != "sqlite" || cfg.Ledger.Capacity != 100 {
		t.Fatalf("ledger overrides not applied: %+v", cfg.Ledger)
	}
	if cfg.Scheduler.IntervalD() != 6*time.Hour {
		t.Fatalf("unexpected interval: %s", cfg.Scheduler.IntervalD())
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
	// Defaults survive for unset sections.
	if cfg.SMTP.Host != "smtp.gmail.com" {
		t.Fatalf("default smtp host lost: %s", cfg.SMTP.Host)
	}
}

func TestParseDurationFallback(t *testing.T) {
	t.Parallel()

	if got := parseDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("unexpected duration: %s", got)
	}
	if got := parseDuration("-5s", time.Minute); got != time.Minute {
		t.Fatalf("negative duration accepted: %s", got)
	}
	if got := parseDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("valid duration rejected: %s", got)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList("a, b ,, c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected split: %v", got)
	}
}
