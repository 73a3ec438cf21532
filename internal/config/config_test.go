package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected at least one default source")
	}
	if len(cfg.Symbols) == 0 {
		t.Error("expected at least one default symbol")
	}
	if cfg.RosterURL == "" {
		t.Error("expected roster_url to be set")
	}
	if cfg.Schedule.Cron == "" {
		t.Error("expected schedule cron to be set")
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "A", URL: "https://a.example/feed", Enabled: true},
			{Name: "B", URL: "https://b.example/feed", Enabled: false},
			{Name: "C", URL: "https://c.example/feed", Enabled: true},
		},
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", len(enabled))
	}
	if enabled[0].Name != "A" || enabled[1].Name != "C" {
		t.Errorf("unexpected enabled sources: %v", enabled)
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Schedule: Schedule{Timezone: "America/Los_Angeles"}}
	if got := cfg.Location().String(); got != "America/Los_Angeles" {
		t.Errorf("expected America/Los_Angeles, got %s", got)
	}

	cfg.Schedule.Timezone = "Not/AZone"
	if got := cfg.Location(); got != time.UTC {
		t.Errorf("expected UTC fallback for bad timezone, got %v", got)
	}
}

func TestCronSpec(t *testing.T) {
	cfg := &Config{}
	if got := cfg.CronSpec(); got != "0 8 * * *" {
		t.Errorf("expected default cron spec, got %q", got)
	}

	cfg.Schedule.Cron = "30 7 * * *"
	if got := cfg.CronSpec(); got != "30 7 * * *" {
		t.Errorf("expected configured cron spec, got %q", got)
	}

	t.Setenv("CRON_SPEC", "*/5 * * * *")
	if got := cfg.CronSpec(); got != "*/5 * * * *" {
		t.Errorf("expected env override, got %q", got)
	}
}

func TestStorePathOverrides(t *testing.T) {
	cfg := &Config{
		SubscribersFile: "/tmp/subs.json",
		ArchiveFile:     "/tmp/archive.db",
	}
	if cfg.SubscribersPath() != "/tmp/subs.json" {
		t.Errorf("unexpected subscribers path: %s", cfg.SubscribersPath())
	}
	if cfg.ArchivePath() != "/tmp/archive.db" {
		t.Errorf("unexpected archive path: %s", cfg.ArchivePath())
	}

	def := &Config{}
	if def.SubscribersPath() == "" || def.ArchivePath() == "" {
		t.Error("expected non-empty default store paths")
	}
}

func TestLoadUserConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
sources:
  - name: Test Feed
    url: https://example.com/feed
    enabled: true
symbols: [ABC]
roster_url: https://example.com/roster.csv
schedule:
  cron: "0 9 * * *"
  timezone: UTC
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "Test Feed" {
		t.Errorf("unexpected sources: %v", cfg.Sources)
	}
	if cfg.Schedule.Cron != "0 9 * * *" {
		t.Errorf("unexpected cron: %q", cfg.Schedule.Cron)
	}
}

func TestLoadRejectsBadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
sources:
  - name: Bad
    url: "ftp://example.com/feed"
    enabled: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for non-http source url")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "nested", "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected embedded defaults when config file is missing")
	}
}
