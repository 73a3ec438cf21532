package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Source struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Schedule struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

type Mail struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	FromName string `yaml:"from_name"`
}

type Config struct {
	Sources         []Source `yaml:"sources"`
	Symbols         []string `yaml:"symbols"`
	RosterURL       string   `yaml:"roster_url"`
	Schedule        Schedule `yaml:"schedule"`
	Mail            Mail     `yaml:"mail"`
	SubscribersFile string   `yaml:"subscribers_file,omitempty"`
	ArchiveFile     string   `yaml:"archive_file,omitempty"`
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// Location resolves the schedule timezone, defaulting to UTC on a bad name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) CronSpec() string {
	if spec := os.Getenv("CRON_SPEC"); spec != "" {
		return spec
	}
	if c.Schedule.Cron == "" {
		return "0 8 * * *"
	}
	return c.Schedule.Cron
}

// MailUser and MailPass come from the environment so credentials never
// live in the config file.
func (c *Config) MailUser() string { return os.Getenv("EMAIL_USER") }

func (c *Config) MailPass() string { return os.Getenv("EMAIL_PASS") }

// AlwaysInclude returns the operator address appended to every send,
// or "" when unset.
func (c *Config) AlwaysInclude() string { return os.Getenv("EMAIL_TO") }

func (c *Config) SubscribersPath() string {
	if c.SubscribersFile != "" {
		return c.SubscribersFile
	}
	return filepath.Join(xdg.DataHome, "wadi-dispatch", "subscribers.json")
}

func (c *Config) ArchivePath() string {
	if c.ArchiveFile != "" {
		return c.ArchiveFile
	}
	return filepath.Join(xdg.DataHome, "wadi-dispatch", "archive.db")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "wadi-dispatch", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
	}
	if cfg.RosterURL != "" {
		if _, err := url.Parse(cfg.RosterURL); err != nil {
			return fmt.Errorf("roster_url: invalid url: %w", err)
		}
	}
	return nil
}
