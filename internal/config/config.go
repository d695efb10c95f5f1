package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Seoul"

	configPathEnv   = "FILING_WATCH_CONFIG"
	smtpHostEnv     = "SMTP_HOST"
	smtpPortEnv     = "SMTP_PORT"
	smtpUserEnv     = "SMTP_USER"
	smtpPassEnv     = "SMTP_PASS"
	mailToEnv       = "MAIL_TO"
	productCodesEnv = "WATCH_PRODUCT_CODES"
	applicantsEnv   = "WATCH_APPLICANTS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Search    SearchConfig    `yaml:"search"`
	Watch     WatchConfig     `yaml:"watch"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SearchConfig describes how to reach and drive the 510(k) search form.
// Duration fields are YAML strings ("120s", "2m") resolved by bindDurations.
type SearchConfig struct {
	BaseURL     string `yaml:"baseUrl"`
	FallbackURL string `yaml:"fallbackUrl"`
	// Headful launches a visible browser window for debugging form drift.
	Headful bool `yaml:"headful"`

	NavigationTimeout string        `yaml:"navigationTimeout"`
	StabilizeTimeout  string        `yaml:"stabilizeTimeout"`
	navigationTimeout time.Duration `yaml:"-"`
	stabilizeTimeout  time.Duration `yaml:"-"`
}

// NavigationTimeoutD returns the parsed navigation timeout.
func (s SearchConfig) NavigationTimeoutD() time.Duration { return s.navigationTimeout }

// StabilizeTimeoutD returns the parsed page-stabilize timeout.
func (s SearchConfig) StabilizeTimeoutD() time.Duration { return s.stabilizeTimeout }

// WatchConfig lists the monitoring criteria, one rule per entry.
type WatchConfig struct {
	ProductCodes []string `yaml:"productCodes"`
	Applicants   []string `yaml:"applicants"`
}

// LedgerConfig selects the seen-key store backend and its capacity bound.
type LedgerConfig struct {
	Backend  string `yaml:"backend"` // "file" or "sqlite"
	Path     string `yaml:"path"`
	Capacity int    `yaml:"capacity"`
}

// SMTPConfig wires all data required to send the digest mail.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// Configured reports whether enough credentials are present to send mail.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != "" && s.To != ""
}

// SchedulerConfig defines when the watch pipeline should run.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	interval time.Duration  `yaml:"-"`
	location *time.Location `yaml:"-"`
}

// IntervalD resolves the configured interval string to a duration.
func (s SchedulerConfig) IntervalD() time.Duration {
	if s.interval > 0 {
		return s.interval
	}
	return 24 * time.Hour
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	cfg.bindDurations()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		} else {
			log.Printf("config: invalid %s=%q, keeping %d", smtpPortEnv, v, c.SMTP.Port)
		}
	}
	if v := os.Getenv(smtpUserEnv); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv(smtpPassEnv); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv(mailToEnv); v != "" {
		c.SMTP.To = v
	}
	if v := os.Getenv(productCodesEnv); v != "" {
		c.Watch.ProductCodes = splitList(v)
	}
	if v := os.Getenv(applicantsEnv); v != "" {
		c.Watch.Applicants = splitList(v)
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func (c *Config) bindDurations() {
	c.Search.navigationTimeout = parseDuration(c.Search.NavigationTimeout, 120*time.Second)
	c.Search.stabilizeTimeout = parseDuration(c.Search.StabilizeTimeout, 30*time.Second)
	c.Scheduler.interval = parseDuration(c.Scheduler.Interval, 24*time.Hour)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("config: invalid duration %q, reverting to %s", raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Search.BaseURL != "" {
		base.Search.BaseURL = override.Search.BaseURL
	}
	if override.Search.FallbackURL != "" {
		base.Search.FallbackURL = override.Search.FallbackURL
	}
	if override.Search.Headful {
		base.Search.Headful = true
	}
	if override.Search.NavigationTimeout != "" {
		base.Search.NavigationTimeout = override.Search.NavigationTimeout
	}
	if override.Search.StabilizeTimeout != "" {
		base.Search.StabilizeTimeout = override.Search.StabilizeTimeout
	}

	if len(override.Watch.ProductCodes) > 0 {
		base.Watch.ProductCodes = override.Watch.ProductCodes
	}
	if len(override.Watch.Applicants) > 0 {
		base.Watch.Applicants = override.Watch.Applicants
	}

	if override.Ledger.Backend != "" {
		base.Ledger.Backend = override.Ledger.Backend
	}
	if override.Ledger.Path != "" {
		base.Ledger.Path = override.Ledger.Path
	}
	if override.Ledger.Capacity > 0 {
		base.Ledger.Capacity = override.Ledger.Capacity
	}

	if override.SMTP.Host != "" {
		base.SMTP.Host = override.SMTP.Host
	}
	if override.SMTP.Port != 0 {
		base.SMTP.Port = override.SMTP.Port
	}
	if override.SMTP.Username != "" {
		base.SMTP.Username = override.SMTP.Username
	}
	if override.SMTP.Password != "" {
		base.SMTP.Password = override.SMTP.Password
	}
	if override.SMTP.To != "" {
		base.SMTP.To = override.SMTP.To
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Search: SearchConfig{
			BaseURL:     "https://www.accessdata.fda.gov/scripts/cdrh/cfdocs/cfpmn/pmn.cfm",
			FallbackURL: "https://www.accessdata.fda.gov/scripts/cdrh/cfdocs/cfpmn/pmn.cfm",
		},
		Ledger: LedgerConfig{
			Backend:  "file",
			Path:     "fda_510k_state.json",
			Capacity: 5000,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Scheduler: SchedulerConfig{Interval: "24h", Timezone: defaultTimezone},
	}
}
