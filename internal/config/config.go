// Package config provides configuration loading and validation for jobscout.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the jobscout configuration that can be loaded from a JSON
// file. All fields are optional; missing values fall back to defaults.
type Config struct {
	// Infrastructure
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisAddr   string `json:"redis_addr,omitempty"`   // Redis address for the scoring queue

	// Discovery behavior
	Sources        []string `json:"sources,omitempty"`          // Adapter ids to run, in order
	MaxResults     int      `json:"max_results,omitempty"`      // Per-session result cap
	RequestDelayMS int      `json:"request_delay_ms,omitempty"` // Minimum delay between requests to one host
	ScheduleSpec   string   `json:"schedule_spec,omitempty"`    // Cron spec for periodic discovery

	// Crawler limits and domain policy
	MaxCareerPages int      `json:"max_career_pages,omitempty"` // Career pages followed per seed
	MaxJobURLs     int      `json:"max_job_urls,omitempty"`     // Candidate job URLs per seed
	ATSDomains     []string `json:"ats_domains,omitempty"`      // Allow-listed applicant-tracking hosts

	// Schema adapter seeds
	SchemaSeeds []string `json:"schema_seeds,omitempty"` // Organization career-site URLs

	// Board adapter
	BoardURL string `json:"board_url,omitempty"` // Search URL base for the browser-driven adapter
	Headless bool   `json:"headless,omitempty"`  // Run the browser headless

	// Logging
	LogJSON  bool `json:"log_json,omitempty"`
	LogDebug bool `json:"log_debug,omitempty"`
}

// DefaultATSDomains is the maintained allow-list of third-party
// applicant-tracking hosts the crawler may follow off the seed's domain.
// Configuration data, not an invariant.
var DefaultATSDomains = []string{
	"lever.co", "jobs.lever.co",
	"greenhouse.io", "boards.greenhouse.io",
	"workable.com", "apply.workable.com",
	"smartrecruiters.com", "jobs.smartrecruiters.com",
	"bamboohr.com", "careers.bamboohr.com",
	"jobvite.com", "jobs.jobvite.com",
	"icims.com", "careers.icims.com",
	"taleo.net", "careers.taleo.net",
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Sources:        []string{"mock"},
		MaxResults:     50,
		RequestDelayMS: 1000,
		MaxCareerPages: 5,
		MaxJobURLs:     30,
		ATSDomains:     DefaultATSDomains,
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MaxResults < 0 {
		return fmt.Errorf("config error: 'max_results' must be non-negative")
	}
	if c.RequestDelayMS < 0 {
		return fmt.Errorf("config error: 'request_delay_ms' must be non-negative")
	}
	if c.MaxCareerPages < 0 {
		return fmt.Errorf("config error: 'max_career_pages' must be non-negative")
	}
	if c.MaxJobURLs < 0 {
		return fmt.Errorf("config error: 'max_job_urls' must be non-negative")
	}
	for _, src := range c.Sources {
		switch src {
		case "mock", "schema", "board":
		default:
			return fmt.Errorf("config error: unknown source %q", src)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if len(result.Sources) == 0 {
		result.Sources = defaults.Sources
	}
	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}
	if result.RequestDelayMS == 0 {
		result.RequestDelayMS = defaults.RequestDelayMS
	}
	if result.ScheduleSpec == "" {
		result.ScheduleSpec = defaults.ScheduleSpec
	}
	if result.MaxCareerPages == 0 {
		result.MaxCareerPages = defaults.MaxCareerPages
	}
	if result.MaxJobURLs == 0 {
		result.MaxJobURLs = defaults.MaxJobURLs
	}
	if len(result.ATSDomains) == 0 {
		result.ATSDomains = defaults.ATSDomains
	}
	if len(result.SchemaSeeds) == 0 {
		result.SchemaSeeds = defaults.SchemaSeeds
	}
	if result.BoardURL == "" {
		result.BoardURL = defaults.BoardURL
	}

	return result
}

// RequestDelay returns the politeness delay as a duration.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// FromEnv overlays environment variables onto the config. Only the
// infrastructure endpoints are settable this way.
func (c *Config) FromEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
}
