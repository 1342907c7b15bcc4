package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	MinTimeout       = 5 * time.Second
	MaxTimeout       = 120 * time.Second
	MinMaxConcurrent = 1
	MaxMaxConcurrent = 15
	MaxNumResults    = 50
	MaxRecentMonths  = 24
	MaxQueryLength   = 1000
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var ErrEmptyQuery = errors.New("search query cannot be empty")

type Config struct {
	DSN     string        `toml:"dsn"`
	Browser BrowserConfig `toml:"browser"`
	Search  SearchConfig  `toml:"search"`
	Logging LoggingConfig `toml:"logging"`
}

type BrowserConfig struct {
	Headless       bool   `toml:"headless"`
	Timeout        string `toml:"timeout"`
	ViewportWidth  int    `toml:"viewport_width"`
	ViewportHeight int    `toml:"viewport_height"`
	UserAgent      string `toml:"user_agent"`
}

type SearchConfig struct {
	MaxConcurrent int    `toml:"max_concurrent"`
	NumResults    int    `toml:"num_results"`
	RecentMonths  int    `toml:"recent_months"`
	MinDelay      string `toml:"min_delay"`
	MaxDelay      string `toml:"max_delay"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() *Config {
	var cfg Config
	cfg.Browser.Headless = true
	cfg.Browser.Timeout = "30s"
	cfg.Browser.ViewportWidth = 1920
	cfg.Browser.ViewportHeight = 1080
	cfg.Browser.UserAgent = DefaultUserAgent
	cfg.Search.MaxConcurrent = 5
	cfg.Search.NumResults = 10
	cfg.Search.RecentMonths = 3
	cfg.Search.MinDelay = "1s"
	cfg.Search.MaxDelay = "3s"
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "info"
	return &cfg
}

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file is fine, defaults cover everything but the DSN.
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if t := c.Browser.GetTimeout(); t < MinTimeout || t > MaxTimeout {
		return fmt.Errorf("browser timeout must be between %s and %s", MinTimeout, MaxTimeout)
	}
	if n := c.Search.MaxConcurrent; n < MinMaxConcurrent || n > MaxMaxConcurrent {
		return fmt.Errorf("max_concurrent must be between %d and %d", MinMaxConcurrent, MaxMaxConcurrent)
	}
	if n := c.Search.NumResults; n <= 0 || n > MaxNumResults {
		return fmt.Errorf("num_results must be between 1 and %d", MaxNumResults)
	}
	if m := c.Search.RecentMonths; m <= 0 || m > MaxRecentMonths {
		return fmt.Errorf("recent_months must be between 1 and %d", MaxRecentMonths)
	}
	return nil
}

// ValidateQuery rejects empty or oversized search queries before a plan
// is built from them.
func ValidateQuery(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", ErrEmptyQuery
	}
	if len(trimmed) > MaxQueryLength {
		return "", fmt.Errorf("search query is too long (max %d characters)", MaxQueryLength)
	}
	return trimmed, nil
}

func (c *BrowserConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second // Fallback
	}
	return d
}

func (c *SearchConfig) GetMinDelay() time.Duration {
	d, err := time.ParseDuration(c.MinDelay)
	if err != nil {
		return 1 * time.Second // Fallback
	}
	return d
}

func (c *SearchConfig) GetMaxDelay() time.Duration {
	d, err := time.ParseDuration(c.MaxDelay)
	if err != nil {
		return 3 * time.Second // Fallback
	}
	return d
}
