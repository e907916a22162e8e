package config

import (
	"fmt"
	"time"
)

// FirefoxUserAgent is sent on every request; the listing site serves
// restricted markup to default automated clients.
const FirefoxUserAgent = "Mozilla/5.0 (Macintosh; U; Intel Mac OS 10.5; en-US; rv:1.9) Gecko/2009122115 Firefox/3.0"

// Config holds crawler configuration.
type Config struct {
	UserAgent        string
	Timeout          time.Duration
	Parallelism      int    // pages fetched at once; 1 is strictly sequential
	PageCacheSize    int    // 0 disables the page body cache
	OutputFormat     string // text, csv, or json
	Verbose          bool
	RespectRobotsTxt bool
	MetricsAddr      string
}

// DefaultConfig returns the sequential, uncached defaults.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:        FirefoxUserAgent,
		Timeout:          10 * time.Second,
		Parallelism:      1,
		PageCacheSize:    0,
		OutputFormat:     "text",
		Verbose:          false,
		RespectRobotsTxt: false,
		MetricsAddr:      "",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if c.PageCacheSize < 0 {
		return fmt.Errorf("page cache size cannot be negative")
	}
	if c.OutputFormat != "text" && c.OutputFormat != "csv" && c.OutputFormat != "json" {
		return fmt.Errorf("output format must be text, csv, or json")
	}
	return nil
}
