package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultGutenbergURL = "https://www.gutenberg.org"
	defaultAnalysisURL  = "https://api.groq.com/openai/v1"
	defaultModel        = "llama3-8b-8192"
)

// Config holds all application configuration.
type Config struct {
	// Local cache
	DatabasePath string

	// Remote catalog
	CatalogBaseURL string // metadata pages: {CatalogBaseURL}/ebooks/{id}
	ContentBaseURL string // raw text: {ContentBaseURL}/files/{id}/{id}-0.txt
	CatalogRPS     int
	HTTPTimeout    time.Duration

	// Analysis provider (OpenAI-compatible chat completions)
	AnalysisAPIKey  string
	AnalysisBaseURL string
	AnalysisModel   string

	// VecLite search index; empty disables it
	VecLitePath string

	// HTTP API
	ListenAddr string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:    getEnv("DATABASE_PATH", "data/gutenshelf.db"),
		CatalogBaseURL:  trimURL(getEnv("CATALOG_BASE_URL", defaultGutenbergURL)),
		ContentBaseURL:  trimURL(getEnv("CONTENT_BASE_URL", defaultGutenbergURL)),
		AnalysisAPIKey:  getEnv("ANALYSIS_API_KEY", getEnv("GROQ_API_KEY", "")),
		AnalysisBaseURL: trimURL(getEnv("ANALYSIS_BASE_URL", defaultAnalysisURL)),
		AnalysisModel:   getEnv("ANALYSIS_MODEL", defaultModel),
		VecLitePath:     getEnv("VECLITE_PATH", ""),
		ListenAddr:      getEnv("LISTEN_ADDR", "127.0.0.1:8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg.CatalogRPS, err = strconv.Atoi(getEnv("CATALOG_RPS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_RPS: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForFetch checks configuration needed to reach the remote catalog.
func (c *Config) ValidateForFetch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.ContentBaseURL == "" {
		return fmt.Errorf("CONTENT_BASE_URL is required")
	}
	if c.CatalogRPS <= 0 {
		return fmt.Errorf("CATALOG_RPS must be positive, got %d", c.CatalogRPS)
	}
	return nil
}

// ValidateForAnalysis checks configuration needed to call the analysis provider.
func (c *Config) ValidateForAnalysis() error {
	if err := c.ValidateForFetch(); err != nil {
		return err
	}
	if c.AnalysisAPIKey == "" {
		return fmt.Errorf("ANALYSIS_API_KEY (or GROQ_API_KEY) is required for analysis")
	}
	return nil
}

// ValidateForSearch checks configuration needed for the search index.
func (c *Config) ValidateForSearch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VecLitePath == "" {
		return fmt.Errorf("VECLITE_PATH is required for search")
	}
	return nil
}

// ValidateForServe checks configuration needed by the HTTP API. The analysis
// key is optional there; the analysis endpoint reports 503 without it.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForFetch(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func trimURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
