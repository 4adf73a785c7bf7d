package model

import "time"

// Config is the complete runtime configuration for an analysis session
type Config struct {
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	HTTP        HTTPConfig        `yaml:"http"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Cache       CacheConfig       `yaml:"cache"`
	Oracle      OracleConfig      `yaml:"oracle"`
	Query       QueryConfig       `yaml:"query"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Log         LogConfig         `yaml:"log"`
}

// MarketplaceConfig points at the external keyword-search capability
type MarketplaceConfig struct {
	// BaseURL of the marketplace search API. Empty selects the offline
	// mock client.
	BaseURL string `yaml:"base_url"`

	// Mock forces the deterministic offline client even when BaseURL is set.
	Mock bool `yaml:"mock"`

	// RespectRobots gates lookups through robots.txt when the endpoint is
	// a scraped page rather than a sanctioned API.
	RespectRobots bool `yaml:"respect_robots"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`

	// HTTPProxy and HTTPSProxy override the HTTP_PROXY/HTTPS_PROXY
	// environment variables when set.
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
}

// ResolverConfig tunes the progressive-relaxation ladder
type ResolverConfig struct {
	// MaxRelaxations is the number of reduced-query attempts after the
	// full query, before the emergency unquoted attempt.
	MaxRelaxations int `yaml:"max_relaxations"`

	// AttemptTimeout bounds each individual lookup.
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// CacheConfig controls snapshot caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OracleConfig selects the optional classification oracle
type OracleConfig struct {
	// Provider name: "openai", "ollama" or "" (disabled).
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"-"` // From environment, never serialized
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`

	// MaxTerms caps how many suggestions a provider may return.
	MaxTerms int `yaml:"max_terms"`
}

// QueryConfig controls query-state policy
type QueryConfig struct {
	// UserFullControl lets deliberate manual curation remove core terms.
	// Off by default: the protection net wins over unattended edits.
	UserFullControl bool `yaml:"user_full_control"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig throttles marketplace lookups per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LogConfig controls structured log output
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Marketplace: MarketplaceConfig{
			BaseURL:       "",
			Mock:          false,
			RespectRobots: false,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "Comparia/0.3 (+https://github.com/comparia/comparia)",
			MaxBodyBytes: 2_000_000,
		},
		Resolver: ResolverConfig{
			MaxRelaxations: 4,
			AttemptTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Oracle: OracleConfig{
			Provider: "",
			Timeout:  30 * time.Second,
			MaxTerms: 8,
		},
		Query: QueryConfig{
			UserFullControl: false,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
