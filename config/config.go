package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Browser   BrowserConfig   `yaml:"browser"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Cache     CacheConfig     `yaml:"cache"`
	Store     StoreConfig     `yaml:"store"`
	Batch     BatchConfig     `yaml:"batch"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"` // default: "127.0.0.1"
	Port int    `yaml:"port"` // default: 8080
	Mode string `yaml:"mode"` // "debug", "release", "test"; default: "release"
}

// FetchConfig controls how recipe pages are retrieved.
type FetchConfig struct {
	// UserAgent is the client identifier sent with every request.
	UserAgent string `yaml:"userAgent"` // default: "MenuMaker Desktop/0.1"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout time.Duration `yaml:"defaultTimeout"` // default: 30s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration `yaml:"maxTimeout"` // default: 120s

	// ChromeTLS makes the HTTP engine present a Chrome TLS fingerprint.
	ChromeTLS bool `yaml:"chromeTLS"` // default: false

	// RespectRobots enables the robots.txt check before each fetch.
	RespectRobots bool `yaml:"respectRobots"` // default: true

	// RobotsTTL is how long a host's robots.txt stays cached.
	RobotsTTL time.Duration `yaml:"robotsTTL"` // default: 1h

	// EscalationDelays is the staged start delay for each engine tier
	// (http, browser, browser-stealth).
	EscalationDelays []time.Duration `yaml:"escalationDelays"` // default: [0s, 3s, 6s]

	// DomainMemoryTTL is how long the winning engine per domain is remembered.
	DomainMemoryTTL time.Duration `yaml:"domainMemoryTTL"` // default: 24h
}

// BrowserConfig controls the optional headless Chrome engines.
type BrowserConfig struct {
	// Enabled launches Chrome at startup and adds the browser engines.
	Enabled bool `yaml:"enabled"` // default: false

	// Stealth adds a second engine that always injects stealth evasions.
	Stealth bool `yaml:"stealth"` // default: true

	Headless   bool   `yaml:"headless"` // default: true
	MaxPages   int    `yaml:"maxPages"` // default: 4
	Proxy      string `yaml:"proxy"`
	NoSandbox  bool   `yaml:"noSandbox"` // default: false
	BrowserBin string `yaml:"browserBin"`

	// BlockResources lists resource types the browser never loads.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockResources []string `yaml:"blockResources"`

	// BlockAds fails requests to known ad networks.
	BlockAds bool `yaml:"blockAds"` // default: true
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication. The desktop app talks to a
	// loopback server, so it is off unless configured.
	Enabled bool `yaml:"enabled"` // default: false

	APIKeys []string `yaml:"apiKeys"`
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"` // default: 5
	Burst             int     `yaml:"burst"`             // default: 10
}

// CacheConfig controls the scrape response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses in memory.
	MaxEntries int `yaml:"maxEntries"` // default: 1000

	// TTL bounds how long any entry is kept.
	TTL time.Duration `yaml:"ttl"` // default: 1h

	// RedisURL switches the cache to Redis when set.
	RedisURL string `yaml:"redisURL"`
}

// StoreConfig controls where menus and menu items are persisted.
type StoreConfig struct {
	// DataDir is the application data directory.
	// default: <user config dir>/menumaker
	DataDir string `yaml:"dataDir"`
}

// BatchConfig controls asynchronous batch scraping.
type BatchConfig struct {
	MaxURLs     int `yaml:"maxURLs"`     // default: 100
	Concurrency int `yaml:"concurrency"` // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "text"
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Mode: "release",
		},
		Fetch: FetchConfig{
			UserAgent:        "MenuMaker Desktop/0.1",
			DefaultTimeout:   30 * time.Second,
			MaxTimeout:       120 * time.Second,
			RespectRobots:    true,
			RobotsTTL:        time.Hour,
			EscalationDelays: []time.Duration{0, 3 * time.Second, 6 * time.Second},
			DomainMemoryTTL:  24 * time.Hour,
		},
		Browser: BrowserConfig{
			Stealth:  true,
			Headless: true,
			MaxPages: 4,
			BlockResources: []string{
				"Image", "Stylesheet", "Font", "Media",
			},
			BlockAds: true,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5.0,
			Burst:             10,
		},
		Cache: CacheConfig{
			MaxEntries: 1000,
			TTL:        time.Hour,
		},
		Store: StoreConfig{
			DataDir: defaultDataDir(),
		},
		Batch: BatchConfig{
			MaxURLs:     100,
			Concurrency: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// MENUMAKER_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("MENUMAKER_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = envOr("MENUMAKER_HOST", c.Server.Host)
	c.Server.Port = envIntOr("MENUMAKER_PORT", c.Server.Port)
	c.Server.Mode = envOr("MENUMAKER_MODE", c.Server.Mode)

	c.Fetch.UserAgent = envOr("MENUMAKER_USER_AGENT", c.Fetch.UserAgent)
	c.Fetch.DefaultTimeout = envDurationOr("MENUMAKER_DEFAULT_TIMEOUT", c.Fetch.DefaultTimeout)
	c.Fetch.MaxTimeout = envDurationOr("MENUMAKER_MAX_TIMEOUT", c.Fetch.MaxTimeout)
	c.Fetch.ChromeTLS = envBoolOr("MENUMAKER_CHROME_TLS", c.Fetch.ChromeTLS)
	c.Fetch.RespectRobots = envBoolOr("MENUMAKER_RESPECT_ROBOTS", c.Fetch.RespectRobots)
	c.Fetch.RobotsTTL = envDurationOr("MENUMAKER_ROBOTS_TTL", c.Fetch.RobotsTTL)
	c.Fetch.EscalationDelays = envDurationSliceOr("MENUMAKER_ESCALATION_DELAYS", c.Fetch.EscalationDelays)
	c.Fetch.DomainMemoryTTL = envDurationOr("MENUMAKER_DOMAIN_MEMORY_TTL", c.Fetch.DomainMemoryTTL)

	c.Browser.Enabled = envBoolOr("MENUMAKER_BROWSER", c.Browser.Enabled)
	c.Browser.Stealth = envBoolOr("MENUMAKER_STEALTH", c.Browser.Stealth)
	c.Browser.Headless = envBoolOr("MENUMAKER_HEADLESS", c.Browser.Headless)
	c.Browser.MaxPages = envIntOr("MENUMAKER_MAX_PAGES", c.Browser.MaxPages)
	c.Browser.Proxy = envOr("MENUMAKER_PROXY", c.Browser.Proxy)
	c.Browser.NoSandbox = envBoolOr("MENUMAKER_NO_SANDBOX", c.Browser.NoSandbox)
	c.Browser.BrowserBin = envOr("MENUMAKER_BROWSER_BIN", c.Browser.BrowserBin)
	c.Browser.BlockResources = envSliceOr("MENUMAKER_BLOCKED_RESOURCES", c.Browser.BlockResources)
	c.Browser.BlockAds = envBoolOr("MENUMAKER_BLOCK_ADS", c.Browser.BlockAds)

	c.Auth.Enabled = envBoolOr("MENUMAKER_AUTH_ENABLED", c.Auth.Enabled)
	c.Auth.APIKeys = envSliceOr("MENUMAKER_API_KEYS", c.Auth.APIKeys)

	c.RateLimit.RequestsPerSecond = envFloatOr("MENUMAKER_RATE_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = envIntOr("MENUMAKER_RATE_BURST", c.RateLimit.Burst)

	c.Cache.MaxEntries = envIntOr("MENUMAKER_CACHE_MAX_ENTRIES", c.Cache.MaxEntries)
	c.Cache.TTL = envDurationOr("MENUMAKER_CACHE_TTL", c.Cache.TTL)
	c.Cache.RedisURL = envOr("MENUMAKER_REDIS_URL", c.Cache.RedisURL)

	c.Store.DataDir = envOr("MENUMAKER_DATA_DIR", c.Store.DataDir)

	c.Batch.MaxURLs = envIntOr("MENUMAKER_BATCH_MAX_URLS", c.Batch.MaxURLs)
	c.Batch.Concurrency = envIntOr("MENUMAKER_BATCH_CONCURRENCY", c.Batch.Concurrency)

	c.Log.Level = envOr("MENUMAKER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("MENUMAKER_LOG_FORMAT", c.Log.Format)
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "menumaker-data"
	}
	return filepath.Join(dir, "menumaker")
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
