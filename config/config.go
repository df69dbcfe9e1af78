// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Limits      LimitsConfig      `yaml:"limits"`
	Challenge   ChallengeConfig   `yaml:"challenge"`
	Billing     BillingConfig     `yaml:"billing"`
	Entitlement EntitlementConfig `yaml:"entitlement"`
	CORS        CORSConfig        `yaml:"cors"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// BaseURL is the public URL clients reach the service at. Used for
	// payment redirect targets and the Secure cookie attribute.
	BaseURL string `yaml:"base_url"`
}

// LLMConfig configures the completion vendor.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// LimitsConfig configures free-tier quota and burst limiting.
type LimitsConfig struct {
	DailyFree          int           `yaml:"daily_free"`
	ChallengeThreshold int           `yaml:"challenge_threshold"`
	CostPerCallMicro   int64         `yaml:"cost_per_call_micro"` // micro-cents per variant
	BurstLimit         int           `yaml:"burst_limit"`
	BurstWindow        time.Duration `yaml:"burst_window"`
}

// ChallengeConfig configures human verification (Cloudflare Turnstile).
type ChallengeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	SiteKey   string `yaml:"site_key"`
	SecretKey string `yaml:"secret_key"`
}

// BillingConfig configures subscription billing (Stripe).
type BillingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	StripeKey     string `yaml:"stripe_key,omitempty"`
	WebhookSecret string `yaml:"webhook_secret,omitempty"`
	PricePro      string `yaml:"price_pro,omitempty"`
	PriceTeam     string `yaml:"price_team,omitempty"`
}

// EntitlementConfig configures the signed premium cookie.
type EntitlementConfig struct {
	CookieSecret string        `yaml:"cookie_secret"`
	Validity     time.Duration `yaml:"validity"`
}

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable the Prometheus endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics/prometheus)
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// This is useful for Docker deployments where no config file is needed.
//
// Environment variables:
//
//	AUTOPITCH_LLM_API_KEY          - Completion vendor API key (required)
//	AUTOPITCH_LLM_MODEL            - Model name (default: gemini-2.0-flash)
//	AUTOPITCH_SERVER_HOST          - Server host (default: 0.0.0.0)
//	AUTOPITCH_SERVER_PORT          - Server port (default: 8080)
//	AUTOPITCH_SERVER_BASE_URL      - Public base URL (default: http://localhost:8080)
//	AUTOPITCH_DAILY_FREE           - Free generations per IP per day (default: 5)
//	AUTOPITCH_CHALLENGE_THRESHOLD  - Calls before a challenge is required (default: 3)
//	AUTOPITCH_CHALLENGE_SITE_KEY   - Turnstile site key
//	AUTOPITCH_CHALLENGE_SECRET_KEY - Turnstile secret key
//	AUTOPITCH_BILLING_ENABLED      - Enable Stripe billing (default: false)
//	AUTOPITCH_STRIPE_KEY           - Stripe secret key
//	AUTOPITCH_STRIPE_WEBHOOK_SECRET - Stripe webhook signing secret
//	AUTOPITCH_PRICE_PRO            - Stripe price ID for the pro plan
//	AUTOPITCH_PRICE_TEAM           - Stripe price ID for the team plan
//	AUTOPITCH_COOKIE_SECRET        - Entitlement cookie signing secret (required)
//	AUTOPITCH_LOG_LEVEL            - Log level: debug, info, warn, error (default: info)
//	AUTOPITCH_LOG_FORMAT           - Log format: json or console (default: json)
//	AUTOPITCH_METRICS_ENABLED      - Enable the Prometheus endpoint (default: true)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment variables.
// This is the recommended method for Docker deployments.
func LoadWithFallback(path string) (*Config, error) {
	// Try loading from file first
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	// Check if we have enough env vars to run
	if os.Getenv("AUTOPITCH_LLM_API_KEY") != "" {
		return LoadFromEnv()
	}

	// No config available
	return nil, fmt.Errorf("no configuration found: provide config file or set AUTOPITCH_LLM_API_KEY")
}

// HasEnvConfig returns true if essential environment variables are set.
func HasEnvConfig() bool {
	return os.Getenv("AUTOPITCH_LLM_API_KEY") != ""
}

// applyEnvOverrides applies AUTOPITCH_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("AUTOPITCH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("AUTOPITCH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AUTOPITCH_SERVER_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("AUTOPITCH_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("AUTOPITCH_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// LLM configuration
	if v := os.Getenv("AUTOPITCH_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("AUTOPITCH_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("AUTOPITCH_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = d
		}
	}

	// Limits configuration
	if v := os.Getenv("AUTOPITCH_DAILY_FREE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.DailyFree = n
		}
	}
	if v := os.Getenv("AUTOPITCH_CHALLENGE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.ChallengeThreshold = n
		}
	}
	if v := os.Getenv("AUTOPITCH_COST_PER_CALL_MICRO"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Limits.CostPerCallMicro = n
		}
	}
	if v := os.Getenv("AUTOPITCH_BURST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.BurstLimit = n
		}
	}
	if v := os.Getenv("AUTOPITCH_BURST_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Limits.BurstWindow = d
		}
	}

	// Challenge configuration
	if v := os.Getenv("AUTOPITCH_CHALLENGE_ENABLED"); v != "" {
		cfg.Challenge.Enabled = parseBool(v)
	}
	if v := os.Getenv("AUTOPITCH_CHALLENGE_SITE_KEY"); v != "" {
		cfg.Challenge.SiteKey = v
	}
	if v := os.Getenv("AUTOPITCH_CHALLENGE_SECRET_KEY"); v != "" {
		cfg.Challenge.SecretKey = v
		cfg.Challenge.Enabled = true
	}

	// Billing configuration
	if v := os.Getenv("AUTOPITCH_BILLING_ENABLED"); v != "" {
		cfg.Billing.Enabled = parseBool(v)
	}
	if v := os.Getenv("AUTOPITCH_STRIPE_KEY"); v != "" {
		cfg.Billing.StripeKey = v
	}
	if v := os.Getenv("AUTOPITCH_STRIPE_WEBHOOK_SECRET"); v != "" {
		cfg.Billing.WebhookSecret = v
	}
	if v := os.Getenv("AUTOPITCH_PRICE_PRO"); v != "" {
		cfg.Billing.PricePro = v
	}
	if v := os.Getenv("AUTOPITCH_PRICE_TEAM"); v != "" {
		cfg.Billing.PriceTeam = v
	}

	// Entitlement configuration
	if v := os.Getenv("AUTOPITCH_COOKIE_SECRET"); v != "" {
		cfg.Entitlement.CookieSecret = v
	}
	if v := os.Getenv("AUTOPITCH_ENTITLEMENT_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Entitlement.Validity = d
		}
	}

	// CORS configuration
	if v := os.Getenv("AUTOPITCH_CORS_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(v)
	}

	// Logging configuration
	if v := os.Getenv("AUTOPITCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AUTOPITCH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("AUTOPITCH_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("AUTOPITCH_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitAndTrim(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.0-flash"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}

	if cfg.Limits.DailyFree == 0 {
		cfg.Limits.DailyFree = 5
	}
	if cfg.Limits.ChallengeThreshold == 0 {
		cfg.Limits.ChallengeThreshold = 3
	}
	if cfg.Limits.CostPerCallMicro == 0 {
		cfg.Limits.CostPerCallMicro = 900
	}
	if cfg.Limits.BurstLimit == 0 {
		cfg.Limits.BurstLimit = 10
	}
	if cfg.Limits.BurstWindow == 0 {
		cfg.Limits.BurstWindow = time.Minute
	}

	if cfg.Entitlement.Validity == 0 {
		cfg.Entitlement.Validity = 30 * 24 * time.Hour
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics/prometheus"
	}
}

func validate(cfg *Config) error {
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}

	// Entitlement cookies are HMAC-signed; with an empty secret any
	// client-minted token would verify. Required even when billing is
	// off, since the web layer verifies cookies unconditionally.
	if cfg.Entitlement.CookieSecret == "" {
		return fmt.Errorf("entitlement.cookie_secret is required")
	}

	if cfg.Limits.ChallengeThreshold > cfg.Limits.DailyFree {
		return fmt.Errorf("limits.challenge_threshold (%d) must not exceed limits.daily_free (%d)",
			cfg.Limits.ChallengeThreshold, cfg.Limits.DailyFree)
	}

	if cfg.Challenge.Enabled && cfg.Challenge.SecretKey == "" {
		return fmt.Errorf("challenge.secret_key is required when challenge is enabled")
	}

	if cfg.Billing.Enabled {
		if cfg.Billing.StripeKey == "" {
			return fmt.Errorf("billing.stripe_key is required when billing is enabled")
		}
		if cfg.Billing.PricePro == "" {
			return fmt.Errorf("billing.price_pro is required when billing is enabled")
		}
		// billing.webhook_secret stays optional: without it the webhook
		// endpoint is simply disabled.
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	return nil
}
