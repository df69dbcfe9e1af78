package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalYAML = `
llm:
  api_key: test-key
entitlement:
  cookie_secret: test-cookie-secret
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Limits.DailyFree != 5 {
		t.Errorf("daily free = %d, want 5", cfg.Limits.DailyFree)
	}
	if cfg.Limits.ChallengeThreshold != 3 {
		t.Errorf("challenge threshold = %d, want 3", cfg.Limits.ChallengeThreshold)
	}
	if cfg.Limits.BurstWindow != time.Minute {
		t.Errorf("burst window = %v, want 1m", cfg.Limits.BurstWindow)
	}
	if cfg.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.Entitlement.Validity != 30*24*time.Hour {
		t.Errorf("validity = %v, want 720h", cfg.Entitlement.Validity)
	}
	if cfg.Metrics.Path != "/metrics/prometheus" {
		t.Errorf("metrics path = %q", cfg.Metrics.Path)
	}
	if cfg.Server.BaseURL != "http://localhost:8080" {
		t.Errorf("base URL = %q", cfg.Server.BaseURL)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, `
server:
  port: 9090
  base_url: https://autopitch.example
llm:
  api_key: test-key
  model: gemini-2.5-pro
  timeout: 45s
limits:
  daily_free: 10
  challenge_threshold: 5
  burst_limit: 20
  burst_window: 30s
challenge:
  enabled: true
  site_key: sk-123
  secret_key: secret-123
billing:
  enabled: true
  stripe_key: sk_test_123
  webhook_secret: whsec_123
  price_pro: price_abc
entitlement:
  cookie_secret: cookie-secret
cors:
  allowed_origins:
    - https://autopitch.example
logging:
  level: debug
  format: console
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("llm timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Limits.DailyFree != 10 || cfg.Limits.ChallengeThreshold != 5 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if !cfg.Billing.Enabled || cfg.Billing.PricePro != "price_abc" {
		t.Errorf("billing = %+v", cfg.Billing)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 {
		t.Errorf("cors origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "expanded-key")

	cfg, err := Load(writeConfigFile(t, `
llm:
  api_key: ${TEST_LLM_KEY}
entitlement:
  cookie_secret: cs
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.APIKey != "expanded-key" {
		t.Errorf("api key = %q, want expanded-key", cfg.LLM.APIKey)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("AUTOPITCH_DAILY_FREE", "7")
	t.Setenv("AUTOPITCH_LLM_MODEL", "gemini-override")

	cfg, err := Load(writeConfigFile(t, `
llm:
  api_key: test-key
  model: gemini-from-file
limits:
  daily_free: 3
entitlement:
  cookie_secret: cs
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Limits.DailyFree != 7 {
		t.Errorf("daily free = %d, want env override 7", cfg.Limits.DailyFree)
	}
	if cfg.LLM.Model != "gemini-override" {
		t.Errorf("model = %q, want env override", cfg.LLM.Model)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AUTOPITCH_LLM_API_KEY", "env-key")
	t.Setenv("AUTOPITCH_COOKIE_SECRET", "env-cookie-secret")
	t.Setenv("AUTOPITCH_SERVER_PORT", "3000")
	t.Setenv("AUTOPITCH_CORS_ORIGINS", "https://a.test, https://b.test")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.test" {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadWithFallback(t *testing.T) {
	t.Run("file preferred", func(t *testing.T) {
		path := writeConfigFile(t, minimalYAML)
		cfg, err := LoadWithFallback(path)
		if err != nil {
			t.Fatalf("LoadWithFallback() error = %v", err)
		}
		if cfg.LLM.APIKey != "test-key" {
			t.Errorf("api key = %q", cfg.LLM.APIKey)
		}
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv("AUTOPITCH_LLM_API_KEY", "env-key")
		t.Setenv("AUTOPITCH_COOKIE_SECRET", "env-cookie-secret")
		cfg, err := LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("LoadWithFallback() error = %v", err)
		}
		if cfg.LLM.APIKey != "env-key" {
			t.Errorf("api key = %q", cfg.LLM.APIKey)
		}
	})

	t.Run("nothing available", func(t *testing.T) {
		t.Setenv("AUTOPITCH_LLM_API_KEY", "")
		if _, err := LoadWithFallback(""); err == nil {
			t.Fatal("expected error with no config")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing api key",
			yaml:    `server: {port: 8080}`,
			wantErr: "llm.api_key",
		},
		{
			name: "missing cookie secret",
			yaml: `
llm: {api_key: k}
`,
			wantErr: "entitlement.cookie_secret",
		},
		{
			name: "challenge threshold above daily free",
			yaml: `
llm: {api_key: k}
entitlement: {cookie_secret: cs}
limits: {daily_free: 3, challenge_threshold: 5}
`,
			wantErr: "challenge_threshold",
		},
		{
			name: "challenge enabled without secret",
			yaml: `
llm: {api_key: k}
entitlement: {cookie_secret: cs}
challenge: {enabled: true, site_key: sk}
`,
			wantErr: "challenge.secret_key",
		},
		{
			name: "billing enabled without stripe key",
			yaml: `
llm: {api_key: k}
entitlement: {cookie_secret: cs}
billing: {enabled: true}
`,
			wantErr: "billing.stripe_key",
		},
		{
			name: "bad log level",
			yaml: `
llm: {api_key: k}
entitlement: {cookie_secret: cs}
logging: {level: loud}
`,
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTOPITCH_LLM_API_KEY", "")
			t.Setenv("AUTOPITCH_COOKIE_SECRET", "")
			_, err := Load(writeConfigFile(t, tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
