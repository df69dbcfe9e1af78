package bootstrap

import (
	"testing"
	"time"

	"github.com/zackdaniels09/autopitch-ai/config"
	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         18080,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			BaseURL:      "http://127.0.0.1:18080",
		},
		LLM: config.LLMConfig{
			APIKey:  "test-key",
			Model:   "gemini-2.0-flash",
			Timeout: time.Second,
		},
		Limits: config.LimitsConfig{
			DailyFree:          5,
			ChallengeThreshold: 3,
			CostPerCallMicro:   900,
			BurstLimit:         10,
			BurstWindow:        time.Minute,
		},
		Entitlement: config.EntitlementConfig{
			CookieSecret: "test-secret",
			Validity:     30 * 24 * time.Hour,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
		// Metrics stay disabled: enabling them twice in one process would
		// collide on the default Prometheus registry.
	}
}

func TestNew(t *testing.T) {
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Shutdown()

	if a.Generate == nil {
		t.Error("generate service not wired")
	}
	if a.Billing == nil {
		t.Error("billing service not wired")
	}
	if a.Billing.Enabled() {
		t.Error("billing enabled without stripe config")
	}
	if a.HTTPServer == nil || a.HTTPServer.Addr != "127.0.0.1:18080" {
		t.Errorf("server addr = %v", a.HTTPServer)
	}

	limits := a.Generate.Limits()
	if limits.Quota.DailyLimit != 5 || limits.Burst.Limit != 10 {
		t.Errorf("limits = %+v", limits)
	}
}

func TestNew_BillingEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Billing = config.BillingConfig{
		Enabled:       true,
		StripeKey:     "sk_test_123",
		WebhookSecret: "whsec_123",
		PricePro:      "price_pro",
		PriceTeam:     "price_team",
	}

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Shutdown()

	if !a.Billing.Enabled() {
		t.Error("billing not enabled")
	}
}

func TestPriceMap(t *testing.T) {
	cfg := testConfig()
	cfg.Billing.PricePro = "price_a"

	prices := priceMap(cfg)
	if prices[entitlement.PlanPro] != "price_a" {
		t.Errorf("pro price = %q", prices[entitlement.PlanPro])
	}
	if _, ok := prices[entitlement.PlanTeam]; ok {
		t.Error("team price present without config")
	}
}
