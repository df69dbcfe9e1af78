// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/zackdaniels09/autopitch-ai/adapters/auth"
	"github.com/zackdaniels09/autopitch-ai/adapters/challenge"
	"github.com/zackdaniels09/autopitch-ai/adapters/clock"
	"github.com/zackdaniels09/autopitch-ai/adapters/llm"
	"github.com/zackdaniels09/autopitch-ai/adapters/memory"
	"github.com/zackdaniels09/autopitch-ai/adapters/metrics"
	"github.com/zackdaniels09/autopitch-ai/adapters/payment"
	"github.com/zackdaniels09/autopitch-ai/app"
	"github.com/zackdaniels09/autopitch-ai/config"
	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
	"github.com/zackdaniels09/autopitch-ai/domain/quota"
	"github.com/zackdaniels09/autopitch-ai/domain/ratelimit"
	"github.com/zackdaniels09/autopitch-ai/ports"
	"github.com/zackdaniels09/autopitch-ai/web"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	// Services
	Generate *app.GenerateService
	Billing  *app.BillingService

	// Config holder when hot reload is enabled
	holder *config.Holder

	// Shared adapters
	signer  ports.EntitlementSigner
	payment ports.PaymentProvider
}

// New creates and initializes the application from a loaded configuration.
func New(cfg *config.Config) (*App, error) {
	logger := setupLogger(cfg)

	logger.Info().
		Str("model", cfg.LLM.Model).
		Bool("billing", cfg.Billing.Enabled).
		Bool("challenge", cfg.Challenge.Enabled).
		Msg("initializing autopitch")

	a := &App{
		Logger: logger,
		Config: cfg,
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	if err := a.initServices(); err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}

	if err := a.initHTTPServer(); err != nil {
		return nil, fmt.Errorf("init http server: %w", err)
	}

	return a, nil
}

// NewWithHotReload loads configuration from a file and watches it for
// changes. Only logging settings apply live; limit and vendor changes
// need a restart.
func NewWithHotReload(path string) (*App, error) {
	bootLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	holder, err := config.NewHolder(path, bootLogger)
	if err != nil {
		return nil, err
	}

	a, err := New(holder.Get())
	if err != nil {
		holder.Stop()
		return nil, err
	}
	a.holder = holder

	holder.OnChange(func(cfg *config.Config) {
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	})

	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

func (a *App) initServices() error {
	cfg := a.Config
	clk := clock.Real{}

	completer, err := llm.NewGeminiCompleter(context.Background(), llm.GeminiConfig{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return fmt.Errorf("build completer: %w", err)
	}

	var verifier ports.ChallengeVerifier
	if cfg.Challenge.Enabled {
		verifier = challenge.NewTurnstileVerifier(challenge.Config{
			SecretKey: cfg.Challenge.SecretKey,
		})
		a.Logger.Info().Msg("challenge verification enabled")
	} else {
		a.Logger.Warn().Msg("challenge verification disabled, free tier is unguarded past the threshold")
	}

	signer := auth.NewCookieSigner(cfg.Entitlement.CookieSecret, cfg.Entitlement.Validity)

	a.Generate = app.NewGenerateService(app.GenerateDeps{
		Quotas:    memory.NewQuotaStore(),
		Rates:     memory.NewRateLimitStore(),
		Completer: completer,
		Challenge: verifier,
		Clock:     clk,
		Config: app.GenerateConfig{
			Quota: quota.Config{
				DailyLimit:         cfg.Limits.DailyFree,
				ChallengeThreshold: cfg.Limits.ChallengeThreshold,
				CostPerCallMicro:   cfg.Limits.CostPerCallMicro,
			},
			Burst: ratelimit.Config{
				Limit:  cfg.Limits.BurstLimit,
				Window: cfg.Limits.BurstWindow,
			},
		},
		Metrics: a.Metrics,
		Logger:  a.Logger.With().Str("component", "generate").Logger(),
	})

	billingDeps := app.BillingDeps{
		Signer:  signer,
		Clock:   clk,
		BaseURL: cfg.Server.BaseURL,
		Prices:  priceMap(cfg),
		Metrics: a.Metrics,
		Logger:  a.Logger.With().Str("component", "billing").Logger(),
	}
	if cfg.Billing.Enabled {
		a.payment = payment.NewStripeProvider(payment.StripeConfig{
			SecretKey:     cfg.Billing.StripeKey,
			WebhookSecret: cfg.Billing.WebhookSecret,
		})
		billingDeps.Payment = a.payment
		a.Logger.Info().Msg("stripe billing enabled")
	}
	a.Billing = app.NewBillingService(billingDeps)

	a.signer = signer
	return nil
}

func priceMap(cfg *config.Config) map[entitlement.Plan]string {
	prices := make(map[entitlement.Plan]string)
	if cfg.Billing.PricePro != "" {
		prices[entitlement.PlanPro] = cfg.Billing.PricePro
	}
	if cfg.Billing.PriceTeam != "" {
		prices[entitlement.PlanTeam] = cfg.Billing.PriceTeam
	}
	return prices
}

func (a *App) initHTTPServer() error {
	cfg := a.Config

	deps := web.Deps{
		Generate:         a.Generate,
		Billing:          a.Billing,
		Signer:           a.signer,
		Clock:            clock.Real{},
		Metrics:          a.Metrics,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		BaseURL:          cfg.Server.BaseURL,
		ChallengeSiteKey: cfg.Challenge.SiteKey,
		Model:            cfg.LLM.Model,
		Logger:           a.Logger.With().Str("component", "web").Logger(),
	}
	if a.payment != nil {
		deps.Payment = a.payment
		deps.WebhookEnabled = cfg.Billing.WebhookSecret != ""
	}
	if cfg.Metrics.Enabled {
		deps.PromHandler = promhttp.Handler()
		deps.PromPath = cfg.Metrics.Path
	}

	handler := web.NewHandler(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	a.Logger.Info().Str("addr", addr).Msg("http server configured")
	return nil
}

// Run starts the server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.holder != nil {
		a.holder.Stop()
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
