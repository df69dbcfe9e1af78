// Package web provides the HTTP API and the embedded landing pages.
// Stateless design - the only client-side state is the entitlement cookie.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/zackdaniels09/autopitch-ai/adapters/metrics"
	"github.com/zackdaniels09/autopitch-ai/app"
	"github.com/zackdaniels09/autopitch-ai/ports"
)

//go:embed static/*
var assets embed.FS

// Handler provides the HTTP endpoints.
type Handler struct {
	generate       *app.GenerateService
	billing        *app.BillingService
	signer         ports.EntitlementSigner
	payment        ports.PaymentProvider // nil when billing is disabled
	clock          ports.Clock
	metrics        *metrics.Collector
	promHandler    http.Handler // mounted at promPath when non-nil
	promPath       string
	cors           *corsPolicy
	secureCookie   bool // Secure attribute on the entitlement cookie
	webhookEnabled bool // a webhook signing secret is configured
	siteKey        string
	model          string
	logger         zerolog.Logger
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Generate    *app.GenerateService
	Billing     *app.BillingService
	Signer      ports.EntitlementSigner
	Payment     ports.PaymentProvider
	Clock       ports.Clock
	Metrics     *metrics.Collector
	PromHandler http.Handler
	PromPath    string // Defaults to /metrics/prometheus

	// AllowedOrigins lists origins permitted for cross-origin requests.
	// Empty means same-origin only.
	AllowedOrigins []string

	// BaseURL decides whether cookies carry the Secure attribute.
	BaseURL string

	// WebhookEnabled reports whether a webhook signing secret is
	// configured; without one /stripe/webhook is disabled.
	WebhookEnabled bool

	// ChallengeSiteKey is exposed to clients so they can render the widget.
	ChallengeSiteKey string

	// Model is reported on /health.
	Model string

	Logger zerolog.Logger
}

// NewHandler creates a new web handler.
func NewHandler(deps Deps) *Handler {
	promPath := deps.PromPath
	if promPath == "" {
		promPath = "/metrics/prometheus"
	}
	return &Handler{
		generate:       deps.Generate,
		billing:        deps.Billing,
		signer:         deps.Signer,
		payment:        deps.Payment,
		clock:          deps.Clock,
		metrics:        deps.Metrics,
		promHandler:    deps.PromHandler,
		promPath:       promPath,
		cors:           newCORSPolicy(deps.AllowedOrigins),
		secureCookie:   strings.HasPrefix(deps.BaseURL, "https://"),
		webhookEnabled: deps.WebhookEnabled,
		siteKey:        deps.ChallengeSiteKey,
		model:          deps.Model,
		logger:         deps.Logger,
	}
}

// Router returns the API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(h.cors.middleware)
	r.Use(h.observe)

	r.Get("/health", h.Health)
	r.Get("/me", h.Me)
	r.Post("/generate", h.Generate)
	r.Get("/metrics", h.DayMetrics)

	r.Post("/checkout", h.Checkout)
	r.Post("/claim", h.Claim)
	r.Post("/portal", h.Portal)
	r.Post("/stripe/webhook", h.StripeWebhook)

	if h.promHandler != nil {
		r.Handle(h.promPath, h.promHandler)
	}

	// Landing and claim pages.
	staticFS, _ := fs.Sub(assets, "static")
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	return r
}
