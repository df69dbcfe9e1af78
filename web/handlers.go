package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/zackdaniels09/autopitch-ai/adapters/auth"
	"github.com/zackdaniels09/autopitch-ai/app"
	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
	"github.com/zackdaniels09/autopitch-ai/domain/prompt"
)

// errorBody is the uniform error envelope for all endpoints.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

// writeServiceError maps application errors to HTTP statuses. Vendor
// details never reach the client; sentinel messages are safe to echo.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *prompt.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_input", verr.Error())
	case errors.Is(err, app.ErrBurstLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", app.ErrBurstLimited.Error())
	case errors.Is(err, app.ErrDailyQuotaExceeded):
		writeError(w, http.StatusPaymentRequired, "daily_limit", app.ErrDailyQuotaExceeded.Error())
	case errors.Is(err, app.ErrChallengeRequired):
		writeError(w, http.StatusUnauthorized, "challenge_required", app.ErrChallengeRequired.Error())
	case errors.Is(err, app.ErrChallengeFailed):
		writeError(w, http.StatusUnauthorized, "challenge_failed", app.ErrChallengeFailed.Error())
	case errors.Is(err, app.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", app.ErrUpstream.Error())
	case errors.Is(err, app.ErrUnknownPlan):
		writeError(w, http.StatusBadRequest, "unknown_plan", app.ErrUnknownPlan.Error())
	case errors.Is(err, app.ErrNoActiveSubscription):
		writeError(w, http.StatusPaymentRequired, "no_subscription", app.ErrNoActiveSubscription.Error())
	case errors.Is(err, app.ErrBillingDisabled):
		writeError(w, http.StatusServiceUnavailable, "billing_disabled", app.ErrBillingDisabled.Error())
	default:
		h.logger.Error().Err(err).Msg("unhandled service error")
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// clientIP returns the caller's address. The RealIP middleware has already
// folded X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// planFor resolves the caller's plan from the entitlement cookie. Missing,
// invalid or expired cookies all degrade to the free tier.
func (h *Handler) planFor(r *http.Request) (entitlement.Plan, entitlement.Claims) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return entitlement.PlanFree, entitlement.Claims{}
	}
	claims, err := h.signer.Verify(cookie.Value)
	if err != nil || !claims.Valid(h.clock.Now()) {
		return entitlement.PlanFree, entitlement.Claims{}
	}
	return claims.Plan, claims
}

// Health reports service status and client-facing configuration.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	limits := h.generate.Limits()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"model":            h.model,
		"billing":          h.billing.Enabled(),
		"challengeSiteKey": h.siteKey,
		"limits": map[string]any{
			"dailyFree":          limits.Quota.DailyLimit,
			"challengeThreshold": limits.Quota.ChallengeThreshold,
			"burstPerWindow":     limits.Burst.Limit,
			"burstWindowSeconds": int(limits.Burst.Window.Seconds()),
		},
	})
}

// Me reports the caller's plan and remaining free-tier allowance.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	plan, claims := h.planFor(r)

	remaining, err := h.generate.Remaining(r.Context(), clientIP(r), plan)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"plan":      plan,
		"premium":   plan.IsPremium(),
		"remaining": remaining,
	}
	if plan.IsPremium() {
		resp["expiresAt"] = claims.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// generateRequest is the POST /generate payload. Older clients send
// "job" and "cta"; both spellings are accepted.
type generateRequest struct {
	JobPost        string `json:"jobPost"`
	Job            string `json:"job"`
	Skills         string `json:"skills"`
	Tone           string `json:"tone"`
	CTAStyle       string `json:"ctaStyle"`
	CTA            string `json:"cta"`
	Variants       int    `json:"variants"`
	TurnstileToken string `json:"turnstileToken"`
}

func (req *generateRequest) jobPost() string {
	if req.JobPost != "" {
		return req.JobPost
	}
	return req.Job
}

func (req *generateRequest) ctaStyle() string {
	if req.CTAStyle != "" {
		return req.CTAStyle
	}
	return req.CTA
}

// Generate runs the draft generation pipeline.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	plan, _ := h.planFor(r)
	res, err := h.generate.Generate(r.Context(), app.GenerateRequest{
		RemoteIP:       clientIP(r),
		Plan:           plan,
		ChallengeToken: req.TurnstileToken,
		Input: prompt.Input{
			JobPost:  req.jobPost(),
			Skills:   req.Skills,
			Tone:     req.Tone,
			CTAStyle: req.ctaStyle(),
			Variants: req.Variants,
		},
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("X-Daily-Remaining", strconv.Itoa(res.Remaining))
	writeJSON(w, http.StatusOK, map[string]any{
		"emails":    res.Drafts,
		"plan":      res.Plan,
		"remaining": res.Remaining,
	})
}

// DayMetrics reports aggregate usage for the current UTC day.
func (h *Handler) DayMetrics(w http.ResponseWriter, r *http.Request) {
	agg, err := h.generate.DayStats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":              agg.Day,
		"uniqueIdentities": agg.UniqueIdentities,
		"totalCalls":       agg.TotalCalls,
		"exceededCount":    agg.ExceededCount,
		"estCostMicro":     agg.EstCostMicro,
	})
}

// Checkout starts a subscription checkout and returns the redirect URL.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	url, err := h.billing.Checkout(r.Context(), req.Plan)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Claim exchanges a completed checkout session for the entitlement cookie.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "missing_session", "session_id is required")
		return
	}

	res, err := h.billing.Claim(r.Context(), req.SessionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"premium":   true,
		"plan":      res.Plan,
		"expiresAt": res.ExpiresAt,
	})
}

// Portal returns a subscription self-service URL.
func (h *Handler) Portal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	url, err := h.billing.Portal(r.Context(), req.Email, req.SessionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
