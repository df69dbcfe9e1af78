package web

import (
	"io"
	"net/http"
)

// StripeWebhook receives payment vendor events. Entitlements are never
// revoked early, so events are verified and logged for audit only.
// Returning non-2xx makes the vendor retry; application-side logging
// failures are not worth that.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.payment == nil {
		writeError(w, http.StatusServiceUnavailable, "billing_disabled", "billing is not enabled")
		return
	}
	if !h.webhookEnabled {
		writeError(w, http.StatusServiceUnavailable, "webhook_disabled", "webhook verification is not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_failed", "failed to read body")
		return
	}

	eventType, data, err := h.payment.ParseWebhook(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("invalid webhook signature")
		writeError(w, http.StatusUnauthorized, "invalid_signature", "invalid signature")
		return
	}

	evt := h.logger.Info().Str("event_type", eventType)
	if sub, ok := data["id"].(string); ok {
		evt = evt.Str("object_id", sub)
	}
	if status, ok := data["status"].(string); ok {
		evt = evt.Str("status", status)
	}
	evt.Msg("payment webhook received")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
