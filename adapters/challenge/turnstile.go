// Package challenge provides human-verification adapters that delegate to
// an external verification endpoint.
package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is Cloudflare Turnstile's verification endpoint.
const DefaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// TurnstileVerifier implements ports.ChallengeVerifier against the
// Turnstile siteverify API. Any transport or vendor failure is reported as
// a verification failure - never silently bypassed.
type TurnstileVerifier struct {
	httpClient *http.Client
	endpoint   string
	secretKey  string
}

// Config configures the verifier.
type Config struct {
	SecretKey string
	Endpoint  string        // Defaults to DefaultEndpoint
	Timeout   time.Duration // Defaults to 10s
}

// NewTurnstileVerifier creates a new Turnstile verifier.
func NewTurnstileVerifier(cfg Config) *TurnstileVerifier {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TurnstileVerifier{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		secretKey:  cfg.SecretKey,
	}
}

// verifyResponse is the vendor's siteverify payload.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the client-submitted token for the caller's address.
func (v *TurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("challenge: empty token")
	}

	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("challenge: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		// Fail closed: an unreachable verifier means an unverified caller.
		return fmt.Errorf("challenge: verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("challenge: verifier returned status %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return fmt.Errorf("challenge: decode response: %w", err)
	}
	if !vr.Success {
		return fmt.Errorf("challenge: token rejected: %s", strings.Join(vr.ErrorCodes, ","))
	}
	return nil
}
