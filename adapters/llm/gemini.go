// Package llm provides completion client adapters for hosted model vendors.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zackdaniels09/autopitch-ai/ports"
	"google.golang.org/genai"
)

// GeminiConfig holds Gemini client configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string        // e.g. "gemini-2.0-flash"
	Timeout time.Duration // Per-call deadline, defaults to 30s
}

// GeminiCompleter implements ports.Completer against the Gemini API.
// No retry: a failed vendor call becomes a failed user-facing response.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiCompleter creates a new Gemini completion client.
func NewGeminiCompleter(ctx context.Context, cfg GeminiConfig) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &GeminiCompleter{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Model returns the configured model name.
func (c *GeminiCompleter) Model() string {
	return c.model
}

// Complete requests n candidate completions in a single vendor call.
func (c *GeminiCompleter) Complete(ctx context.Context, prompt string, n int) ([]string, error) {
	if n < 1 {
		n = 1
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		CandidateCount: int32(n),
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	texts := CandidateTexts(resp)
	if len(texts) == 0 {
		return nil, fmt.Errorf("generate content: vendor returned no candidates")
	}
	return texts, nil
}

// CandidateTexts flattens a response into one text per candidate.
// This is a PURE function.
func CandidateTexts(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	var texts []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// Ensure interface compliance.
var _ ports.Completer = (*GeminiCompleter)(nil)
