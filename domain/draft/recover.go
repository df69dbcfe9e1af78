package draft

import (
	"encoding/json"
	"strings"
)

// Model output is not under our control: the vendor may wrap the JSON in
// prose, fence it in a code block, or ignore the output contract entirely.
// Recovery runs an ordered chain of strategies and degrades to a synthetic
// single draft instead of surfacing a parse failure to the caller.

// Strategy attempts to extract drafts from one candidate string.
// It reports ok=false when the text does not match its shape.
type Strategy func(text string) (drafts []Draft, ok bool)

// envelope is the JSON object the prompt asks the model to emit.
type envelope struct {
	Emails []Draft `json:"emails"`
}

// Strategies returns the candidate parse chain in priority order.
// Each strategy is independently testable.
func Strategies() []Strategy {
	return []Strategy{WholeText, BraceSpan}
}

// Recover extracts drafts from raw model output, falling back to a single
// synthetic draft whose body is the raw text. A complete fenced code block,
// when present, becomes the sole parse candidate; text outside the fence is
// never consulted. It never fails. This is a PURE function.
func Recover(raw string) []Draft {
	candidate := strings.TrimSpace(raw)
	if inner, ok := FencedBlock(candidate); ok {
		candidate = inner
	}
	for _, s := range Strategies() {
		if drafts, ok := s(candidate); ok {
			return drafts
		}
	}
	return []Draft{{Subject: FallbackSubject, Body: raw}}
}

// FencedBlock extracts the inner text of the first complete triple-backtick
// code block (optionally tagged `json`).
func FencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	inner := text[start+3:]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		tag := strings.TrimSpace(inner[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			inner = inner[nl+1:]
		}
	}
	end := strings.Index(inner, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(inner[:end]), true
}

// BraceSpan parses the substring between the first '{' and the last '}'.
func BraceSpan(text string) ([]Draft, bool) {
	open := strings.IndexByte(text, '{')
	closing := strings.LastIndexByte(text, '}')
	if open < 0 || closing <= open {
		return nil, false
	}
	return parseEnvelope(text[open : closing+1])
}

// WholeText parses the entire candidate as JSON.
func WholeText(text string) ([]Draft, bool) {
	return parseEnvelope(text)
}

// parseEnvelope accepts only objects carrying a non-empty emails array
// whose entries have a body.
func parseEnvelope(s string) ([]Draft, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return nil, false
	}
	var drafts []Draft
	for _, d := range env.Emails {
		if strings.TrimSpace(d.Body) == "" {
			continue
		}
		if d.Subject == "" {
			d.Subject = FallbackSubject
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		return nil, false
	}
	return drafts, true
}
