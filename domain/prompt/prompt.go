// Package prompt validates generation input and composes the instruction
// template sent to the completion vendor.
// All functions are deterministic with no side effects.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
)

// Input length bounds, in characters after trimming.
const (
	MinJobPostLen = 45
	MaxJobPostLen = 8000
	MinSkillsLen  = 25
	MaxSkillsLen  = 2000
)

// Known tones and CTA styles. Unknown values fall back to the default.
var (
	tones     = map[string]bool{"friendly": true, "formal": true, "direct": true, "enthusiastic": true}
	ctaStyles = map[string]bool{"short call": true, "reply": true, "portfolio link": true, "meeting": true}
)

const (
	DefaultTone     = "friendly"
	DefaultCTAStyle = "short call"
)

// Input is the raw generation request (value type).
type Input struct {
	JobPost  string
	Skills   string
	Tone     string
	CTAStyle string
	Variants int
}

// ValidationError reports why an input was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML-like tags from user-supplied text.
// This is a PURE function.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// Normalize validates and canonicalizes an input for a plan tier.
// Tags are stripped before length checks, tone and CTA style are folded
// to the known set, and the variant count is clamped to the tier's cap.
// This is a PURE function.
func Normalize(in Input, plan entitlement.Plan) (Input, error) {
	in.JobPost = strings.TrimSpace(StripTags(in.JobPost))
	in.Skills = strings.TrimSpace(StripTags(in.Skills))

	if len(in.JobPost) < MinJobPostLen {
		return Input{}, &ValidationError{Field: "jobPost", Reason: fmt.Sprintf("must be at least %d characters", MinJobPostLen)}
	}
	if len(in.JobPost) > MaxJobPostLen {
		return Input{}, &ValidationError{Field: "jobPost", Reason: fmt.Sprintf("must be at most %d characters", MaxJobPostLen)}
	}
	if len(in.Skills) < MinSkillsLen {
		return Input{}, &ValidationError{Field: "skills", Reason: fmt.Sprintf("must be at least %d characters", MinSkillsLen)}
	}
	if len(in.Skills) > MaxSkillsLen {
		return Input{}, &ValidationError{Field: "skills", Reason: fmt.Sprintf("must be at most %d characters", MaxSkillsLen)}
	}

	in.Tone = strings.ToLower(strings.TrimSpace(in.Tone))
	if !tones[in.Tone] {
		in.Tone = DefaultTone
	}
	in.CTAStyle = strings.ToLower(strings.TrimSpace(in.CTAStyle))
	if !ctaStyles[in.CTAStyle] {
		in.CTAStyle = DefaultCTAStyle
	}

	maxVariants := entitlement.VariantCap(plan)
	if in.Variants < 1 {
		in.Variants = 1
	}
	if in.Variants > maxVariants {
		in.Variants = maxVariants
	}

	return in, nil
}

// Compose builds the deterministic instruction string for a normalized
// input. The same input always yields the same prompt.
// This is a PURE function.
func Compose(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert at writing cold-outreach emails for job applications.\n\n")
	fmt.Fprintf(&b, "Write %d distinct email draft(s) pitching the candidate for the job below.\n", in.Variants)
	fmt.Fprintf(&b, "Tone: %s. Call to action: ask for a %s.\n\n", in.Tone, in.CTAStyle)
	fmt.Fprintf(&b, "JOB POST:\n%s\n\n", in.JobPost)
	fmt.Fprintf(&b, "CANDIDATE SKILLS:\n%s\n\n", in.Skills)
	b.WriteString("Respond with ONLY a JSON object of the form ")
	b.WriteString(`{"emails":[{"subject":"...","body":"..."}]}`)
	fmt.Fprintf(&b, " containing exactly %d entries. Keep each body under 180 words.", in.Variants)
	return b.String()
}
