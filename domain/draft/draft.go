// Package draft provides email draft value types and best-effort recovery
// of structured drafts from free-text model output.
package draft

// Draft is one generated email (value type).
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// FallbackSubject is used when drafts are synthesized from unparsable text.
const FallbackSubject = "Your outreach email draft"
