package llm_test

import (
	"testing"

	"github.com/zackdaniels09/autopitch-ai/adapters/llm"
	"google.golang.org/genai"
)

func candidate(parts ...string) *genai.Candidate {
	var ps []*genai.Part
	for _, p := range parts {
		ps = append(ps, &genai.Part{Text: p})
	}
	return &genai.Candidate{Content: &genai.Content{Parts: ps}}
}

func TestCandidateTexts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			candidate("first draft"),
			candidate("second ", "draft"),
		},
	}

	texts := llm.CandidateTexts(resp)

	if len(texts) != 2 {
		t.Fatalf("got %d texts, want 2", len(texts))
	}
	if texts[0] != "first draft" {
		t.Errorf("texts[0] = %q", texts[0])
	}
	if texts[1] != "second draft" {
		t.Errorf("texts[1] = %q, want parts concatenated", texts[1])
	}
}

func TestCandidateTexts_SkipsEmptyAndNil(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: nil},
			candidate("   "),
			candidate("kept"),
		},
	}

	texts := llm.CandidateTexts(resp)

	if len(texts) != 1 || texts[0] != "kept" {
		t.Fatalf("texts = %v, want [kept]", texts)
	}
}

func TestCandidateTexts_NilResponse(t *testing.T) {
	if texts := llm.CandidateTexts(nil); texts != nil {
		t.Errorf("texts = %v, want nil", texts)
	}
}
