package seo

import (
	"context"
	"strings"
	"testing"

	"github.com/rankdraft/rankdraft/internal/database"
)

// mockProvider records the last call and returns a canned response.
type mockProvider struct {
	response    string
	model       string
	instruction string
	input       string
	calls       int
}

func (m *mockProvider) Complete(_ context.Context, model, instruction, input string) (string, error) {
	m.calls++
	m.model = model
	m.instruction = instruction
	m.input = input
	return m.response, nil
}

func (m *mockProvider) IsConfigured() bool { return true }

func testModels() Models {
	return Models{Small: "small-model", Analyst: "analyst-model", Writer: "writer-model"}
}

func longText(words int) string {
	return strings.TrimSpace(strings.Repeat("espresso grinding tips ", words/3+1))
}

func TestSummarizeShortContentSkipsModel(t *testing.T) {
	p := &mockProvider{response: "should not be used"}
	e := NewEngine(p, testModels())

	summary, err := e.Summarize(context.Background(), database.ExtractedArticle{
		URL:   "https://example.com/a",
		Title: "Short",
		Text:  "only a few words here",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Summary != ShortContentSummary {
		t.Errorf("expected placeholder summary, got %q", summary.Summary)
	}
	if p.calls != 0 {
		t.Errorf("expected no model call, got %d", p.calls)
	}
}

func TestSummarizeUsesSmallModel(t *testing.T) {
	p := &mockProvider{response: "## Intent\nInformational"}
	e := NewEngine(p, testModels())

	summary, err := e.Summarize(context.Background(), database.ExtractedArticle{
		URL:   "https://example.com/a",
		Title: "Guide",
		Text:  longText(200),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.URL != "https://example.com/a" {
		t.Errorf("unexpected url %q", summary.URL)
	}
	if p.model != "small-model" {
		t.Errorf("expected small model, got %q", p.model)
	}
	if !strings.Contains(p.input, "https://example.com/a") {
		t.Error("expected article URL in prompt input")
	}
}

func TestAnalyzeJoinsSummaries(t *testing.T) {
	p := &mockProvider{response: "analysis text"}
	e := NewEngine(p, testModels())

	summaries := []database.ArticleSummary{
		{URL: "https://a.example.com", Summary: "summary a"},
		{URL: "https://b.example.com", Summary: "summary b"},
	}
	out, err := e.Analyze(context.Background(), "best espresso machines", summaries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "analysis text" {
		t.Errorf("expected provider output, got %q", out)
	}
	if p.model != "analyst-model" {
		t.Errorf("expected analyst model, got %q", p.model)
	}
	for _, want := range []string{"best espresso machines", "https://a.example.com", "summary b"} {
		if !strings.Contains(p.input, want) {
			t.Errorf("expected %q in prompt input", want)
		}
	}
}

func TestBuildBriefAppliesCustomization(t *testing.T) {
	p := &mockProvider{response: "# Brief"}
	e := NewEngine(p, testModels())

	cust := Customization{
		BrandName:           "Acme Coffee",
		BrandURL:            "https://acme.coffee",
		BriefPromptOverride: "Always include a comparison table.",
	}
	_, err := e.BuildBrief(context.Background(), "query", nil, "analysis", cust)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.instruction, "Always include a comparison table.") {
		t.Error("expected prompt override appended to instruction")
	}
	if !strings.Contains(p.input, "Acme Coffee") || !strings.Contains(p.input, "https://acme.coffee") {
		t.Error("expected brand context in input")
	}
}

func TestBuildBriefFromQuery(t *testing.T) {
	p := &mockProvider{response: "# Provisional Brief"}
	e := NewEngine(p, testModels())

	out, err := e.BuildBriefFromQuery(context.Background(), "best espresso machines", Customization{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "# Provisional Brief" {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(p.instruction, "provisional content brief") {
		t.Error("expected fallback instruction")
	}
}

func TestWriteArticleUsesWriterModel(t *testing.T) {
	p := &mockProvider{response: "# Article"}
	e := NewEngine(p, testModels())

	out, err := e.WriteArticle(context.Background(), "query", "analysis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "# Article" {
		t.Errorf("unexpected output %q", out)
	}
	if p.model != "writer-model" {
		t.Errorf("expected writer model, got %q", p.model)
	}
}

func TestWriteArticleFromBrief(t *testing.T) {
	p := &mockProvider{response: "# Article"}
	e := NewEngine(p, testModels())

	_, err := e.WriteArticleFromBrief(context.Background(), "query", "# My Brief", Customization{
		WriterPromptOverride: "Use a friendly tone.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.input, "# My Brief") {
		t.Error("expected brief in prompt input")
	}
	if !strings.Contains(p.instruction, "Use a friendly tone.") {
		t.Error("expected writer override appended")
	}
}
