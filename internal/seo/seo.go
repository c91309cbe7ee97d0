// Package seo holds the prompt steps of the content pipeline:
// per-source summaries, cross-source analysis, brief building, and
// article writing. Every step assembles a prompt from accumulated
// state and delegates to the LLM provider.
package seo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rankdraft/rankdraft/internal/database"
	"github.com/rankdraft/rankdraft/internal/llm"
)

// Articles below this word count are not worth a model call.
const minSummaryWords = 80

// ShortContentSummary is the placeholder for articles too short to
// summarize reliably.
const ShortContentSummary = "Content too short for reliable SEO summary."

// Models selects the model per pipeline step.
type Models struct {
	Small   string
	Analyst string
	Writer  string
}

// Customization carries per-user brand and prompt overrides applied
// to brief building and article writing.
type Customization struct {
	BrandName            string
	BrandURL             string
	BriefPromptOverride  string
	WriterPromptOverride string
}

// Engine runs the prompt steps against one provider.
type Engine struct {
	provider llm.Provider
	models   Models
}

// NewEngine creates an Engine.
func NewEngine(provider llm.Provider, models Models) *Engine {
	return &Engine{provider: provider, models: models}
}

const summaryInstruction = "You are an SEO analyst. Summarize article with sections: intent, key topics, strengths, " +
	"missing points, tone, structure, estimated word count, likely target keywords. " +
	"Return concise markdown."

// Summarize produces a structured summary for one extracted article.
// Very short articles short-circuit to a placeholder without a model
// call.
func (e *Engine) Summarize(ctx context.Context, article database.ExtractedArticle) (database.ArticleSummary, error) {
	if len(strings.Fields(article.Text)) < minSummaryWords {
		return database.ArticleSummary{URL: article.URL, Summary: ShortContentSummary}, nil
	}

	input := fmt.Sprintf("URL: %s\nTitle: %s\n\n%s", article.URL, article.Title, article.Text)
	summary, err := e.provider.Complete(ctx, e.models.Small, summaryInstruction, input)
	if err != nil {
		return database.ArticleSummary{}, fmt.Errorf("summarizing %s: %w", article.URL, err)
	}
	return database.ArticleSummary{URL: article.URL, Summary: summary}, nil
}

const analysisInstruction = "You are a senior SEO strategist. Given article summaries, produce: " +
	"1) common coverage, 2) common gaps, 3) tone/style pattern, 4) structural pattern, " +
	"5) recommended outranking outline, 6) key entities/phrases to include."

// Analyze produces a cross-source competitive analysis from the
// summaries.
func (e *Engine) Analyze(ctx context.Context, query string, summaries []database.ArticleSummary) (string, error) {
	var parts []string
	for _, s := range summaries {
		parts = append(parts, fmt.Sprintf("Source: %s\n%s", s.URL, s.Summary))
	}

	input := fmt.Sprintf("Query: %s\n\n%s", query, strings.Join(parts, "\n\n"))
	analysis, err := e.provider.Complete(ctx, e.models.Analyst, analysisInstruction, input)
	if err != nil {
		return "", fmt.Errorf("analyzing summaries: %w", err)
	}
	return analysis, nil
}

const briefInstruction = "You are an SEO brief strategist. Create an editable markdown content brief using the competitor analysis and source summaries. " +
	"Include these sections with markdown headings: Primary Query, Search Intent, Target Audience, Recommended Title, Meta Description, " +
	"Core Keywords, Questions To Answer, Competitor Gaps To Win, Recommended Outline, Tone And Brand Notes, CTA Notes. " +
	"Keep the brief practical so a human editor can modify it before writing."

// BuildBrief produces an editable markdown content brief from the
// analysis and summaries.
func (e *Engine) BuildBrief(ctx context.Context, query string, summaries []database.ArticleSummary, analysis string, cust Customization) (string, error) {
	var parts []string
	for _, s := range summaries {
		parts = append(parts, fmt.Sprintf("Source: %s\n%s", s.URL, s.Summary))
	}

	input := fmt.Sprintf("Primary query: %s\n\nCompetitor summaries:\n%s\n\nSEO analysis:\n%s",
		query, strings.Join(parts, "\n\n"), analysis)
	instruction := applyOverride(briefInstruction, cust.BriefPromptOverride)

	brief, err := e.provider.Complete(ctx, e.models.Analyst, instruction, applyBrand(input, cust))
	if err != nil {
		return "", fmt.Errorf("building brief: %w", err)
	}
	return brief, nil
}

const fallbackBriefInstruction = "You are an SEO strategist creating a provisional content brief from only a search query. " +
	"State reasonable assumptions clearly. Return editable markdown with headings: Primary Query, Search Intent, " +
	"Target Audience, Recommended Title, Meta Description, Core Keywords, Questions To Answer, " +
	"Recommended Outline, Tone And Brand Notes, CTA Notes."

// BuildBriefFromQuery produces a degraded query-only brief, used when
// no sources qualified.
func (e *Engine) BuildBriefFromQuery(ctx context.Context, query string, cust Customization) (string, error) {
	instruction := applyOverride(fallbackBriefInstruction, cust.BriefPromptOverride)
	input := fmt.Sprintf("Primary query: %s", query)

	brief, err := e.provider.Complete(ctx, e.models.Analyst, instruction, applyBrand(input, cust))
	if err != nil {
		return "", fmt.Errorf("building query-only brief: %w", err)
	}
	return brief, nil
}

const writerInstruction = "You are an expert SEO writer. Write a new, original article that is factual and grounded in the source analysis. " +
	"Constraints: 1500-2000 words, clear H2/H3 structure, intro, actionable steps, FAQ, conclusion, " +
	"meta title and meta description at top. Return markdown only."

// WriteArticle produces a final markdown article from a raw analysis.
func (e *Engine) WriteArticle(ctx context.Context, query, analysis string) (string, error) {
	input := fmt.Sprintf("Primary query: %s\n\nSEO analysis:\n%s", query, analysis)
	article, err := e.provider.Complete(ctx, e.models.Writer, writerInstruction, input)
	if err != nil {
		return "", fmt.Errorf("writing article: %w", err)
	}
	return article, nil
}

const writerFromBriefInstruction = "You are an expert SEO writer. Write a new, original article that follows the provided content brief faithfully. " +
	"Constraints: 1500-2000 words, clear H2/H3 structure, intro, actionable steps, FAQ, conclusion, " +
	"meta title and meta description at top. Return markdown only."

// WriteArticleFromBrief produces a final markdown article from an
// editable brief.
func (e *Engine) WriteArticleFromBrief(ctx context.Context, query, briefMarkdown string, cust Customization) (string, error) {
	instruction := applyOverride(writerFromBriefInstruction, cust.WriterPromptOverride)
	input := fmt.Sprintf("Primary query: %s\n\nContent brief:\n%s", query, briefMarkdown)

	article, err := e.provider.Complete(ctx, e.models.Writer, instruction, applyBrand(input, cust))
	if err != nil {
		return "", fmt.Errorf("writing article from brief: %w", err)
	}
	return article, nil
}

// applyOverride appends user-supplied editorial guidance to a base
// instruction.
func applyOverride(instruction, override string) string {
	override = strings.TrimSpace(override)
	if override == "" {
		return instruction
	}
	return instruction + "\n\nAdditional editorial guidance from the user:\n" + override
}

// applyBrand prepends brand context so briefs and articles can speak
// in the user's voice.
func applyBrand(input string, cust Customization) string {
	name := strings.TrimSpace(cust.BrandName)
	if name == "" {
		return input
	}
	brand := "Brand: " + name
	if u := strings.TrimSpace(cust.BrandURL); u != "" {
		brand += " (" + u + ")"
	}
	return brand + "\n" + input
}
