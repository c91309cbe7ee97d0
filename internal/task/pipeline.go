// Package task orchestrates the staged content pipelines over
// persisted task records. Each orchestrator advances one record from
// queued to completed or failed, persisting stage and progress at
// every checkpoint.
package task

import (
	"context"
	"log"

	"github.com/rankdraft/rankdraft/internal/collect"
	"github.com/rankdraft/rankdraft/internal/database"
	"github.com/rankdraft/rankdraft/internal/export"
	"github.com/rankdraft/rankdraft/internal/extract"
	"github.com/rankdraft/rankdraft/internal/seo"
)

// Analysis text recorded when a brief or article falls back to the
// query-only path.
const noSourcesAnalysis = "No competitor sources were provided. This brief is based on the query only and should be reviewed."

// Distinguished reasons for the tagged no-sources outcome.
const (
	reasonNoQualifyingURLs = "No qualifying URLs found. Provide seed URLs or citation text containing links."
	reasonNoExtractable    = "Could not extract content from selected URLs."
)

// Extractor is the part of the content extractor the pipelines need.
type Extractor interface {
	ExtractAll(ctx context.Context, urls []string) []extract.Content
}

// Request carries the caller-supplied inputs of one pipeline run.
type Request struct {
	Query         string
	SeedURLs      []string
	CitationsText string
	OverviewText  string
}

// SourceAnalysis is the tagged outcome of the shared source-analysis
// step. NoSources reports that nothing qualified or nothing could be
// extracted; callers branch on it instead of catching an error.
type SourceAnalysis struct {
	NoSources       bool
	NoSourcesReason string
	Sources         []string
	Extracted       []database.ExtractedArticle
	Summaries       []database.ArticleSummary
	Report          string
}

// Pipeline composes the pipeline steps over a shared store.
type Pipeline struct {
	db        *database.DB
	collector *collect.Collector
	extractor Extractor
	engine    *seo.Engine
	exporter  *export.Exporter
	maxURLs   int
}

// NewPipeline creates a Pipeline.
func NewPipeline(db *database.DB, collector *collect.Collector, extractor Extractor, engine *seo.Engine, exporter *export.Exporter, maxURLs int) *Pipeline {
	if maxURLs <= 0 {
		maxURLs = 3
	}
	return &Pipeline{
		db:        db,
		collector: collector,
		extractor: extractor,
		engine:    engine,
		exporter:  exporter,
		maxURLs:   maxURLs,
	}
}

// buildSourceAnalysis runs the shared collect -> select -> extract ->
// summarize -> analyze chain. The optional report callback receives
// stage checkpoints for orchestrators that surface fine-grained
// progress.
func (p *Pipeline) buildSourceAnalysis(ctx context.Context, req Request, report func(stage string, percent int)) (SourceAnalysis, error) {
	candidates := p.collector.CollectSeedURLs(req.Query, req.SeedURLs, req.CitationsText, req.OverviewText)
	topURLs := collect.SelectTopURLs(candidates, p.maxURLs)
	if len(topURLs) == 0 {
		return SourceAnalysis{NoSources: true, NoSourcesReason: reasonNoQualifyingURLs}, nil
	}

	if report != nil {
		report("extracting_content", 30)
	}
	contents := p.extractor.ExtractAll(ctx, topURLs)
	if len(contents) == 0 {
		return SourceAnalysis{NoSources: true, NoSourcesReason: reasonNoExtractable}, nil
	}

	extracted := make([]database.ExtractedArticle, len(contents))
	for i, c := range contents {
		extracted[i] = database.ExtractedArticle{URL: c.URL, Title: c.Title, Text: c.Text}
	}

	if report != nil {
		report("summarizing", 55)
	}
	summaries := make([]database.ArticleSummary, 0, len(extracted))
	for _, article := range extracted {
		summary, err := p.engine.Summarize(ctx, article)
		if err != nil {
			return SourceAnalysis{}, err
		}
		summaries = append(summaries, summary)
	}

	if report != nil {
		report("analyzing", 70)
	}
	analysis, err := p.engine.Analyze(ctx, req.Query, summaries)
	if err != nil {
		return SourceAnalysis{}, err
	}

	return SourceAnalysis{
		Sources:   topURLs,
		Extracted: extracted,
		Summaries: summaries,
		Report:    analysis,
	}, nil
}

// ProcessRun executes the full run pipeline for one task record.
// There is no query-only fallback here: no qualifying sources is a
// terminal failure.
func (p *Pipeline) ProcessRun(ctx context.Context, taskID string, req Request) {
	p.start(taskID, "collecting_sources", 10)

	analysis, err := p.buildSourceAnalysis(ctx, req, func(stage string, percent int) {
		p.checkpoint(taskID, stage, percent)
	})
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}
	if analysis.NoSources {
		p.fail(taskID, analysis.NoSourcesReason)
		return
	}

	artifacts := database.Artifacts{
		Sources:           analysis.Sources,
		ExtractedArticles: analysis.Extracted,
		Summaries:         analysis.Summaries,
		SEOAnalysis:       analysis.Report,
	}
	p.checkpointWithArtifacts(taskID, "writing_article", 85, &artifacts)

	article, err := p.engine.WriteArticle(ctx, req.Query, analysis.Report)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	p.checkpoint(taskID, "exporting_output", 95)
	exportLink, err := p.exporter.ToLocalDoc(req.Query, article)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	artifacts.ArticleMarkdown = article
	artifacts.ExportLink = exportLink
	p.complete(taskID, &artifacts)
}

// ProcessBrief executes the brief pipeline, degrading to a query-only
// brief when no sources qualify.
func (p *Pipeline) ProcessBrief(ctx context.Context, taskID string, req Request) {
	p.start(taskID, "collecting_sources", 10)
	cust := p.customizationFor(taskID)

	analysis, err := p.buildSourceAnalysis(ctx, req, nil)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	var briefMarkdown string
	if analysis.NoSources {
		analysis.Report = noSourcesAnalysis
		p.checkpoint(taskID, "building_brief", 78)
		briefMarkdown, err = p.engine.BuildBriefFromQuery(ctx, req.Query, cust)
	} else {
		p.checkpoint(taskID, "building_brief", 78)
		briefMarkdown, err = p.engine.BuildBrief(ctx, req.Query, analysis.Summaries, analysis.Report, cust)
	}
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	p.complete(taskID, &database.Artifacts{
		Sources:           analysis.Sources,
		ExtractedArticles: analysis.Extracted,
		Summaries:         analysis.Summaries,
		SEOAnalysis:       analysis.Report,
		BriefMarkdown:     briefMarkdown,
	})
}

// ProcessArticleFromBrief writes an article from an existing brief's
// markdown. The source brief record is never mutated.
func (p *Pipeline) ProcessArticleFromBrief(ctx context.Context, taskID, query, sourceBriefID, briefMarkdown string) {
	p.start(taskID, "writing_article", 15)
	cust := p.customizationFor(taskID)

	article, err := p.engine.WriteArticleFromBrief(ctx, query, briefMarkdown, cust)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	p.checkpoint(taskID, "exporting_output", 90)
	exportQuery := query
	if exportQuery == "" {
		exportQuery = "content-article"
	}
	exportLink, err := p.exporter.ToLocalDoc(exportQuery, article)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	p.complete(taskID, &database.Artifacts{
		SourceBriefID:       sourceBriefID,
		SourceBriefMarkdown: briefMarkdown,
		ArticleMarkdown:     article,
		ExportLink:          exportLink,
	})
}

// ProcessQuickDraft runs the full analysis chain inline, building an
// internal brief that is never persisted as its own record, then
// writes and exports the article.
func (p *Pipeline) ProcessQuickDraft(ctx context.Context, taskID string, req Request) {
	p.start(taskID, "collecting_sources", 10)
	cust := p.customizationFor(taskID)

	analysis, err := p.buildSourceAnalysis(ctx, req, nil)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	var briefMarkdown string
	if analysis.NoSources {
		p.checkpoint(taskID, "building_internal_brief", 72)
		briefMarkdown, err = p.engine.BuildBriefFromQuery(ctx, req.Query, cust)
	} else {
		p.checkpoint(taskID, "building_internal_brief", 72)
		briefMarkdown, err = p.engine.BuildBrief(ctx, req.Query, analysis.Summaries, analysis.Report, cust)
	}
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	p.checkpoint(taskID, "writing_article", 84)
	article, err := p.engine.WriteArticleFromBrief(ctx, req.Query, briefMarkdown, cust)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	p.checkpoint(taskID, "exporting_output", 95)
	exportQuery := req.Query
	if exportQuery == "" {
		exportQuery = "quick-draft"
	}
	exportLink, err := p.exporter.ToLocalDoc(exportQuery, article)
	if err != nil {
		p.fail(taskID, err.Error())
		return
	}

	p.complete(taskID, &database.Artifacts{
		SourceBriefMarkdown: briefMarkdown,
		ArticleMarkdown:     article,
		ExportLink:          exportLink,
	})
}

// customizationFor loads the task owner's brand and prompt settings.
// A missing record or settings row yields the zero customization.
func (p *Pipeline) customizationFor(taskID string) seo.Customization {
	rec, err := p.db.GetTaskByID(taskID)
	if err != nil || rec == nil {
		return seo.Customization{}
	}
	settings, err := p.db.GetUserSettings(rec.UserID)
	if err != nil || settings == nil {
		return seo.Customization{}
	}
	return seo.Customization{
		BrandName:            settings.BrandName,
		BrandURL:             settings.BrandURL,
		BriefPromptOverride:  settings.BriefPromptOverride,
		WriterPromptOverride: settings.WriterPromptOverride,
	}
}

func (p *Pipeline) start(taskID, stage string, percent int) {
	status := database.StatusRunning
	p.update(taskID, database.TaskUpdate{
		Status:     &status,
		Stage:      &stage,
		Progress:   &percent,
		ClearError: true,
	})
}

func (p *Pipeline) checkpoint(taskID, stage string, percent int) {
	p.update(taskID, database.TaskUpdate{Stage: &stage, Progress: &percent})
}

func (p *Pipeline) checkpointWithArtifacts(taskID, stage string, percent int, artifacts *database.Artifacts) {
	p.update(taskID, database.TaskUpdate{Stage: &stage, Progress: &percent, Artifacts: artifacts})
}

func (p *Pipeline) complete(taskID string, artifacts *database.Artifacts) {
	status := database.StatusCompleted
	stage := "completed"
	percent := 100
	p.update(taskID, database.TaskUpdate{
		Status:    &status,
		Stage:     &stage,
		Progress:  &percent,
		Artifacts: artifacts,
	})
	log.Printf("Task %s completed", taskID)
}

func (p *Pipeline) fail(taskID, message string) {
	status := database.StatusFailed
	stage := "failed"
	percent := 100
	p.update(taskID, database.TaskUpdate{
		Status:   &status,
		Stage:    &stage,
		Progress: &percent,
		Error:    &message,
	})
	log.Printf("Task %s failed: %s", taskID, message)
}

func (p *Pipeline) update(taskID string, u database.TaskUpdate) {
	if _, err := p.db.UpdateTask(taskID, u); err != nil {
		log.Printf("Error updating task %s: %v", taskID, err)
	}
}
