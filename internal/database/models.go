package database

import "time"

// TaskKind discriminates the three pipeline record variants.
type TaskKind string

const (
	TaskRun     TaskKind = "run"
	TaskBrief   TaskKind = "brief"
	TaskArticle TaskKind = "article"
)

// TaskStatus is the lifecycle state of a task record.
// Transitions only move forward: queued -> running -> completed | failed.
type TaskStatus string

const (
	StatusQueued    TaskStatus = "queued"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// Article modes.
const (
	ModeFromBrief       = "from_brief"
	ModeFromCustomBrief = "from_custom_brief"
	ModeQuickDraft      = "quick_draft"
)

// ExtractedArticle is the readable content pulled from one URL.
type ExtractedArticle struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ArticleSummary pairs a source URL with its structured summary.
type ArticleSummary struct {
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// Artifacts is the accumulated output payload of a task record.
// Fields are appended as stages complete; the kind determines which
// fields are populated (run/brief share the analysis chain, article
// carries the brief back-reference).
type Artifacts struct {
	Sources             []string           `json:"sources,omitempty"`
	ExtractedArticles   []ExtractedArticle `json:"extracted_articles,omitempty"`
	Summaries           []ArticleSummary   `json:"summaries,omitempty"`
	SEOAnalysis         string             `json:"seo_analysis,omitempty"`
	ArticleMarkdown     string             `json:"article_markdown,omitempty"`
	BriefMarkdown       string             `json:"brief_markdown,omitempty"`
	SourceBriefID       string             `json:"source_brief_id,omitempty"`
	SourceBriefMarkdown string             `json:"source_brief_markdown,omitempty"`
	ExportLink          string             `json:"export_link,omitempty"`
}

// TaskRecord is a persisted unit of pipeline work.
type TaskRecord struct {
	ID              string     `json:"id"`
	UserID          string     `json:"-"`
	Kind            TaskKind   `json:"-"`
	Query           string     `json:"query"`
	Mode            string     `json:"mode,omitempty"`
	Status          TaskStatus `json:"status"`
	Stage           string     `json:"stage"`
	ProgressPercent int        `json:"progress_percent"`
	Error           *string    `json:"error"`
	Artifacts       Artifacts  `json:"artifacts"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TaskUpdate describes a partial mutation of a task record.
// Nil fields are left untouched; updated_at is always refreshed.
type TaskUpdate struct {
	Status     *TaskStatus
	Stage      *string
	Progress   *int
	Error      *string
	ClearError bool
	Artifacts  *Artifacts
}

// User is the public view of an account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSettings carries per-user brand and prompt customization
// consumed by the brief builder and writer.
type UserSettings struct {
	UserID               string `json:"-"`
	Name                 string `json:"name"`
	BrandName            string `json:"brand_name"`
	BrandURL             string `json:"brand_url"`
	BriefPromptOverride  string `json:"brief_prompt_override"`
	WriterPromptOverride string `json:"writer_prompt_override"`
}
