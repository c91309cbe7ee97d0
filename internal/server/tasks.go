package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankdraft/rankdraft/internal/database"
	"github.com/rankdraft/rankdraft/internal/task"
)

const defaultListLimit = 100

type pipelineRequest struct {
	Query         string   `json:"query" binding:"required,min=3"`
	SeedURLs      []string `json:"seed_urls"`
	CitationsText string   `json:"ai_citations_text"`
	OverviewText  string   `json:"ai_overview_text"`
}

func (r pipelineRequest) toRequest() task.Request {
	return task.Request{
		Query:         r.Query,
		SeedURLs:      r.SeedURLs,
		CitationsText: r.CitationsText,
		OverviewText:  r.OverviewText,
	}
}

type articleRequest struct {
	Mode                string `json:"mode" binding:"required"`
	Query               string `json:"query"`
	BriefID             string `json:"brief_id"`
	CustomBriefMarkdown string `json:"custom_brief_markdown"`
}

type editBriefRequest struct {
	BriefMarkdown string `json:"brief_markdown" binding:"required,min=20"`
}

func (s *Server) handleCreateRun(c *gin.Context) {
	var req pipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}
	user := currentUser(c)

	rec, err := s.db.CreateTask(user.ID, database.TaskRun, req.Query, "", database.Artifacts{})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create run")
		return
	}

	pipelineReq := req.toRequest()
	s.submit(c, rec, func(ctx context.Context) {
		s.pipeline.ProcessRun(ctx, rec.ID, pipelineReq)
	})
}

func (s *Server) handleCreateBrief(c *gin.Context) {
	var req pipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}
	user := currentUser(c)

	rec, err := s.db.CreateTask(user.ID, database.TaskBrief, req.Query, "", database.Artifacts{})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create brief")
		return
	}

	pipelineReq := req.toRequest()
	s.submit(c, rec, func(ctx context.Context) {
		s.pipeline.ProcessBrief(ctx, rec.ID, pipelineReq)
	})
}

func (s *Server) handleCreateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}
	user := currentUser(c)

	switch req.Mode {
	case database.ModeFromBrief:
		s.createArticleFromBrief(c, user, req)
	case database.ModeFromCustomBrief:
		s.createArticleFromCustomBrief(c, user, req)
	case database.ModeQuickDraft:
		s.createQuickDraft(c, user, req)
	default:
		errorJSON(c, http.StatusBadRequest, "unsupported mode %q", req.Mode)
	}
}

func (s *Server) createArticleFromBrief(c *gin.Context, user *database.User, req articleRequest) {
	if req.BriefID == "" {
		errorJSON(c, http.StatusBadRequest, "brief_id is required for mode %s", database.ModeFromBrief)
		return
	}
	brief, err := s.db.GetTask(user.ID, req.BriefID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to load brief")
		return
	}
	if brief == nil || brief.Kind != database.TaskBrief {
		errorJSON(c, http.StatusNotFound, "brief not found")
		return
	}
	if brief.Artifacts.BriefMarkdown == "" {
		errorJSON(c, http.StatusBadRequest, "brief has no markdown yet; wait for it to complete")
		return
	}

	query := req.Query
	if query == "" {
		query = brief.Query
	}
	rec, err := s.db.CreateTask(user.ID, database.TaskArticle, query, database.ModeFromBrief, database.Artifacts{})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create article")
		return
	}

	briefID, briefMarkdown := brief.ID, brief.Artifacts.BriefMarkdown
	s.submit(c, rec, func(ctx context.Context) {
		s.pipeline.ProcessArticleFromBrief(ctx, rec.ID, query, briefID, briefMarkdown)
	})
}

func (s *Server) createArticleFromCustomBrief(c *gin.Context, user *database.User, req articleRequest) {
	if req.CustomBriefMarkdown == "" || req.Query == "" {
		errorJSON(c, http.StatusBadRequest, "query and custom_brief_markdown are required for mode %s", database.ModeFromCustomBrief)
		return
	}

	rec, err := s.db.CreateTask(user.ID, database.TaskArticle, req.Query, database.ModeFromCustomBrief, database.Artifacts{})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create article")
		return
	}

	query, briefMarkdown := req.Query, req.CustomBriefMarkdown
	s.submit(c, rec, func(ctx context.Context) {
		s.pipeline.ProcessArticleFromBrief(ctx, rec.ID, query, "", briefMarkdown)
	})
}

func (s *Server) createQuickDraft(c *gin.Context, user *database.User, req articleRequest) {
	if req.Query == "" {
		errorJSON(c, http.StatusBadRequest, "query is required for mode %s", database.ModeQuickDraft)
		return
	}

	rec, err := s.db.CreateTask(user.ID, database.TaskArticle, req.Query, database.ModeQuickDraft, database.Artifacts{})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create article")
		return
	}

	pipelineReq := task.Request{Query: req.Query}
	s.submit(c, rec, func(ctx context.Context) {
		s.pipeline.ProcessQuickDraft(ctx, rec.ID, pipelineReq)
	})
}

// submit enqueues the background job for a freshly created record.
// When the queue is full the record is marked failed and the client
// gets a 503.
func (s *Server) submit(c *gin.Context, rec *database.TaskRecord, run func(ctx context.Context)) {
	err := s.pool.Enqueue(task.Job{TaskID: rec.ID, Run: run})
	if errors.Is(err, task.ErrQueueFull) {
		status := database.StatusFailed
		stage := "failed"
		progress := 100
		msg := "task queue is full; try again later"
		s.db.UpdateTask(rec.ID, database.TaskUpdate{
			Status:   &status,
			Stage:    &stage,
			Progress: &progress,
			Error:    &msg,
		})
		errorJSON(c, http.StatusServiceUnavailable, "task queue is full; try again later")
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to enqueue task")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) listTasksHandler(kind database.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		records, err := s.db.ListTasks(user.ID, kind, defaultListLimit)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "failed to list tasks")
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func (s *Server) getTaskHandler(kind database.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := s.loadOwnedTask(c, kind)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (s *Server) handleEditBrief(c *gin.Context) {
	var req editBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}

	rec, ok := s.loadOwnedTask(c, database.TaskBrief)
	if !ok {
		return
	}

	artifacts := rec.Artifacts
	artifacts.BriefMarkdown = req.BriefMarkdown
	stage := "edited_draft"
	updated, err := s.db.UpdateTask(rec.ID, database.TaskUpdate{
		Stage:     &stage,
		Artifacts: &artifacts,
	})
	if err != nil || updated == nil {
		errorJSON(c, http.StatusInternalServerError, "failed to update brief")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// previewHandler renders a task's markdown artifact as HTML. Briefs
// render their brief markdown, articles their article markdown.
func (s *Server) previewHandler(kind database.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := s.loadOwnedTask(c, kind)
		if !ok {
			return
		}

		source := rec.Artifacts.ArticleMarkdown
		if kind == database.TaskBrief {
			source = rec.Artifacts.BriefMarkdown
		}
		if source == "" {
			errorJSON(c, http.StatusNotFound, "no markdown available yet")
			return
		}

		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(source), &buf); err != nil {
			errorJSON(c, http.StatusInternalServerError, "failed to render markdown")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	}
}

// loadOwnedTask fetches the :id task scoped to the session user and
// checked against the expected kind. It writes the error response
// itself when the task cannot be served.
func (s *Server) loadOwnedTask(c *gin.Context, kind database.TaskKind) (*database.TaskRecord, bool) {
	user := currentUser(c)
	rec, err := s.db.GetTask(user.ID, c.Param("id"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to load task")
		return nil, false
	}
	if rec == nil || rec.Kind != kind {
		errorJSON(c, http.StatusNotFound, "not found")
		return nil, false
	}
	return rec, true
}
