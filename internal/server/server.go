// Package server exposes the REST API: session auth, task creation
// and retrieval for runs, briefs and articles, settings, and markdown
// previews.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"

	"github.com/rankdraft/rankdraft/internal/config"
	"github.com/rankdraft/rankdraft/internal/database"
	"github.com/rankdraft/rankdraft/internal/task"
)

const sessionCookie = "session_token"

// Server holds the API's dependencies.
type Server struct {
	db           *database.DB
	pipeline     *task.Pipeline
	pool         *task.Pool
	markdown     goldmark.Markdown
	sessionTTL   time.Duration
	cookieSecure bool
}

// New creates a Server.
func New(db *database.DB, pipeline *task.Pipeline, pool *task.Pool, cfg *config.Config) *Server {
	return &Server{
		db:           db,
		pipeline:     pipeline,
		pool:         pool,
		markdown:     goldmark.New(),
		sessionTTL:   time.Duration(cfg.Auth.SessionTTLDays) * 24 * time.Hour,
		cookieSecure: cfg.Auth.CookieSecure,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), corsMiddleware())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/logout", s.handleLogout)

	authed := api.Group("")
	authed.Use(s.requireAuth())
	authed.GET("/auth/me", s.handleMe)

	authed.POST("/runs", s.handleCreateRun)
	authed.GET("/runs", s.listTasksHandler(database.TaskRun))
	authed.GET("/runs/:id", s.getTaskHandler(database.TaskRun))

	authed.POST("/briefs", s.handleCreateBrief)
	authed.GET("/briefs", s.listTasksHandler(database.TaskBrief))
	authed.GET("/briefs/:id", s.getTaskHandler(database.TaskBrief))
	authed.PATCH("/briefs/:id", s.handleEditBrief)
	authed.GET("/briefs/:id/preview", s.previewHandler(database.TaskBrief))

	authed.POST("/articles", s.handleCreateArticle)
	authed.GET("/articles", s.listTasksHandler(database.TaskArticle))
	authed.GET("/articles/:id", s.getTaskHandler(database.TaskArticle))
	authed.GET("/articles/:id/preview", s.previewHandler(database.TaskArticle))

	authed.GET("/settings", s.handleGetSettings)
	authed.PUT("/settings", s.handleUpdateSettings)

	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"active_tasks": s.pool.Snapshot(),
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requireAuth resolves the session cookie to a user and stores it in
// the request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, err := s.db.GetUserBySession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *database.User {
	return c.MustGet("user").(*database.User)
}

func (s *Server) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(ttl.Seconds()), "/", "", s.cookieSecure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.cookieSecure, true)
}

func errorJSON(c *gin.Context, status int, format string, args ...any) {
	c.JSON(status, gin.H{"error": fmt.Sprintf(format, args...)})
}
