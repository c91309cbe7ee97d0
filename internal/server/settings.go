package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankdraft/rankdraft/internal/database"
)

type settingsRequest struct {
	Name                 string `json:"name"`
	BrandName            string `json:"brand_name"`
	BrandURL             string `json:"brand_url" binding:"omitempty,url"`
	BriefPromptOverride  string `json:"brief_prompt_override"`
	WriterPromptOverride string `json:"writer_prompt_override"`
}

func (s *Server) handleGetSettings(c *gin.Context) {
	user := currentUser(c)
	settings, err := s.db.GetUserSettings(user.ID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if settings == nil {
		settings = &database.UserSettings{UserID: user.ID}
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}

	user := currentUser(c)
	updated, err := s.db.UpdateUserSettings(user.ID, database.UserSettings{
		UserID:               user.ID,
		Name:                 req.Name,
		BrandName:            req.BrandName,
		BrandURL:             req.BrandURL,
		BriefPromptOverride:  req.BriefPromptOverride,
		WriterPromptOverride: req.WriterPromptOverride,
	})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to update settings")
		return
	}
	if updated == nil {
		errorJSON(c, http.StatusNotFound, "settings not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}
