package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankdraft/rankdraft/internal/database"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}

	user, err := s.db.CreateUser(req.Email, req.Password)
	if errors.Is(err, database.ErrEmailTaken) {
		errorJSON(c, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := s.db.CreateSession(user.ID, s.sessionTTL)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create session")
		return
	}
	s.setSessionCookie(c, token, s.sessionTTL)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}

	user, err := s.db.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil {
		errorJSON(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.db.CreateSession(user.ID, s.sessionTTL)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to create session")
		return
	}
	s.setSessionCookie(c, token, s.sessionTTL)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		if err := s.db.DeleteSession(token); err != nil {
			errorJSON(c, http.StatusInternalServerError, "logout failed")
			return
		}
	}
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}
