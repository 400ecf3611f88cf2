package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker/internal/models"
)

// handleListUsers returns users filtered by the query string.
func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.repo.ListUsers(c.Request.Context(), listParams(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

func (s *Server) handleActiveUsers(c *gin.Context) {
	users, err := s.repo.ListActiveUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

func (s *Server) handleUsersByRole(c *gin.Context) {
	users, err := s.repo.ListUsersByRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// handleCreateUser registers a user; duplicate emails answer 409.
func (s *Server) handleCreateUser(c *gin.Context) {
	patch, ok := s.userPatch(c)
	if !ok {
		return
	}
	user, err := s.repo.CreateUser(c.Request.Context(), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	patch, ok := s.userPatch(c)
	if !ok {
		return
	}
	user, err := s.repo.UpdateUser(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.repo.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// handleUserLogin stamps last_login.
func (s *Server) handleUserLogin(c *gin.Context) {
	user, err := s.repo.TouchLastLogin(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

func (s *Server) userPatch(c *gin.Context) (models.UserPatch, bool) {
	data, err := readBody(c)
	if err == nil {
		var patch models.UserPatch
		if patch, err = models.DecodeUserPatch(data); err == nil {
			return patch, true
		}
	}
	s.respondError(c, err)
	return models.UserPatch{}, false
}
