package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker/internal/models"
)

type memberRequest struct {
	User string `json:"user"`
	Role string `json:"role"`
}

// handleListProjects returns projects filtered by the query string.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.repo.ListProjects(c.Request.Context(), listParams(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, projects)
}

func (s *Server) handleActiveProjects(c *gin.Context) {
	projects, err := s.repo.ListActiveProjects(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, projects)
}

func (s *Server) handleProjectsByMember(c *gin.Context) {
	projects, err := s.repo.ListProjectsByMember(c.Request.Context(), c.Param("user"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, projects)
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.repo.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// handleCreateProject creates a new project entity.
func (s *Server) handleCreateProject(c *gin.Context) {
	patch, ok := s.projectPatch(c)
	if !ok {
		return
	}
	project, err := s.repo.CreateProject(c.Request.Context(), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, project)
}

// handleUpdateProject applies the fields present in the body.
func (s *Server) handleUpdateProject(c *gin.Context) {
	patch, ok := s.projectPatch(c)
	if !ok {
		return
	}
	project, err := s.repo.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

// handleDeleteProject removes a project; its tasks are kept.
func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.repo.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (s *Server) handleAddTeamMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		verr := &models.ValidationError{Entity: "team member"}
		verr.Add("body", "request body must be a JSON object")
		s.respondError(c, verr)
		return
	}
	project, err := s.repo.AddTeamMember(c.Request.Context(), c.Param("id"), req.User, req.Role)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

func (s *Server) handleRemoveTeamMember(c *gin.Context) {
	project, err := s.repo.RemoveTeamMember(c.Request.Context(), c.Param("id"), c.Param("user"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, project)
}

func (s *Server) projectPatch(c *gin.Context) (models.ProjectPatch, bool) {
	data, err := readBody(c)
	if err == nil {
		var patch models.ProjectPatch
		if patch, err = models.DecodeProjectPatch(data); err == nil {
			return patch, true
		}
	}
	s.respondError(c, err)
	return models.ProjectPatch{}, false
}
