package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker/internal/models"
)

// handleListTasks returns tasks filtered by the query string.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.repo.ListTasks(c.Request.Context(), listParams(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

func (s *Server) handleTasksByStatus(c *gin.Context) {
	tasks, err := s.repo.ListTasksByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

func (s *Server) handleOverdueTasks(c *gin.Context) {
	tasks, err := s.repo.ListOverdueTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleTeamMembers lists everyone tasks are assigned to.
func (s *Server) handleTeamMembers(c *gin.Context) {
	roster, err := s.repo.TeamMemberRoster(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, roster)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.repo.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleCreateTask inserts a new task.
func (s *Server) handleCreateTask(c *gin.Context) {
	patch, ok := s.taskPatch(c)
	if !ok {
		return
	}
	task, err := s.repo.CreateTask(c.Request.Context(), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, task)
}

// handleUpdateTask applies the fields present in the body.
func (s *Server) handleUpdateTask(c *gin.Context) {
	patch, ok := s.taskPatch(c)
	if !ok {
		return
	}
	task, err := s.repo.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	task, err := s.repo.MarkTaskCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleChangeTaskStatus decodes the body as a task patch and uses its status.
func (s *Server) handleChangeTaskStatus(c *gin.Context) {
	patch, ok := s.taskPatch(c)
	if !ok {
		return
	}
	if !patch.Status.Present() {
		verr := &models.ValidationError{Entity: "task"}
		verr.Add("status", "status is required and must be non-empty")
		s.respondError(c, verr)
		return
	}
	task, err := s.repo.ChangeTaskStatus(c.Request.Context(), c.Param("id"), patch.Status.Value)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task permanently.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.repo.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (s *Server) taskPatch(c *gin.Context) (models.TaskPatch, bool) {
	data, err := readBody(c)
	if err == nil {
		var patch models.TaskPatch
		if patch, err = models.DecodeTaskPatch(data); err == nil {
			return patch, true
		}
	}
	s.respondError(c, err)
	return models.TaskPatch{}, false
}
