package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/service"
)

// handleListTasks returns all tasks matching the query string filters.
func (s *Server) handleListTasks(c *gin.Context) {
	query, err := service.ParseListQuery(c.Query("status"), c.Query("priority"), c.Query("sortBy"), c.Query("order"))
	if err != nil {
		s.respondError(c, err, "Failed to fetch tasks")
		return
	}

	tasks, err := s.tasks.List(c.Request.Context(), query)
	if err != nil {
		s.respondError(c, err, "Failed to fetch tasks")
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleGetTask returns one task.
func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err, "Failed to fetch task")
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleCreateTask stores a new pending task.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req models.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err, "Failed to create task")
		return
	}
	respondSuccess(c, http.StatusCreated, task)
}

// handleUpdateTask applies a partial update. Fields missing from the body stay
// untouched; a missing body is an empty patch.
func (s *Server) handleUpdateTask(c *gin.Context) {
	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err, "Failed to update task")
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleToggleTask flips a task between PENDING and COMPLETED.
func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.tasks.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err, "Failed to toggle task status")
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err, "Failed to delete task")
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}

// handleStats returns the overview counters.
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.tasks.Stats(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "Failed to fetch task statistics")
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}
