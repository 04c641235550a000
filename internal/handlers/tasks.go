package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kyrix/api/internal/middleware"
	"kyrix/api/internal/repository"
	"kyrix/api/internal/security"
	"kyrix/api/internal/service"
)

// parseTaskDate accepts the bare calendar form the client's date input
// produces, plus full RFC 3339 from programmatic callers.
func parseTaskDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (h HandlerSet) currentClaims(c *gin.Context) (*security.SessionClaims, bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return claims, true
}

func (h HandlerSet) ListTasks(c *gin.Context) {
	claims, ok := h.currentClaims(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("list tasks failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title    string  `json:"title"`
	Date     string  `json:"date"`
	Time     *string `json:"time"`
	Category string  `json:"category"`
	Priority string  `json:"priority"`
}

func (h HandlerSet) CreateTask(c *gin.Context) {
	claims, ok := h.currentClaims(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and date are required"})
		return
	}
	if req.Title == "" || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and date are required"})
		return
	}

	date, err := parseTaskDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), service.CreateTaskInput{
		UserID:   claims.UserID,
		Title:    req.Title,
		Date:     date,
		Time:     req.Time,
		Category: req.Category,
		Priority: req.Priority,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.log.Error().Err(err).Msg("create task failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, task)
}

type patchTaskRequest struct {
	Completed *bool `json:"completed"`
}

func (h HandlerSet) PatchTask(c *gin.Context) {
	claims, ok := h.currentClaims(c)
	if !ok {
		return
	}

	var req patchTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	task, err := h.tasks.SetCompleted(c.Request.Context(), claims.UserID, c.Param("id"), *req.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.log.Error().Err(err).Msg("patch task failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, task)
}

type updateTaskRequest struct {
	Title string  `json:"title"`
	Date  string  `json:"date"`
	Time  *string `json:"time"`
}

func (h HandlerSet) UpdateTask(c *gin.Context) {
	claims, ok := h.currentClaims(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and date are required"})
		return
	}
	if req.Title == "" || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and date are required"})
		return
	}

	date, err := parseTaskDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), claims.UserID, c.Param("id"), req.Title, date, req.Time)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.log.Error().Err(err).Msg("update task failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h HandlerSet) DeleteTask(c *gin.Context) {
	claims, ok := h.currentClaims(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.log.Error().Err(err).Msg("delete task failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
