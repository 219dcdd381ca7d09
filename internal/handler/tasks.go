package handler

import (
	"net/http"

	"github.com/ronsway/MakeMyDay/internal/model"
	"github.com/ronsway/MakeMyDay/internal/repository"
	"github.com/ronsway/MakeMyDay/internal/service"
	"github.com/ronsway/MakeMyDay/internal/version"

	"github.com/gin-gonic/gin"
)

// TasksHandler handles task query HTTP requests
type TasksHandler struct {
	repo     *repository.PostgresRepository
	ingest   *service.IngestService
	timezone string
}

// NewTasksHandler creates a new tasks handler
func NewTasksHandler(repo *repository.PostgresRepository, ingest *service.IngestService, timezone string) *TasksHandler {
	return &TasksHandler{repo: repo, ingest: ingest, timezone: timezone}
}

// List handles GET /api/tasks - today's tasks, urgent first
func (h *TasksHandler) List(c *gin.Context) {
	today := h.ingest.LocalToday()

	tasks, err := h.repo.TasksDueOn(c.Request.Context(), today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks: " + err.Error()})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	c.JSON(http.StatusOK, model.TaskListResponse{
		Tasks:      tasks,
		Count:      len(tasks),
		Timezone:   h.timezone,
		Version:    version.AppVersion,
		APIVersion: version.CurrentAPIVersion,
	})
}

// Complete handles PUT /api/tasks/:id/complete
func (h *TasksHandler) Complete(c *gin.Context) {
	taskID := c.Param("id")

	task, err := h.repo.CompleteTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task: " + err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       task.ID,
		"status":   task.Status,
		"timezone": h.timezone,
	})
}
