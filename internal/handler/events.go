package handler

import (
	"net/http"

	"github.com/ronsway/MakeMyDay/internal/model"
	"github.com/ronsway/MakeMyDay/internal/repository"
	"github.com/ronsway/MakeMyDay/internal/service"
	"github.com/ronsway/MakeMyDay/internal/version"

	"github.com/gin-gonic/gin"
)

// EventsHandler handles event query HTTP requests
type EventsHandler struct {
	repo     *repository.PostgresRepository
	ingest   *service.IngestService
	timezone string
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(repo *repository.PostgresRepository, ingest *service.IngestService, timezone string) *EventsHandler {
	return &EventsHandler{repo: repo, ingest: ingest, timezone: timezone}
}

// List handles GET /api/events - today's events ordered by start time
func (h *EventsHandler) List(c *gin.Context) {
	today := h.ingest.LocalToday()

	events, err := h.repo.EventsOn(c.Request.Context(), today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events: " + err.Error()})
		return
	}
	if events == nil {
		events = []model.Event{}
	}

	c.JSON(http.StatusOK, model.EventListResponse{
		Events:     events,
		Count:      len(events),
		Timezone:   h.timezone,
		Version:    version.AppVersion,
		APIVersion: version.CurrentAPIVersion,
	})
}
