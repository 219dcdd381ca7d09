package handler

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/ronsway/MakeMyDay/internal/model"
	"github.com/ronsway/MakeMyDay/internal/service"
	"github.com/ronsway/MakeMyDay/internal/version"

	"github.com/gin-gonic/gin"
)

// IngestHandler handles message ingestion HTTP requests
type IngestHandler struct {
	ingestService *service.IngestService
	defaultSource string
	maxLength     int
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService *service.IngestService, defaultSource string, maxLength int) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		defaultSource: defaultSource,
		maxLength:     maxLength,
	}
}

var validSources = map[string]bool{
	"whatsapp": true,
	"email":    true,
	"sms":      true,
}

// Ingest handles POST /api/ingest
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req model.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if h.maxLength > 0 && utf8.RuneCountInString(req.MessageContent) > h.maxLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Message exceeds maximum length of %d characters", h.maxLength)})
		return
	}

	source := req.Source
	if source == "" {
		source = h.defaultSource
	}
	if !validSources[source] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source. Must be one of: whatsapp, email, sms"})
		return
	}

	response, err := h.ingestService.Ingest(c.Request.Context(), UserID(c), req.MessageContent, source)
	if err != nil {
		if errors.Is(err, service.ErrNoActionableContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No actionable content detected in message"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed: " + err.Error()})
		return
	}
	response.Version = version.AppVersion
	response.APIVersion = version.CurrentAPIVersion

	c.JSON(http.StatusOK, response)
}
