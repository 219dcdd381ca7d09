package handler

import (
	"net/http"

	"github.com/ronsway/MakeMyDay/internal/model"
	"github.com/ronsway/MakeMyDay/internal/repository"
	"github.com/ronsway/MakeMyDay/internal/version"

	"github.com/gin-gonic/gin"
)

const analyticsWindow = 30

// AnalyticsHandler serves automation savings summaries
type AnalyticsHandler struct {
	repo     *repository.PostgresRepository
	timezone string
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(repo *repository.PostgresRepository, timezone string) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo, timezone: timezone}
}

// Summary handles GET /api/analytics - last 30 daily records with totals
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	records, err := h.repo.RecentAnalytics(c.Request.Context(), analyticsWindow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics: " + err.Error()})
		return
	}
	if records == nil {
		records = []model.AnalyticsRecord{}
	}

	total := 0
	for _, r := range records {
		total += r.TimeSavedMinutes
	}
	average := 0
	if len(records) > 0 {
		average = total / len(records)
	}

	c.JSON(http.StatusOK, model.AnalyticsResponse{
		TotalMinutesSaved:   total,
		AverageDailyMinutes: average,
		RecentData:          records,
		Timezone:            h.timezone,
		Version:             version.AppVersion,
		APIVersion:          version.CurrentAPIVersion,
	})
}
