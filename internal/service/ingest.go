package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ronsway/MakeMyDay/internal/model"
	"github.com/ronsway/MakeMyDay/internal/nlp"
)

// ErrNoActionableContent is returned when extraction yields nothing; the
// ingestion endpoint reports it as a client error rather than storing an
// empty parse.
var ErrNoActionableContent = errors.New("no actionable content detected in message")

// Titles used when an entity carries no item or context
const (
	defaultTaskTitle  = "משימה חדשה"
	defaultEventTitle = "אירוע חדש"
	defaultEventHour  = "09:00"
)

// IngestStore is the persistence surface the ingest service needs
type IngestStore interface {
	CreateMessage(ctx context.Context, source, rawText, parsed, hash string, ts time.Time) (*model.Message, error)
	CreateTask(ctx context.Context, task *model.Task) error
	CreateEvent(ctx context.Context, event *model.Event) error
	RecordAnalytics(ctx context.Context, period string, tasksCreated, eventsCreated, minutesSaved int) error
}

// IngestService converts inbound messages into persisted tasks and events
type IngestService struct {
	store    IngestStore
	timezone string
	now      func() time.Time
}

// NewIngestService creates a new ingest service
func NewIngestService(store IngestStore, timezone string) *IngestService {
	return &IngestService{
		store:    store,
		timezone: timezone,
		now:      time.Now,
	}
}

// Ingest parses one message and persists every extracted entity. Returns
// ErrNoActionableContent when the pipeline produces nothing.
func (s *IngestService) Ingest(ctx context.Context, userID, content, source string) (*model.IngestResponse, error) {
	now := s.now()

	entities := nlp.Parse(content, now, s.timezone)
	if len(entities) == 0 {
		return nil, ErrNoActionableContent
	}

	parsed, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parse result: %w", err)
	}

	msg, err := s.store.CreateMessage(ctx, source, content, string(parsed), messageHash(content), now)
	if err != nil {
		return nil, err
	}

	response := &model.IngestResponse{
		MessageID: msg.ID,
		Timezone:  s.timezone,
	}

	var tasksCreated, eventsCreated int
	for _, entity := range entities {
		switch entity.Type {
		case model.EntityTask:
			task := buildTask(entity, userID, msg.ID)
			if err := s.store.CreateTask(ctx, task); err != nil {
				return nil, err
			}
			tasksCreated++
			response.Results = append(response.Results, model.IngestResult{Type: "task", ID: task.ID, Data: task})
		case model.EntityEvent:
			event := buildEvent(entity, userID, msg.ID, now)
			if err := s.store.CreateEvent(ctx, event); err != nil {
				return nil, err
			}
			eventsCreated++
			response.Results = append(response.Results, model.IngestResult{Type: "event", ID: event.ID, Data: event})
		}
	}
	response.EntitiesProcessed = len(entities)

	// Record automation savings; failures here never fail the ingestion
	period := s.localDate(now)
	saved := calculateTimeSaved(tasksCreated, eventsCreated)
	if err := s.store.RecordAnalytics(ctx, period, tasksCreated, eventsCreated, saved); err != nil {
		log.Printf("Warning: failed to record analytics for %s: %v", period, err)
	}

	return response, nil
}

// LocalToday returns today's date string in the service timezone
func (s *IngestService) LocalToday() string {
	return s.localDate(s.now())
}

func (s *IngestService) localDate(t time.Time) string {
	loc, err := time.LoadLocation(s.timezone)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02")
}

// buildTask maps a task-typed entity to a task row: title from the item,
// due date from the resolved date
func buildTask(entity model.ParsedEntity, userID, messageID string) *model.Task {
	title := defaultTaskTitle
	if entity.Entities.Item != nil {
		title = *entity.Entities.Item
	}
	category := model.CategoryOther
	if entity.Entities.Category != nil {
		category = *entity.Entities.Category
	}
	priority := string(model.PriorityNormal)
	if entity.Entities.Priority != "" {
		priority = string(entity.Entities.Priority)
	}
	return &model.Task{
		UserID:    userID,
		Title:     title,
		Category:  category,
		Priority:  priority,
		DueDate:   entity.Entities.Date,
		Status:    "open",
		MessageID: &messageID,
	}
}

// buildEvent maps an event-typed entity to an event row. The start time
// combines the resolved date and time, defaulting the time to 09:00; with no
// date the event is anchored to the ingestion instant.
func buildEvent(entity model.ParsedEntity, userID, messageID string, now time.Time) *model.Event {
	title := defaultEventTitle
	if entity.Entities.Context != nil {
		title = *entity.Entities.Context
	}
	start := now.UTC().Format("2006-01-02T15:04:05")
	if entity.Entities.Date != nil {
		clock := defaultEventHour
		if entity.Entities.Time != nil {
			clock = *entity.Entities.Time
		}
		start = fmt.Sprintf("%sT%s:00", *entity.Entities.Date, clock)
	}
	return &model.Event{
		UserID:    userID,
		Title:     title,
		StartTime: start,
		Location:  entity.Entities.Location,
		MessageID: &messageID,
	}
}

// calculateTimeSaved estimates minutes of manual planning avoided: each task
// saves about 2.5 minutes, each calendar entry about 1.5
func calculateTimeSaved(tasksCount, eventsCount int) int {
	return int(math.Round(float64(tasksCount)*2.5 + float64(eventsCount)*1.5))
}

// messageHash yields a short stable identifier for deduplication and audit
func messageHash(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	if len(encoded) > 32 {
		encoded = encoded[:32]
	}
	return encoded
}
