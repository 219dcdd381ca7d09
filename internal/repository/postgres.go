package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ronsway/MakeMyDay/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping verifies database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateMessage stores an inbound message with its parse result
func (r *PostgresRepository) CreateMessage(ctx context.Context, source, rawText, parsed, hash string, ts time.Time) (*model.Message, error) {
	msg := &model.Message{
		ID:      uuid.NewString(),
		Source:  source,
		RawText: rawText,
		Parsed:  parsed,
		Hash:    hash,
		TS:      ts,
	}
	query := `
		INSERT INTO messages (id, source, raw_text, parsed, hash, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query, msg.ID, msg.Source, msg.RawText, msg.Parsed, msg.Hash, msg.TS).
		Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// CreateTask persists a task row
func (r *PostgresRepository) CreateTask(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = "open"
	}
	query := `
		INSERT INTO tasks (id, user_id, title, category, priority, due_date, status, message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Category, task.Priority,
		task.DueDate, task.Status, task.MessageID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// CreateEvent persists an event row
func (r *PostgresRepository) CreateEvent(ctx context.Context, event *model.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (id, user_id, title, start_time, location, message_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		event.ID, event.UserID, event.Title, event.StartTime, event.Location, event.MessageID,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// TasksDueOn returns tasks due on the given YYYY-MM-DD date, urgent first
func (r *PostgresRepository) TasksDueOn(ctx context.Context, date string) ([]model.Task, error) {
	var tasks []model.Task
	query := `
		SELECT id, user_id, title, category, priority, due_date, status, message_id, created_at, updated_at
		FROM tasks
		WHERE due_date = $1
		ORDER BY (priority = 'high') DESC, created_at DESC
	`
	if err := r.db.SelectContext(ctx, &tasks, query, date); err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

// OverdueOpenTasks returns open tasks whose due date is strictly before the
// given YYYY-MM-DD date
func (r *PostgresRepository) OverdueOpenTasks(ctx context.Context, date string) ([]model.Task, error) {
	var tasks []model.Task
	query := `
		SELECT id, user_id, title, category, priority, due_date, status, message_id, created_at, updated_at
		FROM tasks
		WHERE status = 'open' AND due_date IS NOT NULL AND due_date < $1
		ORDER BY due_date ASC
	`
	if err := r.db.SelectContext(ctx, &tasks, query, date); err != nil {
		return nil, fmt.Errorf("failed to fetch overdue tasks: %w", err)
	}
	return tasks, nil
}

// UrgentOpenTasks returns open high-priority tasks due on the given date
func (r *PostgresRepository) UrgentOpenTasks(ctx context.Context, date string) ([]model.Task, error) {
	var tasks []model.Task
	query := `
		SELECT id, user_id, title, category, priority, due_date, status, message_id, created_at, updated_at
		FROM tasks
		WHERE due_date = $1 AND status = 'open' AND priority = 'high'
	`
	if err := r.db.SelectContext(ctx, &tasks, query, date); err != nil {
		return nil, fmt.Errorf("failed to fetch urgent tasks: %w", err)
	}
	return tasks, nil
}

// CompleteTask marks a task done and returns the updated row
func (r *PostgresRepository) CompleteTask(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	query := `
		UPDATE tasks
		SET status = 'done', updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, title, category, priority, due_date, status, message_id, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &task, query, taskID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	return &task, nil
}

// EventsOn returns events starting on the given YYYY-MM-DD date
func (r *PostgresRepository) EventsOn(ctx context.Context, date string) ([]model.Event, error) {
	var events []model.Event
	query := `
		SELECT id, user_id, title, start_time, location, message_id, created_at, updated_at
		FROM events
		WHERE start_time LIKE $1 || '%'
		ORDER BY start_time ASC
	`
	if err := r.db.SelectContext(ctx, &events, query, date); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// RecordAnalytics accumulates automation savings for a period
func (r *PostgresRepository) RecordAnalytics(ctx context.Context, period string, tasksCreated, eventsCreated, minutesSaved int) error {
	query := `
		INSERT INTO analytics_time (id, period, tasks_created, events_created, time_saved_minutes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (period) DO UPDATE SET
			tasks_created = analytics_time.tasks_created + EXCLUDED.tasks_created,
			events_created = analytics_time.events_created + EXCLUDED.events_created,
			time_saved_minutes = analytics_time.time_saved_minutes + EXCLUDED.time_saved_minutes
	`
	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), period, tasksCreated, eventsCreated, minutesSaved)
	if err != nil {
		return fmt.Errorf("failed to record analytics: %w", err)
	}
	return nil
}

// RecentAnalytics returns the most recent periods, newest first
func (r *PostgresRepository) RecentAnalytics(ctx context.Context, limit int) ([]model.AnalyticsRecord, error) {
	var records []model.AnalyticsRecord
	query := `
		SELECT id, period, tasks_created, events_created, time_saved_minutes, created_at
		FROM analytics_time
		ORDER BY period DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch analytics: %w", err)
	}
	return records, nil
}

// AnalyticsForPeriod returns the record for one period, nil when absent
func (r *PostgresRepository) AnalyticsForPeriod(ctx context.Context, period string) (*model.AnalyticsRecord, error) {
	var record model.AnalyticsRecord
	query := `
		SELECT id, period, tasks_created, events_created, time_saved_minutes, created_at
		FROM analytics_time
		WHERE period = $1
	`
	err := r.db.GetContext(ctx, &record, query, period)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch analytics period: %w", err)
	}
	return &record, nil
}

// DeleteAnalyticsBefore removes records created before the cutoff and
// returns the number deleted
func (r *PostgresRepository) DeleteAnalyticsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analytics_time WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up analytics: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}
