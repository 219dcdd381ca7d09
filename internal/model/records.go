package model

import "time"

// Message is a stored inbound message, kept alongside its parse result
type Message struct {
	ID        string    `json:"id" db:"id"`
	Source    string    `json:"source" db:"source"` // whatsapp | email | sms
	RawText   string    `json:"raw_text" db:"raw_text"`
	Parsed    string    `json:"parsed,omitempty" db:"parsed"` // JSON-encoded []ParsedEntity
	Hash      string    `json:"hash" db:"hash"`
	TS        time.Time `json:"ts" db:"ts"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Task is a persisted task row built from a task-typed ParsedEntity
type Task struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Category  string    `json:"category" db:"category"`
	Priority  string    `json:"priority" db:"priority"`
	DueDate   *string   `json:"due_date,omitempty" db:"due_date"` // YYYY-MM-DD
	Status    string    `json:"status" db:"status"`               // open | done
	MessageID *string   `json:"message_id,omitempty" db:"message_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Event is a persisted calendar event row built from an event-typed ParsedEntity
type Event struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	StartTime string    `json:"start_time" db:"start_time"` // YYYY-MM-DDTHH:MM:SS local
	Location  *string   `json:"location,omitempty" db:"location"`
	MessageID *string   `json:"message_id,omitempty" db:"message_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// User is a registered account
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Verified     bool       `json:"verified" db:"verified"`
	VerifyToken  *string    `json:"-" db:"verify_token"`
	ResetToken   *string    `json:"-" db:"reset_token"`
	ResetExpires *time.Time `json:"-" db:"reset_expires"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Session is a refresh-token session row
type Session struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	UserAgent    *string   `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress    *string   `json:"ip_address,omitempty" db:"ip_address"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AnalyticsRecord tracks per-day automation savings
type AnalyticsRecord struct {
	ID               string    `json:"id" db:"id"`
	Period           string    `json:"period" db:"period"` // YYYY-MM-DD
	TasksCreated     int       `json:"tasks_created" db:"tasks_created"`
	EventsCreated    int       `json:"events_created" db:"events_created"`
	TimeSavedMinutes int       `json:"time_saved_minutes" db:"time_saved_minutes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
