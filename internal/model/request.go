package model

// IngestRequest represents a message ingestion request
type IngestRequest struct {
	MessageContent string `json:"messageContent" binding:"required,min=1"`
	Source         string `json:"source"` // whatsapp | email | sms, defaults to whatsapp
}

// IngestResult is one created record inside an IngestResponse
type IngestResult struct {
	Type string      `json:"type"` // task | event
	ID   string      `json:"id"`
	Data interface{} `json:"data"`
}

// IngestResponse represents the result of a message ingestion
type IngestResponse struct {
	MessageID         string         `json:"messageId"`
	EntitiesProcessed int            `json:"entitiesProcessed"`
	Results           []IngestResult `json:"results"`
	Timezone          string         `json:"timezone"`
	Version           string         `json:"version"`
	APIVersion        string         `json:"apiVersion"`
}

// TaskListResponse wraps a task query result
type TaskListResponse struct {
	Tasks      []Task `json:"tasks"`
	Count      int    `json:"count"`
	Timezone   string `json:"timezone"`
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
}

// EventListResponse wraps an event query result
type EventListResponse struct {
	Events     []Event `json:"events"`
	Count      int     `json:"count"`
	Timezone   string  `json:"timezone"`
	Version    string  `json:"version"`
	APIVersion string  `json:"apiVersion"`
}

// AnalyticsResponse summarises recent automation savings
type AnalyticsResponse struct {
	TotalMinutesSaved   int               `json:"totalMinutesSaved"`
	AverageDailyMinutes int               `json:"averageDailyMinutes"`
	RecentData          []AnalyticsRecord `json:"recentData"`
	Timezone            string            `json:"timezone"`
	Version             string            `json:"version"`
	APIVersion          string            `json:"apiVersion"`
}

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     string  `json:"name" binding:"required,min=2"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthTokens is a freshly issued token pair
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// UpdateProfileRequest is the payload for profile edits
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ChangePasswordRequest is the payload for authenticated password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset with the emailed token
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
