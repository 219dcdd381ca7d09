package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ronsway/MakeMyDay/internal/config"
	"github.com/ronsway/MakeMyDay/internal/model"

	"gopkg.in/gomail.v2"
)

// DigestStore is the persistence surface the digest service needs
type DigestStore interface {
	TasksDueOn(ctx context.Context, date string) ([]model.Task, error)
	OverdueOpenTasks(ctx context.Context, date string) ([]model.Task, error)
	EventsOn(ctx context.Context, date string) ([]model.Event, error)
	AnalyticsForPeriod(ctx context.Context, period string) (*model.AnalyticsRecord, error)
}

// DigestData is everything the daily digest email renders
type DigestData struct {
	Date             string
	FormattedDate    string
	Tasks            []model.Task
	OverdueTasks     []model.Task
	Events           []model.Event
	CompletionRate   float64
	MinutesSavedYday int
}

// DigestService builds and sends the daily Hebrew digest email
type DigestService struct {
	store    DigestStore
	cfg      config.DigestConfig
	timezone string
	now      func() time.Time
}

// NewDigestService creates a new digest service
func NewDigestService(store DigestStore, cfg config.DigestConfig, timezone string) *DigestService {
	return &DigestService{
		store:    store,
		cfg:      cfg,
		timezone: timezone,
		now:      time.Now,
	}
}

// Generate gathers today's tasks, overdue tasks, today's events and
// yesterday's savings into one digest
func (s *DigestService) Generate(ctx context.Context) (*DigestData, error) {
	loc, err := time.LoadLocation(s.timezone)
	if err != nil {
		loc = time.UTC
	}
	now := s.now().In(loc)
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	tasks, err := s.store.TasksDueOn(ctx, today)
	if err != nil {
		return nil, err
	}
	overdue, err := s.store.OverdueOpenTasks(ctx, today)
	if err != nil {
		return nil, err
	}
	events, err := s.store.EventsOn(ctx, today)
	if err != nil {
		return nil, err
	}

	var minutesSaved int
	if record, err := s.store.AnalyticsForPeriod(ctx, yesterday); err == nil && record != nil {
		minutesSaved = record.TimeSavedMinutes
	}

	completed := 0
	for _, task := range tasks {
		if task.Status == "done" {
			completed++
		}
	}
	rate := 0.0
	if len(tasks) > 0 {
		rate = float64(completed) / float64(len(tasks)) * 100
	}

	return &DigestData{
		Date:             today,
		FormattedDate:    now.Format("02/01/2006"),
		Tasks:            tasks,
		OverdueTasks:     overdue,
		Events:           events,
		CompletionRate:   rate,
		MinutesSavedYday: minutesSaved,
	}, nil
}

// Send generates today's digest and emails it to the configured recipient
func (s *DigestService) Send(ctx context.Context) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("digest email is not configured: set DEFAULT_DIGEST_EMAIL")
	}

	data, err := s.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate digest: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.FromAddress)
	msg.SetHeader("To", s.cfg.DefaultEmail)
	msg.SetHeader("Subject", fmt.Sprintf("התוכנית היומית שלך - %s", data.FormattedDate))
	msg.SetBody("text/html", RenderDigestHTML(data))

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	return nil
}

// RenderDigestHTML renders the digest as a right-to-left Hebrew HTML email
func RenderDigestHTML(data *DigestData) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html dir="rtl" lang="he"><head><meta charset="utf-8"></head>`)
	b.WriteString(`<body style="font-family: Arial, sans-serif; direction: rtl; background: #f5f5f5; margin: 0; padding: 16px;">`)
	b.WriteString(`<div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px;">`)
	fmt.Fprintf(&b, `<h1 style="color: #2563eb; margin-top: 0;">התוכנית היומית - %s</h1>`, data.FormattedDate)

	if len(data.OverdueTasks) > 0 {
		b.WriteString(`<h2 style="color: #dc2626;">משימות באיחור</h2><ul>`)
		for _, task := range data.OverdueTasks {
			fmt.Fprintf(&b, `<li>%s (תאריך יעד: %s)</li>`, task.Title, strValue(task.DueDate))
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(`<h2 style="color: #1f2937;">משימות להיום</h2>`)
	if len(data.Tasks) == 0 {
		b.WriteString(`<p>אין משימות להיום 🎉</p>`)
	} else {
		b.WriteString(`<ul>`)
		for _, task := range data.Tasks {
			marker := ""
			if task.Priority == string(model.PriorityHigh) {
				marker = ` <strong style="color: #dc2626;">דחוף</strong>`
			}
			fmt.Fprintf(&b, `<li>%s%s</li>`, task.Title, marker)
		}
		b.WriteString(`</ul>`)
		fmt.Fprintf(&b, `<p>הושלמו %.0f%% מהמשימות של היום</p>`, data.CompletionRate)
	}

	b.WriteString(`<h2 style="color: #1f2937;">אירועים היום</h2>`)
	if len(data.Events) == 0 {
		b.WriteString(`<p>אין אירועים היום</p>`)
	} else {
		b.WriteString(`<ul>`)
		for _, event := range data.Events {
			line := event.Title
			if len(event.StartTime) >= 16 {
				line = fmt.Sprintf("%s - %s", event.StartTime[11:16], event.Title)
			}
			if event.Location != nil {
				line += fmt.Sprintf(" (%s)", *event.Location)
			}
			fmt.Fprintf(&b, `<li>%s</li>`, line)
		}
		b.WriteString(`</ul>`)
	}

	if data.MinutesSavedYday > 0 {
		fmt.Fprintf(&b, `<p style="color: #059669;">אתמול חסכנו לך %d דקות של תכנון ידני</p>`, data.MinutesSavedYday)
	}

	b.WriteString(`</div></body></html>`)
	return b.String()
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
