package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ronsway/MakeMyDay/internal/config"
	"github.com/ronsway/MakeMyDay/internal/model"
)

// digestFakeStore serves canned rows for digest generation
type digestFakeStore struct {
	tasks     []model.Task
	overdue   []model.Task
	events    []model.Event
	analytics map[string]*model.AnalyticsRecord

	tasksDate  string
	eventsDate string
}

func (f *digestFakeStore) TasksDueOn(_ context.Context, date string) ([]model.Task, error) {
	f.tasksDate = date
	return f.tasks, nil
}

func (f *digestFakeStore) OverdueOpenTasks(_ context.Context, _ string) ([]model.Task, error) {
	return f.overdue, nil
}

func (f *digestFakeStore) EventsOn(_ context.Context, date string) ([]model.Event, error) {
	f.eventsDate = date
	return f.events, nil
}

func (f *digestFakeStore) AnalyticsForPeriod(_ context.Context, period string) (*model.AnalyticsRecord, error) {
	return f.analytics[period], nil
}

func strP(s string) *string { return &s }

func TestGenerateDigest(t *testing.T) {
	store := &digestFakeStore{
		tasks: []model.Task{
			{Title: "חולצה כחולה", Priority: "high", Status: "open"},
			{Title: "שיעורי בית", Priority: "normal", Status: "done"},
		},
		overdue: []model.Task{
			{Title: "תשלום לטיול", DueDate: strP("2024-01-08"), Status: "open"},
		},
		events: []model.Event{
			{Title: "ישיבת הורים", StartTime: "2024-01-10T16:00:00"},
		},
		analytics: map[string]*model.AnalyticsRecord{
			"2024-01-09": {Period: "2024-01-09", TimeSavedMinutes: 12},
		},
	}

	svc := NewDigestService(store, config.DigestConfig{}, "Asia/Jerusalem")
	svc.now = func() time.Time {
		loc, _ := time.LoadLocation("Asia/Jerusalem")
		return time.Date(2024, 1, 10, 7, 0, 0, 0, loc)
	}

	data, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if data.Date != "2024-01-10" {
		t.Errorf("expected digest date 2024-01-10, got %q", data.Date)
	}
	if store.tasksDate != "2024-01-10" || store.eventsDate != "2024-01-10" {
		t.Errorf("expected queries for 2024-01-10, got tasks=%q events=%q", store.tasksDate, store.eventsDate)
	}
	if data.FormattedDate != "10/01/2024" {
		t.Errorf("expected formatted date 10/01/2024, got %q", data.FormattedDate)
	}
	if data.CompletionRate != 50 {
		t.Errorf("expected 50%% completion rate, got %v", data.CompletionRate)
	}
	if data.MinutesSavedYday != 12 {
		t.Errorf("expected 12 minutes saved yesterday, got %d", data.MinutesSavedYday)
	}
	if len(data.OverdueTasks) != 1 {
		t.Errorf("expected 1 overdue task, got %d", len(data.OverdueTasks))
	}
}

func TestRenderDigestHTML(t *testing.T) {
	data := &DigestData{
		Date:          "2024-01-10",
		FormattedDate: "10/01/2024",
		Tasks: []model.Task{
			{Title: "חולצה כחולה", Priority: "high", Status: "open"},
		},
		OverdueTasks: []model.Task{
			{Title: "תשלום לטיול", DueDate: strP("2024-01-08")},
		},
		Events: []model.Event{
			{Title: "ישיבת הורים", StartTime: "2024-01-10T16:00:00", Location: strP("כיתה ג")},
		},
		CompletionRate:   0,
		MinutesSavedYday: 12,
	}

	html := RenderDigestHTML(data)

	for _, want := range []string{
		`dir="rtl"`,
		"10/01/2024",
		"משימות באיחור",
		"תשלום לטיול",
		"חולצה כחולה",
		"דחוף",
		"16:00 - ישיבת הורים",
		"(כיתה ג)",
		"12 דקות",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("digest HTML missing %q", want)
		}
	}
}

func TestRenderDigestHTMLEmptyDay(t *testing.T) {
	data := &DigestData{Date: "2024-01-10", FormattedDate: "10/01/2024"}

	html := RenderDigestHTML(data)

	if !strings.Contains(html, "אין משימות להיום") {
		t.Errorf("expected empty-tasks message")
	}
	if !strings.Contains(html, "אין אירועים היום") {
		t.Errorf("expected empty-events message")
	}
	if strings.Contains(html, "משימות באיחור") {
		t.Errorf("overdue section should be omitted when there are no overdue tasks")
	}
	if strings.Contains(html, "דקות") {
		t.Errorf("savings line should be omitted when nothing was saved")
	}
}

func TestSendRequiresConfiguration(t *testing.T) {
	svc := NewDigestService(&digestFakeStore{}, config.DigestConfig{Enabled: false}, "Asia/Jerusalem")
	if err := svc.Send(context.Background()); err == nil {
		t.Fatalf("expected error when digest email is not configured")
	}
}
