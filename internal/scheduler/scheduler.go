// Package scheduler runs the recurring background jobs: the morning
// digest email, monthly data cleanup, urgent task reminders during the
// day and an hourly database health ping.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ronsway/MakeMyDay/internal/config"
	"github.com/ronsway/MakeMyDay/internal/model"
	"github.com/ronsway/MakeMyDay/internal/service"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// Store is the subset of the repository the scheduled jobs need.
type Store interface {
	Ping(ctx context.Context) error
	UrgentOpenTasks(ctx context.Context, date string) ([]model.Task, error)
	DeleteAnalyticsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler owns the cron runner and its jobs
type Scheduler struct {
	cron     *cron.Cron
	store    Store
	digest   *service.DigestService
	ingest   *service.IngestService
	cfg      config.SchedulerConfig
	location *time.Location
}

// New builds a scheduler anchored to the given timezone
func New(store Store, digest *service.DigestService, ingest *service.IngestService, cfg config.SchedulerConfig, timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		store:    store,
		digest:   digest,
		ingest:   ingest,
		cfg:      cfg,
		location: loc,
	}, nil
}

// Start registers all jobs and starts the cron runner
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		fn   func(context.Context) error
	}{
		{"daily-digest", s.cfg.DigestSpec, s.runDigest},
		{"monthly-cleanup", s.cfg.CleanupSpec, s.runCleanup},
		{"urgent-reminders", s.cfg.ReminderSpec, s.runReminderCheck},
		{"health-check", s.cfg.HealthSpec, s.runHealthCheck},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := job.fn(ctx); err != nil {
				log.Printf("⚠️  Job %s failed: %v", job.name, err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule job %s (%q): %w", job.name, job.spec, err)
		}
		log.Printf("✅ Scheduled job %s: %s", job.name, job.spec)
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runDigest(ctx context.Context) error {
	log.Println("📧 Running daily digest job")
	if err := s.digest.Send(ctx); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	log.Println("✅ Daily digest sent")
	return nil
}

func (s *Scheduler) runCleanup(ctx context.Context) error {
	log.Println("🧹 Running monthly cleanup job")

	cutoff := time.Now().In(s.location).AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.store.DeleteAnalyticsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up analytics: %w", err)
	}
	log.Printf("   - Removed %d analytics records older than %s", deleted, cutoff.Format("2006-01-02"))

	sessions, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to clean up sessions: %w", err)
	}
	log.Printf("   - Removed %d expired sessions", sessions)

	return nil
}

func (s *Scheduler) runReminderCheck(ctx context.Context) error {
	today := s.ingest.LocalToday()

	tasks, err := s.store.UrgentOpenTasks(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to fetch urgent tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil
	}

	log.Printf("⏰ %d urgent open tasks due today:", len(tasks))
	for _, task := range tasks {
		log.Printf("   - %s", task.Title)
	}
	return nil
}

func (s *Scheduler) runHealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
