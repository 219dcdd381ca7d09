package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ronsway/MakeMyDay/internal/config"
	"github.com/ronsway/MakeMyDay/internal/repository"
	"github.com/ronsway/MakeMyDay/internal/scheduler"
	"github.com/ronsway/MakeMyDay/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("MakeMyDay Scheduler")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	if !cfg.Digest.Enabled {
		log.Println("⚠️  Digest email is disabled - set SMTP_HOST and DEFAULT_DIGEST_EMAIL to enable it")
	}

	// Initialize services
	ingestService := service.NewIngestService(repo, cfg.Server.Timezone)
	digestService := service.NewDigestService(repo, cfg.Digest, cfg.Server.Timezone)

	sched, err := scheduler.New(repo, digestService, ingestService, cfg.Scheduler, cfg.Server.Timezone)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Printf("🚀 Scheduler running (timezone: %s)", cfg.Server.Timezone)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down scheduler...")
	sched.Stop()
	log.Println("✅ Scheduler stopped")
}
