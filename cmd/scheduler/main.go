package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/advancehq/payback-engine/internal/config"
	"github.com/advancehq/payback-engine/internal/repository"
	"github.com/advancehq/payback-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	logrus.Info("Starting payback scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	planRepo := repository.NewPlanRepository(db)
	paybackRepo := repository.NewPaybackRepository(db)
	planService := service.NewPlanService(planRepo, paybackRepo, redisClient, cfg, service.NewRealClock())

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logrus.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Materialize due installments on the configured cadence
	_, err = c.AddFunc(cfg.Scheduler.Spec, func() {
		runMaterialization(planService)
	})
	if err != nil {
		logrus.Fatalf("Failed to schedule materialization job: %v", err)
	}

	c.Start()
	logrus.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logrus.Info("Scheduler stopped")
}

func runMaterialization(planService *service.PlanService) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	generated, err := planService.MaterializeDue(ctx, time.Now())
	if err != nil {
		logrus.WithError(err).Error("materialization run failed")
		return
	}

	logrus.WithField("paybacks_generated", generated).Info("materialization run complete")
}
