package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meinhoongagan/bizmatch/broker"
	"github.com/meinhoongagan/bizmatch/config"
	"github.com/meinhoongagan/bizmatch/controllers"
	"github.com/meinhoongagan/bizmatch/cron"
	"github.com/meinhoongagan/bizmatch/db"
	"github.com/meinhoongagan/bizmatch/logger"
	"github.com/meinhoongagan/bizmatch/redis"
	"github.com/meinhoongagan/bizmatch/routes"
	"github.com/meinhoongagan/bizmatch/services"
	"github.com/meinhoongagan/bizmatch/sessions"
	"github.com/meinhoongagan/bizmatch/storage"
	"github.com/meinhoongagan/bizmatch/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("Invalid configuration", "error", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "bizmatch",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(cfg, log); err != nil {
		log.Fatal("Database unavailable", "error", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(db.DB); err != nil {
			log.Fatal("Migration failed", "error", err)
		}
		log.Info("Migrations applied successfully")
	}

	var store sessions.Store
	if cfg.RedisAddr != "" {
		client, err := redis.InitRedis(ctx, cfg)
		if err != nil {
			log.Fatal("Redis unavailable", "error", err)
		}
		defer client.Close()
		store = redis.NewSessionStore(client)
		log.Info("Connected to Redis", "addr", cfg.RedisAddr)
	} else {
		store = sessions.NewMemoryStore()
		log.Warn("REDIS_ADDR not set, sessions are kept in memory")
	}

	publisher, err := broker.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Fatal("Broker setup failed", "error", err)
	}
	defer publisher.Close()

	headers, err := storage.New(cfg)
	if err != nil {
		log.Fatal("Upload storage setup failed", "error", err)
	}

	notifier := services.NewNotificationService(db.DB, utils.NewMailer(cfg), publisher, log)
	users := services.NewUserService(db.DB, cfg.BcryptCost, store)
	events := services.NewEventService(db.DB)
	booking := services.NewBookingService(db.DB, notifier, cfg.EventLocation)

	if cfg.AdminEmail != "" {
		created, err := db.EnsureAdmin(ctx, db.DB, cfg.AdminEmail, cfg.AdminPassword, users.HashPassword)
		if err != nil {
			log.Fatal("Failed to create admin account", "error", err)
		}
		if created {
			log.Info("Admin account created", "email", cfg.AdminEmail)
		}
	}
	if cfg.SeedOnStart {
		seeded, err := db.Seed(ctx, db.DB, users.HashPassword, time.Now())
		if err != nil {
			log.Fatal("Seeding failed", "error", err)
		}
		if seeded {
			log.Info("Demo data seeded")
		}
	}

	scheduler, err := cron.StartCronJobs(&cron.Jobs{
		Reminders: booking,
		Events:    events,
		Location:  cfg.EventLocation,
		Log:       log,
	})
	if err != nil {
		log.Fatal("Failed to start cron jobs", "error", err)
	}

	app := routes.NewApp(&controllers.Handler{
		DB:            db.DB,
		Config:        cfg,
		Log:           log,
		Sessions:      store,
		Storage:       headers,
		Users:         users,
		Events:        events,
		Slots:         services.NewTimeSlotService(db.DB, cfg.EventLocation),
		Booking:       booking,
		Notifications: notifier,
	})

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		<-scheduler.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Server shutdown failed", "error", err)
		}
	}()

	log.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Server stopped", "error", err)
	}

	notifier.Wait()
	if err := db.Close(db.DB); err != nil {
		log.Error("Failed to close database", "error", err)
	}
	log.Info("Server stopped")
}
