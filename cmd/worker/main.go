// Command worker runs the asynq consumer that delivers scheduled lead
// reminders through the WhatsApp gateway.
package main

import (
	"context"
	"time"

	"leadgate_backend/internal/assignment"
	"leadgate_backend/internal/contacts"
	"leadgate_backend/internal/events"
	"leadgate_backend/internal/leads/repository"
	leadservice "leadgate_backend/internal/leads/service"
	"leadgate_backend/internal/salespeople"
	"leadgate_backend/internal/scheduler"
	"leadgate_backend/internal/settings"
	"leadgate_backend/internal/whatsapp"
	"leadgate_backend/platform/config"
	"leadgate_backend/platform/db"
	"leadgate_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	if cfg.RedisURL == "" {
		panic("REDIS_URL is required for the worker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := db.NewPool(ctx, cfg)
	cancel()
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo)
	contactsRepo := contacts.NewRepository(pool)
	sellersRepo := salespeople.NewRepository(pool)
	leadsRepo := repository.New(pool)

	gateway := whatsapp.NewClient(settingsService, log)
	engine := assignment.NewEngine(settingsRepo, leadsRepo)
	eventBus := events.NewInMemoryBus(log)

	leadsService := leadservice.New(leadsRepo, contactsRepo, sellersRepo, settingsService, sellersRepo, engine, gateway, nil, eventBus, log)

	opt, err := scheduler.RedisClientOpt(cfg.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		panic("invalid REDIS_URL: " + err.Error())
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{queue: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(scheduler.TaskLeadReminder, func(ctx context.Context, task *asynq.Task) error {
		payload, err := scheduler.ParseLeadReminderPayload(task)
		if err != nil {
			return err
		}
		leadID, err := uuid.Parse(payload.LeadID)
		if err != nil {
			log.Error("reminder task carries invalid lead id", "lead_id", payload.LeadID)
			return nil
		}
		if err := leadsService.SendReminder(ctx, leadID, payload.Message); err != nil {
			log.Error("failed to send lead reminder", "lead_id", payload.LeadID, "error", err)
			return err
		}
		log.Info("lead reminder sent", "lead_id", payload.LeadID)
		return nil
	})

	log.Info("worker listening", "queue", queue)
	if err := srv.Run(mux); err != nil {
		log.Error("worker stopped", "error", err)
		panic("worker stopped: " + err.Error())
	}
}
