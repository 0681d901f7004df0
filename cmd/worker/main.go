// The worker process executes delayed jobs enqueued by the API, currently
// quotation follow-up reminders.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"studio_backend/internal/scheduler"
	"studio_backend/internal/whatsapp"
	"studio_backend/platform/config"
	"studio_backend/platform/db"
	"studio_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	whatsappClient := whatsapp.NewClient(cfg, log)
	if whatsappClient == nil {
		log.Warn("WHATSAPP_URL not configured; follow-up messages disabled")
	}

	var sender scheduler.WhatsAppSender
	if whatsappClient != nil {
		sender = whatsappClient
	}

	worker, err := scheduler.NewWorker(cfg, pool, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
