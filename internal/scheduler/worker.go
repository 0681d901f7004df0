package scheduler

import (
	"context"
	"fmt"

	"studio_backend/internal/quotations/domain"
	"studio_backend/internal/quotations/repository"
	"studio_backend/platform/apperr"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WhatsAppSender sends the follow-up message and returns the gateway
// message id.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phone, message string) (string, error)
}

// Worker consumes scheduled jobs. It runs as its own process.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	repo     *repository.Repository
	whatsapp WhatsAppSender
	log      *logger.Logger
}

// NewWorker creates the asynq worker with its task handlers registered.
func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, whatsapp WhatsAppSender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		repo:     repository.New(pool),
		whatsapp: whatsapp,
		log:      log,
	}

	mux.HandleFunc(TaskQuotationFollowUp, w.handleQuotationFollowUp)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleQuotationFollowUp re-reads the quotation and sends a reminder only
// if the client still has not responded. Quotations that moved on since the
// job was enqueued are skipped silently.
func (w *Worker) handleQuotationFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseQuotationFollowUpPayload(task)
	if err != nil {
		return err
	}

	quotationID, err := uuid.Parse(payload.QuotationID)
	if err != nil {
		return err
	}

	q, err := w.repo.GetByID(ctx, quotationID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	if q.Status != domain.StatusSentToClient {
		return nil
	}
	if w.whatsapp == nil || q.ClientPhone == "" {
		return nil
	}

	message := fmt.Sprintf(
		"Dear %s, a gentle reminder about quotation %s for your %s. Total amount: ₹%d. Please reply to accept or let us know your concerns.",
		q.ClientName, q.QuotationNumber, q.EventType, q.Amount,
	)

	messageID, err := w.whatsapp.SendMessage(ctx, q.ClientPhone, message)
	if err != nil {
		return fmt.Errorf("send follow-up for %s: %w", q.QuotationNumber, err)
	}

	w.log.Info("sent quotation follow-up",
		"quotationId", q.ID,
		"messageId", messageID,
	)
	return nil
}
