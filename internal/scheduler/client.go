package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"studio_backend/internal/events"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// followUpDelay is how long after sending a quotation the client gets a
// reminder if they have not responded.
const followUpDelay = 48 * time.Hour

// Client enqueues delayed jobs from the API process.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewClient creates an asynq client from the scheduler configuration.
func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
		log:    log,
	}, nil
}

// Close releases the underlying redis connections.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleQuotationFollowUp enqueues a follow-up reminder to run at runAt.
func (c *Client) ScheduleQuotationFollowUp(ctx context.Context, payload QuotationFollowUpPayload, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewQuotationFollowUpTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

// RegisterHandlers subscribes the client to the events that schedule jobs.
func (c *Client) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuotationSent{}.EventName(), c)
}

// Handle schedules a follow-up reminder when a quotation is sent to a client.
func (c *Client) Handle(ctx context.Context, event events.Event) error {
	sent, ok := event.(events.QuotationSent)
	if !ok {
		return nil
	}

	payload := QuotationFollowUpPayload{
		QuotationID:     sent.QuotationID.String(),
		QuotationNumber: sent.QuotationNumber,
	}
	runAt := sent.OccurredAt().Add(followUpDelay)

	if err := c.ScheduleQuotationFollowUp(ctx, payload, runAt); err != nil {
		return fmt.Errorf("schedule follow-up for %s: %w", sent.QuotationNumber, err)
	}

	c.log.Info("scheduled quotation follow-up",
		"quotationId", sent.QuotationID,
		"runAt", runAt,
	)
	return nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}

var _ events.Handler = (*Client)(nil)
