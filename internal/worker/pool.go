package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceipt = "jobs:receipt"
	QueueEmail   = "jobs:email"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes one decoded job payload.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers maps each queue to its handler.
type WorkerHandlers struct {
	Receipt JobHandler
	Email   JobHandler
}

func (h *WorkerHandlers) forQueue(queue string) JobHandler {
	switch queue {
	case QueueReceipt:
		return h.Receipt
	case QueueEmail:
		return h.Email
	}
	return nil
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// ReceiptJobPayload asks for a PDF receipt of a recorded payment.
type ReceiptJobPayload struct {
	PaymentID string `json:"payment_id"`
}

// EnqueueReceipt pushes a receipt job for paymentID.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, paymentID string) error {
	return d.enqueue(ctx, QueueReceipt, "receipt", ReceiptJobPayload{PaymentID: paymentID})
}

// EnqueueEmail pushes an email job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool runs worker goroutines that consume both queues.
type Pool struct {
	rdb        *redis.Client
	handlers   *WorkerHandlers
	backoff    func(attempt int) time.Duration
	deadLetter func(ctx context.Context, queue string, job Job, reason string, attempts int)
}

func NewPool(rdb *redis.Client, handlers *WorkerHandlers) *Pool {
	p := &Pool{rdb: rdb, handlers: handlers, backoff: exponentialBackoff}
	p.deadLetter = func(ctx context.Context, queue string, job Job, reason string, attempts int) {
		PushDeadLetter(ctx, rdb, queue, job, reason, attempts)
	}
	return p
}

// Start launches numWorkers goroutines; they exit when ctx is cancelled.
// Each goroutine blocks on BRPOP while idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := []string{QueueReceipt, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil || len(result) < 2 {
				continue // timeout or context cancelled
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

// processJob decodes and runs a job, retrying with backoff before dead-lettering it.
func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h := p.handlers.forQueue(queue)
	if h == nil {
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue, dropping job")
		return
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = h.Process(ctx, job.Payload); lastErr == nil {
			log.Debug().Str("queue", queue).Str("type", job.Type).Int("attempt", attempt).Msg("job done")
			return
		}
		log.Warn().Err(lastErr).Str("queue", queue).Int("attempt", attempt).Msg("job failed")
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.backoff(attempt)):
		}
	}
	p.deadLetter(ctx, queue, job, fmt.Sprintf("max attempts exceeded: %v", lastErr), maxAttempts)
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}
