package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceipt = "jobs:receipt"
	QueueEmail   = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceipt asks for a committed sale to be rendered (and mailed).
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipt, "receipt", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	if d == nil || d.rdb == nil {
		return errors.New("job queue not configured")
	}
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

// Processor handles one job payload. A returned error makes the pool retry
// and, once attempts run out, dead-letter the job.
type Processor interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Pool consumes the registered queues with a fixed number of goroutines.
type Pool struct {
	rdb         *redis.Client
	handlers    map[string]Processor
	queues      []string
	maxAttempts int
	backoff     time.Duration
	pollTimeout time.Duration
	// idle is how long a worker waits after BRPOP itself failed.
	idle time.Duration
	wg   sync.WaitGroup
}

// NewPool maps queue names to their processors.
func NewPool(rdb *redis.Client, handlers map[string]Processor) *Pool {
	p := &Pool{
		rdb:         rdb,
		handlers:    handlers,
		maxAttempts: 3,
		backoff:     time.Second,
		pollTimeout: 5 * time.Second,
		idle:        2 * time.Second,
	}
	for q := range handlers {
		p.queues = append(p.queues, q)
	}
	return p
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle
// workers cost nothing; they exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

// Wait blocks until every worker returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Blocking pop: waits up to pollTimeout then loops to check ctx
		result, err := p.rdb.BRPop(ctx, p.pollTimeout, p.queues...).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Dur("retry_in", p.idle).Msg("queue unreachable")
			}
			select {
			case <-ctx.Done():
			case <-time.After(p.idle):
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no processor for queue")
		return
	}

	attempts := 0
	err := withRetry(ctx, p.maxAttempts, p.backoff, func(attempt int) error {
		attempts = attempt + 1
		err := h.Process(ctx, job.Payload)
		if err != nil {
			log.Warn().Err(err).Str("queue", queue).Int("attempt", attempts).Msg("job attempt failed")
		}
		return err
	})
	if err != nil {
		sendToDLQ(ctx, p.rdb, queue, job, err.Error(), attempts)
		return
	}
	log.Debug().Str("queue", queue).Str("type", job.Type).Msg("job done")
}

// withRetry calls fn up to maxAttempts times with exponential backoff:
// immediate, then base, 2*base, ...
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := base * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
