// Package audit appends action-log entries off the request path. A failed
// or dropped entry is logged and never reaches the operation that caused it.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Entry describes one state change.
type Entry struct {
	ActorID   uuid.UUID
	ActorName string
	Action    string
	Details   string
}

// Recorder is what services depend on.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

type job struct {
	ctx   context.Context
	entry Entry
	at    time.Time
}

// Writer is the asynchronous Recorder: Record enqueues, a single goroutine writes.
type Writer struct {
	repo         repository.ActionLogRepository
	queue        chan job
	done         chan struct{}
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewWriter starts the writer goroutine. Call Close on shutdown to drain the queue.
func NewWriter(repo repository.ActionLogRepository, buffer int) *Writer {
	if buffer <= 0 {
		buffer = 256
	}
	w := &Writer{
		repo:         repo,
		queue:        make(chan job, buffer),
		done:         make(chan struct{}),
		writeTimeout: 5 * time.Second,
	}
	go w.run()
	return w
}

// Record never blocks. When the buffer is full the entry is dropped and logged.
func (w *Writer) Record(ctx context.Context, e Entry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		log.Warn().Str("action", e.Action).Msg("audit: writer closed, entry dropped")
		return
	}
	select {
	case w.queue <- job{ctx: context.WithoutCancel(ctx), entry: e, at: time.Now().UTC()}:
	default:
		log.Error().Str("action", e.Action).Str("actor", e.ActorName).Msg("audit: buffer full, entry dropped")
	}
}

// Close stops accepting entries and waits until the queued ones are written.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for j := range w.queue {
		w.write(j)
	}
}

func (w *Writer) write(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("action", j.entry.Action).Msg("audit: write panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(j.ctx, w.writeTimeout)
	defer cancel()

	entry := &model.ActionLog{
		EmployeeID:   j.entry.ActorID,
		EmployeeName: j.entry.ActorName,
		ActionType:   j.entry.Action,
		Details:      j.entry.Details,
		CreatedAt:    j.at,
	}
	if err := w.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("action", j.entry.Action).
			Str("actor", j.entry.ActorName).
			Msg("audit: failed to write action log")
	}
}
