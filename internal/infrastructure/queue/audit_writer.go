// Package queue moves query audit writes off the request path.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/ports"
	"github.com/qfactory/mes-helper/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	writeTimeout   = 10 * time.Second
)

// ErrQueueFull is returned when an entry is dropped because its worker is
// saturated.
var ErrQueueFull = errors.New("audit queue full, entry dropped")

// AuditWriter implements ports.AuditRepository by handing entries to a fixed
// set of workers. Entries are sharded by user key, so one user's entries are
// written in the order they were queued.
type AuditWriter struct {
	workers []chan *domain.QueryAudit
	repo    ports.AuditRepository
	log     zerolog.Logger

	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewAuditWriter creates a writer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditWriter(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditWriter {
	return newAuditWriter(numWorkers, channelBuffer, repo, log)
}

func newAuditWriter(numWorkers, buffer int, repo ports.AuditRepository, log zerolog.Logger) *AuditWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &AuditWriter{
		workers: make([]chan *domain.QueryAudit, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan *domain.QueryAudit, buffer)
	}
	return w
}

// Start launches the worker goroutines. They run until Close drains them.
func (w *AuditWriter) Start() {
	for i, ch := range w.workers {
		w.wg.Add(1)
		go w.runWorker(i, ch)
	}
}

// InsertQuery queues the entry without blocking. A full shard drops the entry
// and returns ErrQueueFull.
func (w *AuditWriter) InsertQuery(_ context.Context, entry *domain.QueryAudit) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return errors.New("audit writer closed")
	}

	select {
	case w.workers[w.shardIndex(entry.UserKey)] <- entry:
		return nil
	default:
		metrics.AuditDroppedTotal.Inc()
		return ErrQueueFull
	}
}

// Close stops accepting entries and waits until the queued ones are written
// or ctx expires.
func (w *AuditWriter) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		for _, ch := range w.workers {
			close(ch)
		}
		w.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a user key deterministically to a worker index.
func (w *AuditWriter) shardIndex(userKey string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userKey))
	return int(h.Sum32() % uint32(len(w.workers)))
}

func (w *AuditWriter) runWorker(id int, ch <-chan *domain.QueryAudit) {
	defer w.wg.Done()
	for entry := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := w.repo.InsertQuery(ctx, entry); err != nil {
			w.log.Error().Err(err).
				Str("operation", entry.Operation).
				Str("user_key", entry.UserKey).
				Int("worker_id", id).
				Msg("audit write failed")
		}
		cancel()
	}
}

var _ ports.AuditRepository = (*AuditWriter)(nil)
