package audit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	defaultBufferSize = 256
	writeTimeout      = 10 * time.Second
)

// Recorder accepts audit entries. It never fails from the caller's view.
type Recorder interface {
	Record(entry Entry)
}

// Sink persists one entry.
type Sink interface {
	Write(ctx context.Context, entry Entry) error
}

// AsyncRecorder queues entries on a bounded channel drained by one worker,
// so entries are written in the order they were recorded.
type AsyncRecorder struct {
	sink    Sink
	logger  *zap.Logger
	results *prometheus.CounterVec

	mu      sync.RWMutex
	closed  bool
	entries chan Entry
	done    chan struct{}
}

// NewAsyncRecorder starts the worker. results may be nil; when set it is
// incremented with label "written", "failed" or "dropped".
func NewAsyncRecorder(sink Sink, logger *zap.Logger, results *prometheus.CounterVec, bufferSize int) *AsyncRecorder {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	r := &AsyncRecorder{
		sink:    sink,
		logger:  logger.Named("audit"),
		results: results,
		entries: make(chan Entry, bufferSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues entry. A full buffer or a closed recorder drops it.
func (r *AsyncRecorder) Record(entry Entry) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop(entry, "recorder closed")
		return
	}

	select {
	case r.entries <- entry:
	default:
		r.drop(entry, "buffer full")
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (r *AsyncRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.entries)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *AsyncRecorder) run() {
	defer close(r.done)

	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.sink.Write(ctx, entry)
		cancel()

		if err != nil {
			r.logger.Warn("failed to write audit entry",
				zap.Error(err),
				zap.String("action", string(entry.Action)),
				zap.String("resource_type", string(entry.ResourceType)),
				zap.String("resource_id", entry.ResourceID),
			)
			r.count("failed")
			continue
		}
		r.count("written")
	}
}

func (r *AsyncRecorder) drop(entry Entry, reason string) {
	r.logger.Warn("dropped audit entry",
		zap.String("reason", reason),
		zap.String("action", string(entry.Action)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
	)
	r.count("dropped")
}

func (r *AsyncRecorder) count(result string) {
	if r.results != nil {
		r.results.WithLabelValues(result).Inc()
	}
}
