// Package publisher emits audit events to a store, synchronously or through
// a bounded buffer drained by a background worker.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "profiles/pkg/platform/audit"
	"profiles/pkg/platform/audit/worker"
)

// ErrBufferFull is returned by Emit when the async buffer has no room.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

var (
	emittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profiles_audit_events_total",
		Help: "Audit events accepted for delivery, by category",
	}, []string{"category"})
	droppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profiles_audit_events_dropped_total",
		Help: "Audit events dropped before delivery, by reason",
	}, []string{"reason"})
)

// Publisher delivers audit events to a Store.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	sampler *Sampler
	now     func() time.Time

	bufferSize int
	inbox      chan audit.Event
	done       chan struct{}
	mu         sync.RWMutex
	closed     bool
}

type Option func(*Publisher)

// WithAsyncBuffer queues events in a buffer of size n drained by a worker.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

// WithSampler samples operations-category events.
func WithSampler(s *Sampler) Option {
	return func(p *Publisher) {
		p.sampler = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(store, p.inbox, p.logger)
		go func() {
			defer close(p.done)
			w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. In async mode it never blocks: a full buffer
// drops the event and returns ErrBufferFull.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.Category == audit.CategoryOperations && p.sampler != nil && !p.sampler.ShouldSample(event.Action) {
		droppedTotal.WithLabelValues("sampled").Inc()
		return nil
	}

	if p.inbox == nil {
		if err := p.store.Append(ctx, event); err != nil {
			return err
		}
		emittedTotal.WithLabelValues(string(event.Category)).Inc()
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		droppedTotal.WithLabelValues("closed").Inc()
		return ErrClosed
	}
	select {
	case p.inbox <- event:
		emittedTotal.WithLabelValues(string(event.Category)).Inc()
		return nil
	default:
		droppedTotal.WithLabelValues("buffer_full").Inc()
		p.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
		return ErrBufferFull
	}
}

// Close stops accepting events and waits for the buffer to drain.
func (p *Publisher) Close() {
	if p.inbox == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.inbox)
	p.mu.Unlock()
	<-p.done
}
