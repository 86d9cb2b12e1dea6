// Package notify fans post-commit events out to delivery channels without
// blocking the caller.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/output"
)

var _ output.EventSink = (*Dispatcher)(nil)

var (
	ErrQueueFull = errors.New("notify: queue full")
	ErrClosed    = errors.New("notify: dispatcher closed")
)

// Deliverer pushes one event to one channel (inbox, DM, pub/sub, ...).
type Deliverer interface {
	Name() string
	Deliver(ctx context.Context, ev entities.Event) error
}

type Config struct {
	QueueSize       int
	Workers         int
	DeliveryTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = 10 * time.Second
	}
	return c
}

// Dispatcher queues events and delivers them from a fixed worker pool.
// Publish never blocks: a full queue drops the event.
type Dispatcher struct {
	cfg        Config
	deliverers []Deliverer
	log        *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan entities.Event
	wg     sync.WaitGroup
}

func NewDispatcher(cfg Config, log *logger.Logger, deliverers ...Deliverer) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		cfg:        cfg,
		deliverers: deliverers,
		log:        log.With("component", "notify.Dispatcher"),
		queue:      make(chan entities.Event, cfg.QueueSize),
	}
}

// Start launches the workers. They exit when Close drains the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work(context.WithoutCancel(ctx))
	}
}

func (d *Dispatcher) Publish(_ context.Context, ev entities.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- ev:
		return nil
	default:
		d.log.Warn("notification dropped", "kind", ev.Kind, "activity_id", ev.ActivityID, "target", ev.TargetUserID)
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ctx, ev)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev entities.Event) {
	for _, dl := range d.deliverers {
		dctx, cancel := context.WithTimeout(ctx, d.cfg.DeliveryTimeout)
		err := dl.Deliver(dctx, ev)
		cancel()
		if err != nil {
			d.log.Warn("delivery failed", "deliverer", dl.Name(), "kind", ev.Kind, "activity_id", ev.ActivityID, "target", ev.TargetUserID, "error", err)
		}
	}
}
