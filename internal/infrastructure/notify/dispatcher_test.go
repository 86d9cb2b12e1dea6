package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/platform/logger"
)

type recorder struct {
	name string
	mu   sync.Mutex
	got  []entities.Event
	err  error
	gate chan struct{}
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Deliver(_ context.Context, ev entities.Event) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
	return r.err
}

func (r *recorder) events() []entities.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Event(nil), r.got...)
}

func TestDispatcher_FansOutToEveryDeliverer(t *testing.T) {
	t.Parallel()

	failing := &recorder{name: "failing", err: errors.New("down")}
	ok := &recorder{name: "ok"}
	d := NewDispatcher(Config{QueueSize: 8, Workers: 1}, logger.Nop(), failing, ok)
	d.Start(context.Background())

	for i := 0; i < 3; i++ {
		if err := d.Publish(context.Background(), entities.Event{Kind: entities.EventMemberJoined, ActivityID: int64(i)}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	d.Close()

	if n := len(failing.events()); n != 3 {
		t.Fatalf("failing deliverer got %d events, want 3", n)
	}
	if n := len(ok.events()); n != 3 {
		t.Fatalf("ok deliverer got %d events, want 3 (a failing deliverer must not stop the others)", n)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	slow := &recorder{name: "slow", gate: gate}
	d := NewDispatcher(Config{QueueSize: 1, Workers: 1}, logger.Nop(), slow)
	d.Start(context.Background())

	// The first event is taken by the worker and blocks on the gate; the
	// second fills the queue. Publish until one is rejected.
	var full bool
	for i := 0; i < 10 && !full; i++ {
		if err := d.Publish(context.Background(), entities.Event{ActivityID: int64(i)}); errors.Is(err, ErrQueueFull) {
			full = true
		}
	}
	if !full {
		t.Fatalf("expected ErrQueueFull once the queue is saturated")
	}
	close(gate)
	d.Close()

	if err := d.Publish(context.Background(), entities.Event{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Publish after Close err=%v, want ErrClosed", err)
	}
}
