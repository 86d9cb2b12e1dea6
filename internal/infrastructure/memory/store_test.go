package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/infrastructure/contracttest"
	"rosterbot/internal/ports/output"
)

func TestContract_MemoryStore(t *testing.T) {
	contracttest.RunParticipationStore(t, func(t *testing.T) (output.ParticipationStore, contracttest.CleanupFunc) {
		t.Helper()
		return NewStore(), nil
	})
}

func TestWithinActivity_LockRespectsContext(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a := &entities.Activity{Title: "x", MaxParticipants: 2, CreatedBy: "owner"}
	if err := s.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.WithinActivity(context.Background(), a.ID, func(context.Context, output.ParticipationTx) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.WithinActivity(ctx, a.ID, func(context.Context, output.ParticipationTx) error {
		t.Errorf("fn ran while the activity was locked")
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v, want DeadlineExceeded", err)
	}

	// Other activities are not blocked.
	b := &entities.Activity{Title: "y", MaxParticipants: 2, CreatedBy: "owner"}
	if err := s.CreateActivity(context.Background(), b); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if err := s.WithinActivity(context.Background(), b.ID, func(context.Context, output.ParticipationTx) error { return nil }); err != nil {
		t.Fatalf("WithinActivity(other): %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder: %v", err)
	}
}
