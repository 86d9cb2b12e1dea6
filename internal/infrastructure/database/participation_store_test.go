package database

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/infrastructure/contracttest"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/output"
	"rosterbot/pkg/tz"
)

// openMigratedPool connects to TEST_DATABASE_URL and applies migrations.
// Tests are skipped when the variable is unset.
func openMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := RunMigrations(dsn, "", logger.Nop()); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	pool, err := NewPool(context.Background(), dsn, 4, logger.Nop())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE notifications, activity_participants, activities, users RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func TestContract_PostgresParticipationStore(t *testing.T) {
	pool := openMigratedPool(t)

	contracttest.RunParticipationStore(t, func(t *testing.T) (output.ParticipationStore, contracttest.CleanupFunc) {
		t.Helper()
		truncate(t, pool)
		return NewParticipationStore(pool, tz.Taipei), nil
	})
}

func TestNotificationRepository(t *testing.T) {
	pool := openMigratedPool(t)
	truncate(t, pool)
	ctx := context.Background()
	repo := NewNotificationRepository(pool)

	for _, title := range []string{"first", "second"} {
		n := &entities.Notification{UserID: "u1", ActivityID: 7, Kind: entities.EventMemberJoined, Title: title, Body: "b"}
		if err := repo.Save(ctx, n); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if n.ID == 0 || n.CreatedAt.IsZero() {
			t.Fatalf("Save did not populate id/created_at: %+v", n)
		}
	}

	list, err := repo.ListForUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 2 || list[0].Title != "second" {
		t.Fatalf("ListForUser=%+v, want newest first", list)
	}
	if err := repo.MarkRead(ctx, "u1", list[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := repo.MarkRead(ctx, "someone-else", list[1].ID); err != output.ErrNotFound {
		t.Fatalf("MarkRead(other user) err=%v, want ErrNotFound", err)
	}
}
