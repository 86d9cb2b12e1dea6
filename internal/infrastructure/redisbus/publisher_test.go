package redisbus

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/platform/logger"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	raw, err := Encode(entities.Event{Kind: entities.EventWaitingPromoted, ActivityID: 42, TargetUserID: "u1", Title: "t"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s := string(raw)
	for _, want := range []string{`"type":"activity.waiting_promoted"`, `"activity_id":42`, `"target_user_id":"u1"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("payload %s missing %s", s, want)
		}
	}
}

func TestNewPublisher_RequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewPublisher(context.Background(), " ", "", logger.Nop()); err == nil {
		t.Fatalf("expected error for empty address")
	}
}

func TestPublisher_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := NewPublisher(ctx, addr, "rosterbot.test", logger.Nop())
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	defer p.Close()

	sub := p.rdb.Subscribe(ctx, "rosterbot.test")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := p.Deliver(ctx, entities.Event{Kind: entities.EventMemberLeft, ActivityID: 1}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("ReceiveMessage: %v", err)
	}
	if !strings.Contains(msg.Payload, `"activity.member_left"`) {
		t.Fatalf("payload=%s", msg.Payload)
	}
}
