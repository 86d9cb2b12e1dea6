package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/platform/logger"
)

const defaultChannel = "rosterbot.events"

// Envelope is the JSON payload published for every event.
type Envelope struct {
	Type  string         `json:"type"`
	Event entities.Event `json:"event"`
}

// Publisher sends events to a Redis pub/sub channel for external consumers
// (push gateways, websocket fan-out).
type Publisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewPublisher(ctx context.Context, addr, channel string, log *logger.Logger) (*Publisher, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = defaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Publisher{
		log:     log.With("deliverer", "redis", "channel", channel),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (p *Publisher) Name() string { return "redis" }

func (p *Publisher) Deliver(ctx context.Context, ev entities.Event) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis publisher not initialized")
	}
	raw, err := Encode(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

func (p *Publisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}

// Encode builds the wire payload for ev.
func Encode(ev entities.Event) ([]byte, error) {
	raw, err := json.Marshal(Envelope{Type: "activity." + strings.ToLower(string(ev.Kind)), Event: ev})
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return raw, nil
}
