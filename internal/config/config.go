package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Known delivery channels for EVENT_SINKS.
const (
	SinkLog     = "log"
	SinkInbox   = "inbox"
	SinkDiscord = "discord"
	SinkRedis   = "redis"
)

type Config struct {
	Token   string `env:"DISCORD_TOKEN"`
	GuildID string `env:"GUILD_ID"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH"` // empty: embedded schema
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	Timezone      string        `env:"TIMEZONE" envDefault:"Asia/Taipei"`
	DefaultLocale string        `env:"DEFAULT_LOCALE" envDefault:"zh-TW"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	LogMode       string        `env:"LOG_MODE" envDefault:"dev"`

	EventSinks      []string      `env:"EVENT_SINKS" envSeparator:"," envDefault:"log,inbox,discord"`
	NotifyQueueSize int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`
	NotifyWorkers   int           `env:"NOTIFY_WORKERS" envDefault:"2"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisChannel    string        `env:"REDIS_CHANNEL" envDefault:"rosterbot.events"`
	ReminderEvery   time.Duration `env:"REMINDER_INTERVAL" envDefault:"1m"`
}

// Load reads an optional .env file, parses the environment and validates.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// HasSink reports whether name is listed in EVENT_SINKS.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.EventSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: DISCORD_TOKEN is required")
	}
	if c.GuildID != "" {
		for _, r := range c.GuildID {
			if r < '0' || r > '9' {
				return fmt.Errorf("config: GUILD_ID must be a Discord snowflake (digits only)")
			}
		}
	}

	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres backend")
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	default:
		return fmt.Errorf("config: STORAGE_BACKEND must be %q or %q, got %q", BackendMemory, BackendPostgres, c.StorageBackend)
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("config: STORE_TIMEOUT must be positive")
	}
	if c.ReminderEvery <= 0 {
		return fmt.Errorf("config: REMINDER_INTERVAL must be positive")
	}

	sinks := c.EventSinks[:0]
	for _, s := range c.EventSinks {
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case "":
			continue
		case SinkLog, SinkDiscord:
		case SinkInbox:
			if c.StorageBackend != BackendPostgres {
				return fmt.Errorf("config: EVENT_SINKS=inbox requires the postgres backend")
			}
		case SinkRedis:
			if strings.TrimSpace(c.RedisAddr) == "" {
				return fmt.Errorf("config: EVENT_SINKS=redis requires REDIS_ADDR")
			}
		default:
			return fmt.Errorf("config: unknown event sink %q", s)
		}
		sinks = append(sinks, s)
	}
	c.EventSinks = sinks
	return nil
}
