package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"rosterbot/internal/adapters/discord"
	"rosterbot/internal/adapters/scheduler"
	"rosterbot/internal/application"
	"rosterbot/internal/config"
	"rosterbot/internal/infrastructure/database"
	"rosterbot/internal/infrastructure/i18n"
	"rosterbot/internal/infrastructure/memory"
	"rosterbot/internal/infrastructure/notify"
	"rosterbot/internal/infrastructure/redisbus"
	"rosterbot/internal/platform/clock"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/output"
	"rosterbot/pkg/tz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("bot stopped", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		return err
	}
	clk := clock.NewSystemClock(loc)

	var (
		store output.ParticipationStore
		inbox output.NotificationRepository
	)
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return err
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = database.NewParticipationStore(pool, loc)
		inbox = database.NewNotificationRepository(pool)
	default:
		log.Warn("using in-memory storage; data is lost on restart")
		store = memory.NewStore()
	}

	translator := i18n.NewTranslator(cfg.DefaultLocale, log)

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		return err
	}

	var deliverers []notify.Deliverer
	for _, sink := range cfg.EventSinks {
		switch sink {
		case config.SinkLog:
			deliverers = append(deliverers, notify.NewLogDeliverer(log))
		case config.SinkInbox:
			deliverers = append(deliverers, notify.NewInbox(inbox))
		case config.SinkDiscord:
			deliverers = append(deliverers, discord.NewNotifier(session))
		case config.SinkRedis:
			pub, err := redisbus.NewPublisher(ctx, cfg.RedisAddr, cfg.RedisChannel, log)
			if err != nil {
				return err
			}
			defer pub.Close()
			deliverers = append(deliverers, pub)
		}
	}
	dispatcher := notify.NewDispatcher(notify.Config{
		QueueSize: cfg.NotifyQueueSize,
		Workers:   cfg.NotifyWorkers,
	}, log, deliverers...)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	opts := application.Options{
		Location:      loc,
		StoreTimeout:  cfg.StoreTimeout,
		DefaultLocale: cfg.DefaultLocale,
	}
	enrollment := application.NewEnrollmentService(store, dispatcher, translator, clk, opts, log)
	activities := application.NewActivityService(store, clk, opts, log)
	reminders := application.NewReminderService(store, dispatcher, translator, opts, log)

	handler := discord.NewHandler(enrollment, activities, inbox, translator, clk, loc, cfg.DefaultLocale, log)
	bot := discord.NewBot(session, cfg.GuildID, handler, log)
	daily := scheduler.NewReminders(reminders, clk, loc, cfg.ReminderEvery, log)

	log.Info("starting",
		"storage", cfg.StorageBackend,
		"timezone", loc.String(),
		"sinks", cfg.EventSinks,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Start(gctx) })
	g.Go(func() error { return daily.Run(gctx) })
	return g.Wait()
}
