package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/innovativehub/storefront/api/controllers"
	"github.com/innovativehub/storefront/api/routes"
	"github.com/innovativehub/storefront/internal/backend"
	"github.com/innovativehub/storefront/internal/cron"
	"github.com/innovativehub/storefront/internal/session"
	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/pkg/config"
	"github.com/innovativehub/storefront/pkg/db"
	"github.com/innovativehub/storefront/pkg/instance"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/metrics"
	"github.com/innovativehub/storefront/pkg/migrate"
	"github.com/innovativehub/storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Instance:    instance.GetID(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	dbClient, err := db.New(ctx, cfg.Slots, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap slot store", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing slot store", err)
		}
	}()

	if err := migrate.MaybeAutoRun(ctx, cfg.Slots, logg, m, dbClient); err != nil {
		logg.Error(ctx, "failed to run slot store migrations", err)
		os.Exit(1)
	}
	slots := db.NewSlotRepository(dbClient.DB())

	pingers := map[string]controllers.Pinger{"slots": dbClient}

	var redisClient *redis.Client
	var ephemeral func(id string) storage.KV
	var evicted func(ctx context.Context, id string)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		pingers["redis"] = redisClient
		ephemeral = func(id string) storage.KV {
			return redisClient.SessionSlots(id, cfg.Redis.SessionSlotTTL)
		}
	} else {
		logg.Warn(ctx, "redis not configured, session slots kept in memory")
		memory := storage.NewMemoryKV()
		ephemeral = func(id string) storage.KV {
			return storage.Prefixed(memory, id)
		}
		evicted = func(_ context.Context, id string) {
			memory.DeletePrefix(storage.PrefixOf(id))
		}
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMetrics(m),
	)
	if err != nil {
		logg.Error(ctx, "failed to create backend client", err)
		os.Exit(1)
	}

	sessions, err := session.NewRegistry(session.Deps{
		Backend:   client,
		Durable:   slots,
		Ephemeral: ephemeral,
		Checkout:  cfg.Checkout,
		Logger:    logg,
		Metrics:   m,
		Evicted:   evicted,
	}, cfg.Session.IdleTTL)
	if err != nil {
		logg.Error(ctx, "failed to create session registry", err)
		os.Exit(1)
	}

	housekeeping, err := newHousekeeping(cfg, logg, m, sessions, slots, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to create housekeeping", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			Sessions: sessions,
			Pingers:  pingers,
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := housekeeping.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownTimeout)
		defer cancel()
		logg.Info(ctx, "shutting down gateway")
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}

// newHousekeeping registers the idle-session sweep, which is per instance,
// and the slot retention purge, which runs on one instance at a time when
// redis provides the lock.
func newHousekeeping(cfg *config.Config, logg *logger.Logger, m *metrics.Metrics, sessions *session.Registry, slots *db.SlotRepository, redisClient *redis.Client) (*cron.Service, error) {
	sweep, err := cron.NewSessionSweepJob(sessions)
	if err != nil {
		return nil, err
	}
	retention, err := cron.NewSlotRetentionJob(cron.SlotRetentionJobParams{
		Logger:    logg,
		Slots:     slots,
		Retention: cfg.Session.SlotRetention,
	})
	if err != nil {
		return nil, err
	}

	var lock cron.Lock
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey("slot-retention"), 0)
		if err != nil {
			return nil, err
		}
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sweep, retention),
		Lock:     lock,
		Metrics:  m,
		Interval: cfg.Session.SweepInterval,
	})
}
