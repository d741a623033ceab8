package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jobledger "jobescrow/contexts/escrow/job-ledger"
	ledgerpostgres "jobescrow/contexts/escrow/job-ledger/adapters/postgres"
	ledgerworkers "jobescrow/contexts/escrow/job-ledger/application/workers"
	ledgerports "jobescrow/contexts/escrow/job-ledger/ports"
	judgingengine "jobescrow/contexts/escrow/judging-engine"
	"jobescrow/contexts/escrow/judging-engine/adapters/consensus"
	"jobescrow/contexts/escrow/judging-engine/adapters/fetch"
	judgememory "jobescrow/contexts/escrow/judging-engine/adapters/memory"
	judgeredis "jobescrow/contexts/escrow/judging-engine/adapters/redis"
	judgeports "jobescrow/contexts/escrow/judging-engine/ports"
	"jobescrow/internal/app/ledgerbridge"
	"jobescrow/internal/platform/config"
	"jobescrow/internal/platform/db"
	"jobescrow/internal/platform/httpserver"
	"jobescrow/internal/platform/messaging"
	"jobescrow/internal/shared/events"

	goredis "github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	outboxBatchSize = 100
	shutdownTimeout = 10 * time.Second
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *goredis.Client

	// relay drains the in-memory outbox to bus when no database is configured.
	relay        *ledgerworkers.OutboxRelay
	bus          *messaging.Bus
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	broker       *messaging.RabbitMQ
	bus          *messaging.Bus
	outboxRelay  ledgerworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	return BuildAPIFromConfig(context.Background(), cfg, logger)
}

// BuildAPIFromConfig wires the API process. Each backing service that is not
// configured falls back to its in-process implementation.
func BuildAPIFromConfig(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &APIApp{
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}

	jobs, err := app.buildLedger(ctx, cfg)
	if err != nil {
		return nil, err
	}

	locker, err := app.buildLocker(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	judge := judgingengine.NewModule(judgingengine.Dependencies{
		Ledger:         ledgerbridge.New(jobs.Handler),
		Fetcher:        buildFetcher(cfg),
		Consensus:      buildConsensus(cfg, logger),
		Locker:         locker,
		StrictVerdicts: cfg.JudgeStrictVerdicts,
		Logger:         logger,
	})

	app.server = httpserver.New(jobs, judge, app.ready, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func (a *APIApp) buildLedger(ctx context.Context, cfg config.Config) (jobledger.Module, error) {
	if cfg.PostgresDSN == "" {
		a.logger.Warn("POSTGRES_DSN not set; using in-memory ledger",
			"event", "bootstrap_ledger_in_memory",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		jobs := jobledger.NewInMemoryModule(nil, a.logger)
		a.bus = messaging.NewBus(a.logger)
		a.relay = &ledgerworkers.OutboxRelay{
			Outbox:    jobs.Store,
			Publisher: a.bus,
			Clock:     jobs.Store,
			BatchSize: outboxBatchSize,
			Logger:    a.logger,
		}
		return jobs, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return jobledger.Module{}, err
	}
	a.postgres = pg

	repo := ledgerpostgres.NewRepository(pg.DB, a.logger)
	if err := repo.Migrate(ctx); err != nil {
		_ = pg.Close()
		return jobledger.Module{}, err
	}
	return jobledger.NewModule(jobledger.Dependencies{
		Repository: repo,
		Clock:      ledgerpostgres.SystemClock{},
		IDGen:      ledgerpostgres.UUIDGenerator{},
		Logger:     a.logger,
	}), nil
}

func (a *APIApp) buildLocker(ctx context.Context, cfg config.Config) (judgeports.JobLocker, error) {
	if cfg.RedisAddr == "" {
		return judgememory.NewLocker(), nil
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	a.redis = client
	return judgeredis.NewLocker(client, cfg.JudgeLockTTL), nil
}

func (a *APIApp) ready(ctx context.Context) error {
	if a.postgres != nil {
		if err := a.postgres.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func buildFetcher(cfg config.Config) judgeports.Fetcher {
	if !cfg.JudgeFetchEnabled {
		return nil
	}
	return fetch.NewHTTPFetcher(cfg.JudgeFetchTimeout, cfg.JudgeFetchMaxBytes)
}

func buildConsensus(cfg config.Config, logger *slog.Logger) judgeports.Consensus {
	if !cfg.JudgeConsensusEnabled {
		return nil
	}
	return consensus.NewReplicated(cfg.JudgeReplicas, cfg.JudgeQuorum, logger)
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if cfg.PostgresDSN == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	repo := ledgerpostgres.NewRepository(pg.DB, logger)
	if err := repo.Migrate(context.Background()); err != nil {
		_ = pg.Close()
		return nil, err
	}

	app := &WorkerApp{
		postgres:     pg,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}

	var publisher ledgerports.EventPublisher
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set; relaying to in-process bus",
			"event", "bootstrap_broker_in_process",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		app.bus = messaging.NewBus(logger)
		publisher = app.bus
	} else {
		broker, err := messaging.NewRabbitMQ(cfg.RabbitMQURL, cfg.EventsExchange, logger)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		app.broker = broker
		publisher = broker
	}

	app.outboxRelay = ledgerworkers.OutboxRelay{
		Outbox:    repo,
		Publisher: publisher,
		Clock:     ledgerpostgres.SystemClock{},
		BatchSize: outboxBatchSize,
		Logger:    logger,
	}
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	if a.bus != nil {
		a.bus.Subscribe(ctx, "ledger-audit", messaging.AllTopics, auditEvent(a.logger))
	}
	if a.relay != nil {
		go func() {
			_ = pollOutbox(ctx, *a.relay, a.pollInterval, a.logger)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func (a *APIApp) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)
	if w.bus != nil {
		w.bus.Subscribe(ctx, "ledger-audit", messaging.AllTopics, auditEvent(w.logger))
	}
	return pollOutbox(ctx, w.outboxRelay, w.pollInterval, w.logger)
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.broker != nil {
		errs = append(errs, w.broker.Close())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
}

// pollOutbox runs relay cycles until ctx is done. Publish failures are retried
// on the next tick.
func pollOutbox(ctx context.Context, relay ledgerworkers.OutboxRelay, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := relay.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("outbox relay cycle failed; retrying",
				"event", "bootstrap_outbox_retry",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// auditEvent logs every ledger event seen on the in-process bus, standing in
// for a downstream consumer.
func auditEvent(logger *slog.Logger) func(context.Context, events.Envelope) error {
	return func(_ context.Context, event events.Envelope) error {
		logger.Info("ledger event",
			"event", "ledger_event_observed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"event_type", event.EventType,
			"event_id", event.EventID,
			"job_id", event.PartitionKey,
		)
		return nil
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
