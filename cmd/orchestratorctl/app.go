package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oncallsvc/orchestrator/internal/events"
	"github.com/oncallsvc/orchestrator/internal/orchestrator/api"
	"github.com/oncallsvc/orchestrator/internal/platform/config"
	"github.com/oncallsvc/orchestrator/internal/platform/logger"
	"github.com/oncallsvc/orchestrator/internal/platform/metrics"
	platformpg "github.com/oncallsvc/orchestrator/internal/platform/pg"
	"github.com/oncallsvc/orchestrator/internal/runcontrol"
	"github.com/oncallsvc/orchestrator/internal/store/pg"
)

// app bundles everything a subcommand needs: the orchestration API
// surface plus enough of the underlying pieces (logger, publisher) to
// log and shut down cleanly. extend exposes *runcontrol.Controller
// directly since ExtendAll is not part of api.Service: it is a
// maintenance sweep, not a query/command an external caller issues.
type app struct {
	svc       api.Service
	extend    *runcontrol.Controller
	log       *slog.Logger
	publisher *events.Publisher
	pool      interface{ Close() }
}

// newApp loads configuration, opens the database pool, applies
// pending migrations, and wires a runcontrol.Controller behind
// api.Service. Every subcommand calls this once before doing any work.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "orchestratorctl",
	})

	pool, err := platformpg.NewPool(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if info, err := platformpg.ApplyMigrations(cfg.DB.DSN, "file://migrations"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	} else if info.Applied {
		log.Info("migrations applied", "version", info.FinalVersion)
	}

	repo := pg.New(pool, log)

	publisher := events.New(cfg.AMQP.URL, cfg.AMQP.Exchange, log)

	collectors := metrics.New()
	collectors.Register(prometheus.NewRegistry())

	controller := runcontrol.New(repo, cfg, log, publisher)
	controller.SetMetrics(metrics.NewRecorder(collectors))

	return &app{
		svc:       controller,
		extend:    controller,
		log:       log,
		publisher: publisher,
		pool:      pool,
	}, nil
}

// close releases the database pool and the AMQP connection, if either
// was ever opened.
func (a *app) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("closing amqp publisher", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
