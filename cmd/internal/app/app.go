// Package app wires the warden runtime: config, logging, the session
// engine with its collaborators, and the ops HTTP surface.
//
// It is intentionally small and deterministic so the engine's behavior
// stays testable without the runtime around it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"warden/cmd/internal/chains"
	"warden/cmd/internal/sessions"
)

// App is the warden runtime: it owns the session engine, the scheduler,
// the optional archive pool, and the ops HTTP server.
type App struct {
	cfg Config
	log Logger

	pool      *pgxpool.Pool
	dbEnabled bool

	reg       *prometheus.Registry
	store     *sessions.Store
	scheduler *sessions.Scheduler
	notifier  sessions.Notifier
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	engCfg, err := sessions.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	reg := NewMetricsRegistry()
	metrics := sessions.NewMetrics(reg)

	var pool *pgxpool.Pool
	var arch sessions.Archive
	dbEnabled := false
	if cfg.DatabaseURL != "" {
		pool, err = NewDBPool(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		arch = sessions.NewPostgresArchive(pool)
		dbEnabled = true
		log.Info("db.enabled.postgres_archive")
	} else {
		log.Info("db.disabled.memory_only")
	}

	chain := sessions.NewSimChainClient()
	chain.Delay = cfg.ChainConfirmDelay

	store, err := sessions.NewStore(engCfg, sessions.StoreDeps{
		Log:     log,
		Clock:   sessions.SystemClock,
		Chain:   chain,
		Archive: arch,
		Metrics: metrics,
	})
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	if arch != nil {
		restoreCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		rows, err := arch.LoadActive(restoreCtx)
		cancel()
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := store.Restore(rows); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("store.restore", "sessions", len(rows))
	}

	notifier := NewLogNotifier(log)

	scheduler := sessions.NewScheduler(log, store)
	scheduler.OnExpire(func(id string) {
		sess, err := store.Get(id)
		if err != nil {
			return
		}
		name := sess.TargetName
		if name == "" {
			name = sess.TargetAddress
		}
		notifier.Warn(fmt.Sprintf("Session for %s on %s expired", name, chains.Name(sess.ChainID)))
	})

	return &App{
		cfg:       cfg,
		log:       log,
		pool:      pool,
		dbEnabled: dbEnabled,
		reg:       reg,
		store:     store,
		scheduler: scheduler,
		notifier:  notifier,
	}, nil
}

// Store exposes the session engine, e.g. for CLI subcommands.
func (a *App) Store() *sessions.Store { return a.store }

// Run starts the scheduler and the ops HTTP server and blocks until
// context cancellation or fatal server error. Shutdown order: HTTP
// first, then the scheduler and store, then the archive pool.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.pool, a.dbEnabled, a.reg)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		_ = a.scheduler.Run(schedCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case runErr = <-errCh:
		a.log.Error("server.fail", "err", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		if runErr == nil {
			runErr = err
		}
	}

	stopScheduler()
	<-schedDone
	a.store.Close()

	if a.pool != nil {
		a.pool.Close()
	}

	a.log.Info("server.stopped")
	return runErr
}
