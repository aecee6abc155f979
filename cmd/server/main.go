// Command server starts the taskflow workflow engine HTTP API server.
//
// Usage:
//
//	server [flags]
//
// Flags:
//
//	-addr string
//	    Server address (default ":8080")
//	-store-dsn string
//	    Persistence store DSN; sqlite ("file:...") or postgres ("postgres://...")
//	-max-execution-time duration
//	    Maximum workflow execution time (default 5m)
//	-event-bus-redis-addr string
//	    Redis address for the optional workflow event bus (empty disables it)
//
// The server exposes:
//
//	POST   /api/v1/workflows               - submit and run a workflow
//	GET    /api/v1/workflows/{id}           - fetch a workflow's record
//	GET    /api/v1/workflows/{id}/events    - stream a workflow's events (requires the event bus)
//	GET    /api/v1/tools                    - the tool catalogue
//	GET    /api/v1/tools/{name}/schema      - a tool's standalone input schema
//	POST   /api/v1/tools/{name}/invoke      - invoke a tool directly
//	GET    /healthz, /livez, /readyz        - health probes
//	GET    /metrics                         - Prometheus metrics
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goflag "flag"

	"github.com/redis/go-redis/v9"

	"github.com/harshj20/taskflow/pkg/breaker"
	"github.com/harshj20/taskflow/pkg/config"
	"github.com/harshj20/taskflow/pkg/engine"
	"github.com/harshj20/taskflow/pkg/eventbus"
	"github.com/harshj20/taskflow/pkg/health"
	"github.com/harshj20/taskflow/pkg/logging"
	"github.com/harshj20/taskflow/pkg/recovery"
	"github.com/harshj20/taskflow/pkg/registry"
	"github.com/harshj20/taskflow/pkg/runner"
	"github.com/harshj20/taskflow/pkg/schema"
	"github.com/harshj20/taskflow/pkg/server"
	"github.com/harshj20/taskflow/pkg/store"
	"github.com/harshj20/taskflow/pkg/telemetry"
	"github.com/harshj20/taskflow/tools"
)

func main() {
	addr := goflag.String("addr", ":8080", "Server address")
	storeDSN := goflag.String("store-dsn", "", "Persistence store DSN (empty uses config default / in-memory for tests)")
	maxExecutionTime := goflag.Duration("max-execution-time", 0, "Maximum workflow execution time (0 uses config default)")
	eventBusRedisAddr := goflag.String("event-bus-redis-addr", "", "Redis address for the optional workflow event bus")
	goflag.Parse()

	cfg := config.Default()
	if *storeDSN != "" {
		cfg.StoreDSN = *storeDSN
	}
	if *maxExecutionTime > 0 {
		cfg.MaxExecutionTime = *maxExecutionTime
	}
	if *eventBusRedisAddr != "" {
		cfg.EventBusRedisAddr = *eventBusRedisAddr
	}

	logger := logging.New(logging.DefaultConfig())

	if err := run(cfg, *addr, logger); err != nil {
		logger.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, addr string, logger *logging.Logger) error {
	ctx := context.Background()

	st, err := openStore(cfg.StoreDSN, cfg.StoreMaxOpenConn)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	reg := registry.New()
	tools.RegisterDefaults(reg, cfg)
	composer := schema.NewComposer(reg)

	breakers := breaker.NewRegistry(breaker.Settings{
		MaxFailures:  cfg.BreakerMaxFailures,
		OpenTimeout:  cfg.BreakerOpenTimeout,
		FailureRatio: cfg.BreakerFailureRatio,
	})
	r := runner.New(reg, breakers, st)

	telemetryProvider, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:   cfg.ServiceName,
		EnableTracing: cfg.EnableTracing,
		EnableMetrics: cfg.EnableMetrics,
	})
	if err != nil {
		return fmt.Errorf("create telemetry provider: %w", err)
	}

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMaxExecutionTime(cfg.MaxExecutionTime),
		engine.WithObserver(telemetry.NewTelemetryObserver(telemetryProvider)),
	}

	var publisher *eventbus.Publisher
	var subscriber *eventbus.Subscriber
	if cfg.EventBusRedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.EventBusRedisAddr})
		publisher = eventbus.NewPublisher(redisClient)
		subscriber = eventbus.NewSubscriber(redisClient)
		engineOpts = append(engineOpts, engine.WithObserver(publisher))
	}

	eng := engine.New(r, st, engineOpts...)

	recoveryCoordinator := recovery.New(st, logger)
	report, err := recoveryCoordinator.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("recovery reconcile: %w", err)
	}
	if len(report.RecoveredWorkflowIDs) > 0 || len(report.RecoveredNodeIDs) > 0 {
		logger.WithFields(map[string]interface{}{
			"workflows": len(report.RecoveredWorkflowIDs),
			"nodes":     len(report.RecoveredNodeIDs),
		}).Warn("reconciled interrupted executions at startup")
	}

	healthChecker := health.NewChecker(cfg.ServiceName, "0.1.0")
	healthChecker.RegisterCheck("store", func(ctx context.Context) error {
		_, err := st.ListInFlightWorkflows(ctx)
		return err
	}, 5*time.Second, true)
	healthChecker.RegisterCheck("registry", func(ctx context.Context) error {
		if len(reg.List()) == 0 {
			return fmt.Errorf("no tools registered")
		}
		return nil
	}, 5*time.Second, false)

	serverConfig := server.DefaultConfig()
	serverConfig.Address = addr

	srv, err := server.New(serverConfig, server.Deps{
		Tools:      reg,
		Composer:   composer,
		Store:      st,
		Engine:     eng,
		Health:     healthChecker,
		Telemetry:  telemetryProvider,
		Publisher:  publisher,
		Subscriber: subscriber,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.WithField("address", addr).Info("starting taskflow server")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openStore(dsn string, maxOpenConns int) (store.Store, error) {
	if dsn == "" {
		return store.NewInMemoryStore(), nil
	}
	return store.OpenSQLStore(dsn, maxOpenConns)
}
