package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	orderskafka "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/events/kafka"
	httpapi "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/application"
	ordersports "github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
	platformmigrations "github.com/dispensa-escolar/pedidos-api/internal/platform/migrations"
	platformobservability "github.com/dispensa-escolar/pedidos-api/internal/platform/observability"
	platformpostgres "github.com/dispensa-escolar/pedidos-api/internal/platform/postgres"
)

// Run boots the orders HTTP API with observability, storage, events, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "pedidos-api"
	cfg := LoadConfig()

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo, err := buildOrderRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupRepo()

	serviceOpts := []ordersapp.Option{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := orderskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer publisher.Close()
		serviceOpts = append(serviceOpts, ordersapp.WithEventPublisher(publisher))
		logger.Info("kafka order events enabled", slog.String("topic", cfg.KafkaTopic))
	}

	coreService := ordersapp.NewService(repo, serviceOpts...)
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orchestrator ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline order creation", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	orderAPI := httpapi.NewOrderAPI(orderService, orchestrator, logger)
	router := httpapi.NewRouter(orderAPI, serviceName, cfg.CORSAllowOrigin)

	addr := ":" + cfg.Port
	logger.Info("orders API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("orders API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.Repository, func(), error) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return ordersmemory.NewRepository(), cleanup, nil
	}
	if err := platformmigrations.Run(db); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to migrate orders schema: %w", err)
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db), cleanup, nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
