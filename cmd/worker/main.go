package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-dog-registry/internal/app/api"
	ownerobs "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/observability"
	ownerapp "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application"
	platformobservability "github.com/Apurer/go-gin-dog-registry/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-dog-registry/internal/platform/postgres"
	owneractivities "github.com/Apurer/go-gin-dog-registry/internal/platform/temporal/activities/owners"
	ownerworkflows "github.com/Apurer/go-gin-dog-registry/internal/platform/temporal/workflows/owners"
)

func main() {
	ctx := context.Background()
	const serviceName = "dog-registry-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if err := api.DurableDeletionSupported(db != nil, cfg.Keycloak); err != nil {
		logger.Error("worker cannot run owner deletion workflows", slog.String("error", err.Error()))
		os.Exit(1)
	}
	repos := api.BuildRepositories(db, logger)
	ownerService := ownerobs.New(
		ownerapp.NewService(repos.Owners),
		ownerobs.WithLogger(logger),
		ownerobs.WithTracer(instruments.Tracer("internal.owners.application")),
		ownerobs.WithMeter(instruments.Meter("internal.owners.application")),
	)
	_, gateway, err := api.BuildIdentityGateway(cfg.Keycloak, logger)
	if err != nil {
		logger.Error("failed to configure identity gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ownerActivities := owneractivities.NewActivities(ownerService, gateway)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, ownerworkflows.OwnerDeletionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(ownerworkflows.OwnerDeletionWorkflow, workflow.RegisterOptions{Name: ownerworkflows.OwnerDeletionWorkflowName})
	w.RegisterActivityWithOptions(ownerActivities.DeleteOwnerRecord, activity.RegisterOptions{Name: owneractivities.DeleteOwnerRecordActivityName})
	w.RegisterActivityWithOptions(ownerActivities.DeleteIdentity, activity.RegisterOptions{Name: owneractivities.DeleteIdentityActivityName})

	logger.Info("worker listening", slog.String("taskQueue", ownerworkflows.OwnerDeletionTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
