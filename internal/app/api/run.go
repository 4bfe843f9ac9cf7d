package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	registryserver "github.com/Apurer/go-gin-dog-registry/go"
	"github.com/Apurer/go-gin-dog-registry/internal/clients/http/keycloak"
	breedmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/memory"
	breedobs "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/observability"
	breedpostgres "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/persistence/postgres"
	breedapp "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/application"
	breedports "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	dogmemory "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/memory"
	dogobs "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/observability"
	dogpostgres "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/persistence/postgres"
	dogapp "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/application"
	dogports "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/identity"
	ownermemory "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/memory"
	ownerobs "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/observability"
	ownerpostgres "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/persistence/postgres"
	ownerworkflows "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/workflows"
	ownerapp "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/application"
	ownerports "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/platform/apidocs"
	"github.com/Apurer/go-gin-dog-registry/internal/platform/auth"
	"github.com/Apurer/go-gin-dog-registry/internal/platform/httpmiddleware"
	platformobservability "github.com/Apurer/go-gin-dog-registry/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-dog-registry/internal/platform/postgres"
)

const serviceName = "dog-registry-api"

// Run boots the dog registry HTTP API with observability, repositories,
// identity and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
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

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	repos := BuildRepositories(db, logger)

	breedService := breedobs.New(
		breedapp.NewService(repos.Breeds),
		breedobs.WithLogger(logger),
		breedobs.WithTracer(instruments.Tracer("internal.breeds.application")),
		breedobs.WithMeter(instruments.Meter("internal.breeds.application")),
	)
	dogService := dogobs.New(
		dogapp.NewService(repos.Dogs, breedService),
		dogobs.WithLogger(logger),
		dogobs.WithTracer(instruments.Tracer("internal.dogs.application")),
		dogobs.WithMeter(instruments.Meter("internal.dogs.application")),
	)
	ownerService := ownerobs.New(
		ownerapp.NewService(repos.Owners),
		ownerobs.WithLogger(logger),
		ownerobs.WithTracer(instruments.Tracer("internal.owners.application")),
		ownerobs.WithMeter(instruments.Meter("internal.owners.application")),
	)

	keycloakClient, gateway, err := BuildIdentityGateway(cfg.Keycloak, logger)
	if err != nil {
		return err
	}
	var ownerWorkflows ownerports.WorkflowOrchestrator = ownerworkflows.NewInlineOwnerWorkflows(ownerService, gateway)
	if err := DurableDeletionSupported(db != nil, cfg.Keycloak); err != nil {
		logger.Info("running inline owner deletion", slog.String("reason", err.Error()))
	} else if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline owner deletion", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		ownerWorkflows = ownerworkflows.NewTemporalOwnerWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	verifier, err := buildVerifier(ctx, cfg.JWT, keycloakClient)
	if err != nil {
		return fmt.Errorf("failed to configure token verification: %w", err)
	}

	handlers := registryserver.ApiHandleFunctions{
		BreedAPI: registryserver.NewBreedAPI(breedService, cfg.DefaultPageSize),
		DogAPI:   registryserver.NewDogAPI(dogapp.NewFacade(dogService, ownerService), cfg.DefaultPageSize),
		OwnerAPI: registryserver.NewOwnerAPI(ownerapp.NewFacade(ownerService, dogService, gateway, ownerWorkflows), cfg.DefaultPageSize),
	}

	metrics := httpmiddleware.NewMetrics("dog_registry")
	router := gin.New()
	router.Use(
		gin.Recovery(),
		httpmiddleware.RequestID(),
		otelgin.Middleware(serviceName),
		metrics.Middleware("/metrics"),
		requestLogger(logger),
	)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", gin.WrapH(apidocs.Handler()))
	registryserver.NewRouterWithGinEngine(router, handlers, auth.NewMiddleware(verifier, logger))

	addr := ":" + cfg.Port
	logger.Info("Dog registry API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Dog registry API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Repositories groups the persistence adapters of every bounded context.
type Repositories struct {
	Breeds breedports.Repository
	Dogs   dogports.Repository
	Owners ownerports.Repository
}

// BuildRepositories picks Postgres when a connection is available and the
// in-memory stores otherwise.
func BuildRepositories(db *gorm.DB, logger *slog.Logger) Repositories {
	if db == nil {
		dogs := dogmemory.NewRepository()
		return Repositories{
			Breeds: breedmemory.NewRepository(dogs),
			Dogs:   dogs,
			Owners: ownermemory.NewRepository(dogs),
		}
	}
	logger.Info("repositories configured with postgres")
	return Repositories{
		Breeds: breedpostgres.NewRepository(db),
		Dogs:   dogpostgres.NewRepository(db),
		Owners: ownerpostgres.NewRepository(db),
	}
}

// BuildIdentityGateway returns the Keycloak gateway when configured and the
// in-memory gateway otherwise. The client is nil in the latter case.
func BuildIdentityGateway(cfg KeycloakConfig, logger *slog.Logger) (*keycloak.Client, ownerports.IdentityGateway, error) {
	if !cfg.Enabled() {
		logger.Warn("KEYCLOAK_BASE_URL not set, using in-memory identity gateway")
		return nil, identity.NewMemoryGateway(), nil
	}
	kc, err := keycloak.NewClient(keycloak.Config{
		BaseURL:      cfg.BaseURL,
		Realm:        cfg.Realm,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure keycloak client: %w", err)
	}
	logger.Info("identity gateway configured with keycloak", slog.String("realm", cfg.Realm))
	return kc, identity.NewKeycloakGateway(kc), nil
}

// buildVerifier prefers the configured key and falls back to the realm key.
func buildVerifier(ctx context.Context, cfg JWTConfig, kc *keycloak.Client) (auth.TokenVerifier, error) {
	raw := cfg.PublicKey
	if raw == "" {
		if kc == nil {
			return nil, errors.New("JWT_PUBLIC_KEY is required without keycloak")
		}
		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		key, err := kc.RealmPublicKey(fetchCtx)
		if err != nil {
			return nil, fmt.Errorf("fetch realm public key: %w", err)
		}
		raw = key
	}
	key, err := auth.ParseRSAPublicKey(raw)
	if err != nil {
		return nil, err
	}
	return auth.NewVerifier(key, cfg.Issuer)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "request served",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("request_id", httpmiddleware.RequestIDFrom(c.Request.Context())),
		)
	}
}

// DurableDeletionSupported reports whether owner deletion may be handed to the
// Temporal worker. The worker runs in its own process, so both the owner store
// and the identity provider have to be shared with the API.
func DurableDeletionSupported(hasDatabase bool, kc KeycloakConfig) error {
	var missing []string
	if !hasDatabase {
		missing = append(missing, "postgres")
	}
	if !kc.Enabled() {
		missing = append(missing, "keycloak")
	}
	if len(missing) > 0 {
		return fmt.Errorf("owner deletion workflows need shared state, missing: %s", strings.Join(missing, ", "))
	}
	return nil
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
