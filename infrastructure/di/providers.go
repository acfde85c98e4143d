package di

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands/bus"
	commandhandlers "github.com/olafwrieden/azurechat-v3/application/commands/handlers"
	"github.com/olafwrieden/azurechat-v3/application/ports"
	querybus "github.com/olafwrieden/azurechat-v3/application/queries/bus"
	queryhandlers "github.com/olafwrieden/azurechat-v3/application/queries/handlers"
	"github.com/olafwrieden/azurechat-v3/infrastructure/agents"
	"github.com/olafwrieden/azurechat-v3/infrastructure/config"
	"github.com/olafwrieden/azurechat-v3/infrastructure/messaging/eventbridge"
	"github.com/olafwrieden/azurechat-v3/infrastructure/messaging/logpub"
	"github.com/olafwrieden/azurechat-v3/interfaces/http/rest"
	"github.com/olafwrieden/azurechat-v3/pkg/auth"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

// ProvideLogLevel creates the level shared by the logger and the config watcher
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zap.AtomicLevel{}, err
	}
	return zap.NewAtomicLevelAt(level), nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("azurechat")
}

// ProvideTracerProvider installs the OpenTelemetry tracer provider
func ProvideTracerProvider(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.EnableTracing,
		ServiceName: "azurechat-threads",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
}

// ProvideAgentsClient creates the agent service client
func ProvideAgentsClient(
	cfg *config.Config,
	tp *observability.TracerProvider,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*agents.Client, error) {
	return agents.NewClient(agents.Config{
		Endpoint:    cfg.AgentsEndpoint,
		APIVersion:  cfg.AgentsAPIVersion,
		APIKey:      cfg.AgentsAPIKey,
		BearerToken: cfg.AgentsBearerToken,
		Timeout:     cfg.AgentsTimeout,
	}, logger,
		agents.WithTracer(tp.Tracer()),
		agents.WithMetrics(metrics),
	)
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured and
// to the log otherwise
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.EventPublisher, error) {
	if cfg.EventBusName == "" {
		return logpub.New(logger.Named("events")), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger.Named("events")), nil
}

// ProvideCache creates the query result cache
func ProvideCache() *InMemoryCache {
	return NewInMemoryCache()
}

// ProvideCommandBus creates a command bus with registered handlers. Every
// successful command clears the query cache.
func ProvideCommandBus(
	threads ports.ThreadService,
	publisher ports.EventPublisher,
	cache ports.Cache,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.InvalidationMiddleware(cache, logger),
	)

	if err := commandhandlers.Register(commandBus, threads, publisher, metrics, logger); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	cfg *config.Config,
	threads ports.ThreadService,
	cache ports.Cache,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.NewMetricsMiddleware(metrics),
		querybus.NewCachingMiddleware(cache, int(cfg.CacheTTL.Seconds()), metrics),
	)

	if err := queryhandlers.Register(queryBus, threads, logger); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideJWTValidator returns nil when authentication is off
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.EnableAuth {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideRateLimiter returns nil when rate limiting is off
func ProvideRateLimiter(cfg *config.Config) *auth.KeyedLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	return auth.NewKeyedLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

// ProvideErrorHandler creates the HTTP error writer
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	client *agents.Client,
	metrics *observability.Collector,
	validator *auth.JWTValidator,
	limiter *auth.KeyedLimiter,
	logger *zap.Logger,
) *rest.Router {
	opts := rest.Options{
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Authenticator:  validator,
		Ready:          breakerReadiness(client),
	}
	if cfg.EnableMetrics {
		opts.Metrics = metrics
	}
	// A nil *KeyedLimiter must not become a non-nil interface.
	if limiter != nil {
		opts.RateLimiter = limiter
	}
	return rest.NewRouter(commandBus, queryBus, errorHandler, opts, logger)
}

// breakerReadiness fails while the agent service breaker is open
func breakerReadiness(client *agents.Client) rest.ReadinessCheck {
	return func(ctx context.Context) error {
		if client.BreakerState() == gobreaker.StateOpen {
			return errors.New("agent service circuit open")
		}
		return nil
	}
}
