package di

import (
	"context"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands/bus"
	querybus "github.com/olafwrieden/azurechat-v3/application/queries/bus"
	"github.com/olafwrieden/azurechat-v3/infrastructure/agents"
	"github.com/olafwrieden/azurechat-v3/infrastructure/config"
	"github.com/olafwrieden/azurechat-v3/interfaces/http/rest"
	"github.com/olafwrieden/azurechat-v3/pkg/auth"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	LogLevel    zap.AtomicLevel
	Logger      *zap.Logger
	Metrics     *observability.Collector
	Tracing     *observability.TracerProvider
	Agents      *agents.Client
	Cache       *InMemoryCache
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	RateLimiter *auth.KeyedLimiter
	Router      *rest.Router
}

// Close releases background resources. The logger is synced last.
func (c *Container) Close(ctx context.Context) error {
	c.Cache.Stop()
	if c.RateLimiter != nil {
		c.RateLimiter.Stop()
	}
	err := c.Tracing.Shutdown(ctx)
	_ = c.Logger.Sync()
	return err
}
