package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands/bus"
	querybus "github.com/olafwrieden/azurechat-v3/application/queries/bus"
	"github.com/olafwrieden/azurechat-v3/interfaces/http/rest/handlers"
	"github.com/olafwrieden/azurechat-v3/interfaces/http/rest/middleware"
	v1 "github.com/olafwrieden/azurechat-v3/interfaces/http/rest/v1"
	"github.com/olafwrieden/azurechat-v3/interfaces/rpc"
	"github.com/olafwrieden/azurechat-v3/pkg/auth"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

// ReadinessCheck reports whether the service can take traffic
type ReadinessCheck func(ctx context.Context) error

// Options controls the optional parts of the middleware stack. Nil fields
// switch the matching feature off.
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	Metrics        *observability.Collector
	Authenticator  *auth.JWTValidator
	RateLimiter    auth.RateLimiter
	Ready          ReadinessCheck
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *apperrors.ErrorHandler
	opts         Options
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		opts:         opts,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Metrics != nil {
		router.Use(middleware.Metrics(rt.opts.Metrics))
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.Metrics.Handler())
	}

	threadHandler := handlers.NewThreadHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	procedureHandler := handlers.NewProcedureHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)

	router.Group(func(r chi.Router) {
		if rt.opts.Authenticator != nil {
			r.Use(middleware.Authenticate(rt.opts.Authenticator, rt.logger))
		}
		if rt.opts.RateLimiter != nil {
			r.Use(middleware.RateLimit(rt.opts.RateLimiter, rt.logger))
		}

		r.Mount("/api/v1", v1.NewRouter(threadHandler))
		r.HandleFunc(rpc.PathPrefix+"/{procedure}", procedureHandler.Call)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	writeStatus(w, http.StatusOK, "healthy", "")
}

// readinessCheck reports 503 while the agent service is unreachable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.opts.Ready != nil {
		if err := rt.opts.Ready(req.Context()); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable", err.Error())
			return
		}
	}
	writeStatus(w, http.StatusOK, "ready", "")
}

func writeStatus(w http.ResponseWriter, code int, status, reason string) {
	body := map[string]string{"status": status}
	if reason != "" {
		body["reason"] = reason
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
