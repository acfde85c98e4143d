package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers    map[reflect.Type]QueryHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewQueryBus creates a new query bus. Middlewares wrap every handler
// registered afterwards, first one outermost.
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:    make(map[reflect.Type]QueryHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i].Wrap(handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotFound, query)
	}

	return handler.Handle(ctx, query)
}

// Middleware wraps a query handler
type Middleware interface {
	Wrap(next QueryHandler) QueryHandler
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// CachingMiddleware adds caching to query handlers
type CachingMiddleware struct {
	cache   Cache
	ttl     int // TTL in seconds
	metrics CacheMetrics
}

// NewCachingMiddleware creates a new caching middleware. metrics may be nil.
func NewCachingMiddleware(cache Cache, ttl int, metrics CacheMetrics) *CachingMiddleware {
	return &CachingMiddleware{
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Wrap wraps a query handler with caching
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		cacheKey, ok := CacheKey(query)
		if !ok || m.ttl <= 0 {
			return next.Handle(ctx, query)
		}

		if cached, found := m.cache.Get(ctx, cacheKey); found {
			if m.metrics != nil {
				m.metrics.CacheHit()
			}
			return cached, nil
		}
		if m.metrics != nil {
			m.metrics.CacheMiss()
		}

		gen := m.cache.Generation(ctx)
		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}

		// Skipped when a command cleared the cache while the query ran.
		_, _ = m.cache.SetIfGeneration(ctx, cacheKey, result, m.ttl, gen)

		return result, nil
	})
}

// CacheKey derives a stable key from the query's type and JSON form
func CacheKey(query Query) (string, bool) {
	data, err := json.Marshal(query)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:%s", QueryName(query), data), true
}

// Cache interface for caching. Generation changes whenever the cache is
// cleared so results read before a mutation are not stored after it.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Generation(ctx context.Context) uint64
	SetIfGeneration(ctx context.Context, key string, value interface{}, ttl int, gen uint64) (bool, error)
}

// CacheMetrics counts cache lookups
type CacheMetrics interface {
	CacheHit()
	CacheMiss()
}

// MetricsMiddleware adds metrics to query handlers
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Wrap wraps a query handler with metrics
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		start := time.Now()
		result, err := next.Handle(ctx, query)
		m.metrics.ObserveQuery(QueryName(query), err == nil, time.Since(start))
		return result, err
	})
}

// Metrics records query outcomes
type Metrics interface {
	ObserveQuery(queryType string, ok bool, d time.Duration)
}

// QueryName returns the bare type name of query
func QueryName(query Query) string {
	t := reflect.TypeOf(query)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Errors
var (
	ErrHandlerNotFound  = errors.New("query handler not found")
	ErrValidationFailed = errors.New("query validation failed")
)
