package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct {
	Value string `json:"value"`
}

func (q echoQuery) Validate() error {
	if q.Value == "" {
		return errors.New("value is required")
	}
	return nil
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
	gen   uint64
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Generation(ctx context.Context) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *mapCache) SetIfGeneration(ctx context.Context, key string, value interface{}, ttl int, gen uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false, nil
	}
	c.items[key] = value
	return true, nil
}

func (c *mapCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]interface{}{}
	c.gen++
}

type counters struct {
	hits, misses int
	observed     []string
}

func (c *counters) CacheHit()  { c.hits++ }
func (c *counters) CacheMiss() { c.misses++ }
func (c *counters) ObserveQuery(queryType string, ok bool, d time.Duration) {
	c.observed = append(c.observed, queryType)
}

func TestQueryBus_Ask(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		return q.(echoQuery).Value, nil
	})))

	result, err := b.Ask(context.Background(), echoQuery{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)

	_, err = b.Ask(context.Background(), echoQuery{})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestQueryBus_UnknownQuery(t *testing.T) {
	_, err := NewQueryBus().Ask(context.Background(), echoQuery{Value: "x"})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCachingMiddleware(t *testing.T) {
	cache := &mapCache{items: map[string]interface{}{}}
	stats := &counters{}
	calls := 0
	b := NewQueryBus(NewMetricsMiddleware(stats), NewCachingMiddleware(cache, 30, stats))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		calls++
		return q.(echoQuery).Value, nil
	})))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := b.Ask(ctx, echoQuery{Value: "a"})
		require.NoError(t, err)
	}
	_, err := b.Ask(ctx, echoQuery{Value: "b"})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, stats.hits)
	assert.Equal(t, 2, stats.misses)
	assert.Len(t, stats.observed, 4)
	assert.Equal(t, "echoQuery", stats.observed[0])
}

func TestCachingMiddleware_DoesNotCacheErrors(t *testing.T) {
	cache := &mapCache{items: map[string]interface{}{}}
	calls := 0
	b := NewQueryBus(NewCachingMiddleware(cache, 30, nil))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		calls++
		return nil, errors.New("remote down")
	})))

	for i := 0; i < 2; i++ {
		_, err := b.Ask(context.Background(), echoQuery{Value: "a"})
		require.Error(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.items)
}

func TestCacheKey_DistinguishesPointerFields(t *testing.T) {
	type filtered struct {
		echoQuery
		Flag *bool `json:"flag,omitempty"`
	}
	yes, no := true, false

	k1, ok := CacheKey(filtered{echoQuery{"a"}, &yes})
	require.True(t, ok)
	k2, _ := CacheKey(filtered{echoQuery{"a"}, &no})
	k3, _ := CacheKey(filtered{echoQuery{"a"}, &yes})

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
}

func TestCachingMiddleware_SkipsStoreAfterClear(t *testing.T) {
	cache := &mapCache{items: map[string]interface{}{}}
	b := NewQueryBus(NewCachingMiddleware(cache, 30, nil))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		cache.clear()
		return q.(echoQuery).Value, nil
	})))

	result, err := b.Ask(context.Background(), echoQuery{Value: "a"})

	require.NoError(t, err)
	assert.Equal(t, "a", result)
	assert.Empty(t, cache.items)
}
