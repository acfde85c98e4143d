// Package agents is the HTTP client for the managed agent service's thread
// API. It forwards calls, maps remote failures onto application errors and
// guards the service with a circuit breaker.
package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

const (
	serviceName     = "agents"
	maxPageSize     = 100
	maxResponseBody = 4 << 20
)

// Config holds agent service connection settings
type Config struct {
	Endpoint    string
	APIVersion  string
	APIKey      string
	BearerToken string
	Timeout     time.Duration

	// Breaker settings; zero values take the defaults below
	BreakerMaxRequests      uint32
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold float64
	BreakerMinRequests      uint32
}

// Client implements ports.ThreadService over HTTP
type Client struct {
	endpoint   string
	apiVersion string
	apiKey     string
	token      string

	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	tracer     trace.Tracer
	metrics    *observability.Collector
	logger     *zap.Logger
}

var _ ports.ThreadService = (*Client)(nil)

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTracer sets the tracer used for per-call spans
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithMetrics sets the collector for call metrics
func WithMetrics(m *observability.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates an agent service client
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		return nil, errors.New("agent service endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid agent service endpoint: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		endpoint:   endpoint,
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		token:      cfg.BearerToken,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     noop.NewTracerProvider().Tracer(serviceName),
		logger:     logger.Named("agents"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = c.newBreaker(cfg)

	return c, nil
}

func (c *Client) newBreaker(cfg Config) *gobreaker.CircuitBreaker {
	maxRequests := cfg.BreakerMaxRequests
	if maxRequests == 0 {
		maxRequests = 5
	}
	interval := cfg.BreakerInterval
	if interval == 0 {
		interval = 30 * time.Second
	}
	openTimeout := cfg.BreakerTimeout
	if openTimeout == 0 {
		openTimeout = 60 * time.Second
	}
	threshold := cfg.BreakerFailureThreshold
	if threshold == 0 {
		threshold = 0.6
	}
	minRequests := cfg.BreakerMinRequests
	if minRequests == 0 {
		minRequests = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if c.metrics != nil {
				c.metrics.SetBreakerState(name, float64(to))
			}
		},
		// The service answering with a client error is not an outage.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var re *remoteError
			if errors.As(err, &re) {
				return re.status < 500 && re.status != http.StatusTooManyRequests
			}
			return errors.Is(err, context.Canceled)
		},
	})
}

// BreakerState reports the breaker state; readiness checks use it
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Create creates a new thread
func (c *Client) Create(ctx context.Context, metadata thread.Metadata) (*thread.Thread, error) {
	body := map[string]interface{}{}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}
	var out thread.Thread
	if err := c.do(ctx, "create", http.MethodPost, "/threads", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches one page of threads
func (c *Client) List(ctx context.Context, opts thread.ListOptions) (*thread.Page, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Order != "" {
		q.Set("order", string(opts.Order))
	}
	if opts.After != "" {
		q.Set("after", opts.After)
	}
	if opts.Before != "" {
		q.Set("before", opts.Before)
	}

	var out thread.Page
	if err := c.do(ctx, "list", http.MethodGet, "/threads", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAll walks the pages. A positive opts.Limit caps the total returned.
func (c *Client) ListAll(ctx context.Context, opts thread.ListOptions) ([]thread.Thread, error) {
	total := opts.Limit
	page := opts
	var threads []thread.Thread

	for {
		page.Limit = maxPageSize
		if total > 0 && total-len(threads) < maxPageSize {
			page.Limit = total - len(threads)
		}

		p, err := c.List(ctx, page)
		if err != nil {
			return nil, err
		}
		threads = append(threads, p.Data...)

		if total > 0 && len(threads) >= total {
			return threads[:total], nil
		}
		if !p.HasMore || p.LastID == "" || p.LastID == page.After {
			return threads, nil
		}
		page.After = p.LastID
		page.Before = ""
	}
}

// Get retrieves a thread
func (c *Client) Get(ctx context.Context, id string) (*thread.Thread, error) {
	var out thread.Thread
	if err := c.do(ctx, "get", http.MethodGet, threadPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces thread metadata
func (c *Client) Update(ctx context.Context, id string, metadata thread.Metadata) (*thread.Thread, error) {
	if metadata == nil {
		metadata = thread.Metadata{}
	}
	body := map[string]interface{}{"metadata": metadata}
	var out thread.Thread
	if err := c.do(ctx, "update", http.MethodPost, threadPath(id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a thread
func (c *Client) Delete(ctx context.Context, id string) (*thread.DeletionStatus, error) {
	var out thread.DeletionStatus
	if err := c.do(ctx, "delete", http.MethodDelete, threadPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func threadPath(id string) string {
	return "/threads/" + url.PathEscape(id)
}

// do performs one call through the breaker and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) (err error) {
	ctx, span := c.tracer.Start(ctx, "agents."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("agents.path", path))

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	start := time.Now()
	status := 0
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, newRemoteError(resp.StatusCode, data)
		}
		return data, nil
	})
	if c.metrics != nil {
		c.metrics.ObserveAgentCall(op, status, time.Since(start))
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	if err != nil {
		c.logger.Debug("Agent service call failed",
			zap.String("operation", op),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Error(err),
		)
		return mapError(ctx, op, err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result.([]byte), out); err != nil {
		return mapError(ctx, op, fmt.Errorf("decode %s response: %w", op, err))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.apiVersion != "" {
		query.Set("api-version", c.apiVersion)
	}
	target := c.endpoint + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-ms-client-request-id", uuid.NewString())
	switch {
	case c.apiKey != "":
		req.Header.Set("api-key", c.apiKey)
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}
