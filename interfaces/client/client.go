// Package client calls the thread procedures over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/queries"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
	"github.com/olafwrieden/azurechat-v3/interfaces/rpc"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

const maxResponseBody = 8 << 20

// Config holds API connection settings
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	StaleTime time.Duration
}

// Client calls the procedure routes of the thread API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      *QueryCache
	logger     *zap.Logger
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, errors.New("API base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    base,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		cache:      NewQueryCache(cfg.StaleTime),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Cache exposes the query cache so callers can invalidate after mutations
func (c *Client) Cache() *QueryCache {
	return c.cache
}

// ListThreads calls threads.getMany
func (c *Client) ListThreads(ctx context.Context, query queries.ListThreadsQuery) ([]thread.Thread, error) {
	var out []thread.Thread
	if err := c.Query(ctx, rpc.ThreadsGetMany, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetThread calls threads.getById
func (c *Client) GetThread(ctx context.Context, id string) (*thread.Thread, error) {
	var out thread.Thread
	if err := c.Query(ctx, rpc.ThreadsGetByID, queries.GetThreadQuery{ThreadID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateThread calls threads.create
func (c *Client) CreateThread(ctx context.Context, userID string) (*thread.Thread, error) {
	var out thread.Thread
	if err := c.Mutate(ctx, rpc.ThreadsCreate, commands.CreateThreadCommand{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleBookmark calls threads.bookmark
func (c *Client) ToggleBookmark(ctx context.Context, id string) (*thread.Thread, error) {
	var out thread.Thread
	if err := c.Mutate(ctx, rpc.ThreadsBookmark, commands.ToggleBookmarkCommand{ThreadID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameThread calls threads.rename
func (c *Client) RenameThread(ctx context.Context, id, title string) (*thread.Thread, error) {
	var out thread.Thread
	if err := c.Mutate(ctx, rpc.ThreadsRename, commands.RenameThreadCommand{ThreadID: id, Title: title}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteThread calls threads.delete
func (c *Client) DeleteThread(ctx context.Context, id string) (*commands.DeleteResult, error) {
	var out commands.DeleteResult
	if err := c.Mutate(ctx, rpc.ThreadsDelete, commands.DeleteThreadCommand{ThreadID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query calls a query procedure, serving repeated calls from the cache
func (c *Client) Query(ctx context.Context, procedure string, input, out interface{}) error {
	payload, err := marshalInput(input)
	if err != nil {
		return err
	}

	key := QueryKey(procedure, payload)
	if data, ok := c.cache.Get(key); ok {
		c.logger.Debug("Query cache hit", zap.String("procedure", procedure))
		return decodeData(data, out)
	}

	target := rpc.Path(c.baseURL+rpc.PathPrefix, procedure)
	if len(payload) > 0 {
		target += "?input=" + url.QueryEscape(string(payload))
	}
	data, err := c.call(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	c.cache.Set(key, data)
	return decodeData(data, out)
}

// Mutate calls a mutation procedure. It never touches the cache.
func (c *Client) Mutate(ctx context.Context, procedure string, input, out interface{}) error {
	payload, err := marshalInput(input)
	if err != nil {
		return err
	}

	data, err := c.call(ctx, http.MethodPost, rpc.Path(c.baseURL+rpc.PathPrefix, procedure), payload)
	if err != nil {
		return err
	}
	return decodeData(data, out)
}

// call performs the request and returns the raw result data
func (c *Client) call(ctx context.Context, method, target string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(target).WithCause(err)
		}
		return nil, apperrors.NewUnavailableError("thread API").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, apperrors.NewUnavailableError("thread API").WithCause(err)
	}
	c.logger.Debug("Procedure call",
		zap.String("method", method),
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, raw)
	}

	var envelope rpc.RawResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, apperrors.NewInternalError("malformed procedure response").WithCause(err)
	}
	return envelope.Result.Data, nil
}

func marshalInput(input interface{}) ([]byte, error) {
	if input == nil {
		return nil, nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	if string(data) == "{}" || string(data) == "null" {
		return nil, nil
	}
	return data, nil
}

func decodeData(data []byte, out interface{}) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewInternalError("malformed procedure result").WithCause(err)
	}
	return nil
}

// decodeError turns an error envelope into an AppError carrying the
// server's type, status and message
func decodeError(status int, raw []byte) error {
	var envelope rpc.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Message == "" {
		return &apperrors.AppError{
			Type:       apperrors.ErrorType(apperrors.StatusToErrorType(status)),
			Message:    strings.TrimSpace(http.StatusText(status)),
			HTTPStatus: status,
		}
	}

	body := envelope.Error
	errType := apperrors.ErrorType(body.Type)
	if errType == "" {
		errType = apperrors.ErrorType(apperrors.StatusToErrorType(status))
	}
	return &apperrors.AppError{
		Type:       errType,
		Message:    body.Message,
		Code:       body.Code,
		Details:    body.Details,
		HTTPStatus: status,
	}
}

// InvalidateQueries drops cached results of procedure
func (c *Client) InvalidateQueries(procedure string) int {
	return c.cache.InvalidateQueries(procedure)
}
