package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const maxLoggedBody = 512

// Client HTTP-клиент REST API парковок
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	retryAttempts uint64
	retryBase     time.Duration
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient подменяет http.Client (таймауты, транспорт)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry задаёт число повторов идемпотентных запросов и базовую задержку
func WithRetry(attempts uint64, base time.Duration) Option {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryBase = base
	}
}

// NewClient создаёт клиента с базовым URL бэкенда
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		logger:        logger,
		retryAttempts: 2,
		retryBase:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request описывает один вызов API
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
	ok     []int
	out    interface{}
}

type response struct {
	status int
	body   []byte
}

// call выполняет запрос, проверяет статус и декодирует ответ в req.out.
// GET-запросы повторяются при сетевых ошибках и 502/503/504.
func (c *Client) call(ctx context.Context, req request) (int, error) {
	var resp *response

	send := func(ctx context.Context) error {
		resp = nil
		r, err := c.send(ctx, req)
		if err != nil {
			return retry.RetryableError(err)
		}
		resp = r
		switch r.status {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return retry.RetryableError(c.statusError(req, r))
		}
		return nil
	}

	var err error
	if req.method == http.MethodGet && c.retryAttempts > 0 {
		backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewExponential(c.retryBase))
		err = retry.Do(ctx, backoff, send)
	} else {
		err = send(ctx)
	}
	if err != nil {
		if resp == nil {
			c.logger.Error("Backend request failed",
				zap.String("op", req.op),
				zap.String("path", req.path),
				zap.Error(err))
			return 0, fmt.Errorf("%s: %w", req.op, errors.Join(ErrUnavailable, err))
		}
		// Исчерпали повторы на 5xx, resp содержит последний ответ
	}

	if !slices.Contains(req.ok, resp.status) {
		statusErr := c.statusError(req, resp)
		c.logger.Error("Backend returned unexpected status",
			zap.String("op", req.op),
			zap.Int("status", resp.status),
			zap.String("body", statusErr.Body))
		return resp.status, statusErr
	}

	if req.out != nil && len(resp.body) > 0 && resp.status != http.StatusNoContent {
		if err := json.Unmarshal(resp.body, req.out); err != nil {
			c.logger.Error("Failed to decode backend response",
				zap.String("op", req.op),
				zap.String("body", truncate(resp.body)),
				zap.Error(err))
			return resp.status, fmt.Errorf("%s: decode response: %w", req.op, err)
		}
	}

	c.logger.Debug("Backend request succeeded",
		zap.String("op", req.op),
		zap.Int("status", resp.status))

	return resp.status, nil
}

func (c *Client) send(ctx context.Context, req request) (*response, error) {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Backend request",
		zap.String("op", req.op),
		zap.String("method", req.method),
		zap.String("url", endpoint),
		zap.String("request_id", requestID))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &response{status: httpResp.StatusCode, body: data}, nil
}

func (c *Client) statusError(req request, resp *response) *StatusError {
	return &StatusError{
		Op:     req.op,
		Status: resp.status,
		Body:   truncate(resp.body),
	}
}

// Health проверяет доступность бэкенда
func (c *Client) Health(ctx context.Context) error {
	r, err := c.send(ctx, request{op: "health", method: http.MethodGet, path: "/health"})
	if err != nil {
		c.logger.Warn("Backend health check failed", zap.Error(err))
		return fmt.Errorf("health: %w", errors.Join(ErrUnavailable, err))
	}
	if r.status != http.StatusOK {
		c.logger.Warn("Backend health check returned non-OK status", zap.Int("status", r.status))
		return fmt.Errorf("health: status %d: %w", r.status, ErrUnavailable)
	}
	return nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "..."
	}
	return s
}

func phonePath(prefix, phone string) string {
	return prefix + url.PathEscape(phone)
}
