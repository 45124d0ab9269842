// Package chessclient is a fasthttp client for the chess HTTP API.
package chessclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/park285/chess-api/pkg/chessdto"
	"github.com/valyala/fasthttp"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Body   chessdto.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Error != "" {
		return fmt.Sprintf("chess api: status=%d code=%s: %s", e.Status, e.Body.Code, e.Body.Error)
	}
	return fmt.Sprintf("chess api: status=%d", e.Status)
}

// Domain converts the answer into a transport-neutral DomainError.
func (e *APIError) Domain() chessdto.DomainError {
	return chessdto.DomainError{
		Code:      e.Body.Code,
		Message:   e.Body.Error,
		Retryable: shouldRetryStatus(e.Status) || e.Status == http.StatusTooManyRequests,
	}
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// WithDial replaces the TCP dialer, e.g. with an in-memory listener.
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *Client) { c.http.Dial = dial }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 64},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func gamePath(id string, suffix string) string {
	return "/chess/" + url.PathEscape(id) + suffix
}

func (c *Client) CreateGame(ctx context.Context) (*chessdto.GameState, error) {
	var state chessdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/chess", nil, &state, false); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Game(ctx context.Context, id string) (*chessdto.GameState, error) {
	var state chessdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodGet, gamePath(id, ""), nil, &state, true); err != nil {
		return nil, err
	}
	return &state, nil
}

// Move submits one move. Moves are never retried: a repeated move would
// be judged against the new position.
func (c *Client) Move(ctx context.Context, id string, fromRow, fromCol, toRow, toCol int) (*chessdto.GameState, error) {
	req := chessdto.MoveRequest{From: chessdto.At(fromRow, fromCol), To: chessdto.At(toRow, toCol)}
	var state chessdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodPut, gamePath(id, "/move"), req, &state, false); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) DeleteGame(ctx context.Context, id string) (string, error) {
	var resp chessdto.MessageResponse
	if err := c.doJSON(ctx, fasthttp.MethodDelete, gamePath(id, ""), nil, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Status asks for check/checkmate of color; an empty color means the side to move.
func (c *Client) Status(ctx context.Context, id, color string) (*chessdto.StatusResponse, error) {
	path := gamePath(id, "/status")
	if color = strings.TrimSpace(color); color != "" {
		path += "?color=" + url.QueryEscape(color)
	}
	var st chessdto.StatusResponse
	if err := c.doJSON(ctx, fasthttp.MethodGet, path, nil, &st, true); err != nil {
		return nil, err
	}
	return &st, nil
}

// BoardPNG downloads the rendered board image.
func (c *Client) BoardPNG(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodGet, gamePath(id, "/board.png"), nil, true)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, retry bool) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}
	body, err := c.do(ctx, method, path, payload, retry)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, retry bool) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	attempts := 1
	if retry {
		attempts = c.retryMax
		if attempts <= 0 {
			attempts = 1
		}
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		deadline := c.computeDeadline(ctx)
		err := c.http.DoDeadline(req, resp, deadline)
		if err != nil {
			if attempt == attempts {
				return nil, fmt.Errorf("request failed: %w", err)
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			apiErr := &APIError{Status: status}
			if json.Unmarshal(resp.Body(), &apiErr.Body) != nil {
				apiErr.Body.Error = truncate(string(resp.Body()), 512)
			}
			if attempt == attempts || !shouldRetryStatus(status) {
				return nil, apiErr
			}
			lastErr = apiErr
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}
		return append([]byte(nil), resp.Body()...), nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		clientDL := time.Now().Add(c.defaultTimeout)
		if dl.Before(clientDL) {
			return dl
		}
		return clientDL
	}
	return time.Now().Add(c.defaultTimeout)
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
