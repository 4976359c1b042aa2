// Package apiclient is the one request pipeline to the shop API: it attaches
// the visitor's bearer token, returns response bodies and turns every failure
// into an *Error. It never retries.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	rc *resty.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}
	rc.OnBeforeRequest(attachBearer)

	return &Client{rc: rc}
}

// attachBearer reads the token from the session store carried by the
// request context. Requests without a store or token go out anonymous.
func attachBearer(_ *resty.Client, r *resty.Request) error {
	ctx := r.Context()
	store := session.FromContext(ctx)
	if store == nil {
		return nil
	}
	tok, err := session.Token(ctx, store)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if tok != "" {
		r.SetAuthToken(tok)
	}
	return nil
}

type RequestOption func(*resty.Request)

func WithQuery(key, value string) RequestOption {
	return func(r *resty.Request) { r.SetQueryParam(key, value) }
}

// Do sends one request and returns the raw response body, nil for an empty one.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	l := logging.FromContext(ctx).With("api_method", method, "api_path", path)

	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		l.Warn("api_request_failed", "reason", "transport", "error", err)
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}

	status := resp.StatusCode()
	if resp.IsError() {
		apiErr := newStatusError(method, path, status, resp.Body())
		l.Warn("api_request_failed", "status", status, "reason", apiErr.Kind.String(), "error", apiErr)
		return nil, apiErr
	}

	l.Debug("api_request_completed", "status", status, "duration_ms", time.Since(start).Milliseconds())
	raw := resp.Body()
	if len(raw) == 0 {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}
