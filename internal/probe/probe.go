// Package probe runs end-to-end smoke checks against a running instance.
//
// Each check exercises one externally visible contract: the greeting
// payloads, the X-Request-Id header, and both echo endpoints.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/example/pipeline-demo/internal/infrastructure/tracing"
	"github.com/example/pipeline-demo/internal/shared/id"
)

// Result is the outcome of one check.
type Result struct {
	Name   string
	OK     bool
	Detail string
}

// Prober holds the clients used by the checks.
type Prober struct {
	base    *url.URL
	client  *resty.Client
	dialer  *websocket.Dialer
	logger  *zap.Logger
	payload string
}

// Option configures a Prober.
type Option func(*Prober)

// WithRetries sets how often a failed HTTP check is retried.
func WithRetries(count int, wait time.Duration) Option {
	return func(p *Prober) {
		p.client.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// WithPayload changes the text sent to the echo endpoints.
func WithPayload(text string) Option {
	return func(p *Prober) {
		p.payload = text
	}
}

// New creates a prober for the service at baseURL.
func New(baseURL string, logger *zap.Logger, opts ...Option) (*Prober, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Pooled transport from retryablehttp; resty drives the retries.
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	p := &Prober{
		base: u,
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(5*time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(200*time.Millisecond).
			SetHeader("User-Agent", "pipeline-demo-probe/1.0").
			SetTransport(retryClient.HTTPClient.Transport),
		dialer:  &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		logger:  logger,
		payload: "ping",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes every check. The returned error joins all failures.
func (p *Prober) Run(ctx context.Context) ([]Result, error) {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"GET /api/hello", func(ctx context.Context) error { return p.greeting(ctx, "/api/hello", "hello", "ts") }},
		{"GET /api/http", func(ctx context.Context) error {
			return p.greeting(ctx, "/api/http", "HTTP request received", "timestamp")
		}},
		{"WS /ws", func(ctx context.Context) error { return p.echo(ctx, "/ws", "Echo: ") }},
		{"WS /ws-old", func(ctx context.Context) error { return p.echo(ctx, "/ws-old", "Echo (old): ") }},
	}

	results := make([]Result, 0, len(checks))
	var errs []error
	for _, c := range checks {
		res := Result{Name: c.name, OK: true}
		if err := c.fn(ctx); err != nil {
			res.OK = false
			res.Detail = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			p.logger.Warn("check failed", zap.String("check", c.name), zap.Error(err))
		} else {
			p.logger.Info("check passed", zap.String("check", c.name))
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (p *Prober) greeting(ctx context.Context, path, wantMessage, tsKey string) error {
	var body map[string]any
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	if rid := resp.Header().Get(tracing.HeaderRequestID); !id.IsValidRequestID(rid) {
		return fmt.Errorf("missing or malformed %s header %q", tracing.HeaderRequestID, rid)
	}
	if got := body["message"]; got != wantMessage {
		return fmt.Errorf("message = %v, want %q", got, wantMessage)
	}
	ts, ok := body[tsKey].(string)
	if !ok {
		return fmt.Errorf("field %q missing", tsKey)
	}
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		return fmt.Errorf("field %q is not ISO-8601: %w", tsKey, err)
	}
	return nil
}

func (p *Prober) echo(ctx context.Context, path, prefix string) error {
	conn, _, err := p.dialer.DialContext(ctx, p.wsURL(path), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	} else {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(p.payload)); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	if want := prefix + p.payload; string(data) != want {
		return fmt.Errorf("reply = %q, want %q", data, want)
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return nil
}

func (p *Prober) wsURL(path string) string {
	u := *p.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}
