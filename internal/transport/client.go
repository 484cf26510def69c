// Package transport performs calls against the remote record service.
//
// Each call is an HTTP GET carrying the operation and its parameters in the
// query string plus a fresh callback name. The service answers with a JSON
// envelope, optionally wrapped as name(...). A table of pending calls keyed
// by callback name routes each answer to exactly one caller; answers for a
// name that has already settled are dropped.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap/internal/metrics"
	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/logging"
)

// Op is a remote operation name.
type Op string

// Remote operations understood by the service.
const (
	OpList   Op = "list"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpWipe   Op = "wipe"
)

// maxBody caps how much of a response is read.
const maxBody = 16 << 20

// Client provides remote calls with per-call timeouts.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	auth     Authenticator
	token    string
	metrics  *metrics.Metrics
	logger   *zerolog.Logger

	pending *pending
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAuth applies auth with token to every request.
func WithAuth(auth Authenticator, token string) Option {
	return func(c *Client) {
		if auth != nil && token != "" {
			c.auth = auth
			c.token = token
		}
	}
}

// WithMetrics records call outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for endpoint. An empty endpoint yields a client whose
// calls fail with errors.ErrRemoteDisabled.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{},
		timeout:  constants.DefaultCallTimeout,
		auth:     &NoAuth{},
		logger:   logging.Default(),
		pending:  newPending(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Pending returns the number of calls still waiting for an answer.
func (c *Client) Pending() int { return c.pending.len() }

// Call performs op with params and returns the decoded envelope. Exactly one
// of three outcomes is produced: the envelope, a *errors.TimeoutError once the
// timeout elapses, or a *errors.TransportError when the request cannot be
// sent or its answer cannot be decoded. The pending entry is removed exactly
// once on every path.
//
// An envelope with OK false is returned as is; interpreting it is up to the
// caller.
func (c *Client) Call(ctx context.Context, op Op, params url.Values) (*Envelope, error) {
	if c.endpoint == "" {
		return nil, errors.NewConfigError("transport", "backend endpoint not configured", errors.ErrRemoteDisabled)
	}

	name := callbackName()
	results := c.pending.register(name)
	var once sync.Once
	cleanup := func() { once.Do(func() { c.pending.remove(name) }) }
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, op, name, params)
	if err != nil {
		return nil, errors.WrapTransport(string(op), err)
	}

	start := time.Now()
	go c.dispatch(req, op, name)

	var res result
	select {
	case res = <-results:
	case <-ctx.Done():
		res = result{err: c.contextError(ctx, op)}
	}

	c.metrics.ObserveCall(string(op), outcome(res.err), time.Since(start))
	if res.err != nil {
		c.logger.Debug().Err(res.err).Str("op", string(op)).Str("callback", name).Msg("remote call failed")
		return nil, res.err
	}
	return res.env, nil
}

// Deliver routes a raw response body to the pending call registered under
// name. It reports false when no such call is waiting, in which case the
// body is discarded.
func (c *Client) Deliver(name string, body []byte) bool {
	env, wrapper, err := decodeBody(body)
	if err == nil && wrapper != "" && wrapper != name {
		err = errors.NewParseError("jsonp", "", fmt.Sprintf("answer addressed to %q", wrapper), nil)
	}
	var res result
	if err != nil {
		res.err = errors.NewTransportError("deliver", 0, err)
	} else {
		res.env = env
	}
	return c.settle(name, res)
}

func (c *Client) settle(name string, res result) bool {
	if c.pending.resolve(name, res) {
		return true
	}
	c.metrics.ObserveLate()
	c.logger.Debug().Str("callback", name).Msg("dropping answer for settled call")
	return false
}

func (c *Client) newRequest(ctx context.Context, op Op, name string, params url.Values) (*http.Request, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("op", string(op))
	q.Set("callback", name)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/javascript;q=0.9, */*;q=0.5")
	c.auth.Apply(req, c.token)
	return req, nil
}

// dispatch sends req and settles the call registered under name.
func (c *Client) dispatch(req *http.Request, op Op, name string) {
	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			// Call settles on the context itself.
			return
		}
		c.settle(name, result{err: errors.WrapTransport(string(op), err)})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.settle(name, result{err: errors.WrapTransport(string(op), errors.WrapIO("read", "response body", err))})
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.settle(name, result{err: errors.NewTransportError(string(op), resp.StatusCode, fmt.Errorf("%s", snippet(body)))})
		return
	}

	env, wrapper, err := decodeBody(body)
	switch {
	case err != nil:
		c.settle(name, result{err: errors.NewTransportError(string(op), resp.StatusCode, err)})
	case wrapper != "" && wrapper != name:
		c.settle(name, result{err: errors.NewTransportError(string(op), resp.StatusCode,
			fmt.Errorf("answer addressed to %q", wrapper))})
	default:
		c.settle(name, result{env: env})
	}
}

func (c *Client) contextError(ctx context.Context, op Op) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.NewTimeoutError(string(op), c.timeout.String(), "no answer from remote")
	}
	return fmt.Errorf("%s: %w", op, errors.ErrCanceled)
}

func callbackName() string {
	return "cb_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.IsTimeout(err):
		return "timeout"
	case errors.IsCanceled(err):
		return "canceled"
	default:
		return "error"
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
