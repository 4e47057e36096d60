package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bewlybewly/bewly/backend/internal/infrastructure/resilience"
	"github.com/bewlybewly/bewly/backend/internal/shared/codec"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

var (
	// ErrDecode is returned when an upstream body is not valid JSON.
	ErrDecode = errors.New("upstream: response is not valid JSON")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("upstream: service unavailable")
)

// StatusError reports a non-2xx page fetch. JSON calls never return it.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s returned status %d", e.URL, e.Code)
}

// Observer receives one sample per outbound call. status is the HTTP
// status code, or "error" when no response arrived.
type Observer interface {
	RecordUpstream(host, status string, duration time.Duration)
}

// Options configures a Client
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Override rewrites the scheme and host of every request, e.g.
	// "http://127.0.0.1:9000". Used for mirrors and tests.
	Override string
	Breaker  bool
	Observer Observer
	Logger   *zap.Logger
}

// Client performs the relay's outbound GET requests
type Client struct {
	resty    *resty.Client
	breaker  *resilience.Breaker
	override *url.URL
	observer Observer
	logger   *zap.Logger
}

// NewClient creates the outbound client. Retries stay off: a failed call is
// reported once and absorbed by the relay.
func NewClient(opts Options) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "BewlyRelay/1.0"
	}

	// pooled transport only; the retrying RoundTripper is not used
	pooled := retryablehttp.NewClient()
	pooled.Logger = nil

	r := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", opts.UserAgent).
		SetTransport(pooled.HTTPClient.Transport)

	c := &Client{
		resty:    r,
		observer: opts.Observer,
		logger:   opts.Logger,
	}

	if opts.Override != "" {
		u, err := url.Parse(opts.Override)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid upstream override %q", opts.Override)
		}
		c.override = u
	}

	if opts.Breaker {
		settings := resilience.DefaultSettings()
		settings.OnStateChange = func(name string, from, to resilience.State) {
			opts.Logger.Warn("Upstream breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
		c.breaker = resilience.New("upstream", settings)
	}

	return c, nil
}

// GetJSON issues one GET to endpoint with query and the surface's cookie,
// and parses the body. HTTP error statuses are not failures: their bodies
// are parsed like any other.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, cookie string) (any, error) {
	resp, err := c.get(ctx, endpoint, query, cookie)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := codec.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, endpoint, err)
	}
	return payload, nil
}

// GetHTML fetches a page for the bootstrap shell and returns the body with
// its Content-Type. Unlike GetJSON, a non-2xx status is an error.
func (c *Client) GetHTML(ctx context.Context, pageURL, cookie string) ([]byte, string, error) {
	resp, err := c.get(ctx, pageURL, nil, cookie)
	if err != nil {
		return nil, "", err
	}
	if resp.IsError() {
		return nil, "", &StatusError{URL: pageURL, Code: resp.StatusCode()}
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// Resolve returns the URL a request for endpoint is actually sent to.
func (c *Client) Resolve(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if c.override != nil {
		u.Scheme = c.override.Scheme
		u.Host = c.override.Host
	}
	return u.String(), nil
}

// BreakerState reports the breaker state, closed when disabled
func (c *Client) BreakerState() resilience.State {
	if c.breaker == nil {
		return resilience.StateClosed
	}
	return c.breaker.State()
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, cookie string) (*resty.Response, error) {
	target, err := c.Resolve(endpoint)
	if err != nil {
		return nil, err
	}

	do := func() (*resty.Response, error) {
		req := c.resty.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParamsFromValues(query)
		}
		if cookie != "" {
			req.SetHeader("Cookie", cookie)
		}

		start := time.Now()
		resp, err := req.Get(target)
		c.observe(target, resp, err, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", endpoint, err)
		}
		return resp, nil
	}

	if c.breaker == nil {
		return do()
	}

	resp, err := resilience.Call(c.breaker, do)
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, err
}

func (c *Client) observe(target string, resp *resty.Response, err error, d time.Duration) {
	if c.observer == nil {
		return
	}
	host := target
	if u, perr := url.Parse(target); perr == nil {
		host = u.Host
	}
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode())
	}
	c.observer.RecordUpstream(strings.ToLower(host), status, d)
}
