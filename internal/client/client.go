// Package client is a Go client for a running relay's HTTP surface. The CLI
// uses it to send messages the way a page surface would.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bewlybewly/bewly/backend/internal/api/middleware"
	"github.com/bewlybewly/bewly/backend/internal/relay"
	"github.com/bewlybewly/bewly/backend/internal/shared/codec"
	"github.com/go-resty/resty/v2"
)

// Client talks to one relay
type Client struct {
	resty *resty.Client
}

// New creates a client for the relay at base, e.g. "http://127.0.0.1:8000".
func New(base string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetTimeout(timeout).
		SetJSONMarshaler(codec.Marshal).
		SetJSONUnmarshaler(codec.Unmarshal)
	return &Client{resty: r}
}

// Reply is the relay's answer to one message
type Reply struct {
	// Handled is false when no listener knew the query.
	Handled bool
	// Data is the raw JSON payload; "null" when the upstream call failed.
	Data []byte
}

// Connect sends a connection event
func (c *Client) Connect(ctx context.Context) (relay.Stats, error) {
	var stats relay.Stats
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&stats).
		Post("/relay/connect")
	if err != nil {
		return relay.Stats{}, fmt.Errorf("connect: %w", err)
	}
	if resp.IsError() {
		return relay.Stats{}, fmt.Errorf("connect: %s", resp.Status())
	}
	return stats, nil
}

// Domains lists the relay's registered domains
func (c *Client) Domains(ctx context.Context) (relay.Stats, error) {
	var stats relay.Stats
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&stats).
		Get("/relay/domains")
	if err != nil {
		return relay.Stats{}, fmt.Errorf("domains: %w", err)
	}
	if resp.IsError() {
		return relay.Stats{}, fmt.Errorf("domains: %s", resp.Status())
	}
	return stats, nil
}

// Message relays msg with the given site cookies
func (c *Client) Message(ctx context.Context, msg *relay.Message, cookie string) (Reply, error) {
	body, err := msg.Encode()
	if err != nil {
		return Reply{}, fmt.Errorf("encode message: %w", err)
	}

	req := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if cookie != "" {
		req.SetHeader(middleware.CookieHeader, cookie)
	}

	resp, err := req.Post("/relay/message")
	if err != nil {
		return Reply{}, fmt.Errorf("message %s: %w", msg.Query, err)
	}

	switch resp.StatusCode() {
	case http.StatusNoContent:
		return Reply{}, nil
	case http.StatusOK:
		return Reply{Handled: true, Data: resp.Body()}, nil
	default:
		return Reply{}, fmt.Errorf("message %s: %s", msg.Query, resp.Status())
	}
}
