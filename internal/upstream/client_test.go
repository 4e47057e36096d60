package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/bewlybewly/bewly/backend/internal/infrastructure/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	host, status string
}

type recordingObserver struct {
	mu      sync.Mutex
	samples []sample
}

func (o *recordingObserver) RecordUpstream(host, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.samples = append(o.samples, sample{host, status})
}

func newTestClient(t *testing.T, server *httptest.Server, opts Options) *Client {
	t.Helper()
	opts.Override = server.URL
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	c, err := NewClient(opts)
	require.NoError(t, err)
	return c
}

func TestGetJSON(t *testing.T) {
	var gotPath, gotQuery, gotCookie, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotCookie = r.Header.Get("Cookie")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":{"mid":9007199254740993}}`))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, server, Options{UserAgent: "test-agent", Observer: obs})

	payload, err := c.GetJSON(context.Background(),
		"https://api.vc.bilibili.com/account/v1/user/cards",
		url.Values{"uids": {"1,2,3"}},
		"SESSDATA=abc",
	)
	require.NoError(t, err)

	assert.Equal(t, "/account/v1/user/cards", gotPath)
	assert.Equal(t, "uids=1%2C2%2C3", gotQuery)
	assert.Equal(t, "SESSDATA=abc", gotCookie)
	assert.Equal(t, "test-agent", gotUA)

	body := payload.(map[string]any)
	data := body["data"].(map[string]any)
	assert.Equal(t, json.Number("9007199254740993"), data["mid"])

	require.Len(t, obs.samples, 1)
	assert.Equal(t, "200", obs.samples[0].status)
}

func TestGetJSONErrorStatusIsNotFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":-403,"message":"denied"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{})
	payload, err := c.GetJSON(context.Background(), "https://api.bilibili.com/x/web-interface/nav", nil, "")

	require.NoError(t, err)
	assert.Equal(t, json.Number("-403"), payload.(map[string]any)["code"])
}

func TestGetJSONDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{})
	_, err := c.GetJSON(context.Background(), "https://api.bilibili.com/x/web-interface/nav", nil, "")

	assert.ErrorIs(t, err, ErrDecode)
}

func TestGetJSONTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, server, Options{Observer: obs})
	_, err := c.GetJSON(context.Background(), "https://api.bilibili.com/x/web-interface/nav", nil, "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecode)
	require.Len(t, obs.samples, 1)
	assert.Equal(t, "error", obs.samples[0].status)
}

func TestGetJSONHonorsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := newTestClient(t, server, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetJSON(ctx, "https://api.bilibili.com/x/web-interface/nav", nil, "")
	assert.Error(t, err)
}

func TestGetHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>home</body></html>`))
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{})

	body, contentType, err := c.GetHTML(context.Background(), "https://www.bilibili.com/", "")
	require.NoError(t, err)
	assert.Contains(t, string(body), "home")
	assert.Equal(t, "text/html; charset=utf-8", contentType)

	_, _, err = c.GetHTML(context.Background(), "https://www.bilibili.com/missing", "")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestResolve(t *testing.T) {
	plain, err := NewClient(Options{})
	require.NoError(t, err)

	got, err := plain.Resolve("https://api.bilibili.com/x/web-interface/nav?a=1")
	require.NoError(t, err)
	assert.Equal(t, "https://api.bilibili.com/x/web-interface/nav?a=1", got)

	mirrored, err := NewClient(Options{Override: "http://127.0.0.1:9000"})
	require.NoError(t, err)

	got, err = mirrored.Resolve("https://api.bilibili.com/x/web-interface/nav?a=1")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/x/web-interface/nav?a=1", got)
}

func TestNewClientRejectsBadOverride(t *testing.T) {
	for _, o := range []string{"not a url", "127.0.0.1:9000", "://x"} {
		_, err := NewClient(Options{Override: o})
		assert.Error(t, err, o)
	}
}

func TestBreakerOpensOnTransportFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	c := newTestClient(t, server, Options{Breaker: true})
	for i := 0; i < 5; i++ {
		_, err := c.GetJSON(context.Background(), "https://api.bilibili.com/x/web-interface/nav", nil, "")
		require.Error(t, err)
	}

	assert.Equal(t, resilience.StateOpen, c.BreakerState())

	_, err := c.GetJSON(context.Background(), "https://api.bilibili.com/x/web-interface/nav", nil, "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBreakerDisabledReportsClosed(t *testing.T) {
	c, err := NewClient(Options{})
	require.NoError(t, err)
	assert.Equal(t, resilience.StateClosed, c.BreakerState())
}
