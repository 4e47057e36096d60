package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bewlybewly/bewly/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, upstreamURL string) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Upstream.Override = upstreamURL
	cfg.Bootstrap.Host = "example.com"

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestRelayEndToEnd(t *testing.T) {
	var gotPath, gotCookie string
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":{"isLogin":true}}`))
	}))
	defer up.Close()

	srv := newTestServer(t, up.URL)

	req := httptest.NewRequest(http.MethodPost, "/relay/message",
		strings.NewReader(`{"contentScriptQuery":"getUserInfo"}`))
	req.Header.Set("X-Relay-Cookie", "SESSDATA=1")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"isLogin":true}}`, w.Body.String())
	assert.Equal(t, "/x/web-interface/nav", gotPath)
	assert.Equal(t, "SESSDATA=1", gotCookie)
}

func TestAutoConnectInstallsListeners(t *testing.T) {
	srv := newTestServer(t, "")

	stats := srv.Relay().Gateway.Registry().Stats()
	assert.Len(t, stats.Domains, 12)
	assert.Equal(t, 12, stats.Listeners)
	assert.Equal(t, uint64(1), stats.Connections)
}

func TestCORSAdmitsExtension(t *testing.T) {
	srv := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/relay/message", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "chrome-extension://abcdefghijklmnop", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestInvalidOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Upstream.Override = "not a url"

	_, err := NewServer(cfg)
	assert.Error(t, err)
}
