package engine

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmock/localmock/pkg/chaos"
)

func TestServer_StartAndShutdown(t *testing.T) {
	env := newTestEnv(t, testConfig)
	srv := NewServer("127.0.0.1:0", env.handler, WithTimeouts(5*time.Second, 5*time.Second))

	require.NoError(t, srv.Start())
	assert.Error(t, srv.Start(), "second start fails")

	resp, err := http.Get("http://" + srv.Addr() + "/api/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"pong": true`)

	done := srv.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.Shutdown(ctx), "shutdown is idempotent")

	select {
	case err, ok := <-done:
		assert.False(t, ok && err != nil, "unexpected serve error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenError(t *testing.T) {
	first := NewServer("127.0.0.1:0", http.NotFoundHandler())
	require.NoError(t, first.Start())
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	second := NewServer(first.Addr(), http.NotFoundHandler())
	assert.Error(t, second.Start())
}

func TestStaticRoute_Matches(t *testing.T) {
	route := &staticRoute{server: NewDirServer(t.TempDir()), patterns: DefaultStaticPatterns}

	for path, want := range map[string]bool{
		"/":                 true,
		"/static/app.js":    true,
		"/static/css/a.css": true,
		"/index.html":       false,
		"/api/ping":         false,
		"/staticfile":       false,
	} {
		assert.Equal(t, want, route.matches(path), path)
	}

	var none *staticRoute
	assert.False(t, none.matches("/"))
}

func TestParamString(t *testing.T) {
	assert.Equal(t, "plain", paramString("plain"))
	assert.Equal(t, "true", paramString(true))
	assert.Equal(t, "null", paramString(nil))
	assert.Equal(t, `[1,"a"]`, paramString([]any{1, "a"}))
}

func TestServer_LatencyOutlivesTimeouts(t *testing.T) {
	env := newTestEnv(t, `{"endpoints": [{"path": "/slow", "method": "GET", "response": {"done": true}, "latency_ms": 400}]}`,
		WithSimulator(chaos.NewSimulator()))
	srv := NewServer("127.0.0.1:0", env.handler, WithTimeouts(200*time.Millisecond, 0))
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/slow")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"done": true`)

	entries := env.requests.List()
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusOK, entries[0].Status)
	assert.GreaterOrEqual(t, entries[0].LatencyMs, int64(400))
}

func TestNewServer_NoDefaultWriteTimeout(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler())
	assert.Zero(t, srv.writeTimeout)
	assert.Equal(t, DefaultReadTimeout, srv.readTimeout)
}
