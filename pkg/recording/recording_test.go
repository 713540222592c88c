package recording

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecordings() []Recording {
	return []Recording{
		{Method: "GET", Path: "/api/users", Status: 200,
			Response: map[string]any{"users": []any{}},
			Headers:  map[string]string{"X-Upstream": "yes", "Content-Length": "999", "Transfer-Encoding": "chunked"}},
		{Method: "GET", Path: "/api/users", Status: 500, Response: "shadowed"},
		{Method: "PUT", Path: "/api/users/1", Status: 204, Response: "updated"},
		{Method: "GET", Path: "/api/list", Status: 200, Response: []any{json.Number("1"), "two"}},
	}
}

func TestReplayer_ExactMatch(t *testing.T) {
	p := NewReplayer(sampleRecordings(), nil)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users?page=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code, "first match wins")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "yes", rec.Header().Get("X-Upstream"))
	assert.Empty(t, rec.Header().Get("Transfer-Encoding"))
	assert.NotEqual(t, "999", rec.Header().Get("Content-Length"))
	assert.JSONEq(t, `{"users": []}`, rec.Body.String())
}

func TestReplayer_BodyKinds(t *testing.T) {
	p := NewReplayer(sampleRecordings(), nil)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/users/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/list", nil))
	assert.Equal(t, `[1,"two"]`, rec.Body.String())

	assert.Equal(t, []byte("plain"), replayBody("plain"))
	assert.Nil(t, replayBody(nil))
}

func TestReplayer_NoMatch(t *testing.T) {
	p := NewReplayer(sampleRecordings(), nil)

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/users", nil),
		httptest.NewRequest(http.MethodGet, "/api/users/", nil),
	} {
		rec := httptest.NewRecorder()
		p.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error": "No recording found"}`, rec.Body.String())
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "recordings.json")

	require.NoError(t, Save(path, sampleRecordings()))
	recs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "/api/users/1", recs[2].Path)
	assert.Equal(t, []any{json.Number("1"), "two"}, recs[3].Response)

	require.NoError(t, Save(path, nil))
	recs, err = Load(path)
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestRecorder_ProxiesAndCaptures(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Trace", "abc")
			_, _ = io.WriteString(w, `{"id": 7, "ok": true}`)
		default:
			w.WriteHeader(http.StatusTeapot)
			_, _ = io.WriteString(w, "short and stout")
		}
	}))
	defer upstream.Close()

	target, err := url.Parse(upstream.URL)
	require.NoError(t, err)
	recorder := NewRecorder(target, nil)
	proxy := httptest.NewServer(recorder)
	defer proxy.Close()

	resp, err := http.Get(proxy.URL + "/json?x=1")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": 7, "ok": true}`, string(body), "client still receives the body")

	resp, err = http.Post(proxy.URL+"/text", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	require.Eventually(t, func() bool { return len(recorder.Recordings()) == 2 }, 2*time.Second, 10*time.Millisecond)
	recs := recorder.Recordings()
	assert.Equal(t, "GET", recs[0].Method)
	assert.Equal(t, "/json", recs[0].Path)
	assert.Equal(t, 200, recs[0].Status)
	assert.Equal(t, map[string]any{"id": json.Number("7"), "ok": true}, recs[0].Response)
	assert.Equal(t, "abc", recs[0].Headers["X-Trace"])
	assert.NotEmpty(t, recs[0].Timestamp)

	assert.Equal(t, "POST", recs[1].Method)
	assert.Equal(t, http.StatusTeapot, recs[1].Status)
	assert.Equal(t, "short and stout", recs[1].Response)

	// Saved recordings replay the captured traffic.
	path := filepath.Join(t.TempDir(), "recordings.json")
	require.NoError(t, recorder.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewReplayer(loaded, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("X-Trace"))
	assert.JSONEq(t, `{"id": 7, "ok": true}`, rec.Body.String())
}

func TestRecorder_UpstreamDown(t *testing.T) {
	target, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)
	recorder := NewRecorder(target, nil)

	rec := httptest.NewRecorder()
	recorder.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, recorder.Recordings())
}

func TestRecorder_LargeBodyStreamsInFull(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = io.WriteString(w, payload)
	}))
	defer upstream.Close()

	target, err := url.Parse(upstream.URL)
	require.NoError(t, err)
	recorder := NewRecorder(target, nil)
	recorder.captureLimit = 100
	proxy := httptest.NewServer(recorder)
	defer proxy.Close()

	resp, err := http.Get(proxy.URL + "/big")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, payload, string(body), "client receives every byte")
	assert.Equal(t, int64(len(payload)), resp.ContentLength)

	require.Eventually(t, func() bool { return len(recorder.Recordings()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, payload[:100], recorder.Recordings()[0].Response)
}
