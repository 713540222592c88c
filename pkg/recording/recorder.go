package recording

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	stdhttputil "net/http/httputil"
	"net/url"
	"sync"
	"time"

	"github.com/localmock/localmock/pkg/logging"
	"github.com/localmock/localmock/pkg/util"
)

// MaxCaptureSize caps the response body kept per recording. The proxied
// client always receives the full body.
const MaxCaptureSize = 10 << 20 // 10MB

// Recorder proxies requests to a target and records every response.
type Recorder struct {
	proxy *stdhttputil.ReverseProxy
	log   *slog.Logger
	now   func() time.Time

	captureLimit int

	mu         sync.Mutex
	recordings []Recording
}

// NewRecorder creates a recording reverse proxy for target.
func NewRecorder(target *url.URL, log *slog.Logger) *Recorder {
	if log == nil {
		log = logging.Nop()
	}
	rec := &Recorder{log: log, now: time.Now, captureLimit: MaxCaptureSize}

	proxy := stdhttputil.NewSingleHostReverseProxy(target)
	baseDirector := proxy.Director
	proxy.Director = func(r *http.Request) {
		baseDirector(r)
		r.Host = target.Host
	}
	proxy.ModifyResponse = rec.capture
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		rec.log.Error("proxy request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": "Upstream request failed"}`))
	}
	rec.proxy = proxy
	return rec
}

// ServeHTTP implements the http.Handler interface.
func (rc *Recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc.proxy.ServeHTTP(w, r)
}

// capture wraps the upstream body so the client receives all of it while at
// most captureLimit bytes are kept. The recording is stored once the proxy
// closes the body.
func (rc *Recorder) capture(resp *http.Response) error {
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	entry := Recording{
		Timestamp: util.ISOTimestamp(rc.now()),
		Method:    resp.Request.Method,
		Path:      resp.Request.URL.Path,
		Status:    resp.StatusCode,
		Headers:   headers,
	}

	resp.Body = &captureBody{
		ReadCloser: resp.Body,
		limit:      rc.captureLimit,
		done: func(body []byte, truncated bool) {
			entry.Response = decodeBody(body)
			rc.store(entry, truncated)
		},
	}
	return nil
}

func (rc *Recorder) store(entry Recording, truncated bool) {
	rc.mu.Lock()
	rc.recordings = append(rc.recordings, entry)
	rc.mu.Unlock()

	rc.log.Info("recorded", "method", entry.Method, "path", entry.Path, "status", entry.Status, "truncated", truncated)
}

// captureBody tees reads into a buffer capped at limit bytes.
type captureBody struct {
	io.ReadCloser
	limit     int
	buf       bytes.Buffer
	truncated bool
	once      sync.Once
	done      func(body []byte, truncated bool)
}

func (c *captureBody) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	if n > 0 {
		room := c.limit - c.buf.Len()
		if n > room {
			c.truncated = true
		}
		c.buf.Write(p[:max(0, min(n, room))])
	}
	return n, err
}

func (c *captureBody) Close() error {
	err := c.ReadCloser.Close()
	c.once.Do(func() { c.done(c.buf.Bytes(), c.truncated) })
	return err
}

// decodeBody keeps JSON bodies structured and everything else as text.
func decodeBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err == nil && !dec.More() {
		return v
	}
	return string(body)
}

// Recordings returns a copy of everything recorded so far.
func (rc *Recorder) Recordings() []Recording {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]Recording, len(rc.recordings))
	copy(out, rc.recordings)
	return out
}

// Save writes the recordings to path.
func (rc *Recorder) Save(path string) error {
	recs := rc.Recordings()
	if err := Save(path, recs); err != nil {
		return err
	}
	rc.log.Info("saved recordings", "path", path, "count", len(recs))
	return nil
}
