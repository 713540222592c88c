package recording

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/localmock/localmock/pkg/httputil"
	"github.com/localmock/localmock/pkg/logging"
)

// Replayer serves recorded responses.
type Replayer struct {
	recordings []Recording
	log        *slog.Logger
}

// NewReplayer creates a Replayer over recs. The slice is not modified.
func NewReplayer(recs []Recording, log *slog.Logger) *Replayer {
	if log == nil {
		log = logging.Nop()
	}
	return &Replayer{recordings: recs, log: log}
}

// Len returns the number of recordings.
func (p *Replayer) Len() int {
	return len(p.recordings)
}

// Find returns the first recording for method and path.
func (p *Replayer) Find(method, path string) (Recording, bool) {
	for _, rec := range p.recordings {
		if rec.Method == method && rec.Path == path {
			return rec, true
		}
	}
	return Recording{}, false
}

// ServeHTTP implements the http.Handler interface.
func (p *Replayer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec, ok := p.Find(r.Method, r.URL.Path)
	if !ok {
		p.log.Debug("no recording", "method", r.Method, "path", r.URL.Path)
		httputil.WriteNotFound(w, "No recording found")
		return
	}

	for k, v := range rec.Headers {
		switch strings.ToLower(k) {
		case "content-length", "transfer-encoding":
			continue
		}
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")

	status := rec.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(replayBody(rec.Response))
	p.log.Debug("replayed", "method", r.Method, "path", r.URL.Path, "status", status)
}

// replayBody renders a recorded response: strings verbatim, everything else
// as JSON.
func replayBody(v any) []byte {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []byte(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(fmt.Sprint(v))
	}
	return b
}
