// CORS middleware for the mock engine.

package engine

import (
	"net/http"
)

// CORS header values.
const (
	CORSAllowMethods     = "GET, POST, DELETE, OPTIONS"
	CORSAllowHeaders     = "Content-Type"
	PreflightAllowHeader = "Content-Type, Authorization, Accept"
	PreflightMaxAge      = "86400"
)

// CORSSetting reports whether CORS headers are enabled. It is consulted on
// every request so a reload takes effect immediately.
type CORSSetting interface {
	CORSEnabled() bool
}

// CORSMiddleware answers preflight requests and adds CORS headers to every
// other response when enabled.
type CORSMiddleware struct {
	handler http.Handler
	setting CORSSetting
}

// NewCORSMiddleware wraps handler.
func NewCORSMiddleware(handler http.Handler, setting CORSSetting) *CORSMiddleware {
	return &CORSMiddleware{handler: handler, setting: setting}
}

// ServeHTTP implements the http.Handler interface.
func (m *CORSMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Preflights are always answered, whatever the setting, and never logged.
	if r.Method == http.MethodOptions {
		h := w.Header()
		h.Set("Content-Type", "text/plain")
		h.Set("Content-Length", "0")
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", CORSAllowMethods)
		h.Set("Access-Control-Allow-Headers", PreflightAllowHeader)
		h.Set("Access-Control-Max-Age", PreflightMaxAge)
		w.WriteHeader(http.StatusOK)
		return
	}

	if m.setting == nil || m.setting.CORSEnabled() {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", CORSAllowMethods)
		h.Set("Access-Control-Allow-Headers", CORSAllowHeaders)
	}

	m.handler.ServeHTTP(w, r)
}
