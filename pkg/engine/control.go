package engine

import (
	"net/http"
	"time"

	"github.com/localmock/localmock/pkg/httputil"
)

func (h *Handler) handleReload(w http.ResponseWriter) int {
	h.config.Reload()
	h.log.Info("configuration reloaded", "path", h.config.Path())
	return httputil.WriteOK(w, map[string]string{"message": "Configuration reloaded"})
}

func (h *Handler) handleLogs(w http.ResponseWriter) int {
	logs := h.requests.List()
	return httputil.WriteOK(w, map[string]any{
		"logs":  logs,
		"count": len(logs),
	})
}

func (h *Handler) handleClearLogs(w http.ResponseWriter) int {
	n := h.requests.Clear()
	return httputil.WriteOK(w, map[string]any{
		"message": "Logs cleared",
		"cleared": n,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter) int {
	return httputil.WriteOK(w, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(h.now().Sub(h.started) / time.Second),
		"endpoints":      len(h.config.Endpoints()),
		"records":        h.config.DatabaseCount(),
		"wishlist_items": h.wishlist.Count(),
	})
}
