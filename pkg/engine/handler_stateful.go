package engine

import (
	"fmt"
	"net/http"

	"github.com/localmock/localmock/pkg/httputil"
	"github.com/localmock/localmock/pkg/stateful"
)

func (h *Handler) handleWishlistGet(w http.ResponseWriter) int {
	items := h.wishlist.All()
	return httputil.WriteOK(w, map[string]any{
		"wishlist":    items,
		"total_items": len(items),
		"timestamp":   h.timestamp(),
	})
}

func (h *Handler) handleWishlistAdd(w http.ResponseWriter, title string) int {
	if title == "" {
		return httputil.WriteBadRequest(w, "Title is required")
	}

	status, message, success := http.StatusOK, "Added to wishlist", true
	if _, err := h.wishlist.Add(title); err != nil {
		status, message, success = stateful.StatusCodeOf(err), "Game already in wishlist", false
	}
	return httputil.WriteJSON(w, status, map[string]any{
		"message":        message,
		"game_title":     title,
		"added_at":       h.timestamp(),
		"wishlist_count": h.wishlist.Count(),
		"success":        success,
	})
}

func (h *Handler) handleWishlistRemove(w http.ResponseWriter, title string) int {
	if title == "" {
		return httputil.WriteBadRequest(w, "Title is required")
	}

	status, message, success := http.StatusOK, "Removed from wishlist", true
	if _, err := h.wishlist.Remove(title); err != nil {
		status, message, success = stateful.StatusCodeOf(err), "Game not found in wishlist", false
	}
	return httputil.WriteJSON(w, status, map[string]any{
		"message":        message,
		"game_title":     title,
		"removed_at":     h.timestamp(),
		"wishlist_count": h.wishlist.Count(),
		"success":        success,
	})
}

func (h *Handler) handleGameCreate(w http.ResponseWriter, body map[string]any) int {
	if _, ok := body["title"]; !ok {
		return httputil.WriteFailed(w, http.StatusBadRequest, "Game data with title is required")
	}

	if _, ok := body["created_at"]; !ok {
		body["created_at"] = h.timestamp()
	}

	game, err := h.config.AddGame(body)
	if err != nil {
		if stateful.IsConflict(err) {
			return httputil.WriteFailed(w, http.StatusConflict, "Game already exists")
		}
		h.log.Error("failed to create game", "error", err)
		return httputil.WriteFailed(w, stateful.StatusCodeOf(err), "Failed to create game")
	}

	h.log.Info("game created", "title", game["title"])
	return httputil.WriteCreated(w, map[string]any{
		"message":    "Game created successfully",
		"game":       game,
		"created_at": body["created_at"],
		"status":     "success",
	})
}

func (h *Handler) handleGameDelete(w http.ResponseWriter, req *request) int {
	field, value := "title", req.param("title")
	if value == "" {
		field, value = "id", req.param("id")
	}
	if value == "" {
		return httputil.WriteFailed(w, http.StatusBadRequest, "Game title or id is required")
	}

	game, err := h.config.DeleteGame(field, value)
	if err != nil {
		if stateful.IsNotFound(err) {
			return httputil.WriteFailed(w, http.StatusNotFound, fmt.Sprintf("Game not found with %s: %s", field, value))
		}
		h.log.Error("failed to delete game", "error", err)
		return httputil.WriteFailed(w, stateful.StatusCodeOf(err), "Failed to delete game")
	}

	h.log.Info("game deleted", field, value)
	return httputil.WriteOK(w, map[string]any{
		"message":    "Game deleted successfully",
		"game":       game,
		"deleted_at": h.timestamp(),
		"status":     "success",
	})
}
