// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

// Marshal encodes data as 2-space indented JSON without HTML escaping.
func Marshal(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON writes data as an indented JSON response with the given status
// code. A nil value is written as null. If data cannot be encoded a 500
// error envelope is sent instead and the status actually written is returned.
func WriteJSON(w http.ResponseWriter, status int, data any) int {
	body, err := Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = Marshal(map[string]string{"error": "Failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
	return status
}

// WriteError writes a {"error": message} response.
func WriteError(w http.ResponseWriter, status int, message string) int {
	return WriteJSON(w, status, map[string]string{"error": message})
}

// WriteFailed writes a {"error": message, "status": "failed"} response.
func WriteFailed(w http.ResponseWriter, status int, message string) int {
	return WriteJSON(w, status, map[string]string{
		"error":  message,
		"status": "failed",
	})
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) int {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created response with the created resource.
func WriteCreated(w http.ResponseWriter, data any) int {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteBadRequest writes a 400 Bad Request error response.
func WriteBadRequest(w http.ResponseWriter, message string) int {
	return WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found error response.
func WriteNotFound(w http.ResponseWriter, message string) int {
	return WriteError(w, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) int {
	return WriteError(w, http.StatusInternalServerError, message)
}
