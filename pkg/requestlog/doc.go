// Package requestlog keeps a bounded, in-memory history of handled requests
// for inspection through the /__logs control endpoint.
//
// It is distinct from operational logging, which goes through log/slog.
//
//	store := requestlog.NewStore(100)
//	store.Log(requestlog.Entry{Method: "GET", Path: "/api/ping", Status: 200})
//	entries := store.List() // oldest first
//
// When the store is full, logging a new entry evicts the oldest one.
package requestlog
