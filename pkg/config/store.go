package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/localmock/localmock/pkg/logging"
	"github.com/localmock/localmock/pkg/stateful"
	"github.com/localmock/localmock/pkg/util"
)

// Store holds the active configuration and the record database behind one
// mutex. Reload builds the new state without that lock and swaps it in, so
// readers see either the old state or the new one and never a mix. Loads are
// serialized by reloadMu so the last one to start is the one left active.
type Store struct {
	reloadMu sync.Mutex

	mu        sync.Mutex
	path      string
	settings  map[string]any
	endpoints []Endpoint
	cors      bool
	port      int
	records   stateful.RecordSet

	log *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore returns a store holding the default configuration.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.swap(snapshotOf(DefaultDocument(), nil))
	return s
}

type snapshot struct {
	settings  map[string]any
	endpoints []Endpoint
	cors      bool
	port      int
	records   stateful.RecordSet
}

func snapshotOf(doc *Document, records stateful.RecordSet) snapshot {
	snap := snapshot{
		settings:  doc.Settings,
		endpoints: doc.Endpoints,
		cors:      doc.CORS == nil || *doc.CORS,
		port:      doc.Port,
		records:   records,
	}
	if snap.settings == nil {
		snap.settings = map[string]any{}
	}
	if snap.port == 0 {
		snap.port = DefaultPort
	}
	if snap.records == nil {
		snap.records = stateful.RecordSet{}
	}
	return snap
}

func (s *Store) swap(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = snap.settings
	s.endpoints = snap.endpoints
	s.cors = snap.cors
	s.port = snap.port
	s.records = snap.records
}

// Load reads the configuration at path and makes it active. It never fails:
// an unreadable or invalid document activates the defaults, and an unreadable
// database leaves the record set empty. Both cases are logged.
func (s *Store) Load(path string) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()

	s.swap(s.build(path))
}

// Reload re-reads the file given to the last Load.
func (s *Store) Reload() {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.mu.Lock()
	path := s.path
	s.mu.Unlock()

	s.swap(s.build(path))
}

// Path returns the configuration path given to Load.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *Store) build(path string) snapshot {
	doc, err := LoadDocument(path)
	if err != nil {
		s.log.Warn("configuration load failed, using defaults", "path", path, "error", err)
		return snapshotOf(DefaultDocument(), nil)
	}
	s.log.Info("configuration loaded", "path", path, "endpoints", len(doc.Endpoints))

	if doc.Database == "" {
		return snapshotOf(doc, nil)
	}

	dbPath := util.ResolvePath(filepath.Dir(path), doc.Database, fileExists)
	records, err := LoadRecords(dbPath)
	if err != nil {
		s.log.Warn("database load failed, starting with no records", "path", dbPath, "error", err)
		return snapshotOf(doc, nil)
	}
	s.log.Info("database loaded", "path", dbPath, "records", len(records))
	return snapshotOf(doc, records)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Get returns the raw top-level setting for key, or def when absent.
func (s *Store) Get(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.settings[key]; ok {
		return v
	}
	return def
}

// Port returns the configured listen port.
func (s *Store) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// CORSEnabled reports whether CORS headers should be added to responses.
func (s *Store) CORSEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cors
}

// Endpoints returns a copy of the configured endpoint list.
func (s *Store) Endpoints() []Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.endpoints)
}

// FindEndpoint returns the first endpoint whose path and method match exactly.
func (s *Store) FindEndpoint(path, method string) (Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ep := range s.endpoints {
		if ep.Path == path && ep.Method == method {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Database returns a deep copy of every record.
func (s *Store) Database() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Clone()
}

// DatabaseCount returns the number of records.
func (s *Store) DatabaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// FilterDatabase returns copies of the records whose field equals value.
func (s *Store) FilterDatabase(field string, value any) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Filter(field, value)
}

// FilterByGenre returns copies of the records whose genres contain genre.
func (s *Store) FilterByGenre(genre string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.FilterContains("genres", genre)
}

// FindInDatabase returns a copy of the first record whose field equals value.
func (s *Store) FindInDatabase(field string, value any) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Find(field, value)
}

// AddGame appends a record. It fails with *stateful.ConflictError when a
// record with the same title exists.
func (s *Store) AddGame(game map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, stored, err := s.records.Insert(game, "title")
	if err != nil {
		return nil, conflictAsGame(err, game["title"])
	}
	s.records = records
	return stored, nil
}

// DeleteGame removes the first record whose field equals value. It fails
// with *stateful.NotFoundError when nothing matches.
func (s *Store) DeleteGame(field string, value any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, removed, err := s.records.Remove(field, value)
	if err != nil {
		return nil, &stateful.NotFoundError{Resource: "Game", Field: field, Value: fmt.Sprint(value)}
	}
	s.records = records
	return removed, nil
}

func conflictAsGame(err error, title any) error {
	if stateful.IsConflict(err) {
		return &stateful.ConflictError{Resource: "Game", Key: fmt.Sprint(title)}
	}
	return err
}
