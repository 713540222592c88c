package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmock/localmock/pkg/stateful"
)

const gamesDB = `[
	{"id": 1, "title": "Alpha", "genres": ["RPG", "Action"], "indie": true},
	{"id": 2, "title": "Beta", "genres": ["Puzzle"], "indie": false},
	{"id": 3, "title": "Gamma", "genres": ["RPG"], "indie": true}
]`

func loadedStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "games.json", gamesDB)
	path := writeFile(t, dir, "config.json", `{
		"port": 9100,
		"database": "games.json",
		"endpoints": [
			{"path": "/api/a", "method": "GET", "response": "first"},
			{"path": "/api/a", "method": "GET", "response": "second"},
			{"path": "/api/a", "method": "POST", "response": "post"}
		]
	}`)

	s := NewStore()
	s.Load(path)
	return s, path
}

func TestStore_Defaults(t *testing.T) {
	s := NewStore()
	assert.Equal(t, DefaultPort, s.Port())
	assert.True(t, s.CORSEnabled())
	assert.Empty(t, s.Endpoints())
	assert.Equal(t, 0, s.DatabaseCount())
	assert.Equal(t, "fallback", s.Get("missing", "fallback"))
}

func TestStore_LoadFallsBackOnBadDocument(t *testing.T) {
	dir := t.TempDir()

	for name, content := range map[string]string{
		"bad.json":    `{"port": 1,`,
		"schema.json": `{"endpoints": [{"path": "/x"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			s.Load(writeFile(t, dir, name, content))

			assert.Equal(t, DefaultPort, s.Port())
			assert.True(t, s.CORSEnabled())
			assert.Empty(t, s.Endpoints())
			assert.Equal(t, 0, s.DatabaseCount())
		})
	}

	s := NewStore()
	s.Load(filepath.Join(dir, "missing.json"))
	assert.Equal(t, DefaultPort, s.Port())
}

func TestStore_MissingDatabaseLeavesNoRecords(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json",
		`{"port": 9200, "database": "nope.json", "endpoints": []}`)

	s := NewStore()
	s.Load(path)
	assert.Equal(t, 9200, s.Port())
	assert.Equal(t, 0, s.DatabaseCount())
}

func TestStore_FindEndpoint(t *testing.T) {
	s, _ := loadedStore(t)

	ep, ok := s.FindEndpoint("/api/a", "GET")
	require.True(t, ok)
	assert.Equal(t, "first", ep.Response, "first match wins")

	ep, ok = s.FindEndpoint("/api/a", "POST")
	require.True(t, ok)
	assert.Equal(t, "post", ep.Response)

	_, ok = s.FindEndpoint("/api/a", "DELETE")
	assert.False(t, ok)
	_, ok = s.FindEndpoint("/api/a/", "GET")
	assert.False(t, ok)

	// Lookups have no side effects.
	assert.Len(t, s.Endpoints(), 3)
}

func TestStore_Settings(t *testing.T) {
	s, _ := loadedStore(t)

	assert.Equal(t, 9100, s.Port())
	assert.True(t, s.CORSEnabled(), "cors defaults to true when absent")
	assert.Equal(t, "games.json", s.Get("database", nil))
	assert.Nil(t, s.Get("cors", nil))
}

func TestStore_DatabaseQueries(t *testing.T) {
	s, _ := loadedStore(t)

	assert.Equal(t, 3, s.DatabaseCount())
	assert.Len(t, s.Database(), 3)
	assert.Len(t, s.FilterDatabase("indie", true), 2)
	assert.Len(t, s.FilterByGenre("RPG"), 2)
	assert.Empty(t, s.FilterByGenre("Racing"))

	rec, ok := s.FindInDatabase("id", "2")
	require.True(t, ok)
	assert.Equal(t, "Beta", rec["title"])

	_, ok = s.FindInDatabase("title", "Nope")
	assert.False(t, ok)
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	s, _ := loadedStore(t)

	all := s.Database()
	all[0]["title"] = "Mutated"
	all[0]["genres"].([]any)[0] = "Mutated"

	rec, ok := s.FindInDatabase("id", 1)
	require.True(t, ok)
	assert.Equal(t, "Alpha", rec["title"])
	assert.Equal(t, "RPG", rec["genres"].([]any)[0])
}

func TestStore_AddAndDeleteGame(t *testing.T) {
	s, _ := loadedStore(t)

	stored, err := s.AddGame(map[string]any{"title": "Delta", "id": json.Number("4")})
	require.NoError(t, err)
	assert.Equal(t, "Delta", stored["title"])
	assert.Equal(t, 4, s.DatabaseCount())

	_, err = s.AddGame(map[string]any{"title": "Delta"})
	var conflict *stateful.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 4, s.DatabaseCount())

	removed, err := s.DeleteGame("id", "4")
	require.NoError(t, err)
	assert.Equal(t, "Delta", removed["title"])

	_, err = s.DeleteGame("title", "Delta")
	var notFound *stateful.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "title", notFound.Field)
	assert.Equal(t, "Delta", notFound.Value)
	assert.Equal(t, 3, s.DatabaseCount())
}

func TestStore_ReloadReplacesState(t *testing.T) {
	s, path := loadedStore(t)

	_, err := s.AddGame(map[string]any{"title": "Transient"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"port": 9300, "cors": false, "endpoints": [
		{"path": "/api/new", "method": "GET", "response": 1}
	]}`), 0o644))
	s.Reload()

	assert.Equal(t, 9300, s.Port())
	assert.False(t, s.CORSEnabled())
	_, ok := s.FindEndpoint("/api/a", "GET")
	assert.False(t, ok)
	_, ok = s.FindEndpoint("/api/new", "GET")
	assert.True(t, ok)
	assert.Equal(t, 0, s.DatabaseCount(), "records are replaced wholesale on reload")
	assert.Equal(t, path, s.Path())
}

func TestStore_DatabaseResolvedAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "conf")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeFile(t, sub, "records-only-here.json", `[{"title": "X"}]`)
	path := writeFile(t, sub, "config.json", `{"database": "records-only-here.json", "endpoints": []}`)

	s := NewStore()
	s.Load(path)
	assert.Equal(t, 1, s.DatabaseCount())
}

func TestStore_ConcurrentReload(t *testing.T) {
	dir := t.TempDir()
	one := `{"endpoints": [{"path": "/a", "method": "GET", "response": "A"}, {"path": "/b", "method": "GET", "response": "A"}]}`
	two := `{"endpoints": [{"path": "/a", "method": "GET", "response": "B"}, {"path": "/b", "method": "GET", "response": "B"}]}`
	path := writeFile(t, dir, "config.json", one)

	s := NewStore()
	s.Load(path)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 50 {
			content := one
			if i%2 == 1 {
				content = two
			}
			tmp := filepath.Join(dir, fmt.Sprintf("next-%d.json", i))
			_ = os.WriteFile(tmp, []byte(content), 0o644)
			_ = os.Rename(tmp, path)
			s.Reload()
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				eps := s.Endpoints()
				if len(eps) != 2 {
					t.Errorf("torn endpoint list: %d entries", len(eps))
					return
				}
				if eps[0].Response != eps[1].Response {
					t.Errorf("mixed configuration: %v / %v", eps[0].Response, eps[1].Response)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestStore_ConcurrentLoadsLeaveLastPathActive(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]int{}
	for i := 1; i <= 4; i++ {
		p := writeFile(t, dir, fmt.Sprintf("config%d.json", i), fmt.Sprintf(`{"port": %d, "endpoints": []}`, 9000+i))
		paths[p] = 9000 + i
	}

	s := NewStore()
	var wg sync.WaitGroup
	for round := 0; round < 25; round++ {
		for p := range paths {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Load(p)
			}()
		}
	}
	wg.Wait()

	assert.Equal(t, paths[s.Path()], s.Port(), "active state belongs to the recorded path")
}
