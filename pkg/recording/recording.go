package recording

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrFileNotFound is returned by Load when the recordings file is missing.
var ErrFileNotFound = errors.New("recordings file not found")

// Recording is one captured response.
type Recording struct {
	Timestamp string            `json:"timestamp"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Status    int               `json:"status"`
	Response  any               `json:"response"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// Load reads a JSON array of recordings.
func Load(path string) ([]Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read recordings: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var recs []Recording
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("failed to parse recordings %s: %w", path, err)
	}
	return recs, nil
}

// Save writes recordings as an indented JSON array using atomic rename.
func Save(path string, recs []Recording) error {
	if recs == nil {
		recs = []Recording{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recordings: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
