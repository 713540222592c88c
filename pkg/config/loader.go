package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/localmock/localmock/pkg/stateful"
)

// Common errors for configuration loading/saving.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
	ErrSchema           = errors.New("document does not match schema")
)

// LoadDocument reads a configuration document from a JSON or YAML file.
// The format is picked by file extension (.yaml, .yml for YAML, otherwise JSON).
func LoadDocument(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return ParseYAML(data)
	}
	return ParseJSON(data)
}

// ParseJSON parses and validates a JSON configuration document.
func ParseJSON(data []byte) (*Document, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateDocument(raw); err != nil {
		return nil, err
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	doc.Settings, _ = raw.(map[string]any)
	doc.applyDefaults()
	return &doc, nil
}

// ParseYAML parses and validates a YAML configuration document.
func ParseYAML(data []byte) (*Document, error) {
	jsonData, err := yamlToJSON(data)
	if err != nil {
		return nil, err
	}
	return ParseJSON(jsonData)
}

// LoadRecords reads a record database: a JSON (or YAML) array of objects.
func LoadRecords(path string) (stateful.RecordSet, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		if data, err = yamlToJSON(data); err != nil {
			return nil, err
		}
	}
	return ParseRecords(data)
}

// ParseRecords parses and validates a JSON record database.
func ParseRecords(data []byte) (stateful.RecordSet, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateDatabase(raw); err != nil {
		return nil, err
	}

	items, _ := raw.([]any)
	records := make(stateful.RecordSet, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// SaveDocument writes doc to path using atomic rename. The format is picked
// by file extension. Parent directories are created when missing.
func SaveDocument(path string, doc *Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = toYAML(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrInvalidJSON)
	}
	return v, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return out, nil
}

// toYAML goes through JSON so the YAML output uses the JSON field names.
func toYAML(doc *Document) ([]byte, error) {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(jsonData, &v); err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
