package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/config.schema.json
var configSchemaJSON string

//go:embed schema/database.schema.json
var databaseSchemaJSON string

var (
	schemaOnce     sync.Once
	configSchema   *jsonschema.Schema
	databaseSchema *jsonschema.Schema
	schemaErr      error
)

func compileSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add config schema: %w", err)
			return
		}
		if err := compiler.AddResource("database.schema.json", strings.NewReader(databaseSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add database schema: %w", err)
			return
		}

		configSchema, schemaErr = compiler.Compile("config.schema.json")
		if schemaErr != nil {
			return
		}
		databaseSchema, schemaErr = compiler.Compile("database.schema.json")
	})
	return configSchema, databaseSchema, schemaErr
}

// ValidateDocument checks a decoded configuration document (as produced by
// encoding/json with UseNumber) against the embedded schema.
func ValidateDocument(v any) error {
	cfg, _, err := compileSchemas()
	if err != nil {
		return err
	}
	return schemaError(cfg.Validate(v))
}

// ValidateDatabase checks a decoded database document against the embedded
// schema: an array of objects.
func ValidateDatabase(v any) error {
	_, db, err := compileSchemas()
	if err != nil {
		return err
	}
	return schemaError(db.Validate(v))
}

func schemaError(err error) error {
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%w: %s", ErrSchema, firstCause(ve))
	}
	return fmt.Errorf("%w: %v", ErrSchema, err)
}

// firstCause returns the deepest leftmost validation failure, which is the
// most specific message jsonschema produces.
func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
