package template

import (
	"regexp"
	"strings"
)

// dataTag is a whole-string tag that is replaced by a value from the
// DataSource. The concrete types below are the only implementations.
type dataTag interface {
	resolve(params map[string][]string, src DataSource) any
}

type (
	databaseAll   struct{}
	databaseCount struct{}

	databaseFilter struct {
		field string
		value string
	}

	databaseFind struct {
		field string
		value string
	}

	databaseFilterGenre struct {
		genre string
	}
)

var (
	filterTagRe = regexp.MustCompile(`^\{\{database_filter:(\w+):(.+)\}\}$`)
	findTagRe   = regexp.MustCompile(`^\{\{database_find:(\w+):(.+)\}\}$`)
	genreTagRe  = regexp.MustCompile(`^\{\{database_filter_genre:(.+)\}\}$`)
	queryRefRe  = regexp.MustCompile(`^\{\{query\.(\w+)\}\}$`)
	queryTagRe  = regexp.MustCompile(`\{\{query\.(\w+)\}\}`)
)

// parseDataTag recognizes s as a data tag. s must already be trimmed.
func parseDataTag(s string) (dataTag, bool) {
	if !strings.HasPrefix(s, "{{database") {
		return nil, false
	}
	switch s {
	case "{{database}}":
		return databaseAll{}, true
	case "{{database_count}}":
		return databaseCount{}, true
	}
	if m := filterTagRe.FindStringSubmatch(s); m != nil {
		return databaseFilter{field: m[1], value: m[2]}, true
	}
	if m := findTagRe.FindStringSubmatch(s); m != nil {
		return databaseFind{field: m[1], value: m[2]}, true
	}
	if m := genreTagRe.FindStringSubmatch(s); m != nil {
		return databaseFilterGenre{genre: m[1]}, true
	}
	return nil, false
}

func (databaseAll) resolve(_ map[string][]string, src DataSource) any {
	return src.Database()
}

func (databaseCount) resolve(_ map[string][]string, src DataSource) any {
	return src.DatabaseCount()
}

func (t databaseFilter) resolve(params map[string][]string, src DataSource) any {
	value := resolveQueryRef(t.value, params)
	switch strings.ToLower(value) {
	case "true":
		return src.FilterDatabase(t.field, true)
	case "false":
		return src.FilterDatabase(t.field, false)
	}
	return src.FilterDatabase(t.field, value)
}

func (t databaseFind) resolve(params map[string][]string, src DataSource) any {
	rec, ok := src.FindInDatabase(t.field, resolveQueryRef(t.value, params))
	if !ok {
		return nil
	}
	return rec
}

func (t databaseFilterGenre) resolve(params map[string][]string, src DataSource) any {
	return src.FilterByGenre(resolveQueryRef(t.genre, params))
}

// resolveQueryRef replaces a {{query.<name>}} value with the first value of
// that parameter, or "" when absent. Other values are returned unchanged.
func resolveQueryRef(value string, params map[string][]string) string {
	if m := queryRefRe.FindStringSubmatch(value); m != nil {
		return firstParam(params, m[1])
	}
	return value
}

func firstParam(params map[string][]string, name string) string {
	if vals := params[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
