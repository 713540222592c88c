package stateful

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Record is one schema-free row of the in-memory database.
type Record = map[string]any

// RecordSet is an ordered sequence of records. Insertion order is preserved.
//
// RecordSet does no locking of its own: the owner (config.Store) holds its
// mutex around every call. Query methods return deep copies so callers can
// never reach the owner's maps.
type RecordSet []Record

// Clone returns a deep copy of the set.
func (s RecordSet) Clone() RecordSet {
	out := make(RecordSet, len(s))
	for i, r := range s {
		out[i] = CloneRecord(r)
	}
	return out
}

// Filter returns copies of the records whose field equals value.
func (s RecordSet) Filter(field string, value any) RecordSet {
	out := RecordSet{}
	for _, r := range s {
		if v, ok := r[field]; ok && ValuesEqual(v, value) {
			out = append(out, CloneRecord(r))
		}
	}
	return out
}

// FilterContains returns copies of the records whose field is an array that
// contains value.
func (s RecordSet) FilterContains(field string, value any) RecordSet {
	out := RecordSet{}
	for _, r := range s {
		list, ok := r[field].([]any)
		if !ok {
			continue
		}
		if slices.ContainsFunc(list, func(elem any) bool { return ValuesEqual(elem, value) }) {
			out = append(out, CloneRecord(r))
		}
	}
	return out
}

// Find returns a copy of the first record whose field equals value.
func (s RecordSet) Find(field string, value any) (Record, bool) {
	i := s.index(field, value)
	if i < 0 {
		return nil, false
	}
	return CloneRecord(s[i]), true
}

// Insert appends rec unless a record with the same keyField value already
// exists. An absent or empty key skips the uniqueness check. The returned set
// must replace the receiver; the returned record is a copy of what was stored.
func (s RecordSet) Insert(rec Record, keyField string) (RecordSet, Record, error) {
	if key, ok := rec[keyField]; ok && !isBlank(key) && s.index(keyField, key) >= 0 {
		return s, nil, &ConflictError{Resource: "record", Key: fmt.Sprint(key)}
	}
	stored := CloneRecord(rec)
	return append(s, stored), CloneRecord(stored), nil
}

// Remove deletes the first record whose field equals value. The returned set
// must replace the receiver.
func (s RecordSet) Remove(field string, value any) (RecordSet, Record, error) {
	i := s.index(field, value)
	if i < 0 {
		return s, nil, &NotFoundError{Resource: "record", Field: field, Value: fmt.Sprint(value)}
	}
	removed := s[i]
	return slices.Delete(s, i, i+1), removed, nil
}

func (s RecordSet) index(field string, value any) int {
	return slices.IndexFunc(s, func(r Record) bool {
		v, ok := r[field]
		return ok && ValuesEqual(v, value)
	})
}

// CloneRecord deep-copies a record.
func CloneRecord(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := maps.Clone(t)
		for k, inner := range out {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// ValuesEqual compares a stored record value with a lookup value.
//
// Strings, booleans and numbers compare by value. A string compares equal to
// a number when it parses to the same numeric value, so an id taken from a
// query string finds a numeric id. Arrays and objects never compare equal.
func ValuesEqual(stored, want any) bool {
	if stored == nil || want == nil {
		return stored == nil && want == nil
	}

	if sf, ok := toFloat(stored); ok {
		if wf, ok := toFloat(want); ok {
			return sf == wf
		}
		if ws, ok := want.(string); ok {
			wf, err := strconv.ParseFloat(ws, 64)
			return err == nil && sf == wf
		}
		return false
	}

	switch s := stored.(type) {
	case string:
		switch w := want.(type) {
		case string:
			return s == w
		default:
			if wf, ok := toFloat(w); ok {
				sf, err := strconv.ParseFloat(s, 64)
				return err == nil && sf == wf
			}
		}
	case bool:
		w, ok := want.(bool)
		return ok && s == w
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
