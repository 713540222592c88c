// Package stateful holds the mutable in-memory state of the mock server: the
// ordered record set backing the database and the wishlist.
//
// Record sets are schema-free. Records are map[string]any values decoded from
// JSON, and lookups compare field values with ValuesEqual, which accepts a
// string query value for a numeric field.
//
// Failures are reported with typed errors that carry their HTTP status:
//
//	*NotFoundError   -> 404
//	*ConflictError   -> 409
//	*ValidationError -> 400
//
// Wishlist guards its own state with a mutex. RecordSet has no locking and
// must be owned by a type that serializes access (see config.Store).
package stateful
