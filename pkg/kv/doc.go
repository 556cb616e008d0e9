// Package kv provides the key-value storage layer: the Store interface,
// key and value validation, and two interchangeable backends.
//
// The memory backend is the default; it is process-local and vanishes on
// restart. The SQLite backend persists entries to a local database file
// and is selected through configuration. Handlers depend only on the
// Store interface, so tests substitute isolated instances.
package kv
