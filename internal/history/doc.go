// Package history persists accepted scenario documents in SQLite. Entries
// are append-only: a stored document is never mutated, only removed. The
// stored JSON is the scenario interchange format, so documents round-trip
// losslessly through the store.
package history
