// Package memstore is an in-memory stand-in for postgresstore in handler tests.
//
// It applies the same commit rules: version-guarded updates, one active loan per member and
// book, and the stock/status check, all-or-nothing per changeset. Hooks let tests inject
// conflicts and concurrent writers between a handler's load and its commit.
package memstore
