// Package driver provides graph database driver implementations for musicgraph.
//
// This package defines the GraphDriver interface and provides two
// implementations: a Neo4j driver backed by the official Bolt client, and an
// in-memory driver with the same MERGE semantics for tests and dry
// experiments.
//
// # Supported Databases
//
//   - Neo4j: the production store, schema applied with IF NOT EXISTS
//   - Memory: process-local maps keyed by node key
//
// # Usage
//
//	// Neo4j
//	d, err := driver.NewNeo4jDriver(uri, username, password, database)
//
//	// In-memory
//	d := driver.NewMemoryDriver()
//
// # Upsert Semantics
//
// Every write is a merge keyed by the node key (Artist.name, Album.id,
// Song.id) or, for relationships, by the (type, source, target) triple.
// Relationship writes match existing endpoints and are no-ops when an
// endpoint is missing, the same as MATCH ... MERGE in Cypher.
//
// # Thread Safety
//
// All driver implementations are safe for concurrent use from multiple goroutines.
//
// # Type Helpers
//
// The package provides safe type conversion helpers in type_helpers.go for
// converting database results to Go types without panicking on type assertion
// failures.
package driver
