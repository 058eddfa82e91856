// Package loader initializes the graph schema and writes cleaned tracks into
// a graph store.
//
// InitSchema applies the uniqueness constraints and lookup indexes. Every
// statement runs on its own and a failing statement is logged and recorded
// in the returned SchemaReport rather than aborting the run.
//
// Loader.Load performs a full reset followed by idempotent upserts of
// artists, albums, songs and finally the SINGS, CONTAINS and CREATED
// relationships. Any write failure aborts the load with a *LoadError naming
// the phase and key; writes already issued are not rolled back.
package loader
