// Package types defines the core data types for the musicgraph knowledge graph.
//
// This package contains the fundamental types used throughout musicgraph:
//   - RawTrack: One row of the source CSV, every cell optional
//   - Track: A cleaned row with all defaults applied
//   - Artist, Album, Song: The three node labels stored in the graph
//   - Relationship: A directed SINGS, CONTAINS or CREATED edge
//
// # Node Types
//
// Each node label has a single unique key:
//   - Artist: name
//   - Album: id
//   - Song: id
//
// # Validation
//
// Node types provide a Validate() method that rejects empty keys:
//
//	song := types.Song{ID: "t1", Title: "Song A"}
//	if err := song.Validate(); err != nil {
//	    // Handle validation error
//	}
package types
