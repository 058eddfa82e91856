package driver

import (
	"errors"
	"time"

	"github.com/soundprediction/musicgraph/pkg/types"
)

// GraphProvider represents the type of graph database provider
type GraphProvider string

const (
	GraphProviderNeo4j  GraphProvider = "neo4j"
	GraphProviderMemory GraphProvider = "memory"
)

// ErrUnsupportedQuery is returned by drivers that cannot evaluate a query.
var ErrUnsupportedQuery = errors.New("query not supported by this driver")

// GraphDriver is the full contract the loader, diagnostics and chat layers
// use to talk to a graph store.
type GraphDriver interface {
	GraphCore
	SchemaManager
	NodeStore
	RelationshipStore
	GraphReader
}

// GraphStats holds statistics about the graph.
type GraphStats struct {
	NodeCount   int64            `json:"node_count" yaml:"node_count"`
	EdgeCount   int64            `json:"edge_count" yaml:"edge_count"`
	NodesByType map[string]int64 `json:"nodes_by_type" yaml:"nodes_by_type"`
	EdgesByType map[string]int64 `json:"edges_by_type" yaml:"edges_by_type"`
	LastUpdated time.Time        `json:"last_updated" yaml:"last_updated"`
}

func newGraphStats() *GraphStats {
	return &GraphStats{
		NodesByType: make(map[string]int64),
		EdgesByType: make(map[string]int64),
		LastUpdated: time.Now(),
	}
}

// Query parameter builders. Parameter names match graph_queries.go.
func artistParams(a types.Artist) map[string]any {
	return map[string]any{"name": a.Name}
}

func albumParams(a types.Album) map[string]any {
	return map[string]any{
		"id":           a.ID,
		"title":        a.Title,
		"release_date": a.ReleaseDate,
	}
}

func songParams(s types.Song) map[string]any {
	params := s.Properties()
	params["id"] = s.ID
	return params
}

func relationshipParams(r types.Relationship) map[string]any {
	return map[string]any{
		"source": r.SourceKey,
		"target": r.TargetKey,
	}
}
