package driver

import (
	"context"

	"github.com/soundprediction/musicgraph/pkg/types"
)

// This file defines focused interfaces that follow the Interface Segregation Principle.
// Consumers should depend on the smallest interface that meets their needs.

// GraphCore provides lifecycle operations that all graph drivers must implement.
type GraphCore interface {
	// VerifyConnectivity checks that the store is reachable and the
	// credentials are accepted.
	VerifyConnectivity(ctx context.Context) error

	// Provider returns the type of graph database provider.
	Provider() GraphProvider

	// Close releases all resources held by the driver.
	Close() error
}

// SchemaManager applies constraint and index statements.
type SchemaManager interface {
	// ApplySchemaStatement runs a single schema statement.
	ApplySchemaStatement(ctx context.Context, statement string) error
}

// NodeStore provides upsert and reset operations for nodes.
type NodeStore interface {
	// DeleteAll removes every node and relationship.
	DeleteAll(ctx context.Context) error

	// UpsertArtist merges an Artist by name.
	UpsertArtist(ctx context.Context, artist types.Artist) error

	// UpsertAlbum merges an Album by id and overwrites its title and release date.
	UpsertAlbum(ctx context.Context, album types.Album) error

	// UpsertSong merges a Song by id and overwrites its attributes.
	UpsertSong(ctx context.Context, song types.Song) error
}

// RelationshipStore provides upsert operations for relationships.
type RelationshipStore interface {
	// UpsertRelationship merges an edge between two existing nodes. It is a
	// no-op when either endpoint does not exist.
	UpsertRelationship(ctx context.Context, rel types.Relationship) error
}

// GraphReader provides read-only access to the graph.
type GraphReader interface {
	// GetStats retrieves node and relationship counts.
	GetStats(ctx context.Context) (*GraphStats, error)

	// ExecuteRead runs a read-only Cypher query and returns its rows.
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Ensure implementations satisfy GraphDriver.
var (
	_ GraphDriver = (*Neo4jDriver)(nil)
	_ GraphDriver = (*MemoryDriver)(nil)
)
