package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/soundprediction/musicgraph/pkg/types"
)

// Neo4jDriver implements the GraphDriver interface for Neo4j databases.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   driver,
		database: database,
	}, nil
}

// write runs a single statement in its own managed write transaction.
func (n *Neo4jDriver) write(ctx context.Context, query string, params map[string]any) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	return err
}

// ApplySchemaStatement runs a schema statement in an auto-commit transaction.
func (n *Neo4jDriver) ApplySchemaStatement(ctx context.Context, statement string) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	res, err := session.Run(ctx, statement, nil)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// DeleteAll removes every node and relationship.
func (n *Neo4jDriver) DeleteAll(ctx context.Context) error {
	return n.write(ctx, DeleteAllQuery, nil)
}

// UpsertArtist merges an Artist by name.
func (n *Neo4jDriver) UpsertArtist(ctx context.Context, artist types.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}
	return n.write(ctx, UpsertArtistQuery, artistParams(artist))
}

// UpsertAlbum merges an Album by id.
func (n *Neo4jDriver) UpsertAlbum(ctx context.Context, album types.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}
	return n.write(ctx, UpsertAlbumQuery, albumParams(album))
}

// UpsertSong merges a Song by id.
func (n *Neo4jDriver) UpsertSong(ctx context.Context, song types.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}
	return n.write(ctx, UpsertSongQuery, songParams(song))
}

// UpsertRelationship merges an edge between two existing nodes.
func (n *Neo4jDriver) UpsertRelationship(ctx context.Context, rel types.Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}
	query, err := GetUpsertRelationshipQuery(rel.Type)
	if err != nil {
		return err
	}
	return n.write(ctx, query, relationshipParams(rel))
}

// ExecuteRead runs a read-only query in a managed read transaction and
// returns each record as a map keyed by column name.
func (n *Neo4jDriver) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records, err := MustRecordSlice(result, "records")
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

// GetStats retrieves node counts by label and relationship counts by type.
func (n *Neo4jDriver) GetStats(ctx context.Context) (*GraphStats, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		totalRes, err := tx.Run(ctx, TotalNodesQuery, nil)
		if err != nil {
			return nil, err
		}
		totalRecord, err := totalRes.Single(ctx)
		if err != nil {
			return nil, err
		}

		nodeRes, err := tx.Run(ctx, NodesByLabelQuery, nil)
		if err != nil {
			return nil, err
		}
		nodeRecords, err := nodeRes.Collect(ctx)
		if err != nil {
			return nil, err
		}

		edgeRes, err := tx.Run(ctx, EdgesByTypeQuery, nil)
		if err != nil {
			return nil, err
		}
		edgeRecords, err := edgeRes.Collect(ctx)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"total_nodes": totalRecord,
			"nodes":       nodeRecords,
			"edges":       edgeRecords,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	data, ok := AsMap(result)
	if !ok {
		return nil, NewTypeConversionError("map[string]any", fmt.Sprintf("%T", result), "stats")
	}
	totalRecord, err := MustRecord(data["total_nodes"], "total_nodes")
	if err != nil {
		return nil, err
	}
	nodeRecords, err := MustRecordSlice(data["nodes"], "nodes")
	if err != nil {
		return nil, err
	}
	edgeRecords, err := MustRecordSlice(data["edges"], "edges")
	if err != nil {
		return nil, err
	}

	stats := newGraphStats()
	if total, found := totalRecord.Get("total_nodes"); found {
		stats.NodeCount, _ = AsInt64(total)
	}
	collectCounts(nodeRecords, "node_type", "node_count", stats.NodesByType)
	stats.EdgeCount = collectCounts(edgeRecords, "edge_type", "edge_count", stats.EdgesByType)
	stats.LastUpdated = time.Now()

	return stats, nil
}

// collectCounts fills dst from (name, count) records and returns the sum.
func collectCounts(records []*db.Record, nameKey, countKey string, dst map[string]int64) int64 {
	var total int64
	for _, record := range records {
		name, found := record.Get(nameKey)
		if !found {
			continue
		}
		nameStr, ok := AsString(name)
		if !ok {
			continue
		}
		count, found := record.Get(countKey)
		if !found {
			continue
		}
		c, ok := AsInt64(count)
		if !ok {
			continue
		}
		dst[nameStr] = c
		total += c
	}
	return total
}

// Provider returns the provider type.
func (n *Neo4jDriver) Provider() GraphProvider {
	return GraphProviderNeo4j
}

// Close closes the Neo4j driver.
func (n *Neo4jDriver) Close() error {
	return n.client.Close(context.Background())
}

// VerifyConnectivity checks if the driver can connect to the database.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	return n.client.VerifyConnectivity(ctx)
}
