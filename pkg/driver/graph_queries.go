package driver

import (
	"fmt"

	"github.com/soundprediction/musicgraph/pkg/types"
)

// GetConstraints returns the uniqueness constraints on the node keys.
func GetConstraints() []string {
	return []string{
		"CREATE CONSTRAINT artist_name_unique IF NOT EXISTS FOR (a:Artist) REQUIRE a.name IS UNIQUE",
		"CREATE CONSTRAINT song_id_unique IF NOT EXISTS FOR (s:Song) REQUIRE s.id IS UNIQUE",
		"CREATE CONSTRAINT album_id_unique IF NOT EXISTS FOR (al:Album) REQUIRE al.id IS UNIQUE",
	}
}

// GetRangeIndices returns the lookup indexes used by read queries.
// Song.tempo is indexed although the loader never writes it.
func GetRangeIndices() []string {
	return []string{
		"CREATE INDEX song_genre IF NOT EXISTS FOR (s:Song) ON (s.genre)",
		"CREATE INDEX song_popularity IF NOT EXISTS FOR (s:Song) ON (s.popularity)",
		"CREATE INDEX song_danceability IF NOT EXISTS FOR (s:Song) ON (s.danceability)",
		"CREATE INDEX song_energy IF NOT EXISTS FOR (s:Song) ON (s.energy)",
		"CREATE INDEX song_tempo IF NOT EXISTS FOR (s:Song) ON (s.tempo)",
		"CREATE INDEX artist_name IF NOT EXISTS FOR (a:Artist) ON (a.name)",
	}
}

// GetSchemaStatements returns constraints followed by indexes, the order
// they must be applied in.
func GetSchemaStatements() []string {
	return append(GetConstraints(), GetRangeIndices()...)
}

const (
	// DeleteAllQuery removes every node together with its relationships.
	DeleteAllQuery = "MATCH (n) DETACH DELETE n"

	UpsertArtistQuery = "MERGE (a:Artist {name: $name})"

	UpsertAlbumQuery = `
		MERGE (al:Album {id: $id})
		SET al.title = $title, al.releaseDate = $release_date
	`

	UpsertSongQuery = `
		MERGE (s:Song {id: $id})
		SET s.title = $title,
			s.duration = $duration,
			s.popularity = $popularity,
			s.genre = $genre,
			s.danceability = $danceability,
			s.energy = $energy
	`
)

// GetUpsertRelationshipQuery returns the MATCH ... MERGE statement for a
// relationship type. Parameters are $source and $target.
func GetUpsertRelationshipQuery(relType types.RelationshipType) (string, error) {
	switch relType {
	case types.SingsRelationship:
		return "MATCH (a:Artist {name: $source}), (s:Song {id: $target}) MERGE (a)-[:SINGS]->(s)", nil
	case types.ContainsRelationship:
		return "MATCH (al:Album {id: $source}), (s:Song {id: $target}) MERGE (al)-[:CONTAINS]->(s)", nil
	case types.CreatedRelationship:
		return "MATCH (a:Artist {name: $source}), (al:Album {id: $target}) MERGE (a)-[:CREATED]->(al)", nil
	default:
		return "", fmt.Errorf("no upsert query for relationship type %q", string(relType))
	}
}

// Statistics queries.
const (
	TotalNodesQuery = "MATCH (n) RETURN count(n) AS total_nodes"

	NodesByLabelQuery = `
		MATCH (n)
		UNWIND labels(n) AS label
		RETURN label AS node_type, count(*) AS node_count
		ORDER BY node_count DESC
	`

	EdgesByTypeQuery = `
		MATCH ()-[r]->()
		RETURN type(r) AS edge_type, count(r) AS edge_count
		ORDER BY edge_count DESC
	`
)
