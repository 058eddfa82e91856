package diagnostics

const (
	totalNodesQuery         = "MATCH (n) RETURN count(n) AS total_nodes"
	totalRelationshipsQuery = "MATCH ()-[r]->() RETURN count(r) AS total_relationships"

	nodesByLabelQuery = `
		MATCH (n)
		RETURN labels(n)[0] AS name, count(*) AS count
		ORDER BY count DESC
	`

	relationshipsByTypeQuery = `
		MATCH ()-[r]->()
		RETURN type(r) AS name, count(*) AS count
		ORDER BY count DESC
	`

	genresQuery = `
		MATCH (s:Song)
		RETURN s.genre AS name, count(*) AS count
		ORDER BY count DESC
	`

	topArtistsQuery = `
		MATCH (a:Artist)-[:SINGS]->(s:Song)
		RETURN a.name AS name, count(s) AS count
		ORDER BY count DESC
		LIMIT $limit
	`

	sampleSongsQuery = `
		MATCH (s:Song)
		RETURN s.id AS id, s.title AS title, s.genre AS genre, s.popularity AS popularity
		LIMIT $limit
	`

	genreSongCountQuery = "MATCH (s:Song {genre: $genre}) RETURN count(s) AS count"

	topGenreArtistsQuery = `
		MATCH (a:Artist)-[:SINGS]->(s:Song {genre: $genre})
		RETURN a.name AS name, count(s) AS count
		ORDER BY count DESC
		LIMIT $limit
	`

	nodePropertiesQuery = `
		CALL db.schema.nodeTypeProperties()
		YIELD nodeType, propertyName, propertyTypes
		RETURN nodeType AS type, propertyName AS property, propertyTypes AS property_types
		ORDER BY type, property
	`

	relationshipPropertiesQuery = `
		CALL db.schema.relTypeProperties()
		YIELD relType, propertyName, propertyTypes
		RETURN relType AS type, propertyName AS property, propertyTypes AS property_types
		ORDER BY type, property
	`
)

// DefaultProbes are the queries the chat translator is most likely to emit
// for common questions. Their row counts show whether the graph can answer
// them.
var DefaultProbes = []string{
	"MATCH (a:Artist)-[:SINGS]->(s:Song {genre: 'pop'}) RETURN a.name LIMIT 10",
	"MATCH (s:Song) WHERE s.genre = 'pop' RETURN count(s)",
	"MATCH (a:Artist) RETURN count(a)",
	"MATCH (al:Album) RETURN count(al)",
}
