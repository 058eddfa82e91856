// Package musicgraph loads a Spotify-style track dataset into a Neo4j music
// graph of artists, albums and songs.
//
// The pipeline has two steps that always run in this order: schema
// initialization (uniqueness constraints and lookup indexes) and the graph
// load (clean the CSV, reset the graph, upsert nodes, then relationships).
// Both steps are idempotent, so running Setup twice on the same file leaves
// the graph unchanged.
//
// # Basic Usage
//
//	d, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := musicgraph.NewClient(d, nil, slog.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Setup(ctx, "spotify_songs.csv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Load.Songs, "songs loaded")
//
// # Graph Layout
//
//	(:Artist {name})-[:SINGS]->(:Song {id, title, duration, popularity, genre, danceability, energy})
//	(:Album {id, title, releaseDate})-[:CONTAINS]->(:Song)
//	(:Artist)-[:CREATED]->(:Album)
//
// The diagnostics, chat and server packages read the graph this package
// writes.
package musicgraph
