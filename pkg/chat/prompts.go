package chat

// SchemaInstruction is the fixed system instruction sent with every
// translation request.
const SchemaInstruction = `You translate questions about a music database into a single read-only Cypher query for Neo4j.

Graph schema:
  (:Artist {name: STRING})
  (:Album {id: STRING, title: STRING, releaseDate: STRING "YYYY-MM-DD"})
  (:Song {id: STRING, title: STRING, duration: INTEGER milliseconds, popularity: INTEGER 0-100,
          genre: STRING, danceability: FLOAT 0-1, energy: FLOAT 0-1})
  (:Artist)-[:SINGS]->(:Song)
  (:Album)-[:CONTAINS]->(:Song)
  (:Artist)-[:CREATED]->(:Album)

Rules:
- Only use the labels, relationship types and properties listed above.
- Never write to the database: no CREATE, MERGE, SET, DELETE, REMOVE, DROP or LOAD CSV.
- Return readable columns with aliases and add a LIMIT of at most 25 unless counting.
- Respond with JSON only, in the form {"cypher": "<query>"}.`

// answerInstruction asks for a short answer grounded in query rows.
const answerInstruction = `You answer questions about a music database. You are given the question,
the Cypher query that was run and its results as JSON. Answer in one to three
sentences using only those results. If the results are empty, say that no
matching data was found.`

// ExampleQuestions are shown to users who do not know what to ask.
var ExampleQuestions = []string{
	"What are the most popular songs by Queen?",
	"List artists in the 'pop' genre",
	"Show me high-energy dance songs",
	"Which albums were released in 2019?",
	"Find collaborations between artists",
}
