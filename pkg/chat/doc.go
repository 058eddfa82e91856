// Package chat answers natural-language questions about the music graph.
//
// A Translator turns a question (plus the conversation so far) into a
// single read-only Cypher query. The query is checked by ValidateReadOnly,
// run through the graph driver's read path, and the rows are turned into a
// short textual answer. Conversation state lives in an explicitly passed
// Session; there is no package-level state.
package chat
