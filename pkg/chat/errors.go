package chat

import "errors"

var (
	// ErrEmptyQuestion is returned when a question is blank.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrWriteQuery is returned when a translated query would modify the graph.
	ErrWriteQuery = errors.New("query is not read-only")

	// ErrEmptyTranslation is returned when the translator produced no Cypher.
	ErrEmptyTranslation = errors.New("translator returned no cypher")
)
