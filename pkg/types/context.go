package types

// ContextKey is the type for values stored in a context.Context by musicgraph.
type ContextKey string

const (
	ContextKeyRunID         ContextKey = "run_id"
	ContextKeySessionID     ContextKey = "session_id"
	ContextKeyRequestSource ContextKey = "request_source"
)
