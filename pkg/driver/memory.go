package driver

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/soundprediction/musicgraph/pkg/types"
)

// schemaPattern matches the CREATE CONSTRAINT / CREATE INDEX forms emitted
// by GetSchemaStatements.
var schemaPattern = regexp.MustCompile(
	`(?i)^\s*CREATE\s+(CONSTRAINT|INDEX)(?:\s+(\w+))?(\s+IF\s+NOT\s+EXISTS)?\s+FOR\s+\(\s*\w+\s*:\s*(\w+)\s*\)\s+(?:REQUIRE|ON)\s+\(?\s*\w+\.(\w+)\s*\)?(\s+IS\s+UNIQUE)?\s*$`,
)

// SchemaObject is a constraint or index held by the MemoryDriver.
type SchemaObject struct {
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Label    string `json:"label"`
	Property string `json:"property"`
}

// MemoryDriver is a thread-safe in-memory graph store with the same upsert
// semantics as the Neo4j queries in graph_queries.go. It does not evaluate
// arbitrary Cypher: ExecuteRead returns ErrUnsupportedQuery.
type MemoryDriver struct {
	mu      sync.RWMutex
	artists map[string]types.Artist
	albums  map[string]types.Album
	songs   map[string]types.Song
	edges   map[types.Relationship]struct{}
	schema  map[string]SchemaObject
	closed  bool
}

// NewMemoryDriver creates an empty in-memory store.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		artists: make(map[string]types.Artist),
		albums:  make(map[string]types.Album),
		songs:   make(map[string]types.Song),
		edges:   make(map[types.Relationship]struct{}),
		schema:  make(map[string]SchemaObject),
	}
}

func (m *MemoryDriver) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.closed {
		return fmt.Errorf("memory driver is closed")
	}
	return nil
}

// ApplySchemaStatement records a constraint or index. Re-applying an
// existing object is a no-op with IF NOT EXISTS and an error without it.
func (m *MemoryDriver) ApplySchemaStatement(ctx context.Context, statement string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(ctx); err != nil {
		return err
	}

	match := schemaPattern.FindStringSubmatch(statement)
	if match == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedQuery, statement)
	}

	obj := SchemaObject{
		Kind:     strings.ToUpper(match[1]),
		Name:     match[2],
		Label:    match[4],
		Property: match[5],
	}
	if obj.Kind == "CONSTRAINT" && match[6] == "" {
		return fmt.Errorf("%w: only uniqueness constraints are supported", ErrUnsupportedQuery)
	}

	key := obj.Kind + ":" + obj.Label + "." + obj.Property
	if _, exists := m.schema[key]; exists {
		if match[3] == "" {
			return fmt.Errorf("an equivalent %s already exists for :%s(%s)", strings.ToLower(obj.Kind), obj.Label, obj.Property)
		}
		return nil
	}
	m.schema[key] = obj
	return nil
}

// DeleteAll removes every node and relationship. Schema objects are kept.
func (m *MemoryDriver) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(ctx); err != nil {
		return err
	}

	m.artists = make(map[string]types.Artist)
	m.albums = make(map[string]types.Album)
	m.songs = make(map[string]types.Song)
	m.edges = make(map[types.Relationship]struct{})
	return nil
}

// UpsertArtist merges an Artist by name.
func (m *MemoryDriver) UpsertArtist(ctx context.Context, artist types.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(ctx); err != nil {
		return err
	}
	m.artists[artist.Name] = artist
	return nil
}

// UpsertAlbum merges an Album by id; the last write wins for its attributes.
func (m *MemoryDriver) UpsertAlbum(ctx context.Context, album types.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(ctx); err != nil {
		return err
	}
	m.albums[album.ID] = album
	return nil
}

// UpsertSong merges a Song by id; the last write wins for its attributes.
func (m *MemoryDriver) UpsertSong(ctx context.Context, song types.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(ctx); err != nil {
		return err
	}
	m.songs[song.ID] = song
	return nil
}

// UpsertRelationship merges an edge when both endpoints exist.
func (m *MemoryDriver) UpsertRelationship(ctx context.Context, rel types.Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(ctx); err != nil {
		return err
	}
	if !m.hasNode(rel.Type, rel.SourceKey, true) || !m.hasNode(rel.Type, rel.TargetKey, false) {
		return nil
	}
	m.edges[rel] = struct{}{}
	return nil
}

// hasNode reports whether the source (or target) endpoint of relType
// identified by key exists. Caller must hold the lock.
func (m *MemoryDriver) hasNode(relType types.RelationshipType, key string, source bool) bool {
	sourceLabel, targetLabel, err := relType.Endpoints()
	if err != nil {
		return false
	}
	label := targetLabel
	if source {
		label = sourceLabel
	}

	var ok bool
	switch label {
	case types.ArtistLabel:
		_, ok = m.artists[key]
	case types.AlbumLabel:
		_, ok = m.albums[key]
	case types.SongLabel:
		_, ok = m.songs[key]
	}
	return ok
}

// GetStats returns node counts by label and relationship counts by type.
func (m *MemoryDriver) GetStats(ctx context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkOpen(ctx); err != nil {
		return nil, err
	}

	stats := newGraphStats()
	counts := map[types.NodeLabel]int{
		types.ArtistLabel: len(m.artists),
		types.AlbumLabel:  len(m.albums),
		types.SongLabel:   len(m.songs),
	}
	for label, count := range counts {
		if count > 0 {
			stats.NodesByType[string(label)] = int64(count)
		}
		stats.NodeCount += int64(count)
	}
	for rel := range m.edges {
		stats.EdgesByType[string(rel.Type)]++
		stats.EdgeCount++
	}
	return stats, nil
}

// ExecuteRead is not supported by the in-memory store.
func (m *MemoryDriver) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return nil, fmt.Errorf("%w: memory driver cannot evaluate Cypher", ErrUnsupportedQuery)
}

// Artist returns the stored Artist by name.
func (m *MemoryDriver) Artist(name string) (types.Artist, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.artists[name]
	return a, ok
}

// Album returns the stored Album by id.
func (m *MemoryDriver) Album(id string) (types.Album, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.albums[id]
	return a, ok
}

// Song returns the stored Song by id.
func (m *MemoryDriver) Song(id string) (types.Song, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.songs[id]
	return s, ok
}

// Songs returns every stored Song sorted by id.
func (m *MemoryDriver) Songs() []types.Song {
	m.mu.RLock()
	defer m.mu.RUnlock()

	songs := make([]types.Song, 0, len(m.songs))
	for _, s := range m.songs {
		songs = append(songs, s)
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
	return songs
}

// Relationships returns every stored edge sorted by type, source and target.
func (m *MemoryDriver) Relationships() []types.Relationship {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rels := make([]types.Relationship, 0, len(m.edges))
	for r := range m.edges {
		rels = append(rels, r)
	}
	sort.Slice(rels, func(i, j int) bool {
		if rels[i].Type != rels[j].Type {
			return rels[i].Type < rels[j].Type
		}
		if rels[i].SourceKey != rels[j].SourceKey {
			return rels[i].SourceKey < rels[j].SourceKey
		}
		return rels[i].TargetKey < rels[j].TargetKey
	})
	return rels
}

// IncomingCount returns how many relType edges point at targetKey.
func (m *MemoryDriver) IncomingCount(relType types.RelationshipType, targetKey string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for r := range m.edges {
		if r.Type == relType && r.TargetKey == targetKey {
			count++
		}
	}
	return count
}

// Schema returns the recorded constraints and indexes sorted by kind, label
// and property.
func (m *MemoryDriver) Schema() []SchemaObject {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objs := make([]SchemaObject, 0, len(m.schema))
	for _, o := range m.schema {
		objs = append(objs, o)
	}
	sort.Slice(objs, func(i, j int) bool {
		a, b := objs[i], objs[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Property < b.Property
	})
	return objs
}

// Provider returns GraphProviderMemory.
func (m *MemoryDriver) Provider() GraphProvider {
	return GraphProviderMemory
}

// VerifyConnectivity fails only after Close.
func (m *MemoryDriver) VerifyConnectivity(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkOpen(ctx)
}

// Close marks the store closed. Further operations fail.
func (m *MemoryDriver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
