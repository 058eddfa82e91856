package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fakeQuerier answers queries from a fixed table keyed by query text.
type fakeQuerier struct {
	rows   map[string][]map[string]any
	errs   map[string]error
	params map[string]map[string]any
}

func (f *fakeQuerier) ExecuteRead(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if f.params == nil {
		f.params = map[string]map[string]any{}
	}
	f.params[query] = params
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.rows[query], nil
}

func loadedGraph() *fakeQuerier {
	return &fakeQuerier{
		rows: map[string][]map[string]any{
			totalNodesQuery:         {{"total_nodes": int64(7)}},
			totalRelationshipsQuery: {{"total_relationships": int64(9)}},
			nodesByLabelQuery: {
				{"name": "Song", "count": int64(3)},
				{"name": "Artist", "count": int64(2)},
				{"name": "Album", "count": int64(2)},
			},
			relationshipsByTypeQuery: {
				{"name": "SINGS", "count": int64(3)},
				{"name": "CONTAINS", "count": int64(3)},
				{"name": "CREATED", "count": int64(3)},
			},
			genresQuery: {
				{"name": "pop", "count": int64(2)},
				{"name": nil, "count": int64(1)},
			},
			topArtistsQuery: {{"name": "Artist X", "count": int64(2)}},
			sampleSongsQuery: {
				{"id": "t1", "title": "Song A", "genre": "pop", "popularity": int64(80)},
			},
			genreSongCountQuery:  {{"count": int64(2)}},
			topGenreArtistsQuery: {{"name": "Artist X", "count": int64(2)}},
			nodePropertiesQuery: {
				{"type": ":`Song`", "property": "title", "property_types": []any{"String"}},
			},
			relationshipPropertiesQuery: {},
			DefaultProbes[0]:            {{"a.name": "Artist X"}, {"a.name": "Artist X"}},
			DefaultProbes[1]:            {{"count(s)": int64(2)}},
			DefaultProbes[2]:            {{"count(a)": int64(2)}},
		},
		errs: map[string]error{
			DefaultProbes[3]: errors.New("syntax error"),
		},
	}
}

func TestAnalyzerRun(t *testing.T) {
	q := loadedGraph()
	report, err := NewAnalyzer(q, nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), report.TotalNodes)
	assert.Equal(t, int64(9), report.TotalRelationships)
	assert.Equal(t, []Count{{"Song", 3}, {"Artist", 2}, {"Album", 2}}, report.NodesByLabel)
	assert.Len(t, report.RelationshipsByType, 3)
	assert.Equal(t, []Count{{"pop", 2}, {"", 1}}, report.Genres)
	assert.Equal(t, []SongSample{{ID: "t1", Title: "Song A", Genre: "pop", Popularity: 80}}, report.SampleSongs)
	assert.Equal(t, GenreReport{Genre: "pop", Songs: 2, TopArtists: []Count{{"Artist X", 2}}}, report.Genre)
	assert.Equal(t, []PropertySchema{{Type: ":`Song`", Property: "title", PropertyTypes: []string{"String"}}}, report.NodeProperties)
	assert.Empty(t, report.Errors)

	require.Len(t, report.Probes, 4)
	assert.Equal(t, int64(2), report.Probes[0].Rows)
	assert.Equal(t, int64(2), report.Probes[1].Rows)
	assert.Equal(t, "syntax error", report.Probes[3].Error)

	assert.Equal(t, 15, q.params[topArtistsQuery]["limit"])
	assert.Equal(t, "pop", q.params[topGenreArtistsQuery]["genre"])
	assert.Equal(t, 10, q.params[topGenreArtistsQuery]["limit"])
}

func TestAnalyzerOptions(t *testing.T) {
	q := loadedGraph()
	report, err := NewAnalyzer(q, &Options{Genre: "rock", TopArtists: 3, SampleSongs: 1, Probes: []string{}}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "rock", report.Genre.Genre)
	assert.Equal(t, "rock", q.params[genreSongCountQuery]["genre"])
	assert.Equal(t, 3, q.params[topArtistsQuery]["limit"])
	assert.Equal(t, 1, q.params[sampleSongsQuery]["limit"])
	assert.Empty(t, report.Probes)
}

func TestAnalyzerSectionFailureIsRecorded(t *testing.T) {
	q := loadedGraph()
	q.errs[nodePropertiesQuery] = errors.New("procedure not found")
	q.rows[genresQuery] = []map[string]any{{"name": "pop", "count": "many"}}

	report, err := NewAnalyzer(q, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], "genres")
	assert.Contains(t, report.Errors[1], "node_properties: procedure not found")
	assert.Equal(t, int64(7), report.TotalNodes)
}

func TestAnalyzerUnreachable(t *testing.T) {
	q := &fakeQuerier{errs: map[string]error{totalNodesQuery: errors.New("connection refused")}}
	_, err := NewAnalyzer(q, nil, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRenderFormats(t *testing.T) {
	report, err := NewAnalyzer(loadedGraph(), nil, nil).Run(context.Background())
	require.NoError(t, err)

	var jsonBuf bytes.Buffer
	require.NoError(t, Render(&jsonBuf, report, FormatJSON))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, float64(7), decoded["total_nodes"])

	var yamlBuf bytes.Buffer
	require.NoError(t, Render(&yamlBuf, report, FormatYAML))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))
	assert.Equal(t, 9, fromYAML["total_relationships"])

	var textBuf bytes.Buffer
	require.NoError(t, Render(&textBuf, report, FormatText))
	text := textBuf.String()
	assert.Contains(t, text, "Total nodes: 7")
	assert.Contains(t, text, "Artist X: 2 songs")
	assert.Contains(t, text, "Total pop songs: 2")
	assert.Contains(t, text, "Query 4 failed: syntax error")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), strings.Repeat("=", 60)))

	assert.Error(t, Render(&bytes.Buffer{}, report, "xml"))
}
