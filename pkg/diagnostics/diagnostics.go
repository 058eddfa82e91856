// Package diagnostics builds a read-only analysis report of a loaded music
// graph: totals, label and relationship breakdowns, genre and artist
// rankings, a sample of songs, the property schema and a set of probe
// queries.
package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soundprediction/musicgraph/pkg/driver"
)

// Querier runs read-only Cypher. driver.GraphDriver satisfies it.
type Querier interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Options tunes the report.
type Options struct {
	// Genre is the genre analyzed in detail. Defaults to "pop".
	Genre string
	// TopArtists limits the artist ranking. Defaults to 15.
	TopArtists int
	// TopGenreArtists limits the per-genre artist ranking. Defaults to 10.
	TopGenreArtists int
	// SampleSongs limits the song sample. Defaults to 5.
	SampleSongs int
	// Probes are extra queries whose row counts are reported. Defaults to
	// DefaultProbes.
	Probes []string
}

func (o *Options) withDefaults() Options {
	out := Options{Genre: "pop", TopArtists: 15, TopGenreArtists: 10, SampleSongs: 5, Probes: DefaultProbes}
	if o == nil {
		return out
	}
	if o.Genre != "" {
		out.Genre = o.Genre
	}
	if o.TopArtists > 0 {
		out.TopArtists = o.TopArtists
	}
	if o.TopGenreArtists > 0 {
		out.TopGenreArtists = o.TopGenreArtists
	}
	if o.SampleSongs > 0 {
		out.SampleSongs = o.SampleSongs
	}
	if o.Probes != nil {
		out.Probes = o.Probes
	}
	return out
}

// Count is a named count in a ranking or breakdown.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int64  `json:"count" yaml:"count"`
}

// SongSample is one row of the song sample.
type SongSample struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Genre      string `json:"genre" yaml:"genre"`
	Popularity int64  `json:"popularity" yaml:"popularity"`
}

// PropertySchema describes one property of a node label or relationship type.
type PropertySchema struct {
	Type          string   `json:"type" yaml:"type"`
	Property      string   `json:"property" yaml:"property"`
	PropertyTypes []string `json:"property_types" yaml:"property_types"`
}

// ProbeResult is the outcome of one probe query.
type ProbeResult struct {
	Query string `json:"query" yaml:"query"`
	Rows  int64  `json:"rows" yaml:"rows"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// GenreReport details a single genre.
type GenreReport struct {
	Genre      string  `json:"genre" yaml:"genre"`
	Songs      int64   `json:"songs" yaml:"songs"`
	TopArtists []Count `json:"top_artists" yaml:"top_artists"`
}

// Report is the full analysis.
type Report struct {
	GeneratedAt            time.Time        `json:"generated_at" yaml:"generated_at"`
	TotalNodes             int64            `json:"total_nodes" yaml:"total_nodes"`
	TotalRelationships     int64            `json:"total_relationships" yaml:"total_relationships"`
	NodesByLabel           []Count          `json:"nodes_by_label" yaml:"nodes_by_label"`
	RelationshipsByType    []Count          `json:"relationships_by_type" yaml:"relationships_by_type"`
	Genres                 []Count          `json:"genres" yaml:"genres"`
	TopArtists             []Count          `json:"top_artists" yaml:"top_artists"`
	SampleSongs            []SongSample     `json:"sample_songs" yaml:"sample_songs"`
	Genre                  GenreReport      `json:"genre" yaml:"genre"`
	NodeProperties         []PropertySchema `json:"node_properties" yaml:"node_properties"`
	RelationshipProperties []PropertySchema `json:"relationship_properties" yaml:"relationship_properties"`
	Probes                 []ProbeResult    `json:"probes" yaml:"probes"`
	// Errors lists sections that could not be computed, as "section: error".
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Analyzer builds reports.
type Analyzer struct {
	db     Querier
	opts   Options
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil opts or logger selects the defaults.
func NewAnalyzer(db Querier, opts *Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{db: db, opts: opts.withDefaults(), logger: logger}
}

// Run builds the report. Only a failure of the first query, which shows the
// database is unreachable, is returned; other section failures are recorded
// in Report.Errors.
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	report := &Report{GeneratedAt: time.Now().UTC()}

	total, err := a.scalar(ctx, totalNodesQuery, nil, "total_nodes")
	if err != nil {
		return nil, fmt.Errorf("counting nodes: %w", err)
	}
	report.TotalNodes = total

	a.section(ctx, report, "total_relationships", func() error {
		n, err := a.scalar(ctx, totalRelationshipsQuery, nil, "total_relationships")
		report.TotalRelationships = n
		return err
	})
	a.section(ctx, report, "nodes_by_label", func() (err error) {
		report.NodesByLabel, err = a.counts(ctx, nodesByLabelQuery, nil)
		return err
	})
	a.section(ctx, report, "relationships_by_type", func() (err error) {
		report.RelationshipsByType, err = a.counts(ctx, relationshipsByTypeQuery, nil)
		return err
	})
	a.section(ctx, report, "genres", func() (err error) {
		report.Genres, err = a.counts(ctx, genresQuery, nil)
		return err
	})
	a.section(ctx, report, "top_artists", func() (err error) {
		report.TopArtists, err = a.counts(ctx, topArtistsQuery, map[string]any{"limit": a.opts.TopArtists})
		return err
	})
	a.section(ctx, report, "sample_songs", func() (err error) {
		report.SampleSongs, err = a.sampleSongs(ctx)
		return err
	})

	report.Genre.Genre = a.opts.Genre
	genreParams := map[string]any{"genre": a.opts.Genre}
	a.section(ctx, report, "genre_songs", func() (err error) {
		report.Genre.Songs, err = a.scalar(ctx, genreSongCountQuery, genreParams, "count")
		return err
	})
	a.section(ctx, report, "genre_top_artists", func() (err error) {
		report.Genre.TopArtists, err = a.counts(ctx, topGenreArtistsQuery, map[string]any{
			"genre": a.opts.Genre,
			"limit": a.opts.TopGenreArtists,
		})
		return err
	})

	a.section(ctx, report, "node_properties", func() (err error) {
		report.NodeProperties, err = a.properties(ctx, nodePropertiesQuery)
		return err
	})
	a.section(ctx, report, "relationship_properties", func() (err error) {
		report.RelationshipProperties, err = a.properties(ctx, relationshipPropertiesQuery)
		return err
	})

	for _, q := range a.opts.Probes {
		report.Probes = append(report.Probes, a.probe(ctx, q))
	}

	a.logger.InfoContext(ctx, "Diagnostics report built",
		"nodes", report.TotalNodes,
		"relationships", report.TotalRelationships,
		"section_errors", len(report.Errors))
	return report, nil
}

func (a *Analyzer) section(ctx context.Context, report *Report, name string, fn func() error) {
	if err := fn(); err != nil {
		a.logger.WarnContext(ctx, "Diagnostics section failed", "section", name, "error", err)
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
	}
}

func (a *Analyzer) scalar(ctx context.Context, query string, params map[string]any, key string) (int64, error) {
	rows, err := a.db.ExecuteRead(ctx, query, params)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return driver.MustInt64(rows[0][key], key)
}

func (a *Analyzer) counts(ctx context.Context, query string, params map[string]any) ([]Count, error) {
	rows, err := a.db.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, err
	}

	counts := make([]Count, 0, len(rows))
	for _, row := range rows {
		// A null genre or label is reported by its empty name.
		name, _ := driver.AsString(row["name"])
		n, err := driver.MustInt64(row["count"], "count")
		if err != nil {
			return nil, err
		}
		counts = append(counts, Count{Name: name, Count: n})
	}
	return counts, nil
}

func (a *Analyzer) sampleSongs(ctx context.Context) ([]SongSample, error) {
	rows, err := a.db.ExecuteRead(ctx, sampleSongsQuery, map[string]any{"limit": a.opts.SampleSongs})
	if err != nil {
		return nil, err
	}

	songs := make([]SongSample, 0, len(rows))
	for _, row := range rows {
		var s SongSample
		s.ID, _ = driver.AsString(row["id"])
		s.Title, _ = driver.AsString(row["title"])
		s.Genre, _ = driver.AsString(row["genre"])
		s.Popularity, _ = driver.AsInt64(row["popularity"])
		songs = append(songs, s)
	}
	return songs, nil
}

func (a *Analyzer) properties(ctx context.Context, query string) ([]PropertySchema, error) {
	rows, err := a.db.ExecuteRead(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	props := make([]PropertySchema, 0, len(rows))
	for _, row := range rows {
		var p PropertySchema
		p.Type, _ = driver.AsString(row["type"])
		p.Property, _ = driver.AsString(row["property"])
		p.PropertyTypes = stringList(row["property_types"])
		props = append(props, p)
	}
	return props, nil
}

// probe runs q and reports its row count. Aggregating queries report the
// aggregate instead.
func (a *Analyzer) probe(ctx context.Context, q string) ProbeResult {
	result := ProbeResult{Query: q}
	rows, err := a.db.ExecuteRead(ctx, q, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Rows = int64(len(rows))
	if strings.Contains(strings.ToLower(q), "count(") && len(rows) == 1 && len(rows[0]) == 1 {
		for _, v := range rows[0] {
			if n, ok := driver.AsInt64(v); ok {
				result.Rows = n
			}
		}
	}
	return result
}

func stringList(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := driver.AsString(item); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
