package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/musicgraph/pkg/driver"
	"github.com/soundprediction/musicgraph/pkg/types"
)

// DefaultBatchSize is the number of tracks per relationship progress batch.
const DefaultBatchSize = 1000

// Phase names a step of the load.
type Phase string

const (
	PhaseReset         Phase = "reset"
	PhaseArtists       Phase = "artists"
	PhaseAlbums        Phase = "albums"
	PhaseSongs         Phase = "songs"
	PhaseRelationships Phase = "relationships"
)

// ProgressFunc receives the number of items done out of total for a phase.
// For PhaseRelationships the unit is tracks and it fires once per batch.
type ProgressFunc func(phase Phase, done, total int)

// Options configures a Loader.
type Options struct {
	// BatchSize groups tracks for relationship progress reporting. Batches
	// carry no transactional meaning. Defaults to DefaultBatchSize.
	BatchSize int
	// Progress is called after every phase and relationship batch.
	Progress ProgressFunc
}

// LoadSummary reports the writes issued by a load.
type LoadSummary struct {
	Tracks        int           `json:"tracks" yaml:"tracks"`
	Artists       int           `json:"artists" yaml:"artists"`
	Albums        int           `json:"albums" yaml:"albums"`
	Songs         int           `json:"songs" yaml:"songs"`
	Relationships int           `json:"relationships" yaml:"relationships"`
	Batches       int           `json:"batches" yaml:"batches"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
}

// LoadError is returned when a write fails. The load stops at the first
// failure.
type LoadError struct {
	Phase Phase
	Key   string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("load failed during %s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("load failed during %s at %q: %v", e.Phase, e.Key, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader writes cleaned tracks into a graph store.
type Loader struct {
	driver    driver.GraphDriver
	logger    *slog.Logger
	batchSize int
	progress  ProgressFunc
}

// NewLoader creates a Loader. A nil opts or logger selects the defaults.
func NewLoader(d driver.GraphDriver, opts *Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		driver:    d,
		logger:    logger,
		batchSize: DefaultBatchSize,
	}
	if opts != nil {
		if opts.BatchSize > 0 {
			l.batchSize = opts.BatchSize
		}
		l.progress = opts.Progress
	}
	return l
}

// Load resets the graph and upserts every track. Running Load twice with the
// same tracks produces the same graph.
func (l *Loader) Load(ctx context.Context, tracks []types.Track) (*LoadSummary, error) {
	start := time.Now()
	summary := &LoadSummary{Tracks: len(tracks)}

	l.logger.InfoContext(ctx, "Resetting graph")
	if err := l.driver.DeleteAll(ctx); err != nil {
		return summary, &LoadError{Phase: PhaseReset, Err: err}
	}
	l.report(PhaseReset, 1, 1)

	artists := distinctArtists(tracks)
	l.logger.InfoContext(ctx, "Writing artists", "count", len(artists))
	for _, artist := range artists {
		if err := l.driver.UpsertArtist(ctx, artist); err != nil {
			return summary, &LoadError{Phase: PhaseArtists, Key: artist.Name, Err: err}
		}
		summary.Artists++
	}
	l.report(PhaseArtists, summary.Artists, len(artists))

	albums := distinctAlbums(tracks)
	l.logger.InfoContext(ctx, "Writing albums", "count", len(albums))
	for _, album := range albums {
		if err := l.driver.UpsertAlbum(ctx, album); err != nil {
			return summary, &LoadError{Phase: PhaseAlbums, Key: album.ID, Err: err}
		}
		summary.Albums++
	}
	l.report(PhaseAlbums, summary.Albums, len(albums))

	l.logger.InfoContext(ctx, "Writing songs", "count", len(tracks))
	for _, track := range tracks {
		if err := l.driver.UpsertSong(ctx, track.SongNode()); err != nil {
			return summary, &LoadError{Phase: PhaseSongs, Key: track.TrackID, Err: err}
		}
		summary.Songs++
	}
	l.report(PhaseSongs, summary.Songs, len(tracks))

	batches := (len(tracks) + l.batchSize - 1) / l.batchSize
	l.logger.InfoContext(ctx, "Writing relationships", "tracks", len(tracks), "batches", batches, "batch_size", l.batchSize)
	for b := 0; b < batches; b++ {
		lo := b * l.batchSize
		hi := min(lo+l.batchSize, len(tracks))

		for _, track := range tracks[lo:hi] {
			for _, rel := range track.Relationships() {
				if err := l.driver.UpsertRelationship(ctx, rel); err != nil {
					return summary, &LoadError{Phase: PhaseRelationships, Key: rel.String(), Err: err}
				}
				summary.Relationships++
			}
		}
		summary.Batches++

		l.logger.InfoContext(ctx, "Relationship batch written", "batch", b+1, "of", batches, "tracks_done", hi)
		l.report(PhaseRelationships, hi, len(tracks))
	}

	summary.Duration = time.Since(start)
	l.logger.InfoContext(ctx, "Graph load completed",
		"artists", summary.Artists,
		"albums", summary.Albums,
		"songs", summary.Songs,
		"relationships", summary.Relationships,
		"duration", summary.Duration)
	return summary, nil
}

func (l *Loader) report(phase Phase, done, total int) {
	if l.progress != nil {
		l.progress(phase, done, total)
	}
}

// distinctArtists returns one Artist per name in first-seen order.
func distinctArtists(tracks []types.Track) []types.Artist {
	seen := make(map[string]struct{}, len(tracks))
	artists := make([]types.Artist, 0)
	for _, t := range tracks {
		if _, ok := seen[t.Artist]; ok {
			continue
		}
		seen[t.Artist] = struct{}{}
		artists = append(artists, t.ArtistNode())
	}
	return artists
}

// distinctAlbums returns one Album per (id, title, releaseDate) triple in
// first-seen order. Several triples may share an id; upserting them in order
// leaves the last one on the node.
func distinctAlbums(tracks []types.Track) []types.Album {
	seen := make(map[types.Album]struct{}, len(tracks))
	albums := make([]types.Album, 0)
	for _, t := range tracks {
		album := t.AlbumNode()
		if _, ok := seen[album]; ok {
			continue
		}
		seen[album] = struct{}{}
		albums = append(albums, album)
	}
	return albums
}
