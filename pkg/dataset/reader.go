package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/soundprediction/musicgraph/pkg/types"
)

// Source column names.
const (
	ColumnTrackID      = "track_id"
	ColumnTrackName    = "track_name"
	ColumnArtist       = "track_artist"
	ColumnAlbumID      = "track_album_id"
	ColumnAlbumName    = "track_album_name"
	ColumnReleaseDate  = "track_album_release_date"
	ColumnGenre        = "playlist_genre"
	ColumnPopularity   = "track_popularity"
	ColumnDanceability = "danceability"
	ColumnEnergy       = "energy"
	ColumnDurationMs   = "duration_ms"
)

// ErrMissingColumn is returned when the header lacks a column the cleaner
// cannot do without.
var ErrMissingColumn = errors.New("missing required column")

// RequiredColumns are the blocking columns that must be present in the header.
var RequiredColumns = []string{ColumnTrackName, ColumnArtist, ColumnAlbumName, ColumnTrackID}

// ReadFile opens path and reads it with ReadCSV.
func ReadFile(path string) ([]types.RawTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a comma-separated stream with a header row. Columns are
// matched by name, unknown columns are ignored and rows may be ragged;
// cells beyond the end of a short row are treated as absent.
func ReadCSV(r io.Reader) ([]types.RawTrack, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV header: empty input")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	cell := func(record []string, column string) *string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return nil
		}
		v := record[i]
		return &v
	}

	rows := make([]types.RawTrack, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}

		rows = append(rows, types.RawTrack{
			TrackID:      cell(record, ColumnTrackID),
			TrackName:    cell(record, ColumnTrackName),
			Artist:       cell(record, ColumnArtist),
			AlbumID:      cell(record, ColumnAlbumID),
			AlbumName:    cell(record, ColumnAlbumName),
			ReleaseDate:  cell(record, ColumnReleaseDate),
			Genre:        cell(record, ColumnGenre),
			Popularity:   cell(record, ColumnPopularity),
			Danceability: cell(record, ColumnDanceability),
			Energy:       cell(record, ColumnEnergy),
			DurationMs:   cell(record, ColumnDurationMs),
		})
	}

	return rows, nil
}
