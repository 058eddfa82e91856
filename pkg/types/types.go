package types

import "errors"

// Validation errors
var (
	ErrEmptyKey  = errors.New("node key cannot be empty")
	ErrNotFound  = errors.New("not found")
	ErrEmptyType = errors.New("relationship type cannot be empty")
)

// Field defaults applied by the cleaner when a source value is missing or
// not numeric.
const (
	DefaultPopularity   = 0
	DefaultDanceability = 0.5
	DefaultEnergy       = 0.5
	DefaultDurationMs   = 180000
	DefaultReleaseDate  = "1900-01-01"
	UnknownText         = "Unknown"
)

// NodeLabel is a graph node label.
type NodeLabel string

const (
	ArtistLabel NodeLabel = "Artist"
	AlbumLabel  NodeLabel = "Album"
	SongLabel   NodeLabel = "Song"
)

// RawTrack is one source row before cleaning. A nil field means the cell
// was absent from the row or the column was absent from the file.
type RawTrack struct {
	TrackID      *string `json:"track_id,omitempty"`
	TrackName    *string `json:"track_name,omitempty"`
	Artist       *string `json:"track_artist,omitempty"`
	AlbumID      *string `json:"track_album_id,omitempty"`
	AlbumName    *string `json:"track_album_name,omitempty"`
	ReleaseDate  *string `json:"track_album_release_date,omitempty"`
	Genre        *string `json:"playlist_genre,omitempty"`
	Popularity   *string `json:"track_popularity,omitempty"`
	Danceability *string `json:"danceability,omitempty"`
	Energy       *string `json:"energy,omitempty"`
	DurationMs   *string `json:"duration_ms,omitempty"`
}

// Track is a cleaned source row. Every field is populated.
type Track struct {
	TrackID      string  `json:"track_id"`
	TrackName    string  `json:"track_name"`
	Artist       string  `json:"track_artist"`
	AlbumID      string  `json:"track_album_id"`
	AlbumName    string  `json:"track_album_name"`
	ReleaseDate  string  `json:"track_album_release_date"`
	Genre        string  `json:"playlist_genre"`
	Popularity   int64   `json:"track_popularity"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	DurationMs   int64   `json:"duration_ms"`
}

// ArtistNode returns the Artist node for this track.
func (t Track) ArtistNode() Artist {
	return Artist{Name: t.Artist}
}

// AlbumNode returns the Album node for this track.
func (t Track) AlbumNode() Album {
	return Album{ID: t.AlbumID, Title: t.AlbumName, ReleaseDate: t.ReleaseDate}
}

// SongNode returns the Song node for this track.
func (t Track) SongNode() Song {
	return Song{
		ID:           t.TrackID,
		Title:        t.TrackName,
		Duration:     t.DurationMs,
		Popularity:   t.Popularity,
		Genre:        t.Genre,
		Danceability: t.Danceability,
		Energy:       t.Energy,
	}
}

// Relationships returns the three edges implied by this track, in
// SINGS, CONTAINS, CREATED order.
func (t Track) Relationships() []Relationship {
	return []Relationship{
		{Type: SingsRelationship, SourceKey: t.Artist, TargetKey: t.TrackID},
		{Type: ContainsRelationship, SourceKey: t.AlbumID, TargetKey: t.TrackID},
		{Type: CreatedRelationship, SourceKey: t.Artist, TargetKey: t.AlbumID},
	}
}
