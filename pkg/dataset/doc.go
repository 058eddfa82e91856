// Package dataset reads the Spotify-style track CSV and cleans it into
// load-ready tracks.
//
// Cleaning never fails on malformed values: rows missing a blocking field
// (track id, track name, artist, album name) are dropped, every other
// missing or unparseable value is replaced by a fixed default, and rows are
// de-duplicated by track id keeping the first occurrence.
//
//	raw, err := dataset.ReadFile("data/spotify_songs.csv")
//	if err != nil {
//		return err
//	}
//	tracks := dataset.Clean(raw)
package dataset
