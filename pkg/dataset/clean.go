package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/soundprediction/musicgraph/pkg/types"
)

// releaseDateLayouts are tried in order. Only the calendar date survives.
var releaseDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Clean applies the cleaning rules to raw rows and returns load-ready
// tracks in input order. It never fails: rows missing a blocking field are
// dropped and every other gap is filled with a default.
func Clean(rows []types.RawTrack) []types.Track {
	tracks := make([]types.Track, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		trackID, ok := requiredText(row.TrackID)
		if !ok {
			continue
		}
		trackName, ok := requiredText(row.TrackName)
		if !ok {
			continue
		}
		artist, ok := requiredText(row.Artist)
		if !ok {
			continue
		}
		albumName, ok := requiredText(row.AlbumName)
		if !ok {
			continue
		}

		// first occurrence wins
		if _, dup := seen[trackID]; dup {
			continue
		}
		seen[trackID] = struct{}{}

		tracks = append(tracks, types.Track{
			TrackID:      trackID,
			TrackName:    trackName,
			Artist:       artist,
			AlbumID:      textOrUnknown(row.AlbumID),
			AlbumName:    albumName,
			ReleaseDate:  NormalizeReleaseDate(row.ReleaseDate),
			Genre:        textOrUnknown(row.Genre),
			Popularity:   intOrDefault(row.Popularity, types.DefaultPopularity),
			Danceability: floatOrDefault(row.Danceability, types.DefaultDanceability),
			Energy:       floatOrDefault(row.Energy, types.DefaultEnergy),
			DurationMs:   intOrDefault(row.DurationMs, types.DefaultDurationMs),
		})
	}

	return tracks
}

// NormalizeReleaseDate formats a release date as YYYY-MM-DD, or returns
// types.DefaultReleaseDate when the value is missing or unparseable.
func NormalizeReleaseDate(v *string) string {
	if v == nil {
		return types.DefaultReleaseDate
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return types.DefaultReleaseDate
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return types.DefaultReleaseDate
}

func requiredText(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	return s, s != ""
}

func textOrUnknown(v *string) string {
	if s, ok := requiredText(v); ok {
		return s
	}
	return types.UnknownText
}

func parseNumber(v *string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatOrDefault(v *string, def float64) float64 {
	if f, ok := parseNumber(v); ok {
		return f
	}
	return def
}

func intOrDefault(v *string, def int64) int64 {
	f, ok := parseNumber(v)
	if !ok || f >= math.MaxInt64 || f < math.MinInt64 {
		return def
	}
	return int64(f)
}
