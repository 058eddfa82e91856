package dataset

import "github.com/soundprediction/musicgraph/pkg/types"

// Summary describes a cleaned dataset for operator logging.
type Summary struct {
	Songs   int      `json:"songs" yaml:"songs"`
	Artists int      `json:"artists" yaml:"artists"`
	Albums  int      `json:"albums" yaml:"albums"`
	Genres  []string `json:"genres" yaml:"genres"`
}

// Summarize counts songs, distinct artists and albums, and lists genres in
// first-seen order.
func Summarize(tracks []types.Track) Summary {
	artists := make(map[string]struct{})
	albums := make(map[string]struct{})
	genreSeen := make(map[string]struct{})
	genres := make([]string, 0)

	for _, t := range tracks {
		artists[t.Artist] = struct{}{}
		albums[t.AlbumID] = struct{}{}
		if _, ok := genreSeen[t.Genre]; !ok {
			genreSeen[t.Genre] = struct{}{}
			genres = append(genres, t.Genre)
		}
	}

	return Summary{
		Songs:   len(tracks),
		Artists: len(artists),
		Albums:  len(albums),
		Genres:  genres,
	}
}
