package types

// Artist is keyed by name and carries no other attributes.
type Artist struct {
	Name string `json:"name" mapstructure:"name" yaml:"name"`
}

// Validate checks the Artist key.
func (a Artist) Validate() error {
	if a.Name == "" {
		return ErrEmptyKey
	}
	return nil
}

// Album is keyed by id. ReleaseDate is formatted YYYY-MM-DD.
type Album struct {
	ID          string `json:"id" mapstructure:"id" yaml:"id"`
	Title       string `json:"title" mapstructure:"title" yaml:"title"`
	ReleaseDate string `json:"releaseDate" mapstructure:"releaseDate" yaml:"releaseDate"`
}

// Validate checks the Album key.
func (a Album) Validate() error {
	if a.ID == "" {
		return ErrEmptyKey
	}
	return nil
}

// Song is keyed by id. Duration is in milliseconds.
type Song struct {
	ID           string  `json:"id" mapstructure:"id" yaml:"id"`
	Title        string  `json:"title" mapstructure:"title" yaml:"title"`
	Duration     int64   `json:"duration" mapstructure:"duration" yaml:"duration"`
	Popularity   int64   `json:"popularity" mapstructure:"popularity" yaml:"popularity"`
	Genre        string  `json:"genre" mapstructure:"genre" yaml:"genre"`
	Danceability float64 `json:"danceability" mapstructure:"danceability" yaml:"danceability"`
	Energy       float64 `json:"energy" mapstructure:"energy" yaml:"energy"`
}

// Validate checks the Song key.
func (s Song) Validate() error {
	if s.ID == "" {
		return ErrEmptyKey
	}
	return nil
}

// Properties returns the Song attributes written on upsert, keyed by the
// graph property names.
func (s Song) Properties() map[string]any {
	return map[string]any{
		"title":        s.Title,
		"duration":     s.Duration,
		"popularity":   s.Popularity,
		"genre":        s.Genre,
		"danceability": s.Danceability,
		"energy":       s.Energy,
	}
}
