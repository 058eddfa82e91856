package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Render writes the report to w in the given format.
func Render(w io.Writer, r *Report, format string) error {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatText:
		return renderText(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func renderText(w io.Writer, r *Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	section := func(n int, title string) {
		fmt.Fprintf(&b, "\n%d. %s\n%s\n", n, title, strings.Repeat("-", 40))
	}
	counts := func(cs []Count, suffix string) {
		for _, c := range cs {
			fmt.Fprintf(&b, "  %s: %d%s\n", c.Name, c.Count, suffix)
		}
	}

	fmt.Fprintf(&b, "%s\nMUSIC GRAPH ANALYSIS\n%s\n", rule, rule)

	section(1, "DATABASE OVERVIEW")
	fmt.Fprintf(&b, "Total nodes: %d\nTotal relationships: %d\n", r.TotalNodes, r.TotalRelationships)

	section(2, "NODE TYPES BREAKDOWN")
	counts(r.NodesByLabel, "")

	section(3, "RELATIONSHIP TYPES")
	counts(r.RelationshipsByType, "")

	section(4, "GENRE ANALYSIS")
	counts(r.Genres, " songs")

	section(5, "ARTIST STATISTICS")
	b.WriteString("Top artists by number of songs:\n")
	counts(r.TopArtists, " songs")

	section(6, "SONG PROPERTIES SAMPLE")
	for _, s := range r.SampleSongs {
		fmt.Fprintf(&b, "  %s (%s) - Popularity: %d\n", s.Title, s.Genre, s.Popularity)
	}

	section(7, strings.ToUpper(r.Genre.Genre)+" GENRE DETAILED ANALYSIS")
	fmt.Fprintf(&b, "Total %s songs: %d\n", r.Genre.Genre, r.Genre.Songs)
	counts(r.Genre.TopArtists, " "+r.Genre.Genre+" songs")

	section(8, "NODE PROPERTIES")
	current := ""
	for _, p := range r.NodeProperties {
		if p.Type != current {
			current = p.Type
			fmt.Fprintf(&b, "  %s:\n", current)
		}
		fmt.Fprintf(&b, "    - %s: %s\n", p.Property, strings.Join(p.PropertyTypes, ", "))
	}

	section(9, "RELATIONSHIP PROPERTIES")
	for _, p := range r.RelationshipProperties {
		fmt.Fprintf(&b, "  %s: %s (%s)\n", p.Type, p.Property, strings.Join(p.PropertyTypes, ", "))
	}

	section(10, "PROBE QUERIES")
	for i, p := range r.Probes {
		if p.Error != "" {
			fmt.Fprintf(&b, "Query %d failed: %s\n", i+1, p.Error)
			continue
		}
		fmt.Fprintf(&b, "Query %d: %d results\n", i+1, p.Rows)
	}

	if len(r.Errors) > 0 {
		b.WriteString("\nSection errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}

	fmt.Fprintf(&b, "\n%s\nANALYSIS COMPLETE\n%s\n", rule, rule)
	_, err := io.WriteString(w, b.String())
	return err
}
