package types

import "fmt"

// RelationshipType names a directed edge type.
type RelationshipType string

const (
	// SingsRelationship links Artist to Song.
	SingsRelationship RelationshipType = "SINGS"
	// ContainsRelationship links Album to Song.
	ContainsRelationship RelationshipType = "CONTAINS"
	// CreatedRelationship links Artist to Album.
	CreatedRelationship RelationshipType = "CREATED"
)

// RelationshipTypes lists every edge type in load order.
var RelationshipTypes = []RelationshipType{SingsRelationship, ContainsRelationship, CreatedRelationship}

// Endpoints returns the source and target labels of the relationship type.
func (t RelationshipType) Endpoints() (NodeLabel, NodeLabel, error) {
	switch t {
	case SingsRelationship:
		return ArtistLabel, SongLabel, nil
	case ContainsRelationship:
		return AlbumLabel, SongLabel, nil
	case CreatedRelationship:
		return ArtistLabel, AlbumLabel, nil
	case "":
		return "", "", ErrEmptyType
	default:
		return "", "", fmt.Errorf("unknown relationship type %q", string(t))
	}
}

// Relationship is a property-less edge identified by the keys of its
// endpoints. Uniqueness is per (Type, SourceKey, TargetKey).
type Relationship struct {
	Type      RelationshipType `json:"type"`
	SourceKey string           `json:"source_key"`
	TargetKey string           `json:"target_key"`
}

// Validate checks that the relationship has a known type and both keys.
func (r Relationship) Validate() error {
	if _, _, err := r.Type.Endpoints(); err != nil {
		return err
	}
	if r.SourceKey == "" || r.TargetKey == "" {
		return ErrEmptyKey
	}
	return nil
}

func (r Relationship) String() string {
	return fmt.Sprintf("(%s)-[:%s]->(%s)", r.SourceKey, r.Type, r.TargetKey)
}
