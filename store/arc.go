package store

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/specterops/tinygraph/format"
	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/util/size"
)

// ArcID is a stable handle into a store's arc table. Handles are assigned in creation order starting at zero.
type ArcID uint64

// ArcKey identifies an arc by its endpoints and kind. Two arcs with the same key cannot coexist in a store.
type ArcKey struct {
	From graph.ID
	Kind graph.Kind
	To   graph.ID
}

// NewArcKey builds a key with its kind normalized to the cached string kind of the same name so that keys built from
// distinct Kind implementations compare equal. A nil kind becomes graph.EmptyKind.
func NewArcKey(from graph.ID, kind graph.Kind, to graph.ID) ArcKey {
	return ArcKey{
		From: from,
		Kind: graph.StringKind(graph.KindName(kind)),
		To:   to,
	}
}

// Compare orders keys by from id, then kind name, then to id.
func (s ArcKey) Compare(other ArcKey) int {
	if cmp := compareIDs(s.From, other.From); cmp != 0 {
		return cmp
	}

	if cmp := strings.Compare(graph.KindName(s.Kind), graph.KindName(other.Kind)); cmp != 0 {
		return cmp
	}

	return compareIDs(s.To, other.To)
}

func (s ArcKey) String() string {
	return fmt.Sprintf("%d -[%s]-> %d", s.From, graph.KindName(s.Kind), s.To)
}

// Arc is a typed, directed edge between two nodes of the same store. Its endpoints never change.
type Arc struct {
	id         ArcID
	key        ArcKey
	properties graph.Properties
}

func (s *Arc) ID() ArcID {
	return s.id
}

func (s *Arc) Key() ArcKey {
	return s.key
}

func (s *Arc) Kind() graph.Kind {
	return s.key.Kind
}

func (s *Arc) From() graph.ID {
	return s.key.From
}

func (s *Arc) To() graph.ID {
	return s.key.To
}

// Other returns the endpoint opposite to the given node. For a self loop both endpoints are the node itself.
func (s *Arc) Other(id graph.ID) graph.ID {
	if s.key.From == id {
		return s.key.To
	}

	return s.key.From
}

// Property returns the value of the named property or an error wrapping graph.ErrPropertyNotFound.
func (s *Arc) Property(name string) (string, error) {
	if value, err := s.properties.Get(name); err != nil {
		return "", fmt.Errorf("arc %s: %w", s.key, err)
	} else {
		return value, nil
	}
}

// Properties returns a copy of the arc's properties.
func (s *Arc) Properties() graph.Properties {
	return s.properties.Clone()
}

func (s *Arc) HasProperty(name string) bool {
	return s.properties.Exists(name)
}

func (s *Arc) HasPropertyValue(name, value string) bool {
	return s.properties.Matches(name, value)
}

func (s *Arc) record() format.ArcRecord {
	return format.ArcRecord{
		From:       s.key.From,
		Kind:       s.key.Kind,
		To:         s.key.To,
		Properties: s.properties,
	}
}

func (s *Arc) SizeOf() size.Size {
	return size.Of(*s) + size.OfString(s.key.Kind.String()) + s.properties.SizeOf()
}

// HashInto writes the arc's key and properties into the digest.
func (s *Arc) HashInto(h *xxhash.Digest) error {
	var idBuffer [16]byte

	binary.BigEndian.PutUint64(idBuffer[:8], s.key.From.Uint64())
	binary.BigEndian.PutUint64(idBuffer[8:], s.key.To.Uint64())

	if _, err := h.Write(idBuffer[:]); err != nil {
		return err
	} else if err := graph.HashString(h, s.key.Kind.String()); err != nil {
		return err
	}

	return s.properties.HashInto(h)
}

func (s *Arc) String() string {
	return s.key.String()
}
