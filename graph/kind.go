package graph

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/specterops/tinygraph/util/size"
)

// Kind represents the type of a node or an arc. Node kinds and arc kinds share the same representation and are told
// apart only by where a policy registers them.
type Kind interface {
	String() string

	// Is returns true if the other Kind matches the Kind represented by this interface.
	Is(other ...Kind) bool
}

// Kinds is a type alias for []Kind that adds some additional convenience receiver functions.
type Kinds []Kind

// Add appends each given kind that is not already present.
func (s Kinds) Add(kinds ...Kind) Kinds {
	ref := s

	for _, kind := range kinds {
		if !ref.ContainsOneOf(kind) {
			ref = append(ref, kind)
		}
	}

	return ref
}

func (s Kinds) Strings() []string {
	kindStrings := make([]string, len(s))
	for idx := 0; idx < len(s); idx++ {
		kindStrings[idx] = s[idx].String()
	}

	return kindStrings
}

func (s Kinds) Formatted() string {
	return strings.Join(s.Strings(), ",")
}

// Sorted returns a copy of the Kinds ordered by their string form.
func (s Kinds) Sorted() Kinds {
	sorted := make(Kinds, len(s))
	copy(sorted, s)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	return sorted
}

// ContainsOneOf returns true if the Kinds contains one of the given Kind types or false if it does not.
func (s Kinds) ContainsOneOf(others ...Kind) bool {
	for _, kind := range s {
		if kind == nil {
			continue
		}
		if kind.Is(others...) {
			return true
		}
	}

	return false
}

func (s Kinds) SizeOf() size.Size {
	byteSize := size.Of(s)

	for idx := 0; idx < len(s); idx++ {
		byteSize += size.OfString(s[idx].String())
	}

	return byteSize
}

// HashInto writes the Kinds into the digest in sorted order so that the result does not depend on slice order.
func (s Kinds) HashInto(h *xxhash.Digest) error {
	ks := s.Strings()
	sort.Strings(ks)

	for _, kind := range ks {
		if err := HashString(h, kind); err != nil {
			return err
		}
	}

	return nil
}

// HashString frames a string with a length prefix before writing it to the digest. The framing prevents collisions
// between sequences such as ["ab","c"] and ["a","bc"].
func HashString(h *xxhash.Digest, value string) error {
	var lenbuf [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(lenbuf[:], uint64(len(value)))
	if _, err := h.Write(lenbuf[:n]); err != nil {
		return fmt.Errorf("writing length prefix: %w", err)
	}

	if _, err := h.WriteString(value); err != nil {
		return fmt.Errorf("writing value to hash: %w", err)
	}

	return nil
}

var (
	kindCache = &sync.Map{}
	EmptyKind = StringKind("")
)

// KindName returns the name of the kind or an empty string for a nil kind.
func KindName(kind Kind) string {
	if kind == nil {
		return ""
	}

	return kind.String()
}

// StringKind returns the cached Kind for the given name.
func StringKind(str string) Kind {
	var (
		kind          = stringKind(str)
		cachedKind, _ = kindCache.LoadOrStore(str, kind)
	)

	return cachedKind.(Kind)
}

func StringsToKinds(strs []string) Kinds {
	kinds := make(Kinds, len(strs))

	for idx := 0; idx < len(strs); idx++ {
		kinds[idx] = StringKind(strs[idx])
	}

	return kinds
}

type stringKind string

func (s stringKind) String() string {
	return string(s)
}

func (s stringKind) Is(other ...Kind) bool {
	for idx := 0; idx < len(other); idx++ {
		if other[idx] != nil && s.String() == other[idx].String() {
			return true
		}
	}

	return false
}
