package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/specterops/tinygraph/util/size"
)

// Properties maps property names to values. Each name holds exactly one value; setting a name again replaces it.
type Properties map[string]string

// NewProperties returns an empty, allocated Properties instance.
func NewProperties() Properties {
	return Properties{}
}

// AsProperties builds Properties from alternating name and value arguments. A trailing name without a value is
// ignored.
func AsProperties(pairs ...string) Properties {
	properties := make(Properties, len(pairs)/2)

	for idx := 0; idx+1 < len(pairs); idx += 2 {
		properties[pairs[idx]] = pairs[idx+1]
	}

	return properties
}

func (s Properties) Len() int {
	return len(s)
}

// Get returns the value stored under name or ErrPropertyNotFound.
func (s Properties) Get(name string) (string, error) {
	if value, found := s[name]; !found {
		return "", fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
	} else {
		return value, nil
	}
}

func (s Properties) GetOrDefault(name, defaultValue string) string {
	if value, found := s[name]; found {
		return value
	}

	return defaultValue
}

func (s Properties) Exists(name string) bool {
	_, found := s[name]
	return found
}

// Matches returns true if the property exists and holds exactly the given value.
func (s Properties) Matches(name, value string) bool {
	existing, found := s[name]
	return found && existing == value
}

// Keys returns the property names in sorted order.
func (s Properties) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy. Cloning a nil Properties yields an empty, allocated instance.
func (s Properties) Clone() Properties {
	clone := make(Properties, len(s))
	maps.Copy(clone, s)

	return clone
}

// Equal returns true if both instances hold the same names and values. Nil and empty instances are equal.
func (s Properties) Equal(other Properties) bool {
	return maps.Equal(s, other)
}

func (s Properties) SizeOf() size.Size {
	return size.OfStringMap(s)
}

// HashInto writes the properties into the digest in sorted key order.
func (s Properties) HashInto(h *xxhash.Digest) error {
	for _, key := range s.Keys() {
		if err := HashString(h, key); err != nil {
			return err
		}

		if err := HashString(h, s[key]); err != nil {
			return err
		}
	}

	return nil
}
