package graph

import (
	"errors"
	"sort"
	"strconv"
	"unsafe"

	"github.com/specterops/tinygraph/cardinality"
	"github.com/specterops/tinygraph/util/size"
)

const (
	DirectionInbound  Direction = 0
	DirectionOutbound Direction = 1
	DirectionBoth     Direction = 2
)

var ErrInvalidDirection = errors.New("must be called with either an inbound or outbound direction")

// Direction describes the direction of an arc walk relative to the node the walk starts from.
type Direction int

// Reverse returns the reverse of the current direction.
func (s Direction) Reverse() Direction {
	switch s {
	case DirectionInbound:
		return DirectionOutbound

	case DirectionOutbound:
		return DirectionInbound

	default:
		return DirectionBoth
	}
}

// PickID picks the node at the far end of an arc when walking in the receiver's direction. Walking outbound from the
// start of an arc reaches its end and walking inbound reaches its start.
func (s Direction) PickID(start, end ID) (ID, error) {
	switch s {
	case DirectionInbound:
		return start, nil

	case DirectionOutbound:
		return end, nil

	default:
		return 0, ErrInvalidDirection
	}
}

func (s Direction) String() string {
	switch s {
	case DirectionInbound:
		return "inbound"
	case DirectionOutbound:
		return "outbound"
	case DirectionBoth:
		return "both"
	default:
		return "invalid"
	}
}

// ID is a 64-bit node identifier. Identifiers are unique within a single store.
type ID uint64

// Uint64 returns the ID typed as an uint64 and is shorthand for uint64(id).
func (s ID) Uint64() uint64 {
	return uint64(s)
}

func (s ID) Sizeof() size.Size {
	return size.Size(unsafe.Sizeof(s))
}

// String formats the ID as a decimal integer.
func (s ID) String() string {
	return strconv.FormatUint(s.Uint64(), 10)
}

// ParseID parses a decimal, unsigned node identifier. Signs, whitespace and other bases are rejected.
func ParseID(value string) (ID, error) {
	if value == "" {
		return 0, strconv.ErrSyntax
	}

	for idx := 0; idx < len(value); idx++ {
		if value[idx] < '0' || value[idx] > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	if parsed, err := strconv.ParseUint(value, 10, 64); err != nil {
		return 0, err
	} else {
		return ID(parsed), nil
	}
}

// IDs is a convenience type for a slice of node identifiers.
type IDs []ID

// Sort orders the IDs in ascending order in place.
func (s IDs) Sort() IDs {
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})

	return s
}

// DuplexToGraphIDs converts a set of raw identifiers into IDs in ascending order.
func DuplexToGraphIDs[T uint32 | uint64](provider cardinality.Duplex[T]) IDs {
	ids := make(IDs, 0, provider.Cardinality())

	provider.Each(func(value T) bool {
		ids = append(ids, ID(value))
		return true
	})

	return ids
}

// Constraint is a single allowed (from kind, arc kind, to kind) combination.
type Constraint struct {
	From Kind
	Arc  Kind
	To   Kind
}

func NewConstraint(from, arc, to string) Constraint {
	return Constraint{
		From: StringKind(from),
		Arc:  StringKind(arc),
		To:   StringKind(to),
	}
}

// Matches compares the constraint against a triple by kind name.
func (s Constraint) Matches(from, arc, to Kind) bool {
	return KindName(s.From) == KindName(from) && KindName(s.Arc) == KindName(arc) && KindName(s.To) == KindName(to)
}

func (s Constraint) String() string {
	return KindName(s.From) + " -[" + KindName(s.Arc) + "]-> " + KindName(s.To)
}
