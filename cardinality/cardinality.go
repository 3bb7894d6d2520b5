package cardinality

// Provider describes the most basic functionality of a cardinality provider: adding elements to the provider and
// producing the cardinality of those elements.
type Provider[T uint32 | uint64] interface {
	Add(value ...T)
	Or(other Provider[T])
	Clear()
	Cardinality() uint64
}

// Duplex is a two-way cardinality provider that allows a user to retrieve encoded values back out of the provider.
// Every id set held by the graph store (kind index, property index, incident arc handles) is a Duplex.
type Duplex[T uint32 | uint64] interface {
	Provider[T]

	And(other Provider[T])
	AndNot(other Provider[T])
	Remove(value T)
	Slice() []T
	Contains(value T) bool
	Each(delegate func(value T) bool)
	CheckedAdd(value T) bool
	CheckedRemove(value T) bool
	SizeInBytes() uint64
	Clone() Duplex[T]
}

// Or returns a new Duplex holding the union of all given providers. The inputs are left untouched.
func Or[T uint32 | uint64](constructor func() Duplex[T], providers ...Duplex[T]) Duplex[T] {
	union := constructor()

	for _, provider := range providers {
		if provider != nil {
			union.Or(provider)
		}
	}

	return union
}

// And returns a new Duplex holding the intersection of all given providers. A nil provider is treated as the empty set.
func And[T uint32 | uint64](constructor func() Duplex[T], providers ...Duplex[T]) Duplex[T] {
	if len(providers) == 0 || providers[0] == nil {
		return constructor()
	}

	intersection := providers[0].Clone()

	for _, provider := range providers[1:] {
		if provider == nil {
			intersection.Clear()
			break
		}

		intersection.And(provider)
	}

	return intersection
}
