package cardinality

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

type bitmap64 struct {
	bitmap *roaring64.Bitmap
}

func NewBitmap64() Duplex[uint64] {
	return bitmap64{
		bitmap: roaring64.New(),
	}
}

func NewBitmap64With(values ...uint64) Duplex[uint64] {
	duplex := NewBitmap64()
	duplex.Add(values...)

	return duplex
}

func (s bitmap64) Clear() {
	s.bitmap.Clear()
}

// Each visits every value in ascending order until the delegate returns false.
func (s bitmap64) Each(delegate func(nextValue uint64) bool) {
	for itr := s.bitmap.Iterator(); itr.HasNext(); {
		if ok := delegate(itr.Next()); !ok {
			break
		}
	}
}

func (s bitmap64) Slice() []uint64 {
	return s.bitmap.ToArray()
}

func (s bitmap64) Contains(value uint64) bool {
	return s.bitmap.Contains(value)
}

func (s bitmap64) CheckedAdd(value uint64) bool {
	return s.bitmap.CheckedAdd(value)
}

func (s bitmap64) CheckedRemove(value uint64) bool {
	return s.bitmap.CheckedRemove(value)
}

func (s bitmap64) Add(values ...uint64) {
	switch len(values) {
	case 0:
	case 1:
		s.bitmap.Add(values[0])
	default:
		s.bitmap.AddMany(values)
	}
}

func (s bitmap64) Remove(value uint64) {
	s.bitmap.Remove(value)
}

func (s bitmap64) And(provider Provider[uint64]) {
	switch typedProvider := provider.(type) {
	case bitmap64:
		s.bitmap.And(typedProvider.bitmap)

	case Duplex[uint64]:
		for _, nextValue := range s.bitmap.ToArray() {
			if !typedProvider.Contains(nextValue) {
				s.bitmap.Remove(nextValue)
			}
		}
	}
}

func (s bitmap64) AndNot(provider Provider[uint64]) {
	switch typedProvider := provider.(type) {
	case bitmap64:
		s.bitmap.AndNot(typedProvider.bitmap)

	case Duplex[uint64]:
		typedProvider.Each(func(nextValue uint64) bool {
			s.bitmap.Remove(nextValue)
			return true
		})
	}
}

func (s bitmap64) Or(provider Provider[uint64]) {
	switch typedProvider := provider.(type) {
	case bitmap64:
		s.bitmap.Or(typedProvider.bitmap)

	case Duplex[uint64]:
		typedProvider.Each(func(nextValue uint64) bool {
			s.bitmap.Add(nextValue)
			return true
		})
	}
}

func (s bitmap64) Cardinality() uint64 {
	return s.bitmap.GetCardinality()
}

func (s bitmap64) Clone() Duplex[uint64] {
	return bitmap64{
		bitmap: s.bitmap.Clone(),
	}
}

// SizeInBytes reports the serialized size of the bitmap, which tracks its in-memory footprint closely.
func (s bitmap64) SizeInBytes() uint64 {
	return s.bitmap.GetSizeInBytes()
}
