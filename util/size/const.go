package size

import "unsafe"

const (
	iecUnitFactor = 1024

	Bytes    Size = 1
	Kibibyte      = Bytes * iecUnitFactor
	Mebibyte      = Kibibyte * iecUnitFactor
	Gibibyte      = Mebibyte * iecUnitFactor
)

// mapEntryOverhead approximates the per-entry bucket cost of a Go map beyond the key and value headers.
const mapEntryOverhead Size = 8

type Size uintptr

func (s Size) Bytes() uintptr {
	return uintptr(s)
}

func (s Size) Kibibytes() float64 {
	return float64(s) / float64(Kibibyte)
}

func (s Size) Mebibytes() float64 {
	return float64(s) / float64(Mebibyte)
}

func (s Size) Gibibytes() float64 {
	return float64(s) / float64(Gibibyte)
}

// Of returns the shallow size of the given value's type.
func Of[T any](value T) Size {
	return Size(unsafe.Sizeof(value))
}

// OfString returns the size of a string header plus its backing bytes.
func OfString(value string) Size {
	return Of(value) + Size(len(value))
}

// OfStringMap estimates the footprint of a string to string map including keys and values.
func OfStringMap(value map[string]string) Size {
	total := Of(value)

	for key, entry := range value {
		total += OfString(key) + OfString(entry) + mapEntryOverhead
	}

	return total
}
