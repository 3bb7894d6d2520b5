package size_test

import (
	"testing"

	"github.com/specterops/tinygraph/util/size"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	require.Equal(t, size.Size(0x08), size.Of(uint64(4)))
	require.Equal(t, size.Size(0x01), size.Of(true))
	require.Equal(t, size.Size(0x10), size.Of(""))
	require.Equal(t, size.Size(0x00), size.Of(struct{}{}))
}

func TestOfString(t *testing.T) {
	require.Equal(t, size.Size(0x10), size.OfString(""))
	require.Equal(t, size.Size(0x14), size.OfString("test"))
}

func TestOfStringMap(t *testing.T) {
	var (
		empty    = size.OfStringMap(map[string]string{})
		oneEntry = size.OfStringMap(map[string]string{"name": "water"})
	)

	require.Equal(t, size.Size(0x08), empty)
	require.Equal(t, empty+size.OfString("name")+size.OfString("water")+8, oneEntry)
}

func TestUnits(t *testing.T) {
	require.Equal(t, 1.0, size.Kibibyte.Kibibytes())
	require.Equal(t, 1024.0, size.Mebibyte.Kibibytes())
	require.Equal(t, 0.5, (size.Mebibyte / 2).Mebibytes())
}
