package wamp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobalID(t *testing.T) {
	id1 := GlobalID()
	id2 := GlobalID()
	id3 := GlobalID()

	errMsg := "Globals should not be equal"
	require.NotEqual(t, id1, id2, errMsg)
	require.NotEqual(t, id1, id3, errMsg)
	require.NotEqual(t, id2, id3, errMsg)
}

func TestIDGenSeeded(t *testing.T) {
	idgen := NewIDGenSeeded(0)
	id1 := idgen.Next()
	require.Equal(t, ID(1), id1, "Sequential IDs should start at seed+1")
	id2 := idgen.Next()
	id3 := idgen.Next()
	require.Equal(t, ID(2), id2, "IDs are not sequential")
	require.Equal(t, ID(3), id3, "IDs are not sequential")

	idgen = NewIDGenSeeded(42)
	require.Equal(t, ID(43), idgen.Next(), "Sequential IDs should start at seed+1")

	idgen.next = int64(1) << 53
	id1 = idgen.Next()
	require.Equal(t, ID(1), id1, "Sequential IDs should wrap at 1 << 53")
}

func TestIDGenRandomSeed(t *testing.T) {
	idgen := NewIDGen()
	require.True(t, idgen.next >= 0 && idgen.next < seedRange, "seed out of range")
	first := idgen.Next()
	second := idgen.Next()
	require.Equal(t, first+1, second, "IDs are not sequential")
}
