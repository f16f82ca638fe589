package wamp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// URI components (the parts between two .s, the head part up to the first .,
// the tail part after the last .) MUST NOT contain a ., # or whitespace
// characters and MUST NOT be empty (zero-length strings).
func TestValidURI(t *testing.T) {
	strictGood := []URI{
		"this.is.a.good_test",
		"this.is.test42",
		"test.11_22_33.v88.something",
		"somewhere"}
	for i := range strictGood {
		require.True(t, strictGood[i].ValidURI(true))
	}

	strictBad := []URI{
		".is.not.good",
		"this#is_not.allowed",
		"Mixed.cAsE.URI",
		"this.one has.whitespace"}
	for i := range strictBad {
		require.False(t, strictBad[i].ValidURI(true))
	}

	looseGood := []URI{
		"this.is.a.good_test",
		"this.is.test42",
		"test.11_22_33.v88.something",
		"somewhere",
		"Mixed.cAsE.URI"}
	for i := range looseGood {
		require.True(t, looseGood[i].ValidURI(false))
	}

	looseBad := []URI{
		".is.not.good",
		"this#is_not.allowed",
		"this.one has.whitespace"}
	for i := range looseBad {
		require.False(t, looseBad[i].ValidURI(false))
	}
}
