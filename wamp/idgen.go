package wamp

import (
	"math/rand"
	"time"
)

const maxID int64 = 1 << 53

// Requests ids are seeded from a small range so that two sessions started
// at nearly the same moment are very unlikely to pick the same starting
// point, without requiring a cryptographic source.
const seedRange int64 = 1 << 24

func init() {
	rand.Seed(time.Now().UnixNano())
}

// GlobalID generates a random 53-bit-safe WAMP ID, independent of any
// session's request-id counter.
func GlobalID() ID {
	return ID(rand.Int63n(maxID))
}

// IDGen allocates WAMP request IDs for a single session.
//
// IDs are sequential per session, incrementing by one on every call to
// Next, and wrap around at 2**53 (inclusive). 2^53 is the largest integer
// such that it and all smaller positive integers are represented exactly by
// an IEEE-754 double, which some peer implementations use as their sole
// number type.
//
// See https://github.com/wamp-proto/wamp-proto/blob/master/spec/basic.md#ids
//
// IDGen is not safe for concurrent use: callers serialize access to it
// (client.Session guards its generator with a mutex).
type IDGen struct {
	next int64
}

// NewIDGen returns an ID generator seeded uniformly at random in
// [0, 2^24), so that ids allocated by distinct sessions rarely collide.
func NewIDGen() *IDGen {
	return &IDGen{next: rand.Int63n(seedRange)}
}

// NewIDGenSeeded returns an ID generator that starts from the given seed
// instead of a random one, for deterministic tests.
func NewIDGenSeeded(seed ID) *IDGen {
	return &IDGen{next: int64(seed)}
}

// Next returns the next request id.
func (g *IDGen) Next() ID {
	g.next++
	if g.next > maxID {
		g.next = 1
	}
	return ID(g.next)
}
