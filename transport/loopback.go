package transport

import (
	"context"

	"github.com/go-wamp/session/wamp"
)

const defaultQueueSize = 64

// Loopback creates two connected wamp.Peer values wired directly to each
// other with no wire encoding in between: anything sent to one appears on
// the other's Recv channel. It stands in for a router connection in tests
// that script router-side frames directly.
func Loopback() (client, router wamp.Peer) {
	return LoopbackQSize(defaultQueueSize)
}

// LoopbackQSize is Loopback with an explicit queue size for each
// direction. A size of 0 uses the default.
func LoopbackQSize(queueSize int) (client, router wamp.Peer) {
	if queueSize == 0 {
		queueSize = defaultQueueSize
	}

	// Both directions are buffered so a send does not wait for the other
	// side to read, and a slow-reading test does not deadlock either side.
	toClient := make(chan wamp.Message, queueSize)
	toRouter := make(chan wamp.Message, queueSize)

	router = &loopbackPeer{rd: toRouter, wr: toClient}
	client = &loopbackPeer{rd: toClient, wr: toRouter}
	return client, router
}

// loopbackPeer implements wamp.Peer over a pair of channels.
type loopbackPeer struct {
	rd <-chan wamp.Message
	wr chan wamp.Message
}

func (p *loopbackPeer) Recv() <-chan wamp.Message { return p.rd }

func (p *loopbackPeer) Send(msg wamp.Message) error {
	p.wr <- msg
	return nil
}

func (p *loopbackPeer) SendCtx(ctx context.Context, msg wamp.Message) error {
	return wamp.SendCtx(ctx, p.wr, msg)
}

func (p *loopbackPeer) TrySend(msg wamp.Message) error {
	return wamp.TrySend(p.wr, msg)
}

// Close closes the channel the other end receives from. This end's own Recv
// channel closes only when the other end is closed.
func (p *loopbackPeer) Close() { close(p.wr) }
