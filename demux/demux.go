/*
Package demux implements the keyed fan-out the session core uses to turn
one inbound message stream into many per-request-id (or per-message-kind)
streams that each pending operation can await independently, without every
operation scanning every inbound frame.
*/
package demux

import "github.com/go-wamp/session/logger"

// Demux splits a single upstream channel into per-key channels. It runs its
// own dispatch goroutine and is driven entirely by that goroutine: all
// registration bookkeeping happens on it, mirroring the rest of the session
// core's single-driver-goroutine design.
type Demux[K comparable, V any] struct {
	keyOf func(V) K
	log   logger.Logger

	register   chan registration[K, V]
	unregister chan K
	upstream   <-chan V

	closed chan struct{}
}

type registration[K comparable, V any] struct {
	key K
	ch  chan V
}

// New starts a Demux reading from upstream, using keyOf to compute each
// item's routing key. The Demux stops, and closes every subscriber channel
// currently registered, once upstream closes.
func New[K comparable, V any](upstream <-chan V, keyOf func(V) K, log logger.Logger) *Demux[K, V] {
	if log == nil {
		log = logger.Nop
	}
	d := &Demux[K, V]{
		keyOf:      keyOf,
		log:        log,
		register:   make(chan registration[K, V]),
		unregister: make(chan K),
		upstream:   upstream,
		closed:     make(chan struct{}),
	}
	go d.run()
	return d
}

// GetStream returns the channel of items keyed by key, and a release
// function the caller must call exactly once when no longer interested.
// Registering a second consumer for the same key before the first is
// released silently replaces it; the replaced channel is closed and stops
// receiving further items. Callers avoid this by using fresh correlation
// ids per outstanding request.
func (d *Demux[K, V]) GetStream(key K) (<-chan V, func()) {
	ch := make(chan V, 1)
	select {
	case d.register <- registration[K, V]{key: key, ch: ch}:
	case <-d.closed:
		close(ch)
		return ch, func() {}
	}
	release := func() {
		select {
		case d.unregister <- key:
		case <-d.closed:
		}
	}
	return ch, release
}

func (d *Demux[K, V]) run() {
	subs := make(map[K]chan V)
	defer func() {
		for _, ch := range subs {
			close(ch)
		}
		close(d.closed)
	}()

	for {
		select {
		case reg := <-d.register:
			if old, ok := subs[reg.key]; ok {
				close(old)
			}
			subs[reg.key] = reg.ch
		case key := <-d.unregister:
			if ch, ok := subs[key]; ok {
				close(ch)
				delete(subs, key)
			}
		case item, open := <-d.upstream:
			if !open {
				return
			}
			key := d.keyOf(item)
			ch, ok := subs[key]
			if !ok {
				d.log.Warnf("demux: no consumer for key %v, dropping item", key)
				continue
			}
			d.deliver(subs, key, ch, item)
		}
	}
}

// deliver sends item to ch, the channel currently registered for key,
// blocking for back-pressure if its one-slot buffer is full. It keeps
// servicing registrations and releases for other keys while it waits, so a
// slow consumer only delays delivery of items keyed to it, not the whole
// demux. A matched key's items are never dropped, since every item for a
// live subscription or call must reach its consumer in arrival order. If
// key itself is released or replaced while the send is pending, delivery
// retargets to the new channel, or is abandoned (with a warning) if there
// no longer is one.
func (d *Demux[K, V]) deliver(subs map[K]chan V, key K, ch chan V, item V) {
	for {
		select {
		case ch <- item:
			return
		case reg := <-d.register:
			if old, ok := subs[reg.key]; ok {
				close(old)
			}
			subs[reg.key] = reg.ch
			if reg.key == key {
				ch = reg.ch
			}
		case ukey := <-d.unregister:
			if uch, ok := subs[ukey]; ok {
				close(uch)
				delete(subs, ukey)
			}
			if ukey == key {
				d.log.Warnf("demux: consumer for key %v released before delivery, dropping item", key)
				return
			}
		}
	}
}
