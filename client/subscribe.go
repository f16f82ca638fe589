package client

import (
	"context"

	"github.com/go-wamp/session/wamp"
)

// Subscription is an active subscription to a topic. Events matching the
// subscription arrive on Events until Unsubscribe is called or the session
// closes, whichever comes first.
type Subscription struct {
	ID     wamp.ID
	Events <-chan Payload

	s        *Session
	release  func()
	stopFeed chan struct{}
}

// Subscribe subscribes to uri and returns a Subscription delivering each
// matching EVENT as a Payload. Releasing the subscription (Unsubscribe)
// sends UNSUBSCRIBE; its acknowledgement is not awaited, matching how a
// cold subscribe stream tears down on the source system.
func (s *Session) Subscribe(ctx context.Context, uri wamp.URI) (*Subscription, error) {
	reqID := s.nextID()
	reply, err := s.expectOne(ctx, reqID, &wamp.Subscribe{
		Request: reqID,
		Options: wamp.Dict{},
		Topic:   uri,
	})
	if err != nil {
		return nil, err
	}
	switch v := reply.(type) {
	case *wamp.Subscribed:
		events := make(chan Payload)
		raw, release := s.eventDemux.GetStream(v.Subscription)
		stop := make(chan struct{})
		go feedEvents(raw, events, stop)
		return &Subscription{
			ID:       v.Subscription,
			Events:   events,
			s:        s,
			release:  release,
			stopFeed: stop,
		}, nil
	case *wamp.Error:
		return nil, &OperationError{Details: v.Details, URI: v.Error, Args: v.Arguments, Kwargs: v.ArgumentsKw}
	}
	return nil, unexpectedMessageError(reply, wamp.SUBSCRIBED)
}

func feedEvents(raw <-chan wamp.Message, events chan<- Payload, stop <-chan struct{}) {
	defer close(events)
	for {
		select {
		case msg, ok := <-raw:
			if !ok {
				return
			}
			ev := msg.(*wamp.Event)
			select {
			case events <- Payload{Args: ev.Arguments, Kwargs: ev.ArgumentsKw}:
			case <-stop:
				return
			}
		case <-stop:
			return
		}
	}
}

// Unsubscribe releases the subscription. It is safe to call more than
// once; only the first call has effect.
func (sub *Subscription) Unsubscribe(ctx context.Context) error {
	select {
	case <-sub.stopFeed:
		return nil
	default:
		close(sub.stopFeed)
	}
	sub.release()

	reqID := sub.s.nextID()
	if err := sub.s.peer.SendCtx(ctx, &wamp.Unsubscribe{Request: reqID, Subscription: sub.ID}); err != nil {
		return &TransportError{Cause: err}
	}
	return nil
}
