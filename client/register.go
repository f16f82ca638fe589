package client

import (
	"context"
	"sync"

	"github.com/go-wamp/session/wamp"
)

// Invocation is one incoming call to a registered procedure. Call Yield to
// emit a progressive or final result, or Fail to send an error; see the
// Handler doc for the exact protocol a handler must follow.
type Invocation struct {
	Args   wamp.List
	Kwargs wamp.Dict

	// Ctx is cancelled when the router sends an INTERRUPT for this
	// invocation, or when TimeoutMillis elapses if the caller supplied one.
	Ctx context.Context

	reqID wamp.ID
	s     *Session

	termMu     sync.Mutex
	terminated bool
}

// Handler processes one Invocation. It sends zero or more progressive
// results via inv.Yield(args, kwargs, false), then exactly one final result
// via inv.Yield(args, kwargs, true) or inv.Fail(err). A Handler that
// returns without calling Yield(..., true) or Fail has its invocation
// finalized with an empty YIELD automatically.
type Handler func(inv *Invocation)

// Registration is an active procedure registration. Unregister stops new
// invocations from being dispatched; invocations already in flight run to
// completion on their own goroutines.
type Registration struct {
	ID wamp.ID

	s       *Session
	release func()
}

// Register announces uri to the router and dispatches each INVOCATION to
// handler on its own goroutine.
func (s *Session) Register(ctx context.Context, uri wamp.URI, handler Handler) (*Registration, error) {
	reqID := s.nextID()
	reply, err := s.expectOne(ctx, reqID, &wamp.Register{
		Request:   reqID,
		Options:   wamp.Dict{wamp.OptReceiveProgress: true},
		Procedure: uri,
	})
	if err != nil {
		return nil, err
	}
	switch v := reply.(type) {
	case *wamp.Registered:
		raw, release := s.invocationDemux.GetStream(v.Registration)
		go s.dispatchInvocations(raw, handler)
		return &Registration{ID: v.Registration, s: s, release: release}, nil
	case *wamp.Error:
		return nil, &OperationError{Details: v.Details, URI: v.Error, Args: v.Arguments, Kwargs: v.ArgumentsKw}
	}
	return nil, unexpectedMessageError(reply, wamp.REGISTERED)
}

func (s *Session) dispatchInvocations(raw <-chan wamp.Message, handler Handler) {
	for msg := range raw {
		inv := msg.(*wamp.Invocation)
		go s.runInvocation(inv, handler)
	}
}

// Unregister releases the registration, sending UNREGISTER and awaiting its
// acknowledgement (errors from the router are swallowed, per the source
// system's "errors are swallowed" teardown behavior). Invocations already
// dispatched continue to run.
func (reg *Registration) Unregister(ctx context.Context) error {
	reg.release()
	reqID := reg.s.nextID()
	_, _ = reg.s.expectOne(ctx, reqID, &wamp.Unregister{Request: reqID, Registration: reg.ID})
	return nil
}
