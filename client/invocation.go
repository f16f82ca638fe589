package client

import (
	"context"
	"time"

	"github.com/go-wamp/session/wamp"
)

// runInvocation drives one INVOCATION through handler: builds the
// invocation's context (cancelled by a matching INTERRUPT, or by the
// caller's timeout option if present), runs the handler, and guarantees
// exactly one terminal frame — YIELD with no progress, or ERROR — is sent.
func (s *Session) runInvocation(msg *wamp.Invocation, handler Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if ms, ok := wamp.AsInt64(msg.Details[wamp.OptTimeout]); ok && ms > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
		defer timeoutCancel()
	}

	interruptCh, release := s.interruptDemux.GetStream(msg.Request)
	defer release()
	go func() {
		select {
		case _, ok := <-interruptCh:
			if ok {
				cancel()
			}
		case <-ctx.Done():
		}
	}()

	inv := &Invocation{
		Args:   msg.Arguments,
		Kwargs: msg.ArgumentsKw,
		Ctx:    ctx,
		reqID:  msg.Request,
		s:      s,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler(inv)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		<-done
	}

	if !inv.finalize(nil) {
		return
	}
	if ctx.Err() != nil {
		s.peer.Send(&wamp.Error{
			Type:    wamp.INVOCATION,
			Request: msg.Request,
			Details: wamp.Dict{},
			Error:   wamp.URI("wamp.error.cancelled"),
			Arguments: wamp.List{"function call has been cancelled"},
		})
		return
	}
	s.peer.Send(&wamp.Yield{Request: msg.Request, Options: wamp.Dict{}})
}

// Yield sends a result from a handler. If final is false the result is
// progressive (another Yield or Fail is expected to follow); if final is
// true this is the invocation's terminal frame and any subsequent Yield or
// Fail call on the same Invocation is a no-op.
func (inv *Invocation) Yield(args wamp.List, kwargs wamp.Dict, final bool) {
	if !final {
		inv.s.peer.Send(&wamp.Yield{
			Request:     inv.reqID,
			Options:     wamp.Dict{wamp.OptProgress: true},
			Arguments:   args,
			ArgumentsKw: kwargs,
		})
		return
	}
	if !inv.finalize(nil) {
		return
	}
	inv.s.peer.Send(&wamp.Yield{
		Request:     inv.reqID,
		Options:     wamp.Dict{},
		Arguments:   args,
		ArgumentsKw: kwargs,
	})
}

// Fail sends an ERROR as the invocation's terminal frame. If err is a
// *UserHandlerError its URI and Message populate the ERROR frame;
// otherwise "wamp.error" is used with err.Error() as the sole argument.
func (inv *Invocation) Fail(err error) {
	if !inv.finalize(err) {
		return
	}
	uri := wamp.URI("wamp.error")
	msg := err.Error()
	if uh, ok := err.(*UserHandlerError); ok {
		if uh.URI != "" {
			uri = uh.URI
		}
		msg = uh.Message
	}
	inv.s.peer.Send(&wamp.Error{
		Type:      wamp.INVOCATION,
		Request:   inv.reqID,
		Details:   wamp.Dict{},
		Error:     uri,
		Arguments: wamp.List{msg},
	})
}

// finalize marks the invocation terminated and reports whether this call
// is the one that should actually send a terminal frame: the first to
// arrive among the handler's own Yield(final=true)/Fail and the
// interrupt-driven fallback in runInvocation wins; every later call is a
// no-op, guaranteeing at most one terminal frame per invocation.
func (inv *Invocation) finalize(_ error) bool {
	inv.termMu.Lock()
	defer inv.termMu.Unlock()
	if inv.terminated {
		return false
	}
	inv.terminated = true
	return true
}
