package client

import (
	"context"

	"github.com/go-wamp/session/wamp"
)

// Payload is one (Args, Kwargs) pair delivered on a call's result stream or
// an event's stream.
type Payload struct {
	Args   wamp.List
	Kwargs wamp.Dict
}

// CallOptions configures a single Call invocation.
type CallOptions struct {
	// Cancel selects the router behavior on stream release before
	// completion. Defaults to KillMode.
	Cancel CancelMode

	// TimeoutMillis, if non-zero, is passed to the router as the call's
	// Options.timeout and forwarded by the router to the callee.
	TimeoutMillis int
}

// Call issues a remote procedure call and returns a channel of the
// procedure's result payloads. Each call to Call allocates a fresh request
// id and issues an independent CALL; a channel delivers zero or more
// progressive payloads followed by, at most, one final payload before
// closing. If ctx is cancelled, or the caller stops receiving and the
// returned cancel func is invoked, before the call has terminated, a CANCEL
// is sent to the router.
//
// The returned channel is always closed exactly once, whether by
// completion, error, or cancellation; errors surface as an *OperationError,
// a *CancelledError, or a transport error, sent as the channel's last
// value's Err.
func (s *Session) Call(ctx context.Context, uri wamp.URI, args wamp.List, kwargs wamp.Dict, opts CallOptions) (<-chan CallResult, func()) {
	out := make(chan CallResult, 1)
	reqID := s.nextID()
	replyCh, release := s.replyDemux.GetStream(reqID)

	cancelMode := opts.Cancel
	if cancelMode == "" {
		cancelMode = KillMode
	}

	callCtx, cancel := context.WithCancel(ctx)

	options := wamp.Dict{wamp.OptReceiveProgress: true}
	if opts.TimeoutMillis > 0 {
		options[wamp.OptTimeout] = opts.TimeoutMillis
	}

	go s.runCall(callCtx, reqID, uri, args, kwargs, options, cancelMode, replyCh, release, out)

	return out, cancel
}

// CallResult is one value delivered on a Call's result channel: either a
// payload or a terminal error, never both, and an error is always the last
// value sent before the channel closes.
type CallResult struct {
	Payload
	Err error
}

func (s *Session) runCall(ctx context.Context, reqID wamp.ID, uri wamp.URI, args wamp.List, kwargs wamp.Dict, options wamp.Dict, cancelMode CancelMode, replyCh <-chan wamp.Message, release func(), out chan<- CallResult) {
	defer close(out)
	defer release()

	if err := s.peer.SendCtx(ctx, &wamp.Call{Request: reqID, Options: options, Procedure: uri, Arguments: args, ArgumentsKw: kwargs}); err != nil {
		out <- CallResult{Err: &TransportError{Cause: err}}
		return
	}

	for {
		select {
		case msg, ok := <-replyCh:
			if !ok {
				out <- CallResult{Err: TransportClosedError{}}
				return
			}
			switch v := msg.(type) {
			case *wamp.Result:
				progress, _ := wamp.AsBool(v.Details[wamp.OptProgress])
				if progress {
					out <- CallResult{Payload: Payload{Args: v.Arguments, Kwargs: v.ArgumentsKw}}
					continue
				}
				if len(v.Arguments) > 0 || len(v.ArgumentsKw) > 0 {
					out <- CallResult{Payload: Payload{Args: v.Arguments, Kwargs: v.ArgumentsKw}}
				}
				return
			case *wamp.Error:
				out <- CallResult{Err: &OperationError{Details: v.Details, URI: v.Error, Args: v.Arguments, Kwargs: v.ArgumentsKw}}
				return
			}
		case <-ctx.Done():
			// The call has not yet terminated (the loop would have
			// returned above if it had): a live outstanding request is
			// cancelled on the wire, satisfying cancel-on-release
			// idempotence by construction rather than by a flag.
			s.peer.Send(&wamp.Cancel{Request: reqID, Options: wamp.Dict{wamp.OptMode: string(cancelMode)}})
			out <- CallResult{Err: &CancelledError{}}
			return
		case <-s.closed:
			out <- CallResult{Err: TransportClosedError{}}
			return
		}
	}
}
