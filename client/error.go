package client

import (
	"errors"
	"fmt"

	"github.com/go-wamp/session/wamp"
)

// Sentinel errors for conditions not carrying peer-supplied detail.
var (
	ErrReplyTimeout          = errors.New("timeout waiting for reply")
	UnexpectedChallengeError = errors.New("received CHALLENGE but no auth method is configured")
)

// TransportClosedError indicates the transport's read side closed, either
// locally or by the peer, ending the session.
type TransportClosedError struct{}

func (TransportClosedError) Error() string { return "transport closed" }

// TransportError wraps an unexpected I/O failure from the transport.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %v", e.Cause) }
func (e *TransportError) Unwrap() error { return e.Cause }

// ProtocolError indicates that a reply of the wrong kind arrived for an
// awaited request. It is returned to that operation only; the session is
// not closed. Malformed inbound frames do not produce a ProtocolError: the
// transport logs and drops them, and message arity is not validated.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "protocol error: " + e.Reason }

// HandshakeError wraps a failure during HELLO/CHALLENGE/AUTHENTICATE/WELCOME.
type HandshakeError struct {
	Cause error
}

func (e *HandshakeError) Error() string { return fmt.Sprintf("handshake failed: %v", e.Cause) }
func (e *HandshakeError) Unwrap() error { return e.Cause }

// AbortError reports an ABORT message received from the router, during the
// handshake or otherwise.
type AbortError struct {
	Details wamp.Dict
	Reason  wamp.URI
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("received ABORT: reason=%s details=%v", e.Reason, e.Details)
}

// OperationError carries the contents of an ERROR frame the router sent in
// response to a specific outstanding request: a CALL, REGISTER, SUBSCRIBE,
// or PUBLISH. It is surfaced only to the operation that issued the request.
type OperationError struct {
	Details wamp.Dict
	URI     wamp.URI
	Args    wamp.List
	Kwargs  wamp.Dict
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %v", e.URI, e.Args)
}

// UserHandlerError is returned by a callee handler to control the ERROR
// frame the invocation runtime sends back to the router. If URI is empty,
// "wamp.error" is used.
type UserHandlerError struct {
	URI     wamp.URI
	Message string
}

func (e *UserHandlerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.URI)
}

// CancelledError indicates a call or invocation ended because of a local
// CANCEL or a peer INTERRUPT.
type CancelledError struct {
	Peer bool
}

func (e *CancelledError) Error() string {
	if e.Peer {
		return "cancelled by peer"
	}
	return "cancelled"
}

// unexpectedMessageError reports that msg arrived when expected was awaited.
func unexpectedMessageError(msg wamp.Message, expected wamp.MessageType) error {
	if abort, ok := msg.(*wamp.Abort); ok {
		return &AbortError{Details: abort.Details, Reason: abort.Reason}
	}
	return &ProtocolError{
		Reason: fmt.Sprintf("received %s, expected %s", msg.MessageType(), expected),
	}
}
