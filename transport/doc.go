/*
Package transport provides wamp.Peer implementations for the session core:
a WebSocket transport that dials a router over the wamp.2.json subprotocol,
and an in-process loopback transport for tests. The WebSocket transport
frames messages with the JSON codec; the loopback passes message values
between its two ends directly, with no encoding.
*/
package transport
