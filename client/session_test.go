package client

import (
	"context"
	"testing"
	"time"

	"github.com/go-wamp/session/transport"
	"github.com/go-wamp/session/wamp"
	"github.com/stretchr/testify/require"
)

func recvOrFatal(t *testing.T, ch <-chan wamp.Message) wamp.Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "router side: peer closed unexpectedly")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound frame")
		return nil
	}
}

func TestConnectBasicHandshakeNoAuth(t *testing.T) {
	clientPeer, routerPeer := transport.Loopback()

	type connectOutcome struct {
		sess *Session
		err  error
	}
	done := make(chan connectOutcome, 1)
	go func() {
		sess, err := Connect(context.Background(), clientPeer, Config{Realm: "fakeRealm"})
		done <- connectOutcome{sess, err}
	}()

	hello := recvOrFatal(t, routerPeer.Recv()).(*wamp.Hello)
	require.EqualValues(t, "fakeRealm", hello.Realm)
	roles, ok := wamp.AsDict(hello.Details["roles"])
	require.True(t, ok)
	require.Contains(t, roles, wamp.RoleCaller)
	require.Contains(t, roles, wamp.RoleCallee)
	require.Contains(t, roles, wamp.RoleSubscriber)
	require.Contains(t, roles, wamp.RolePublisher)

	require.NoError(t, routerPeer.Send(&wamp.Welcome{ID: 123, Details: wamp.Dict{}}))

	select {
	case out := <-done:
		require.NoError(t, out.err)
		require.EqualValues(t, 123, out.sess.ID())
	case <-time.After(2 * time.Second):
		t.Fatal("Connect did not return")
	}
}

func TestConnectTicketAuth(t *testing.T) {
	clientPeer, routerPeer := transport.Loopback()

	cfg := Config{
		Realm: "fakeRealm",
		Auth:  TicketAuth("myId", "some ticket"),
	}

	type connectOutcome struct {
		sess *Session
		err  error
	}
	done := make(chan connectOutcome, 1)
	go func() {
		sess, err := Connect(context.Background(), clientPeer, cfg)
		done <- connectOutcome{sess, err}
	}()

	hello := recvOrFatal(t, routerPeer.Recv()).(*wamp.Hello)
	authid, _ := wamp.AsString(hello.Details["authid"])
	require.Equal(t, "myId", authid)
	methods, _ := wamp.AsList(hello.Details["authmethods"])
	require.Equal(t, wamp.List{"ticket"}, methods)

	require.NoError(t, routerPeer.Send(&wamp.Challenge{
		AuthMethod: "ticket",
		Extra:      wamp.Dict{"somethingExtra": "extra value"},
	}))

	auth := recvOrFatal(t, routerPeer.Recv()).(*wamp.Authenticate)
	require.Equal(t, "some ticket", auth.Signature)

	require.NoError(t, routerPeer.Send(&wamp.Welcome{ID: 123, Details: wamp.Dict{}}))

	select {
	case out := <-done:
		require.NoError(t, out.err)
		require.EqualValues(t, 123, out.sess.ID())
	case <-time.After(2 * time.Second):
		t.Fatal("Connect did not return")
	}
}

func TestConnectAbort(t *testing.T) {
	clientPeer, routerPeer := transport.Loopback()

	type connectOutcome struct {
		sess *Session
		err  error
	}
	done := make(chan connectOutcome, 1)
	go func() {
		sess, err := Connect(context.Background(), clientPeer, Config{Realm: "fakeRealm"})
		done <- connectOutcome{sess, err}
	}()

	recvOrFatal(t, routerPeer.Recv())
	require.NoError(t, routerPeer.Send(&wamp.Abort{
		Details: wamp.Dict{},
		Reason:  wamp.ErrNoSuchRealm,
	}))

	select {
	case out := <-done:
		require.Nil(t, out.sess)
		require.Error(t, out.err)
		var herr *HandshakeError
		require.ErrorAs(t, out.err, &herr)
		var aerr *AbortError
		require.ErrorAs(t, herr.Cause, &aerr)
		require.Equal(t, wamp.ErrNoSuchRealm, aerr.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("Connect did not return")
	}
}

func establishedSession(t *testing.T) (*Session, wamp.Peer) {
	t.Helper()
	clientPeer, routerPeer := transport.Loopback()

	type connectOutcome struct {
		sess *Session
		err  error
	}
	done := make(chan connectOutcome, 1)
	go func() {
		sess, err := Connect(context.Background(), clientPeer, Config{Realm: "fakeRealm"})
		done <- connectOutcome{sess, err}
	}()

	recvOrFatal(t, routerPeer.Recv())
	require.NoError(t, routerPeer.Send(&wamp.Welcome{ID: 123, Details: wamp.Dict{}}))

	out := <-done
	require.NoError(t, out.err)
	return out.sess, routerPeer
}

func TestSessionClose(t *testing.T) {
	sess, routerPeer := establishedSession(t)

	closeDone := make(chan error, 1)
	go func() { closeDone <- sess.Close() }()

	goodbye := recvOrFatal(t, routerPeer.Recv()).(*wamp.Goodbye)
	require.Equal(t, wamp.CloseRealm, goodbye.Reason)
	require.NoError(t, routerPeer.Send(&wamp.Goodbye{Details: wamp.Dict{}, Reason: wamp.CloseNormal}))

	select {
	case err := <-closeDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not report done after Close")
	}

	require.NoError(t, sess.Close())
}
