package client

import (
	"context"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fortytw2/leaktest"
	"github.com/go-wamp/session/wamp"
	"github.com/stretchr/testify/require"
)

func TestRegisterProgressiveInvocation(t *testing.T) {
	sess, routerPeer := establishedSession(t)

	handlerCalled := make(chan *Invocation, 1)
	type regOutcome struct {
		reg *Registration
		err error
	}
	done := make(chan regOutcome, 1)
	go func() {
		reg, err := sess.Register(context.Background(), "my.function1", func(inv *Invocation) {
			handlerCalled <- inv
			inv.Yield(wamp.List{"answer", 456}, wamp.Dict{"dictAnswer": 789}, false)
			inv.Yield(wamp.List{2}, nil, false)
			inv.Yield(nil, nil, true)
		})
		done <- regOutcome{reg, err}
	}()

	register := recvOrFatal(t, routerPeer.Recv()).(*wamp.Register)
	require.Equal(t, wamp.URI("my.function1"), register.Procedure)
	require.NoError(t, routerPeer.Send(&wamp.Registered{Request: register.Request, Registration: 123}))

	out := <-done
	require.NoError(t, out.err)
	reg := out.reg
	require.EqualValues(t, 123, reg.ID)

	require.NoError(t, routerPeer.Send(&wamp.Invocation{
		Request:      1000,
		Registration: 123,
		Details:      wamp.Dict{"receive_progress": true},
		Arguments:    wamp.List{123, "abc"},
		ArgumentsKw:  wamp.Dict{"some": "data"},
	}))

	select {
	case inv := <-handlerCalled:
		wantArgs := wamp.List{123, "abc"}
		require.Equal(t, wantArgs, inv.Args, "want:\n%s\ngot:\n%s", spew.Sdump(wantArgs), spew.Sdump(inv.Args))
		wantKwargs := wamp.Dict{"some": "data"}
		require.Equal(t, wantKwargs, inv.Kwargs, "want:\n%s\ngot:\n%s", spew.Sdump(wantKwargs), spew.Sdump(inv.Kwargs))
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}

	first := recvOrFatal(t, routerPeer.Recv()).(*wamp.Yield)
	require.Equal(t, wamp.ID(1000), first.Request)
	progress, _ := wamp.AsBool(first.Options["progress"])
	require.True(t, progress)
	require.Equal(t, wamp.List{"answer", 456}, first.Arguments)
	require.Equal(t, wamp.Dict{"dictAnswer": 789}, first.ArgumentsKw)

	second := recvOrFatal(t, routerPeer.Recv()).(*wamp.Yield)
	progress, _ = wamp.AsBool(second.Options["progress"])
	require.True(t, progress)
	require.Equal(t, wamp.List{2}, second.Arguments)

	final := recvOrFatal(t, routerPeer.Recv()).(*wamp.Yield)
	_, hasProgress := final.Options["progress"]
	require.False(t, hasProgress)
	require.Empty(t, final.Arguments)

	unregDone := make(chan error, 1)
	go func() { unregDone <- reg.Unregister(context.Background()) }()

	unreg := recvOrFatal(t, routerPeer.Recv()).(*wamp.Unregister)
	require.EqualValues(t, 123, unreg.Registration)
	require.NoError(t, routerPeer.Send(&wamp.Unregistered{Request: unreg.Request}))

	select {
	case err := <-unregDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister did not return")
	}
}

func TestInvocationInterruptSendsCancelledError(t *testing.T) {
	sess, routerPeer := establishedSession(t)
	defer leaktest.Check(t)()

	handlerStarted := make(chan struct{})
	type regOutcome struct {
		reg *Registration
		err error
	}
	done := make(chan regOutcome, 1)
	go func() {
		reg, err := sess.Register(context.Background(), "slow.thing", func(inv *Invocation) {
			close(handlerStarted)
			<-inv.Ctx.Done()
		})
		done <- regOutcome{reg, err}
	}()

	register := recvOrFatal(t, routerPeer.Recv()).(*wamp.Register)
	require.NoError(t, routerPeer.Send(&wamp.Registered{Request: register.Request, Registration: 123}))
	out := <-done
	require.NoError(t, out.err)

	require.NoError(t, routerPeer.Send(&wamp.Invocation{
		Request:      2000,
		Registration: 123,
		Details:      wamp.Dict{},
	}))

	select {
	case <-handlerStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never started")
	}

	require.NoError(t, routerPeer.Send(&wamp.Interrupt{Request: 2000, Options: wamp.Dict{}}))

	errMsg := recvOrFatal(t, routerPeer.Recv()).(*wamp.Error)
	require.Equal(t, wamp.INVOCATION, errMsg.Type)
	require.Equal(t, wamp.ID(2000), errMsg.Request)
	require.Equal(t, wamp.URI("wamp.error.cancelled"), errMsg.Error)

	// Release the registration so its dispatch goroutine exits before the
	// leak check runs.
	unregDone := make(chan error, 1)
	go func() { unregDone <- out.reg.Unregister(context.Background()) }()
	unreg := recvOrFatal(t, routerPeer.Recv()).(*wamp.Unregister)
	require.NoError(t, routerPeer.Send(&wamp.Unregistered{Request: unreg.Request}))
	require.NoError(t, <-unregDone)
}

func TestInvocationFailWithUserHandlerError(t *testing.T) {
	sess, routerPeer := establishedSession(t)

	type regOutcome struct {
		reg *Registration
		err error
	}
	done := make(chan regOutcome, 1)
	go func() {
		reg, err := sess.Register(context.Background(), "failing.thing", func(inv *Invocation) {
			inv.Fail(&UserHandlerError{URI: "app.error.bad_input", Message: "bad input"})
		})
		done <- regOutcome{reg, err}
	}()

	register := recvOrFatal(t, routerPeer.Recv()).(*wamp.Register)
	require.NoError(t, routerPeer.Send(&wamp.Registered{Request: register.Request, Registration: 321}))
	out := <-done
	require.NoError(t, out.err)

	require.NoError(t, routerPeer.Send(&wamp.Invocation{
		Request:      3000,
		Registration: 321,
		Details:      wamp.Dict{},
	}))

	errMsg := recvOrFatal(t, routerPeer.Recv()).(*wamp.Error)
	require.Equal(t, wamp.INVOCATION, errMsg.Type)
	require.Equal(t, wamp.ID(3000), errMsg.Request)
	require.Equal(t, wamp.URI("app.error.bad_input"), errMsg.Error)
	require.Equal(t, wamp.List{"bad input"}, errMsg.Arguments)
}
