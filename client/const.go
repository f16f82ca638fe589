package client

import (
	"time"

	"github.com/go-wamp/session/wamp"
)

// Time the session will wait for an expected router response if the
// caller's Config does not specify one.
const defaultResponseTimeout = 5 * time.Second

// CancelMode selects how a router should treat a cancelled call, per the
// WAMP call canceling advanced feature. The mode is only sent in CANCEL's
// options: in every mode, Call's result channel ends with a CancelledError
// as soon as CANCEL has been sent, without waiting for any router reply.
type CancelMode string

const (
	// KillMode asks the router to interrupt the callee and to answer the
	// caller only once the callee has responded. The default.
	KillMode CancelMode = wamp.CancelModeKill
	// KillNoWaitMode asks the router to interrupt the callee and to answer
	// the caller at once, without waiting for the callee's outcome.
	KillNoWaitMode CancelMode = wamp.CancelModeKillNoWait
	// SkipMode asks the router not to forward the cancellation to the
	// callee; only the caller's own pending call is abandoned.
	SkipMode CancelMode = wamp.CancelModeSkip
)
