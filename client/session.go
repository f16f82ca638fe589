package client

import (
	"context"
	"crypto/tls"
	"sync"
	"time"

	"github.com/go-wamp/session/demux"
	"github.com/go-wamp/session/logger"
	"github.com/go-wamp/session/transport"
	"github.com/go-wamp/session/wamp"
)

// Session is an established WAMP session with a router. It exposes the
// caller, callee, publisher, and subscriber roles as operations that each
// allocate a request id and begin awaiting the router's reply the moment
// they are invoked: repeated calls to Call, Publish, Subscribe, or Register
// are independent, freshly issued requests.
type Session struct {
	peer wamp.Peer
	log  logger.Logger

	id      wamp.ID
	details wamp.Dict

	respTimeout time.Duration

	idMu  sync.Mutex
	idGen *wamp.IDGen

	kindDemux       *demux.Demux[wamp.MessageType, wamp.Message]
	eventDemux      *demux.Demux[wamp.ID, wamp.Message]
	invocationDemux *demux.Demux[wamp.ID, wamp.Message]
	interruptDemux  *demux.Demux[wamp.ID, wamp.Message]
	replyDemux      *demux.Demux[wamp.ID, wamp.Message]

	closeOnce sync.Once
	closed    chan struct{}
}

func messageKind(m wamp.Message) wamp.MessageType { return m.MessageType() }

// replyRequestID extracts the correlation id from the handful of reply
// kinds the router sends in response to a caller/callee/publisher/
// subscriber request. GOODBYE carries no request id and is handled by
// Close directly against the kind stream.
func replyRequestID(m wamp.Message) wamp.ID {
	switch v := m.(type) {
	case *wamp.Result:
		return v.Request
	case *wamp.Error:
		return v.Request
	case *wamp.Registered:
		return v.Request
	case *wamp.Subscribed:
		return v.Request
	case *wamp.Unsubscribed:
		return v.Request
	case *wamp.Unregistered:
		return v.Request
	case *wamp.Published:
		return v.Request
	}
	return 0
}

func eventSubscription(m wamp.Message) wamp.ID { return m.(*wamp.Event).Subscription }
func invocationRegistration(m wamp.Message) wamp.ID {
	return m.(*wamp.Invocation).Registration
}
func interruptRequest(m wamp.Message) wamp.ID { return m.(*wamp.Interrupt).Request }

// mergeMessages fans multiple message channels into dst, closing dst once
// every source has closed.
func mergeMessages(dst chan<- wamp.Message, srcs ...<-chan wamp.Message) {
	var wg sync.WaitGroup
	wg.Add(len(srcs))
	for _, src := range srcs {
		src := src
		go func() {
			defer wg.Done()
			for msg := range src {
				dst <- msg
			}
		}()
	}
	go func() {
		wg.Wait()
		close(dst)
	}()
}

// Dial opens a WebSocket transport to url and establishes a session on it.
func Dial(ctx context.Context, url string, tlsConfig *tls.Config, cfg Config) (*Session, error) {
	var metrics *transport.Metrics
	if cfg.MetricsRegisterer != nil {
		metrics = transport.NewMetrics(cfg.MetricsRegisterer, "websocket")
	}
	peer, err := transport.Dial(ctx, url, tlsConfig, nil, 0, metrics, cfg.logger())
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	sess, err := Connect(ctx, peer, cfg)
	if err != nil {
		peer.Close()
		return nil, err
	}
	return sess, nil
}

// Connect performs the HELLO/CHALLENGE/AUTHENTICATE/WELCOME handshake over
// an already-open peer and, on success, returns an established Session.
// Connect does not close peer when it returns an error; the caller still
// owns peer then and closes it (as Dial does).
func Connect(ctx context.Context, peer wamp.Peer, cfg Config) (*Session, error) {
	log := cfg.logger()

	details := wamp.Dict{}
	for k, v := range cfg.HelloDetails {
		details[k] = v
	}
	details["roles"] = wamp.HelloRoles()
	if cfg.Auth != nil {
		for k, v := range cfg.Auth.helloDetails() {
			details[k] = v
		}
	}

	kindDemux := demux.New(peer.Recv(), messageKind, log)
	welcomeCh, relWelcome := kindDemux.GetStream(wamp.WELCOME)
	abortCh, relAbort := kindDemux.GetStream(wamp.ABORT)
	challengeCh, relChallenge := kindDemux.GetStream(wamp.CHALLENGE)
	defer relWelcome()
	defer relAbort()
	defer relChallenge()

	respTimeout := cfg.responseTimeout()

	if err := peer.SendCtx(ctx, &wamp.Hello{Realm: wamp.URI(cfg.Realm), Details: details}); err != nil {
		return nil, &TransportError{Cause: err}
	}

	var welcome *wamp.Welcome
	for welcome == nil {
		select {
		case msg, ok := <-welcomeCh:
			if !ok {
				return nil, &HandshakeError{Cause: TransportClosedError{}}
			}
			welcome = msg.(*wamp.Welcome)
		case msg, ok := <-abortCh:
			if !ok {
				return nil, &HandshakeError{Cause: TransportClosedError{}}
			}
			ab := msg.(*wamp.Abort)
			return nil, &HandshakeError{Cause: &AbortError{Details: ab.Details, Reason: ab.Reason}}
		case msg, ok := <-challengeCh:
			if !ok {
				return nil, &HandshakeError{Cause: TransportClosedError{}}
			}
			ch := msg.(*wamp.Challenge)
			if cfg.Auth == nil {
				return nil, &HandshakeError{Cause: UnexpectedChallengeError}
			}
			sig, extra, err := cfg.Auth.Respond(ch.AuthMethod, ch.Extra)
			if err != nil {
				return nil, &HandshakeError{Cause: err}
			}
			if extra == nil {
				extra = wamp.Dict{}
			}
			if err := peer.SendCtx(ctx, &wamp.Authenticate{Signature: sig, Extra: extra}); err != nil {
				return nil, &TransportError{Cause: err}
			}
		case <-ctx.Done():
			return nil, &HandshakeError{Cause: ctx.Err()}
		case <-time.After(respTimeout):
			return nil, &HandshakeError{Cause: ErrReplyTimeout}
		}
	}

	eventKind, _ := kindDemux.GetStream(wamp.EVENT)
	invocationKind, _ := kindDemux.GetStream(wamp.INVOCATION)
	interruptKind, _ := kindDemux.GetStream(wamp.INTERRUPT)

	resultKind, _ := kindDemux.GetStream(wamp.RESULT)
	errorKind, _ := kindDemux.GetStream(wamp.ERROR)
	registeredKind, _ := kindDemux.GetStream(wamp.REGISTERED)
	subscribedKind, _ := kindDemux.GetStream(wamp.SUBSCRIBED)
	unsubscribedKind, _ := kindDemux.GetStream(wamp.UNSUBSCRIBED)
	unregisteredKind, _ := kindDemux.GetStream(wamp.UNREGISTERED)
	publishedKind, _ := kindDemux.GetStream(wamp.PUBLISHED)

	replyUpstream := make(chan wamp.Message)
	mergeMessages(replyUpstream, resultKind, errorKind, registeredKind,
		subscribedKind, unsubscribedKind, unregisteredKind, publishedKind)

	sess := &Session{
		peer:            peer,
		log:             log,
		id:              welcome.ID,
		details:         welcome.Details,
		respTimeout:     respTimeout,
		idGen:           wamp.NewIDGen(),
		kindDemux:       kindDemux,
		eventDemux:      demux.New(eventKind, eventSubscription, log),
		invocationDemux: demux.New(invocationKind, invocationRegistration, log),
		interruptDemux:  demux.New(interruptKind, interruptRequest, log),
		replyDemux:      demux.New(replyUpstream, replyRequestID, log),
		closed:          make(chan struct{}),
	}

	log.Logf("session established: id=%v realm=%v", welcome.ID, cfg.Realm)

	// A stream keyed on a message kind the router never sends stays open
	// for as long as the top-level demux's upstream (the transport) does,
	// giving the session a way to observe transport termination without
	// racing every operation's own stream against it individually.
	sentinel, _ := kindDemux.GetStream(wamp.MessageType(0))
	go func() {
		<-sentinel
		sess.closeOnce.Do(func() { close(sess.closed) })
	}()

	return sess, nil
}

// ID returns the session id assigned by the router in WELCOME.
func (s *Session) ID() wamp.ID { return s.id }

// RealmDetails returns the router's WELCOME.Details.
func (s *Session) RealmDetails() wamp.Dict { return s.details }

// Done returns a channel that is closed when the session's transport has
// terminated, whether by Close or by the peer.
func (s *Session) Done() <-chan struct{} { return s.closed }

func (s *Session) nextID() wamp.ID {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return s.idGen.Next()
}

// expectOne sends msg and waits for the single reply correlated by reqID,
// used by the one-shot request/reply operations (Publish, Subscribe's
// SUBSCRIBED, Register's REGISTERED, and Unregister's UNREGISTERED).
// Unsubscribe does not await a reply and sends directly. Call streams RESULT/ERROR itself instead of using this,
// since a call may receive many progressive RESULT frames before the
// terminal one.
func (s *Session) expectOne(ctx context.Context, reqID wamp.ID, msg wamp.Message) (wamp.Message, error) {
	ch, release := s.replyDemux.GetStream(reqID)
	defer release()

	if err := s.peer.SendCtx(ctx, msg); err != nil {
		return nil, &TransportError{Cause: err}
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, TransportClosedError{}
		}
		return reply, nil
	case <-s.closed:
		return nil, TransportClosedError{}
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.respTimeout):
		return nil, ErrReplyTimeout
	}
}

// Close sends GOODBYE and waits for the router's echo (or the transport to
// close), then tears down the transport. Close is idempotent.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		goodbyeCh, release := s.kindDemux.GetStream(wamp.GOODBYE)
		defer release()

		sendErr := s.peer.Send(&wamp.Goodbye{Details: wamp.Dict{}, Reason: wamp.CloseRealm})
		if sendErr == nil {
			select {
			case <-goodbyeCh:
			case <-time.After(s.respTimeout):
			}
		}
		s.peer.Close()
		close(s.closed)
		s.log.Logf("session closed: id=%v", s.id)
	})
	return err
}
