package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-wamp/session/logger"
	"github.com/go-wamp/session/wamp"
	"github.com/go-wamp/session/wamp/codec"
	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Send/SendCtx/TrySend once the peer has been
// closed.
var ErrClosed = errors.New("transport: peer closed")

// ErrBlocked is returned by TrySend when the outbound queue is full.
var ErrBlocked = errors.New("transport: send would block")

// WAMP uses this WebSocket subprotocol identifier for unbatched JSON.
const jsonWebsocketProtocol = "wamp.2.json"

const (
	defaultOutQueueSize = 16
	ctrlTimeout         = 5 * time.Second
)

// DialFunc overrides how the underlying TCP connection is established, for
// tests that need to control dialing.
type DialFunc func(network, addr string) (net.Conn, error)

// socketPeer implements wamp.Peer over a WebSocket connection framed with
// the JSON codec.
type socketPeer struct {
	conn *websocket.Conn
	cdc  codec.JSON

	closed   chan struct{}
	stopSend chan struct{}

	rd chan wamp.Message
	wr chan wamp.Message

	metrics *Metrics
	log     logger.Logger
}

// Dial connects to a WAMP router at url over WebSocket using the
// wamp.2.json subprotocol. outQueueSize bounds how many outbound messages
// may be queued; once the queue is full, Send and SendCtx block until there
// is room or the peer closes, and TrySend returns ErrBlocked. A value < 1
// uses a default.
func Dial(ctx context.Context, url string, tlsConfig *tls.Config, dial DialFunc, outQueueSize int, metrics *Metrics, log logger.Logger) (wamp.Peer, error) {
	dialer := websocket.Dialer{
		Subprotocols:    []string{jsonWebsocketProtocol},
		TLSClientConfig: tlsConfig,
		Proxy:           http.ProxyFromEnvironment,
		NetDial:         dial,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return newSocketPeer(conn, outQueueSize, metrics, log), nil
}

func newSocketPeer(conn *websocket.Conn, outQueueSize int, metrics *Metrics, log logger.Logger) wamp.Peer {
	if outQueueSize < 1 {
		outQueueSize = defaultOutQueueSize
	}
	if log == nil {
		log = logger.Nop
	}
	p := &socketPeer{
		conn:     conn,
		closed:   make(chan struct{}),
		stopSend: make(chan struct{}),
		// A message read from the socket can be handled immediately by the
		// session driver, so this channel need not be more than size 1.
		rd:      make(chan wamp.Message, 1),
		wr:      make(chan wamp.Message, outQueueSize),
		metrics: metrics,
		log:     log,
	}
	go p.recvLoop()
	go p.sendLoop()
	return p
}

func (p *socketPeer) Recv() <-chan wamp.Message { return p.rd }

func (p *socketPeer) Send(msg wamp.Message) error {
	select {
	case p.wr <- msg:
		return nil
	case <-p.closed:
		return ErrClosed
	}
}

func (p *socketPeer) SendCtx(ctx context.Context, msg wamp.Message) error {
	select {
	case p.wr <- msg:
		return nil
	case <-p.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *socketPeer) TrySend(msg wamp.Message) error {
	select {
	case p.wr <- msg:
		return nil
	default:
		return ErrBlocked
	}
}

func (p *socketPeer) Close() {
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "goodbye")
	if err := p.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(ctrlTimeout)); err != nil {
		p.log.Warnf("error sending close message: %v", err)
	}
	close(p.closed)
	if err := p.conn.Close(); err != nil {
		p.log.Warnf("error closing connection: %v", err)
	}
}

// sendLoop pulls messages from the write channel and pushes them to the
// socket until told to stop or the write channel is closed.
func (p *socketPeer) sendLoop() {
	for {
		select {
		case msg, open := <-p.wr:
			if !open {
				return
			}
			b, err := p.cdc.Encode(msg)
			if err != nil {
				p.log.Errorf("error encoding outgoing message: %v", err)
				continue
			}
			if err = p.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				p.log.Warnf("error writing to socket: %v", err)
				return
			}
			p.metrics.CountOutgoing(len(b))
		case <-p.stopSend:
			return
		}
	}
}

// recvLoop pulls frames from the socket, decodes them, and pushes the
// resulting messages to the read channel.
func (p *socketPeer) recvLoop() {
	for {
		msgType, b, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.closed:
				p.log.Debug("socket closed locally")
			default:
				p.log.Warnf("error reading from socket: %v", err)
				p.conn.Close()
			}
			break
		}
		if msgType == websocket.CloseMessage {
			p.conn.Close()
			break
		}
		p.metrics.CountIncoming(len(b))

		msg, err := p.cdc.Decode(b)
		if err != nil {
			p.log.Warnf("error decoding incoming frame: %v", err)
			continue
		}
		p.rd <- msg
	}
	close(p.rd)
	close(p.stopSend)
}
