package client

import (
	"time"

	"github.com/go-wamp/session/logger"
	"github.com/go-wamp/session/wamp"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures a Session joining a realm on a WAMP router.
type Config struct {
	// Realm is the URI of the realm to join. Required.
	Realm string

	// HelloDetails carries additional details to send in HELLO. The
	// session always sets Details["roles"] to the roles it implements,
	// replacing any "roles" entry given here.
	HelloDetails wamp.Dict

	// Auth supplies the client's authid/authmethods and challenge
	// responder. Leave nil for anonymous authentication.
	Auth *Auth

	// ResponseTimeout bounds how long the session waits for a router
	// response to the handshake or to a non-streaming request. A value of
	// 0 uses a default of 5 seconds.
	ResponseTimeout time.Duration

	// Logger receives session diagnostics. A nil Logger discards them.
	Logger logger.Logger

	// MetricsRegisterer, if non-nil, registers transport byte counters.
	// Leave nil to disable metrics.
	MetricsRegisterer prometheus.Registerer
}

func (cfg *Config) responseTimeout() time.Duration {
	if cfg.ResponseTimeout <= 0 {
		return defaultResponseTimeout
	}
	return cfg.ResponseTimeout
}

func (cfg *Config) logger() logger.Logger {
	if cfg.Logger == nil {
		return logger.Nop
	}
	return cfg.Logger
}
