package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks bytes sent and received by a transport. A nil *Metrics is
// valid and simply does nothing, so instrumentation is off by default.
type Metrics struct {
	transportType string
	inBytes       *prometheus.CounterVec
	outBytes      *prometheus.CounterVec
}

// NewMetrics registers byte counters for transportType (e.g. "websocket")
// against reg and returns a Metrics that updates them. If reg is nil,
// NewMetrics returns nil, and CountIncoming/CountOutgoing on a nil *Metrics
// are no-ops.
func NewMetrics(reg prometheus.Registerer, transportType string) *Metrics {
	if reg == nil {
		return nil
	}
	inBytes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wamp_session_transport_bytes_incoming",
			Help: "Total bytes received from the transport.",
		},
		[]string{"transport_type"},
	)
	outBytes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wamp_session_transport_bytes_outgoing",
			Help: "Total bytes sent to the transport.",
		},
		[]string{"transport_type"},
	)
	reg.MustRegister(inBytes, outBytes)
	return &Metrics{
		transportType: transportType,
		inBytes:       inBytes,
		outBytes:      outBytes,
	}
}

func (m *Metrics) CountIncoming(n int) {
	if m == nil {
		return
	}
	m.inBytes.WithLabelValues(m.transportType).Add(float64(n))
}

func (m *Metrics) CountOutgoing(n int) {
	if m == nil {
		return
	}
	m.outBytes.WithLabelValues(m.transportType).Add(float64(n))
}
