package gateway

import "github.com/prometheus/client_golang/prometheus"

// metrics are the gateway's Prometheus instrumentation: RPC latency/outcome
// and the size of the live node tables, scraped by an embedding
// application's own /metrics endpoint.
type metrics struct {
	rpcDuration   *prometheus.HistogramVec
	rpcFailures   *prometheus.CounterVec
	nodeCount     prometheus.Gauge
	failedCount   prometheus.Gauge
	unsolicited   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zwaveip",
			Subsystem: "gateway",
			Name:      "rpc_duration_seconds",
			Help:      "Latency of gateway RPCs (getNodeList, getNodeInfo, ...) by name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"rpc"}),
		rpcFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zwaveip",
			Subsystem: "gateway",
			Name:      "rpc_failures_total",
			Help:      "Count of gateway RPCs that returned an error, by name.",
		}, []string{"rpc"}),
		nodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zwaveip",
			Subsystem: "gateway",
			Name:      "nodes",
			Help:      "Number of nodes in the cached node list.",
		}),
		failedCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zwaveip",
			Subsystem: "gateway",
			Name:      "failed_nodes",
			Help:      "Number of nodes in the cached failed-node list.",
		}),
		unsolicited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zwaveip",
			Subsystem: "gateway",
			Name:      "unsolicited_packets_total",
			Help:      "Count of inbound packets received on the unsolicited socket.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.rpcDuration, m.rpcFailures, m.nodeCount, m.failedCount, m.unsolicited)
	}
	return m
}

func (m *metrics) observeRPC(name string, seconds float64, err error) {
	m.rpcDuration.WithLabelValues(name).Observe(seconds)
	if err != nil {
		m.rpcFailures.WithLabelValues(name).Inc()
	}
}
