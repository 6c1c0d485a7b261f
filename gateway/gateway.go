// Package gateway implements the gateway controller (C8): Z-Wave-specific
// RPCs layered over a Transport, a cached node/failed-node table, and
// lazily-opened per-node sub-connections for sending/receiving
// application-layer command classes directly with a node.
package gateway

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/transport"
	"github.com/gozwave/zwaveip/zwerr"
)

// NodeMessageHandler processes an inbound command-class message arriving
// on a specific node's sub-connection.
type NodeMessageHandler func(nodeID byte, msg frame.Message, sourceEP, destEP byte)

// Gateway wraps the control-plane Transport to the Z/IP Gateway with
// NETWORK_MANAGEMENT_PROXY/INCLUSION RPCs, the cached node tables, and
// per-node sub-connection management (§4.8).
type Gateway struct {
	tr       *transport.Transport
	psk      []byte
	identity []byte

	mu           sync.Mutex
	nodes        map[byte]bool
	failedNodes  map[byte]bool
	controllerID byte
	nodeAddrs    map[byte]net.IP
	subConns     map[byte]*transport.Transport
	onNodeMsg    NodeMessageHandler

	unsolicitedConn transport.Conn

	listeners *events.Listenable
	metrics   *metrics
	log       clog.Clog

	seqMu sync.Mutex
	seq   byte
}

// New wraps tr, the already-established control connection to the
// gateway's DTLS port, with the RPC/node-table layer. psk/identity are
// reused for any per-node sub-connections ConnectToNode opens. reg may be
// nil to skip Prometheus registration (e.g. in tests).
func New(tr *transport.Transport, psk, identity []byte, reg prometheus.Registerer) *Gateway {
	return &Gateway{
		tr:          tr,
		psk:         psk,
		identity:    identity,
		nodes:       map[byte]bool{},
		failedNodes: map[byte]bool{},
		nodeAddrs:   map[byte]net.IP{},
		subConns:    map[byte]*transport.Transport{},
		listeners:   events.NewListenable("gateway"),
		metrics:     newMetrics(reg),
		log:         clog.NewLogger("gateway"),
	}
}

// Listeners returns the gateway's observer list, spoken to for
// unsolicited message delivery and node-list reconciliation triggers.
func (g *Gateway) Listeners() *events.Listenable { return g.listeners }

// OnNodeMessage installs the handler invoked for inbound messages on any
// node's sub-connection. Only one handler is kept; the application facade
// wires this to its own node-dispatch once at startup.
func (g *Gateway) OnNodeMessage(h NodeMessageHandler) {
	g.mu.Lock()
	g.onNodeMsg = h
	g.mu.Unlock()
}

func (g *Gateway) nextSeq() byte {
	g.seqMu.Lock()
	defer g.seqMu.Unlock()
	g.seq++
	return g.seq
}

func (g *Gateway) timeRPC(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	g.metrics.observeRPC(name, time.Since(start).Seconds(), err)
	return err
}

// GetNodeList sends NODE_LIST_GET and caches the returned node set.
func (g *Gateway) GetNodeList(timeout time.Duration) (map[byte]bool, error) {
	var nodes map[byte]bool
	err := g.timeRPC("getNodeList", func() error {
		reply, err := g.tr.SendAndWaitForMessage(&frame.NodeListGet{SeqNo: g.nextSeq()}, 0, 0, frame.NewHID(0x52, 0x02), timeout)
		if err != nil {
			return err
		}
		report, ok := reply.(*frame.NodeListReport)
		if !ok {
			return zwerr.New(zwerr.Protocol, "gateway.GetNodeList", nil)
		}
		g.mu.Lock()
		g.nodes = report.Nodes
		g.controllerID = report.NodeListControllerID
		g.mu.Unlock()
		g.metrics.nodeCount.Set(float64(len(report.Nodes)))
		nodes = report.Nodes
		return nil
	})
	return nodes, err
}

// ControllerID returns the controller's own node id, populated by the
// most recent GetNodeList.
func (g *Gateway) ControllerID() byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.controllerID
}

// GetFailedNodeList sends FAILED_NODE_LIST_GET and caches the result.
func (g *Gateway) GetFailedNodeList(timeout time.Duration) (map[byte]bool, error) {
	var nodes map[byte]bool
	err := g.timeRPC("getFailedNodeList", func() error {
		reply, err := g.tr.SendAndWaitForMessage(&frame.FailedNodeListGet{SeqNo: g.nextSeq()}, 0, 0, frame.NewHID(0x52, 0x0C), timeout)
		if err != nil {
			return err
		}
		report, ok := reply.(*frame.FailedNodeListReport)
		if !ok {
			return zwerr.New(zwerr.Protocol, "gateway.GetFailedNodeList", nil)
		}
		g.mu.Lock()
		g.failedNodes = report.Nodes
		g.mu.Unlock()
		g.metrics.failedCount.Set(float64(len(report.Nodes)))
		nodes = report.Nodes
		return nil
	})
	return nodes, err
}

// GetNodeInfo sends NODE_INFO_CACHED_GET for id and returns the report.
func (g *Gateway) GetNodeInfo(id byte, maxAge byte, timeout time.Duration) (*frame.NodeInfoCachedReport, error) {
	var report *frame.NodeInfoCachedReport
	err := g.timeRPC("getNodeInfo", func() error {
		reply, err := g.tr.SendAndWaitForMessage(&frame.NodeInfoCachedGet{SeqNo: g.nextSeq(), MaxAge: maxAge, NodeID: id}, 0, 0, frame.NewHID(0x52, 0x04), timeout)
		if err != nil {
			return err
		}
		r, ok := reply.(*frame.NodeInfoCachedReport)
		if !ok {
			return zwerr.New(zwerr.Protocol, "gateway.GetNodeInfo", nil)
		}
		report = r
		return nil
	})
	return report, err
}

// GetMultiChannelEndPoints queries id's endpoint counts directly over its
// sub-connection (MULTI_CHANNEL is an application command class, not a
// NETWORK_MANAGEMENT_PROXY RPC).
func (g *Gateway) GetMultiChannelEndPoints(id byte, timeout time.Duration) (individual, aggregated byte, err error) {
	tr, err := g.ConnectToNode(id)
	if err != nil {
		return 0, 0, err
	}
	reply, err := tr.SendAndWaitForMessage(&frame.MultiChannelEndPointGet{}, 0, 0, frame.NewHID(0x60, 0x08), timeout)
	if err != nil {
		return 0, 0, err
	}
	report, ok := reply.(*frame.MultiChannelEndPointReport)
	if !ok {
		return 0, 0, zwerr.New(zwerr.Protocol, "gateway.GetMultiChannelEndPoints", nil)
	}
	return report.IndividualEndPoints, report.AggregatedEndPoints, nil
}

// GetMultiChannelCapability queries one endpoint's device class and
// command-class set over id's sub-connection.
func (g *Gateway) GetMultiChannelCapability(id, ep byte, timeout time.Duration) (*frame.MultiChannelCapabilityReport, error) {
	tr, err := g.ConnectToNode(id)
	if err != nil {
		return nil, err
	}
	reply, err := tr.SendAndWaitForMessage(&frame.MultiChannelCapabilityGet{EndPoint: ep}, 0, ep, frame.NewHID(0x60, 0x0A), timeout)
	if err != nil {
		return nil, err
	}
	report, ok := reply.(*frame.MultiChannelCapabilityReport)
	if !ok {
		return nil, zwerr.New(zwerr.Protocol, "gateway.GetMultiChannelCapability", nil)
	}
	return report, nil
}

// IPOfNode solicits and returns a node's current IPv6 address, caching it
// for ConnectToNode.
func (g *Gateway) IPOfNode(id byte, timeout time.Duration) (net.IP, error) {
	reply, err := g.tr.SendAndWaitForMessage(&frame.ZipInvNodeSolicitation{NodeID: id}, 0, 0, frame.NewHID(0x58, 0x01), timeout)
	if err != nil {
		return nil, err
	}
	adv, ok := reply.(*frame.ZipNodeAdvertisement)
	if !ok {
		return nil, zwerr.New(zwerr.Protocol, "gateway.IPOfNode", nil)
	}
	ip := net.IP(adv.IPv6[:])
	g.mu.Lock()
	g.nodeAddrs[id] = ip
	g.mu.Unlock()
	return ip, nil
}

// SetGatewayMode reads the gateway's current mode and, if different,
// writes target.
func (g *Gateway) SetGatewayMode(target byte, timeout time.Duration) error {
	reply, err := g.tr.SendAndWaitForMessage(&frame.GatewayModeGet{}, 0, 0, frame.NewHID(0x23, 0x07), timeout)
	if err != nil {
		return err
	}
	report, ok := reply.(*frame.GatewayModeReport)
	if !ok {
		return zwerr.New(zwerr.Protocol, "gateway.SetGatewayMode", nil)
	}
	if report.Mode == target {
		return nil
	}
	return g.tr.Send(&frame.GatewayModeSet{Mode: target}, 0, 0, timeout)
}

// ConnectToNode lazily opens a sub-connection to id's current IPv6 address
// (memoized), reusing the gateway's PSK, and begins treating its inbound
// traffic as a normal message stream dispatched to OnNodeMessage's handler.
func (g *Gateway) ConnectToNode(id byte) (*transport.Transport, error) {
	g.mu.Lock()
	if tr, ok := g.subConns[id]; ok {
		g.mu.Unlock()
		return tr, nil
	}
	addr, ok := g.nodeAddrs[id]
	g.mu.Unlock()
	if !ok {
		return nil, zwerr.New(zwerr.Protocol, "gateway.ConnectToNode: unknown IP for node "+strconv.Itoa(int(id)), nil)
	}

	address := net.JoinHostPort(addr.String(), strconv.Itoa(transport.ControlPort))

	var tr *transport.Transport
	forward := func(b []byte, sender net.Addr) {
		if tr != nil {
			tr.HandleDatagram(b, sender)
		}
	}

	var conn transport.Conn
	var err error
	if len(g.psk) > 0 {
		conn, err = transport.DialDTLS(context.Background(), address, g.psk, g.identity, forward)
	} else {
		conn, err = transport.DialUDP(address, forward)
	}
	if err != nil {
		return nil, err
	}

	tr, err = transport.New(conn, transport.DefaultConfig(), func(msg frame.Message, sourceEP, destEP byte) {
		g.mu.Lock()
		h := g.onNodeMsg
		g.mu.Unlock()
		if h != nil {
			h(id, msg, sourceEP, destEP)
		}
	})
	if err != nil {
		conn.Stop()
		return nil, err
	}

	g.mu.Lock()
	g.subConns[id] = tr
	g.mu.Unlock()
	return tr, nil
}

// SendToNode dispatches cmd to id's sub-connection, opening it if needed.
func (g *Gateway) SendToNode(id byte, cmd frame.Message, sourceEP, destEP byte, timeout time.Duration) error {
	tr, err := g.ConnectToNode(id)
	if err != nil {
		return err
	}
	return tr.Send(cmd, sourceEP, destEP, timeout)
}

// Stop closes the control connection, the unsolicited listener (if open)
// and every per-node sub-connection.
func (g *Gateway) Stop() error {
	var firstErr error
	if err := g.tr.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	g.mu.Lock()
	unsolicited := g.unsolicitedConn
	g.mu.Unlock()
	if unsolicited != nil {
		if err := unsolicited.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.mu.Lock()
	conns := make([]*transport.Transport, 0, len(g.subConns))
	for _, tr := range g.subConns {
		conns = append(conns, tr)
	}
	g.mu.Unlock()
	for _, tr := range conns {
		if err := tr.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
