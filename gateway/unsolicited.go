package gateway

import (
	"context"
	"net"
	"time"

	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/transport"
)

// UnsolicitedPort is the default port the Z/IP Gateway sends unsolicited
// ZIP_PACKETs to once told where to find it via UnsolicitedDestinationSet.
const UnsolicitedPort = 4123

const defaultRPCTimeout = 5 * time.Second

// nodeViewID is the minimal events.NodeView a gateway can hand to a
// listener without importing the node package: it knows an id, nothing else.
type nodeViewID byte

func (n nodeViewID) RootNodeID() byte { return byte(n) }
func (n nodeViewID) EndpointID() byte { return 0 }

// SetupUnsolicitedConnection opens a listening socket on port (0 uses
// UnsolicitedPort), tells the controller where to find it via
// UNSOLICITED_DESTINATION_SET, and begins decoding and dispatching
// whatever arrives on it (§4.8). localIP is advertised to the controller
// as the destination address; the gateway's existing PSK, if any, secures
// the listening socket too.
func (g *Gateway) SetupUnsolicitedConnection(ctx context.Context, localIP net.IP, port int) error {
	if port == 0 {
		port = UnsolicitedPort
	}

	var conn transport.Conn
	var err error
	if len(g.psk) > 0 {
		conn, err = transport.ListenDTLS(ctx, port, g.psk, g.handleUnsolicitedDatagram)
	} else {
		conn, err = transport.ListenUDP(port, g.handleUnsolicitedDatagram)
	}
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.unsolicitedConn = conn
	g.mu.Unlock()

	var addr [16]byte
	if ip16 := localIP.To16(); ip16 != nil {
		copy(addr[:], ip16)
	}
	return g.tr.Send(&frame.UnsolicitedDestinationSet{IPv6: addr, Port: uint16(port)}, 0, 0, defaultRPCTimeout)
}

// handleUnsolicitedDatagram decodes one inbound datagram on the
// unsolicited socket, acks it if requested, and then reconciles the
// node table (an unsolicited NODE_LIST_REPORT), passes NODE_ADD_STATUS /
// NODE_REMOVE_STATUS to ApplicationEvents listeners, or hands any other
// embedded command to TransportEvents listeners addressed to whichever node id
// the sender's IP is currently known to belong to.
func (g *Gateway) handleUnsolicitedDatagram(b []byte, sender net.Addr) {
	g.metrics.unsolicited.Inc()

	msg, err := frame.Decode(b)
	if err != nil {
		g.log.Error("decode unsolicited datagram from %v: %v", sender, err)
		return
	}
	packet, ok := msg.(*frame.ZipPacket)
	if !ok {
		g.log.Warn("unsolicited datagram from %v was not a ZipPacket: %T", sender, msg)
		return
	}

	if packet.AckRequest {
		ack := &frame.ZipPacket{AckResponse: true, SeqNo: packet.SeqNo, SourceEP: packet.DestEP, DestEP: packet.SourceEP}
		if raw, err := frame.Compose(ack); err == nil {
			g.mu.Lock()
			conn := g.unsolicitedConn
			g.mu.Unlock()
			if conn != nil {
				_ = conn.SendTo(raw, sender)
			}
		}
	}

	if packet.Command == nil {
		return
	}

	if report, ok := packet.Command.(*frame.NodeListReport); ok {
		g.mu.Lock()
		g.nodes = report.Nodes
		g.controllerID = report.NodeListControllerID
		g.mu.Unlock()
		g.metrics.nodeCount.Set(float64(len(report.Nodes)))
		g.listeners.Speak(func(listener interface{}) {
			if l, ok := listener.(events.NodeEvents); ok {
				l.NodeListUpdated()
			}
		})
		return
	}

	switch report := packet.Command.(type) {
	case *frame.NodeAddStatus:
		view := nodeViewID(report.NewNodeID)
		g.listeners.Speak(func(listener interface{}) {
			if l, ok := listener.(events.ApplicationEvents); ok {
				l.AddNodeStatus(report.Status, view)
			}
		})
		return
	case *frame.NodeRemoveStatus:
		g.listeners.Speak(func(listener interface{}) {
			if l, ok := listener.(events.ApplicationEvents); ok {
				l.RemoveNodeStatus(report.Status, report.NodeID)
			}
		})
		return
	}

	id := g.nodeIDForAddr(sender)
	view := nodeViewID(id)
	g.listeners.Speak(func(listener interface{}) {
		if l, ok := listener.(events.TransportEvents); ok {
			l.MessageReceived(view, packet.SourceEP, packet.DestEP, packet.Command, packet.HeaderExtension)
		}
	})
}

func (g *Gateway) nodeIDForAddr(addr net.Addr) byte {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		host = addr.String()
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, known := range g.nodeAddrs {
		if known.Equal(ip) {
			return id
		}
	}
	return 0
}
