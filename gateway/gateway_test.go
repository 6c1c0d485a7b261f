package gateway

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/transport"
)

// loopbackConn is a transport.Conn whose Send loops the composed bytes
// straight back through a reply built by a test-supplied responder,
// letting gateway RPC tests exercise the real Send/SendAndWaitForMessage
// path without a network.
type loopbackConn struct {
	respond func(msg frame.Message) frame.Message
	cb      transport.Callback
}

func (c *loopbackConn) Send(b []byte) error {
	msg, err := frame.Decode(b)
	if err != nil {
		return err
	}
	packet, ok := msg.(*frame.ZipPacket)
	if !ok {
		return nil
	}
	go func() {
		ack := &frame.ZipPacket{AckResponse: true, SeqNo: packet.SeqNo}
		raw, _ := frame.Compose(ack)
		c.cb(raw, nil)

		if packet.Command == nil || c.respond == nil {
			return
		}
		reply := c.respond(packet.Command)
		if reply == nil {
			return
		}
		replyPacket := &frame.ZipPacket{SourceEP: packet.DestEP, DestEP: packet.SourceEP, Command: reply}
		raw, _ = frame.Compose(replyPacket)
		c.cb(raw, nil)
	}()
	return nil
}

func (c *loopbackConn) SendTo(b []byte, _ net.Addr) error { return c.Send(b) }
func (c *loopbackConn) Stop() error                       { return nil }
func (c *loopbackConn) LocalAddr() net.Addr               { return nil }

func newTestGateway(t *testing.T, respond func(msg frame.Message) frame.Message) *Gateway {
	t.Helper()
	conn := &loopbackConn{respond: respond}
	tr, err := transport.New(conn, transport.DefaultConfig(), nil)
	require.NoError(t, err)
	conn.cb = tr.HandleDatagram
	return New(tr, nil, nil, nil)
}

func TestGetNodeListCachesResult(t *testing.T) {
	g := newTestGateway(t, func(msg frame.Message) frame.Message {
		if _, ok := msg.(*frame.NodeListGet); !ok {
			return nil
		}
		return &frame.NodeListReport{NodeListControllerID: 1, Nodes: map[byte]bool{1: true, 2: true}}
	})

	nodes, err := g.GetNodeList(time.Second)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	require.Equal(t, byte(1), g.ControllerID())
}

func TestGetFailedNodeListCachesResult(t *testing.T) {
	g := newTestGateway(t, func(msg frame.Message) frame.Message {
		if _, ok := msg.(*frame.FailedNodeListGet); !ok {
			return nil
		}
		return &frame.FailedNodeListReport{Nodes: map[byte]bool{9: true}}
	})

	nodes, err := g.GetFailedNodeList(time.Second)
	require.NoError(t, err)
	require.Contains(t, nodes, byte(9))
}

func TestSetGatewayModeSkipsSendWhenAlreadyTarget(t *testing.T) {
	sets := 0
	g := newTestGateway(t, func(msg frame.Message) frame.Message {
		switch msg.(type) {
		case *frame.GatewayModeGet:
			return &frame.GatewayModeReport{Mode: frame.GatewayModeStandalone}
		case *frame.GatewayModeSet:
			sets++
		}
		return nil
	})

	err := g.SetGatewayMode(frame.GatewayModeStandalone, time.Second)
	require.NoError(t, err)
	require.Equal(t, 0, sets)
}

func TestNodeIDForAddrLooksUpCachedIP(t *testing.T) {
	g := newTestGateway(t, nil)
	g.nodeAddrs[5] = net.ParseIP("fd00::5")

	addr := &net.UDPAddr{IP: net.ParseIP("fd00::5"), Port: 4123}
	require.Equal(t, byte(5), g.nodeIDForAddr(addr))

	other := &net.UDPAddr{IP: net.ParseIP("fd00::9"), Port: 4123}
	require.Equal(t, byte(0), g.nodeIDForAddr(other))
}
