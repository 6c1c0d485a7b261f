package app

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/gateway"
	"github.com/gozwave/zwaveip/node"
	"github.com/gozwave/zwaveip/transport"
)

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

func newTestGateway(t *testing.T, respond func(msg frame.Message) frame.Message) *gateway.Gateway {
	t.Helper()
	conn := &loopbackConn{respond: respond}
	tr, err := transport.New(conn, transport.DefaultConfig(), nil)
	require.NoError(t, err)
	conn.cb = tr.HandleDatagram
	return gateway.New(tr, nil, nil, nil)
}

type fakeSender struct{}

func (fakeSender) Send(cmd frame.Message, sourceEP, destEP byte, timeout time.Duration) error {
	return nil
}
func (fakeSender) SendAndWaitForMessage(cmd frame.Message, sourceEP, destEP byte, replyHid frame.HID, timeout time.Duration) (frame.Message, error) {
	return nil, errTestNoReply
}

type testNoReplyErr struct{}

func (testNoReplyErr) Error() string { return "fakeSender: no reply registered" }

var errTestNoReply = testNoReplyErr{}

type recordingListener struct {
	removed      []byte
	batchRemoved [][]byte
}

func (r *recordingListener) NodeAdded(events.NodeView)              {}
func (r *recordingListener) NodesAdded([]events.NodeView)           {}
func (r *recordingListener) NodeRemoved(nodeID byte)                { r.removed = append(r.removed, nodeID) }
func (r *recordingListener) NodesRemoved(nodeIDs []byte)            { r.batchRemoved = append(r.batchRemoved, nodeIDs) }
func (r *recordingListener) NodeUpdated(events.NodeView)            {}
func (r *recordingListener) NodeListUpdated()                       {}
func (r *recordingListener) CommandClassUpdated(events.NodeView, byte) {}

func TestRemoveNodeStatusDoneWithNodeZeroEmitsNodeRemoved(t *testing.T) {
	gw := newTestGateway(t, nil)
	a := New(gw)

	listener := &recordingListener{}
	a.Listeners().Register(listener)

	watcher := &gatewayWatcher{app: a}
	watcher.RemoveNodeStatus(frame.AddNodeStatusDone, 0)

	require.Equal(t, []byte{0}, listener.removed)
	require.Equal(t, [][]byte{{0}}, listener.batchRemoved)
}

func TestRemoveNodeStatusIgnoresNonZeroNode(t *testing.T) {
	gw := newTestGateway(t, nil)
	a := New(gw)

	listener := &recordingListener{}
	a.Listeners().Register(listener)

	watcher := &gatewayWatcher{app: a}
	watcher.RemoveNodeStatus(frame.AddNodeStatusDone, 9)

	require.Empty(t, listener.removed)
}

func TestReconcileRemovesNodesAbsentFromNewList(t *testing.T) {
	gw := newTestGateway(t, func(msg frame.Message) frame.Message {
		if _, ok := msg.(*frame.NodeListGet); ok {
			return &frame.NodeListReport{NodeListControllerID: 1, Nodes: map[byte]bool{}}
		}
		return nil
	})
	a := New(gw)

	a.nodes[5] = node.New(5, fakeSender{}, true, false, 0, 0, 0, nil)

	listener := &recordingListener{}
	a.Listeners().Register(listener)

	a.reconcile()

	require.Equal(t, []byte{5}, listener.removed)
	require.Equal(t, [][]byte{{5}}, listener.batchRemoved)
	_, stillPresent := a.Node(5)
	require.False(t, stillPresent)
}
