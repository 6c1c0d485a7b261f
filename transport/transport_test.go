package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gozwave/zwaveip/frame"
)

// loopbackConn is an in-memory Conn that hands every Send/SendTo
// directly to a peer Transport's HandleDatagram, for testing the
// ack/nack state machine without a real socket.
type loopbackConn struct {
	peer *Transport
	addr net.Addr
}

func (c *loopbackConn) Send(b []byte) error {
	c.peer.HandleDatagram(b, c.addr)
	return nil
}
func (c *loopbackConn) SendTo(b []byte, _ net.Addr) error { return c.Send(b) }
func (c *loopbackConn) Stop() error                       { return nil }
func (c *loopbackConn) LocalAddr() net.Addr               { return c.addr }

type fakeAddr string

func (a fakeAddr) Network() string { return "fake" }
func (a fakeAddr) String() string  { return string(a) }

func newLinkedPair(t *testing.T, onA, onB MessageHandler) (*Transport, *Transport) {
	t.Helper()
	ca := &loopbackConn{addr: fakeAddr("a")}
	cb := &loopbackConn{addr: fakeAddr("b")}

	ta, err := New(ca, Config{KeepAliveInterval: 250 * time.Millisecond}, onA)
	require.NoError(t, err)
	tb, err := New(cb, Config{KeepAliveInterval: 250 * time.Millisecond}, onB)
	require.NoError(t, err)

	ca.peer = tb
	cb.peer = ta
	return ta, tb
}

func TestSendReceivesAck(t *testing.T) {
	received := make(chan frame.Message, 1)
	a, b := newLinkedPair(t, nil, func(msg frame.Message, sourceEP, destEP byte) {
		received <- msg
	})
	defer a.Stop()
	defer b.Stop()

	err := a.Send(&frame.NodeListGet{SeqNo: 7}, 0, 0, time.Second)
	require.NoError(t, err)

	select {
	case msg := <-received:
		get, ok := msg.(*frame.NodeListGet)
		require.True(t, ok)
		require.EqualValues(t, 7, get.SeqNo)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message delivery")
	}
}

// deadConn accepts outbound datagrams but never delivers anything back,
// simulating a peer that silently drops the request.
type deadConn struct{}

func (deadConn) Send(b []byte) error               { return nil }
func (deadConn) SendTo(b []byte, _ net.Addr) error  { return nil }
func (deadConn) Stop() error                        { return nil }
func (deadConn) LocalAddr() net.Addr                { return fakeAddr("dead") }

// manualConn records every outbound datagram and lets the test decide
// when (and whether) to feed a reply back into HandleDatagram.
type manualConn struct {
	t    *Transport
	sent chan []byte
}

func (c *manualConn) Send(b []byte) error {
	c.sent <- b
	return nil
}
func (c *manualConn) SendTo(b []byte, _ net.Addr) error { return c.Send(b) }
func (c *manualConn) Stop() error                       { return nil }
func (c *manualConn) LocalAddr() net.Addr               { return fakeAddr("manual") }

// TestNackWaitingExtendsDeadlineThenAcks exercises spec scenario 3: a
// nack-waiting with expectedDelay=1 extends the deadline past the
// original 200ms timeout, and a subsequent ack within that window still
// resolves the send as a success.
func TestNackWaitingExtendsDeadlineThenAcks(t *testing.T) {
	mc := &manualConn{sent: make(chan []byte, 4)}
	tr, err := New(mc, Config{KeepAliveInterval: time.Hour, AckTimeout: 200 * time.Millisecond}, nil)
	require.NoError(t, err)
	defer tr.Stop()

	result := make(chan error, 1)
	go func() {
		result <- tr.Send(&frame.NodeListGet{SeqNo: 1}, 0, 0, 200*time.Millisecond)
	}()

	out := <-mc.sent
	sentMsg, err := frame.Decode(out)
	require.NoError(t, err)
	sentPacket := sentMsg.(*frame.ZipPacket)

	nack := &frame.ZipPacket{
		NackResponse:      true,
		NackWaiting:       true,
		SeqNo:             sentPacket.SeqNo,
		HeaderExtIncluded: true,
		HeaderExtension:   []frame.HeaderExtensionOption{frame.ExpectedDelayOption(1)},
	}
	tr.HandleDatagram(mustCompose(t, nack), fakeAddr("gw"))

	select {
	case err := <-result:
		t.Fatalf("send resolved too early with err=%v; nack-waiting should have extended the deadline", err)
	case <-time.After(250 * time.Millisecond):
	}

	ack := &frame.ZipPacket{AckResponse: true, SeqNo: sentPacket.SeqNo}
	tr.HandleDatagram(mustCompose(t, ack), fakeAddr("gw"))

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("send never resolved after the late ack")
	}
}

func mustCompose(t *testing.T, msg frame.Message) []byte {
	t.Helper()
	b, err := frame.Compose(msg)
	require.NoError(t, err)
	return b
}

func TestSendTimesOutWithoutAck(t *testing.T) {
	ta, err := New(deadConn{}, Config{KeepAliveInterval: time.Hour}, nil)
	require.NoError(t, err)
	defer ta.Stop()

	err = ta.Send(&frame.NodeListGet{SeqNo: 1}, 0, 0, 20*time.Millisecond)
	require.Error(t, err)
}

func TestSendAndWaitForMessage(t *testing.T) {
	a, b := newLinkedPair(t, nil, func(msg frame.Message, sourceEP, destEP byte) {
		if get, ok := msg.(*frame.NodeListGet); ok {
			reply := &frame.NodeListReport{SeqNo: get.SeqNo, NodeListControllerID: 1}
			_ = b.Send(reply, destEP, sourceEP, time.Second)
		}
	})
	defer a.Stop()
	defer b.Stop()

	msg, err := a.SendAndWaitForMessage(&frame.NodeListGet{SeqNo: 4}, 0, 0, frame.NewHID(0x52, 0x02), time.Second)
	require.NoError(t, err)
	report, ok := msg.(*frame.NodeListReport)
	require.True(t, ok)
	require.EqualValues(t, 4, report.SeqNo)
}

func TestAckTableDuplicateSeqNoPanics(t *testing.T) {
	table := NewAckTable()
	table.WaitForAck(1, time.Now().Add(time.Second))
	require.Panics(t, func() {
		table.WaitForAck(1, time.Now().Add(time.Second))
	})
}

func TestAckTableQueuedExtendsDeadline(t *testing.T) {
	table := NewAckTable()
	done := table.WaitForAck(5, time.Now().Add(10*time.Millisecond))
	later := time.Now().Add(time.Hour)
	table.Queued(5, later)
	d, ok := table.Deadline(5)
	require.True(t, ok)
	require.Equal(t, later, d)
	table.Received(5, nil)
	require.NoError(t, <-done)
}
