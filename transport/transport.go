package transport

import (
	"net"
	"sync"
	"time"

	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/zwerr"
)

// MessageHandler is invoked for every inbound embedded command-class
// message that isn't claimed by a registered MessageWaiter. sourceEP and
// destEP are the ZipPacket's endpoint addressing.
type MessageHandler func(msg frame.Message, sourceEP, destEP byte)

// Transport is one Z/IP link over a single Conn (§4.6/§4.7): it owns the
// outbound seqNo sequence, the keep-alive timer, the ack table and the
// message waiter, and turns a bare datagram socket into
// Send/SendAndWaitForMessage/WaitForMessage.
type Transport struct {
	conn   Conn
	config Config
	log    clog.Clog

	seqMu sync.Mutex
	seqNo byte

	acks    *AckTable
	waiters *MessageWaiter
	onMsg   MessageHandler

	keepAlive *time.Timer
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// New wraps conn in a Transport using cfg (zero value uses DefaultConfig
// via Valid). Inbound command-class messages not consumed by
// WaitForMessage are handed to onMsg.
func New(conn Conn, cfg Config, onMsg MessageHandler) (*Transport, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	t := &Transport{
		conn:    conn,
		config:  cfg,
		log:     clog.NewLogger("transport"),
		acks:    NewAckTable(),
		waiters: NewMessageWaiter(),
		onMsg:   onMsg,
		stopCh:  make(chan struct{}),
	}
	t.keepAlive = time.AfterFunc(cfg.KeepAliveInterval, t.sendKeepAlive)
	return t, nil
}

// HandleDatagram decodes b as a ZipPacket or ZipKeepAlive and routes it;
// it is the callback a Conn should be constructed with.
func (t *Transport) HandleDatagram(b []byte, sender net.Addr) {
	msg, err := frame.Decode(b)
	if err != nil {
		t.log.Error("decode inbound datagram from %v: %v", sender, err)
		return
	}
	switch m := msg.(type) {
	case *frame.ZipPacket:
		t.handleZipPacket(m, sender)
	case *frame.ZipKeepAlive:
		t.handleKeepAlive(m, sender)
	default:
		t.log.Warn("unexpected top-level frame from %v: %T", sender, msg)
	}
}

func (t *Transport) handleKeepAlive(k *frame.ZipKeepAlive, sender net.Addr) {
	if k.AckRequest {
		reply := &frame.ZipKeepAlive{AckResponse: true}
		t.sendRaw(reply, sender)
	}
}

func (t *Transport) sendKeepAlive() {
	select {
	case <-t.stopCh:
		return
	default:
	}
	t.sendRaw(&frame.ZipKeepAlive{AckRequest: true}, nil)
	t.keepAlive.Reset(t.config.KeepAliveInterval)
}

func (t *Transport) handleZipPacket(p *frame.ZipPacket, sender net.Addr) {
	switch {
	case p.AckResponse:
		t.acks.Received(p.SeqNo, nil)
		return
	case p.NackResponse:
		if p.NackWaiting {
			delay := DefaultNackWaitingDelay
			if seconds, ok := p.ExpectedDelay(); ok && seconds >= 0 {
				delay = time.Duration(seconds)*time.Second + NackWaitingExtension
			}
			t.acks.Queued(p.SeqNo, time.Now().Add(delay))
			return
		}
		t.acks.Received(p.SeqNo, zwerr.New(zwerr.Protocol, "transport.Send", nil))
		return
	}

	if p.AckRequest {
		ack := &frame.ZipPacket{AckResponse: true, SeqNo: p.SeqNo, SourceEP: p.DestEP, DestEP: p.SourceEP}
		t.sendRaw(ack, sender)
	}

	if p.Command == nil {
		return
	}
	if t.waiters.MessageReceived(p.Command, p.SourceEP) {
		return
	}
	if t.onMsg != nil {
		t.onMsg(p.Command, p.SourceEP, p.DestEP)
	} else {
		t.log.Debug("unhandled inbound command %T from endpoint %d", p.Command, p.SourceEP)
	}
}

// nextSeqNo returns the next value in the monotonic 8-bit sequence used
// to correlate ZipPacket acks (§4.6: seqNo wraps mod 256).
func (t *Transport) nextSeqNo() byte {
	t.seqMu.Lock()
	defer t.seqMu.Unlock()
	t.seqNo++
	return t.seqNo
}

// Send composes cmd into a ZipPacket(ackRequest) addressed from
// sourceEP to destEP, transmits it and blocks until an ackResponse
// arrives, a nackResponse definitively fails it, or timeout elapses. A
// nackResponse(nackWaiting) extends the deadline per §4.6 rather than
// failing immediately; the caller only sees zwerr.Timeout if the
// extended deadline itself expires.
func (t *Transport) Send(cmd frame.Message, sourceEP, destEP byte, timeout time.Duration) error {
	seqNo := t.nextSeqNo()
	packet := &frame.ZipPacket{
		AckRequest: true,
		SourceEP:   sourceEP,
		DestEP:     destEP,
		SeqNo:      seqNo,
		Command:    cmd,
	}

	deadline := time.Now().Add(timeout)
	done := t.acks.WaitForAck(seqNo, deadline)
	defer t.acks.Cancel(seqNo)

	if err := t.sendRaw(packet, nil); err != nil {
		return zwerr.New(zwerr.Transport, "transport.Send", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case err := <-done:
			return err
		case <-timer.C:
			if d, ok := t.acks.Deadline(seqNo); ok && d.After(time.Now()) {
				timer.Reset(time.Until(d))
				continue
			}
			return timeoutError("transport.Send")
		}
	}
}

// WaitForMessage registers interest in the next inbound message with hid
// from sourceEP and blocks until it arrives or timeout elapses. Register
// before sending the request that provokes the reply.
func (t *Transport) WaitForMessage(hid frame.HID, sourceEP byte, timeout time.Duration) (frame.Message, error) {
	ch := t.waiters.AddWaitingSession(hid, sourceEP)
	select {
	case msg := <-ch:
		return msg, nil
	case <-time.After(timeout):
		t.waiters.Cancel(hid, sourceEP)
		return nil, timeoutError("transport.WaitForMessage")
	}
}

// SendAndWaitForMessage sends cmd and waits for the next message with
// replyHid from the same endpoint, combining Send's delivery guarantee
// with WaitForMessage's reply correlation (§4.9).
func (t *Transport) SendAndWaitForMessage(cmd frame.Message, sourceEP, destEP byte, replyHid frame.HID, timeout time.Duration) (frame.Message, error) {
	ch := t.waiters.AddWaitingSession(replyHid, sourceEP)
	if err := t.Send(cmd, sourceEP, destEP, timeout); err != nil {
		t.waiters.Cancel(replyHid, sourceEP)
		return nil, err
	}
	select {
	case msg := <-ch:
		return msg, nil
	case <-time.After(timeout):
		t.waiters.Cancel(replyHid, sourceEP)
		return nil, timeoutError("transport.SendAndWaitForMessage")
	}
}

func (t *Transport) sendRaw(msg frame.Message, sender net.Addr) error {
	b, err := frame.Compose(msg)
	if err != nil {
		return err
	}
	t.keepAlive.Reset(t.config.KeepAliveInterval)
	if sender != nil {
		return t.conn.SendTo(b, sender)
	}
	return t.conn.Send(b)
}

// Stop halts the keep-alive timer and closes the underlying connection.
func (t *Transport) Stop() error {
	var err error
	t.stopOnce.Do(func() {
		close(t.stopCh)
		t.keepAlive.Stop()
		err = t.conn.Stop()
	})
	return err
}
