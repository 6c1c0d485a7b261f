// Package transport implements the datagram connection (C5), the Z/IP
// transport's send/receive state machine (C6) and the ack/message
// request correlator (C7). It turns a raw UDP or DTLS-PSK socket into a
// sequenced channel for Z/IP Packets. Each Send takes its own seqNo and
// ack-table entry; Send does not serialize callers, so several packets can
// be awaiting their acks at once.
package transport

import (
	"context"
	"net"

	"github.com/pion/dtls/v2"

	"github.com/gozwave/zwaveip/clog"
)

// Conn is the datagram connection contract both the plain-UDP and
// DTLS-PSK modes satisfy. Both server-mode (Listen) and client-mode
// (Dial) Conns deliver each inbound datagram to their callback together
// with its sender.
type Conn interface {
	// Send writes b to the dialed peer of a client-mode Conn. SendTo does
	// not set a default peer, so a server-mode UDP Conn's Send returns an
	// error.
	Send(b []byte) error
	// SendTo writes b to a specific remote address; used by server-mode
	// connections answering a particular sender.
	SendTo(b []byte, addr net.Addr) error
	// Stop closes the underlying socket and stops delivery.
	Stop() error
	LocalAddr() net.Addr
}

// Callback receives one inbound datagram and its sender.
type Callback func(b []byte, sender net.Addr)

// constantPSK resolves the PSK for a DTLS handshake; it ignores the hint
// (zipgateway servers don't require hint-based key selection).
func constantPSK(psk []byte) dtls.PSKCallback {
	return func([]byte) ([]byte, error) { return psk, nil }
}

// udpConn is the plain-UDP Conn implementation.
type udpConn struct {
	pc       net.PacketConn
	peer     net.Addr // fixed peer for client mode; nil for server mode
	cb       Callback
	log      clog.Clog
	stopCh   chan struct{}
}

// DialUDP opens a client-mode plain-UDP connection to address and
// delivers inbound datagrams to cb.
func DialUDP(address string, cb Callback) (Conn, error) {
	peer, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, err
	}
	pc, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, err
	}
	c := &udpConn{pc: pc, peer: peer, cb: cb, log: clog.NewLogger("transport.udp"), stopCh: make(chan struct{})}
	go c.readLoop()
	return c, nil
}

// ListenUDP opens a server-mode plain-UDP socket on port and delivers
// inbound datagrams (with their sender) to cb.
func ListenUDP(port int, cb Callback) (Conn, error) {
	pc, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, err
	}
	c := &udpConn{pc: pc, cb: cb, log: clog.NewLogger("transport.udp"), stopCh: make(chan struct{})}
	go c.readLoop()
	return c, nil
}

func (c *udpConn) readLoop() {
	buf := make([]byte, 2048)
	for {
		n, addr, err := c.pc.ReadFrom(buf)
		if err != nil {
			select {
			case <-c.stopCh:
				return
			default:
				c.log.Error("udp read: %v", err)
				return
			}
		}
		out := make([]byte, n)
		copy(out, buf[:n])
		if c.cb != nil {
			c.cb(out, addr)
		}
	}
}

func (c *udpConn) Send(b []byte) error {
	if c.peer == nil {
		return errNoDefaultPeer
	}
	return c.SendTo(b, c.peer)
}

func (c *udpConn) SendTo(b []byte, addr net.Addr) error {
	_, err := c.pc.WriteTo(b, addr)
	return err
}

func (c *udpConn) Stop() error {
	close(c.stopCh)
	return c.pc.Close()
}

func (c *udpConn) LocalAddr() net.Addr { return c.pc.LocalAddr() }

var errNoDefaultPeer = &connError{"transport: SendTo required, no default peer on a server connection"}

type connError struct{ s string }

func (e *connError) Error() string { return e.s }

// dtlsConn wraps a pion/dtls/v2 PSK connection behind the same Conn
// contract. DTLS is optional per §4.5: if the caller never supplies a
// PSK, DialUDP/ListenUDP are used instead and plain UDP keeps working.
type dtlsConn struct {
	conn *dtls.Conn
	log  clog.Clog
	stop chan struct{}
}

// DialDTLS opens a client-mode DTLS-PSK connection to address (the Z/IP
// Gateway's control port, 4123 by default).
func DialDTLS(ctx context.Context, address string, psk []byte, identity []byte, cb Callback) (Conn, error) {
	raddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, err
	}
	udpConn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	cfg := &dtls.Config{
		PSK:                  constantPSK(psk),
		PSKIdentityHint:      identity,
		CipherSuites:         []dtls.CipherSuiteID{dtls.TLS_PSK_WITH_AES_128_CCM_8},
		ConnectContextMaker:  func() (context.Context, func()) { return context.WithCancel(ctx) },
	}
	dc, err := dtls.ClientWithContext(ctx, udpConn, cfg)
	if err != nil {
		return nil, err
	}
	c := &dtlsConn{conn: dc, log: clog.NewLogger("transport.dtls"), stop: make(chan struct{})}
	go c.readLoop(cb)
	return c, nil
}

// ListenDTLS opens a server-mode DTLS-PSK listener on port (the
// controller's unsolicited-destination port).
func ListenDTLS(ctx context.Context, port int, psk []byte, cb Callback) (Conn, error) {
	pc, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, err
	}
	cfg := &dtls.Config{
		PSK:          constantPSK(psk),
		CipherSuites: []dtls.CipherSuiteID{dtls.TLS_PSK_WITH_AES_128_CCM_8},
	}
	listener, err := dtls.NewListener(pc, cfg)
	if err != nil {
		return nil, err
	}
	c := &dtlsConn{log: clog.NewLogger("transport.dtls"), stop: make(chan struct{})}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			dc, ok := conn.(*dtls.Conn)
			if !ok {
				continue
			}
			peer := &dtlsConn{conn: dc, log: c.log, stop: c.stop}
			go peer.readLoop(cb)
		}
	}()
	return c, nil
}

func (c *dtlsConn) readLoop(cb Callback) {
	buf := make([]byte, 2048)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			select {
			case <-c.stop:
				return
			default:
				c.log.Error("dtls read: %v", err)
				return
			}
		}
		out := make([]byte, n)
		copy(out, buf[:n])
		if cb != nil {
			cb(out, c.conn.RemoteAddr())
		}
	}
}

func (c *dtlsConn) Send(b []byte) error { _, err := c.conn.Write(b); return err }

func (c *dtlsConn) SendTo(b []byte, _ net.Addr) error { return c.Send(b) }

func (c *dtlsConn) Stop() error {
	close(c.stop)
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *dtlsConn) LocalAddr() net.Addr {
	if c.conn == nil {
		return nil
	}
	return c.conn.LocalAddr()
}
