package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// COMMAND_CLASS_MAILBOX (cmdClass 0x69).
const cmdClassMailbox = 0x69

// Mailbox operating modes, per §4.10.
const (
	MailboxModeDisable                  byte = 0x00
	MailboxModeEnableService            byte = 0x01
	MailboxModeEnableProxyForwarding    byte = 0x02
)

// MailboxConfigurationSet (0x69,0x02) arms the gateway's mailbox proxy,
// telling it where to forward wakeup/queue traffic.
type MailboxConfigurationSet struct {
	Mode    byte
	DestIP  [16]byte
	UDPPort uint16
}

func init() {
	register(NewHID(cmdClassMailbox, 0x02), func() Message { return &MailboxConfigurationSet{} })
}

// Hid returns (0x69, 0x02).
func (m *MailboxConfigurationSet) Hid() HID { return NewHID(cmdClassMailbox, 0x02) }

func (m *MailboxConfigurationSet) compose(w *bitio.Writer) error {
	w.Byte(m.Mode)
	w.WriteBytes(m.DestIP[:])
	ztype.WriteUint16(w, m.UDPPort)
	return nil
}

func (m *MailboxConfigurationSet) parse(r *bitio.Reader) error {
	var err error
	if m.Mode, err = r.Byte(); err != nil {
		return err
	}
	ip, err := r.Bytes(16)
	if err != nil {
		return err
	}
	copy(m.DestIP[:], ip)
	m.UDPPort, err = ztype.ReadUint16(r)
	return err
}

// MailboxConfigurationGet (0x69,0x01) requests the current mailbox
// configuration.
type MailboxConfigurationGet struct{}

func init() {
	register(NewHID(cmdClassMailbox, 0x01), func() Message { return &MailboxConfigurationGet{} })
}

// Hid returns (0x69, 0x01).
func (m *MailboxConfigurationGet) Hid() HID                      { return NewHID(cmdClassMailbox, 0x01) }
func (m *MailboxConfigurationGet) compose(w *bitio.Writer) error { return nil }
func (m *MailboxConfigurationGet) parse(r *bitio.Reader) error   { return nil }

// MailboxConfigurationReport (0x69,0x03) answers MailboxConfigurationGet/Set.
type MailboxConfigurationReport struct {
	SupportedModes byte
	Mode           byte
	DestIP         [16]byte
	UDPPort        uint16
	QueueFullCount byte
	QueueNodesCapacity byte
}

func init() {
	register(NewHID(cmdClassMailbox, 0x03), func() Message { return &MailboxConfigurationReport{} })
}

// Hid returns (0x69, 0x03).
func (m *MailboxConfigurationReport) Hid() HID { return NewHID(cmdClassMailbox, 0x03) }

func (m *MailboxConfigurationReport) compose(w *bitio.Writer) error {
	w.Byte(m.SupportedModes)
	w.Byte(m.Mode)
	w.WriteBytes(m.DestIP[:])
	ztype.WriteUint16(w, m.UDPPort)
	w.Byte(m.QueueFullCount)
	w.Byte(m.QueueNodesCapacity)
	return nil
}

func (m *MailboxConfigurationReport) parse(r *bitio.Reader) error {
	var err error
	if m.SupportedModes, err = r.Byte(); err != nil {
		return err
	}
	if m.Mode, err = r.Byte(); err != nil {
		return err
	}
	ip, err := r.Bytes(16)
	if err != nil {
		return err
	}
	copy(m.DestIP[:], ip)
	if m.UDPPort, err = ztype.ReadUint16(r); err != nil {
		return err
	}
	if m.QueueFullCount, err = r.Byte(); err != nil {
		return err
	}
	m.QueueNodesCapacity, err = r.Byte()
	return err
}

// Mailbox queue operations, per §4.10.
const (
	MailboxQueueOpWaiting byte = 0x00
	MailboxQueueOpPing    byte = 0x01
	MailboxQueueOpAck     byte = 0x02
	MailboxQueueOpPush    byte = 0x03
	MailboxQueueOpPop     byte = 0x04
)

// MailboxQueue (0x69,0x04) carries every queue lifecycle event: the
// gateway's WAITING/PING heartbeat, the node's ACK/PUSH, and the proxy's
// POP delivery.
type MailboxQueue struct {
	Operation     byte
	Last          bool
	QueueHandle   byte
	MailboxEntry  []byte
}

func init() { register(NewHID(cmdClassMailbox, 0x04), func() Message { return &MailboxQueue{} }) }

// Hid returns (0x69, 0x04).
func (m *MailboxQueue) Hid() HID { return NewHID(cmdClassMailbox, 0x04) }

func (m *MailboxQueue) compose(w *bitio.Writer) error {
	w.Bits(m.Operation, 3)
	w.Bit(m.Last)
	w.Bits(0, 4)
	w.Byte(m.QueueHandle)
	w.WriteBytes(m.MailboxEntry)
	return nil
}

func (m *MailboxQueue) parse(r *bitio.Reader) error {
	var err error
	if m.Operation, err = r.Bits(3); err != nil {
		return err
	}
	if m.Last, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 4); err != nil {
		return err
	}
	if m.QueueHandle, err = r.Byte(); err != nil {
		return err
	}
	m.MailboxEntry, err = ztype.ReadBytesToEnd(r)
	return err
}

// MailboxNodeFailing (0x69,0x05) reports that mailbox delivery to a node
// is failing.
//
// queueHandle is specified as a single byte, but some gateways (observed
// on zipgateway 7.11.01) send a 16-byte structure instead. parse detects
// the 16-byte form and takes its last byte; this quirk is preserved
// verbatim rather than "fixed" (§9 design notes).
type MailboxNodeFailing struct {
	QueueHandle byte
}

func init() {
	register(NewHID(cmdClassMailbox, 0x05), func() Message { return &MailboxNodeFailing{} })
}

// Hid returns (0x69, 0x05).
func (m *MailboxNodeFailing) Hid() HID { return NewHID(cmdClassMailbox, 0x05) }

func (m *MailboxNodeFailing) compose(w *bitio.Writer) error {
	w.Byte(m.QueueHandle)
	return nil
}

func (m *MailboxNodeFailing) parse(r *bitio.Reader) error {
	tail, err := ztype.ReadBytesToEnd(r)
	if err != nil {
		return err
	}
	switch len(tail) {
	case 16:
		m.QueueHandle = tail[15]
	case 1:
		m.QueueHandle = tail[0]
	default:
		if len(tail) > 0 {
			m.QueueHandle = tail[len(tail)-1]
		}
	}
	return nil
}
