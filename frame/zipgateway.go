package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// UnsolicitedDestinationSet (cmdClass 0x23, cmd 0x04) tells the gateway
// where to forward unsolicited traffic (§4.8 setupUnsolicitedConnection).
//
// This command and GatewayMode* below live outside the public Silicon
// Labs command-class catalog (they configure the Z/IP Gateway process
// itself, not a Z-Wave node); their exact wire ids are a zipgateway
// implementation detail this build was not given byte-exact source for,
// so the ids here are an internally-consistent placement within the Z/IP
// command class (0x23) rather than a verified wire capture.
type UnsolicitedDestinationSet struct {
	IPv6 [16]byte
	Port uint16
}

func init() {
	register(NewHID(0x23, 0x04), func() Message { return &UnsolicitedDestinationSet{} })
}

// Hid returns (0x23, 0x04).
func (m *UnsolicitedDestinationSet) Hid() HID { return NewHID(0x23, 0x04) }

func (m *UnsolicitedDestinationSet) compose(w *bitio.Writer) error {
	w.WriteBytes(m.IPv6[:])
	ztype.WriteUint16(w, m.Port)
	return nil
}

func (m *UnsolicitedDestinationSet) parse(r *bitio.Reader) error {
	ip, err := r.Bytes(16)
	if err != nil {
		return err
	}
	copy(m.IPv6[:], ip)
	m.Port, err = ztype.ReadUint16(r)
	return err
}

// Gateway operating modes (setGatewayMode §4.8).
const (
	GatewayModeStandalone byte = 0x00
	GatewayModePortal     byte = 0x01
)

// GatewayModeGet (cmdClass 0x23, cmd 0x05) requests the gateway's current
// operating mode.
type GatewayModeGet struct{}

func init() { register(NewHID(0x23, 0x05), func() Message { return &GatewayModeGet{} }) }

// Hid returns (0x23, 0x05).
func (m *GatewayModeGet) Hid() HID                      { return NewHID(0x23, 0x05) }
func (m *GatewayModeGet) compose(w *bitio.Writer) error { return nil }
func (m *GatewayModeGet) parse(r *bitio.Reader) error   { return nil }

// GatewayModeSet (cmdClass 0x23, cmd 0x06) switches the gateway's
// operating mode.
type GatewayModeSet struct {
	Mode byte
}

func init() { register(NewHID(0x23, 0x06), func() Message { return &GatewayModeSet{} }) }

// Hid returns (0x23, 0x06).
func (m *GatewayModeSet) Hid() HID { return NewHID(0x23, 0x06) }

func (m *GatewayModeSet) compose(w *bitio.Writer) error { w.Byte(m.Mode); return nil }

func (m *GatewayModeSet) parse(r *bitio.Reader) error {
	var err error
	m.Mode, err = r.Byte()
	return err
}

// GatewayModeReport (cmdClass 0x23, cmd 0x07) answers GatewayModeGet/Set.
type GatewayModeReport struct {
	Mode byte
}

func init() { register(NewHID(0x23, 0x07), func() Message { return &GatewayModeReport{} }) }

// Hid returns (0x23, 0x07).
func (m *GatewayModeReport) Hid() HID { return NewHID(0x23, 0x07) }

func (m *GatewayModeReport) compose(w *bitio.Writer) error { w.Byte(m.Mode); return nil }

func (m *GatewayModeReport) parse(r *bitio.Reader) error {
	var err error
	m.Mode, err = r.Byte()
	return err
}
