package frame

import (
	"fmt"

	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// Header extension option types (Z/IP Packet headerExtension TLVs).
const (
	HeaderExtExpectedDelay        byte = 1
	HeaderExtMaintenanceGet       byte = 2
	HeaderExtMaintenanceReport    byte = 3
	HeaderExtEncapsulationFormat  byte = 4
	HeaderExtMulticastAddressing  byte = 5
)

// HeaderExtensionOption is one TLV in a Z/IP Packet's headerExtension.
type HeaderExtensionOption struct {
	Critical   bool
	OptionType byte
	Value      []byte
}

func (o HeaderExtensionOption) wireLen() int { return 1 + 1 + len(o.Value) }

func (o HeaderExtensionOption) write(w *bitio.Writer) {
	w.Bit(o.Critical)
	w.Bits(o.OptionType, 7)
	w.Byte(byte(len(o.Value)))
	w.WriteBytes(o.Value)
}

func readHeaderExtensionOption(r *bitio.Reader) (HeaderExtensionOption, error) {
	var o HeaderExtensionOption
	critical, err := r.Bit()
	if err != nil {
		return o, err
	}
	optType, err := r.Bits(7)
	if err != nil {
		return o, err
	}
	length, err := r.Byte()
	if err != nil {
		return o, err
	}
	value, err := r.Bytes(int(length))
	if err != nil {
		return o, err
	}
	o.Critical, o.OptionType, o.Value = critical, optType, value
	return o, nil
}

// ExpectedDelayOption builds the ExpectedDelay TLV (int24 seconds until a
// sleeping node is expected to wake).
func ExpectedDelayOption(seconds int32) HeaderExtensionOption {
	return HeaderExtensionOption{
		OptionType: HeaderExtExpectedDelay,
		Value:      []byte{byte(seconds >> 16), byte(seconds >> 8), byte(seconds)},
	}
}

// ExpectedDelay returns the value of this packet's ExpectedDelay header
// extension option, if present.
func (p *ZipPacket) ExpectedDelay() (int32, bool) {
	for _, o := range p.HeaderExtension {
		if o.OptionType == HeaderExtExpectedDelay && len(o.Value) == 3 {
			r := bitio.NewReader(o.Value)
			v, err := ztype.ReadInt24(r)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

// ZipPacket is the Z/IP envelope (cmdClass 0x23, cmd 0x02) carrying ack/nack
// handshaking, sequence numbers, endpoint addressing and an optional
// embedded command-class message.
type ZipPacket struct {
	AckRequest      bool
	AckResponse     bool
	NackResponse    bool
	NackWaiting     bool
	NackQueueFull   bool
	NackOptionError bool

	HeaderExtIncluded bool
	ZWCmdIncluded     bool
	MoreInformation   bool
	SecureOrigin      bool

	SeqNo    byte
	SourceEP byte
	DestEP   byte

	HeaderExtension []HeaderExtensionOption
	Command         Message
}

func init() {
	register(NewHID(0x23, 0x02), func() Message { return &ZipPacket{} })
}

// Hid returns (0x23, 0x02).
func (p *ZipPacket) Hid() HID { return NewHID(0x23, 0x02) }

func (p *ZipPacket) compose(w *bitio.Writer) error {
	w.Bit(p.AckRequest)
	w.Bit(p.AckResponse)
	w.Bit(p.NackResponse)
	w.Bit(p.NackWaiting)
	w.Bit(p.NackQueueFull)
	w.Bit(p.NackOptionError)
	w.Bits(0, 2)

	headerExtIncluded := p.HeaderExtIncluded || len(p.HeaderExtension) > 0
	zwCmdIncluded := p.ZWCmdIncluded || p.Command != nil
	w.Bit(headerExtIncluded)
	w.Bit(zwCmdIncluded)
	w.Bit(p.MoreInformation)
	w.Bit(p.SecureOrigin)
	w.Bits(0, 4)

	w.Byte(p.SeqNo)
	w.Bits(0, 1)
	w.Bits(p.SourceEP, 7)
	w.Bits(0, 1)
	w.Bits(p.DestEP, 7)

	if headerExtIncluded {
		total := 1
		for _, o := range p.HeaderExtension {
			total += o.wireLen()
		}
		if total > 255 {
			return fmt.Errorf("frame: ZipPacket: headerExtension too long (%d bytes)", total)
		}
		w.Byte(byte(total))
		for _, o := range p.HeaderExtension {
			o.write(w)
		}
	}
	if zwCmdIncluded {
		if p.Command == nil {
			return &ErrMissingField{Frame: "ZipPacket", Field: "command"}
		}
		cmd, err := Compose(p.Command)
		if err != nil {
			return err
		}
		w.WriteBytes(cmd)
	}
	return nil
}

func (p *ZipPacket) parse(r *bitio.Reader) error {
	var err error
	if p.AckRequest, err = r.Bit(); err != nil {
		return err
	}
	if p.AckResponse, err = r.Bit(); err != nil {
		return err
	}
	if p.NackResponse, err = r.Bit(); err != nil {
		return err
	}
	if p.NackWaiting, err = r.Bit(); err != nil {
		return err
	}
	if p.NackQueueFull, err = r.Bit(); err != nil {
		return err
	}
	if p.NackOptionError, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 2); err != nil {
		return err
	}

	if p.HeaderExtIncluded, err = r.Bit(); err != nil {
		return err
	}
	if p.ZWCmdIncluded, err = r.Bit(); err != nil {
		return err
	}
	if p.MoreInformation, err = r.Bit(); err != nil {
		return err
	}
	if p.SecureOrigin, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 4); err != nil {
		return err
	}

	if p.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 1); err != nil {
		return err
	}
	if p.SourceEP, err = r.Bits(7); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 1); err != nil {
		return err
	}
	if p.DestEP, err = r.Bits(7); err != nil {
		return err
	}

	if p.HeaderExtIncluded {
		extLen, err := r.Byte()
		if err != nil {
			return err
		}
		remaining := int(extLen) - 1
		p.HeaderExtension = nil
		for remaining > 0 {
			before := r.Len()
			o, err := readHeaderExtensionOption(r)
			if err != nil {
				return err
			}
			p.HeaderExtension = append(p.HeaderExtension, o)
			remaining -= (before - r.Len()) / 8
		}
	}
	if p.ZWCmdIncluded {
		tail, err := r.Remaining()
		if err != nil {
			return err
		}
		p.Command, err = Decode(tail)
		if err != nil {
			return err
		}
	}
	return nil
}

// ZipKeepAlive (cmdClass 0x23, cmd 0x03) is the Z/IP transport's idle-link
// probe: an ackRequest must be answered with an ackResponse.
type ZipKeepAlive struct {
	AckRequest  bool
	AckResponse bool
}

func init() {
	register(NewHID(0x23, 0x03), func() Message { return &ZipKeepAlive{} })
}

// Hid returns (0x23, 0x03).
func (k *ZipKeepAlive) Hid() HID { return NewHID(0x23, 0x03) }

func (k *ZipKeepAlive) compose(w *bitio.Writer) error {
	w.Bit(k.AckRequest)
	w.Bit(k.AckResponse)
	w.Bits(0, 6)
	return nil
}

func (k *ZipKeepAlive) parse(r *bitio.Reader) error {
	var err error
	if k.AckRequest, err = r.Bit(); err != nil {
		return err
	}
	if k.AckResponse, err = r.Bit(); err != nil {
		return err
	}
	return ztype.SkipReserved(r, 6)
}
