// Package frame implements the bit-exact Z-Wave command-class message
// catalog: the (cmdClass,cmd) registry, the polymorphic Message sum type,
// and the concrete frame schemas fixed by spec §4.3 and §6. Unknown
// (cmdClass,cmd) pairs decode as a tagged opaque frame (Unknown) rather
// than failing, so the stack keeps working against gateways that speak a
// newer command-class catalog than this build knows about.
package frame

import (
	"fmt"

	"github.com/gozwave/zwaveip/bitio"
)

// HID identifies a message type by its (cmdClass, cmd) pair, packed as
// (cmdClass<<8)|cmd.
type HID uint16

// NewHID packs a (cmdClass, cmd) pair into a HID.
func NewHID(cmdClass, cmd byte) HID {
	return HID(cmdClass)<<8 | HID(cmd)
}

// CmdClass returns the command-class byte.
func (h HID) CmdClass() byte { return byte(h >> 8) }

// Cmd returns the command byte.
func (h HID) Cmd() byte { return byte(h) }

func (h HID) String() string {
	return fmt.Sprintf("(0x%02X,0x%02X)", h.CmdClass(), h.Cmd())
}

// Message is the closed sum type every registered frame and the Unknown
// fallback implement. parse/compose are unexported so only this package
// can define new wire frames; callers use the package-level Decode and
// Compose functions, which prepend/consume the (cmdClass,cmd) header.
type Message interface {
	// Hid returns this instance's (cmdClass,cmd) pair.
	Hid() HID
	compose(w *bitio.Writer) error
	parse(r *bitio.Reader) error
}

var registry = map[HID]func() Message{}

// register associates a constructor with a (cmdClass,cmd) pair. Called
// from package-level init() in each frame's defining file.
func register(hid HID, ctor func() Message) {
	if _, dup := registry[hid]; dup {
		panic(fmt.Sprintf("frame: duplicate registration for %s", hid))
	}
	registry[hid] = ctor
}

// Unknown is the tagged opaque frame returned for a (cmdClass,cmd) pair
// with no registered type. It preserves the hid and the raw trailing
// payload so the bytes can still be logged, forwarded, or re-composed.
type Unknown struct {
	HidValue HID
	Raw      []byte
}

// Hid returns the preserved (cmdClass,cmd) pair (0 if it could not be
// determined because the buffer held fewer than 2 bytes).
func (u *Unknown) Hid() HID { return u.HidValue }

func (u *Unknown) compose(w *bitio.Writer) error {
	w.WriteBytes(u.Raw)
	return nil
}

func (u *Unknown) parse(r *bitio.Reader) error {
	b, err := r.Remaining()
	if err != nil {
		return err
	}
	u.Raw = b
	return nil
}

// Decode parses buf as a Message. A buffer with fewer than 2 bytes decodes
// as Unknown{HidValue: 0}; an unregistered (cmdClass,cmd) decodes as
// Unknown carrying the hid and the remaining bytes; anything else is
// dispatched to its registered type's parser.
func Decode(buf []byte) (Message, error) {
	if len(buf) < 2 {
		return &Unknown{HidValue: 0, Raw: append([]byte(nil), buf...)}, nil
	}
	r := bitio.NewReader(buf)
	cmdClass, err := r.Byte()
	if err != nil {
		return nil, err
	}
	cmd, err := r.Byte()
	if err != nil {
		return nil, err
	}
	hid := NewHID(cmdClass, cmd)
	ctor, ok := registry[hid]
	if !ok {
		tail, err := r.Remaining()
		if err != nil {
			return nil, err
		}
		return &Unknown{HidValue: hid, Raw: tail}, nil
	}
	msg := ctor()
	if err := msg.parse(r); err != nil {
		return nil, err
	}
	return msg, nil
}

// Compose writes msg's (cmdClass,cmd) header followed by its attributes,
// in declared order.
func Compose(msg Message) ([]byte, error) {
	w := bitio.NewWriter()
	hid := msg.Hid()
	w.Byte(hid.CmdClass())
	w.Byte(hid.Cmd())
	if err := msg.compose(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ErrMissingField reports a required attribute with no stored value and
// no declared default.
type ErrMissingField struct {
	Frame, Field string
}

func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("frame: %s: missing required field %q", e.Frame, e.Field)
}
