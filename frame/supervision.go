package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// COMMAND_CLASS_SUPERVISION (cmdClass 0x6C).
const cmdClassSupervision = 0x6C

// Supervision status values, per §4.9.
const (
	SupervisionStatusNoSupport byte = 0x00
	SupervisionStatusWorking   byte = 0x01
	SupervisionStatusFail      byte = 0x02
	SupervisionStatusSuccess   byte = 0xFF
)

// SupervisionGet (0x6C,0x01) wraps another command class message in an
// envelope expecting an acknowledging SupervisionReport.
type SupervisionGet struct {
	SessionID      byte
	StatusUpdates  bool
	Command        Message
}

func init() { register(NewHID(cmdClassSupervision, 0x01), func() Message { return &SupervisionGet{} }) }

// Hid returns (0x6C, 0x01).
func (m *SupervisionGet) Hid() HID { return NewHID(cmdClassSupervision, 0x01) }

func (m *SupervisionGet) compose(w *bitio.Writer) error {
	w.Bits(m.SessionID, 6)
	w.Bit(m.StatusUpdates)
	w.Bits(0, 1)
	if m.Command == nil {
		return &ErrMissingField{Frame: "SupervisionGet", Field: "command"}
	}
	inner, err := Compose(m.Command)
	if err != nil {
		return err
	}
	if len(inner) > 255 {
		return &ErrMissingField{Frame: "SupervisionGet", Field: "command too long"}
	}
	w.Byte(byte(len(inner)))
	w.WriteBytes(inner)
	return nil
}

func (m *SupervisionGet) parse(r *bitio.Reader) error {
	var err error
	if m.SessionID, err = r.Bits(6); err != nil {
		return err
	}
	if m.StatusUpdates, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 1); err != nil {
		return err
	}
	length, err := r.Byte()
	if err != nil {
		return err
	}
	inner, err := r.Bytes(int(length))
	if err != nil {
		return err
	}
	m.Command, err = Decode(inner)
	return err
}

// SupervisionReport (0x6C,0x02) acknowledges a SupervisionGet.
type SupervisionReport struct {
	SessionID         byte
	MoreStatusUpdates bool
	Status            byte
	Duration          byte
}

func init() {
	register(NewHID(cmdClassSupervision, 0x02), func() Message { return &SupervisionReport{} })
}

// Hid returns (0x6C, 0x02).
func (m *SupervisionReport) Hid() HID { return NewHID(cmdClassSupervision, 0x02) }

func (m *SupervisionReport) compose(w *bitio.Writer) error {
	w.Bits(m.SessionID, 6)
	w.Bit(m.MoreStatusUpdates)
	w.Bits(0, 1)
	w.Byte(m.Status)
	w.Byte(m.Duration)
	return nil
}

func (m *SupervisionReport) parse(r *bitio.Reader) error {
	var err error
	if m.SessionID, err = r.Bits(6); err != nil {
		return err
	}
	if m.MoreStatusUpdates, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 1); err != nil {
		return err
	}
	if m.Status, err = r.Byte(); err != nil {
		return err
	}
	m.Duration, err = r.Byte()
	return err
}
