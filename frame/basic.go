package frame

import "github.com/gozwave/zwaveip/bitio"

// COMMAND_CLASS_BASIC (cmdClass 0x20): the lowest-common-denominator
// on/off/level actuator class, used as the Supervision-wrap example in
// the test scenarios.
const cmdClassBasic = 0x20

// BasicSet (0x20,0x01) sets a target value (0x00 off, 0x01-0x63 a level,
// 0xFF on).
type BasicSet struct {
	Value byte
}

func init() { register(NewHID(cmdClassBasic, 0x01), func() Message { return &BasicSet{} }) }

// Hid returns (0x20, 0x01).
func (m *BasicSet) Hid() HID { return NewHID(cmdClassBasic, 0x01) }

func (m *BasicSet) compose(w *bitio.Writer) error { w.Byte(m.Value); return nil }

func (m *BasicSet) parse(r *bitio.Reader) error {
	var err error
	m.Value, err = r.Byte()
	return err
}

// BasicGet (0x20,0x02) requests the current value.
type BasicGet struct{}

func init() { register(NewHID(cmdClassBasic, 0x02), func() Message { return &BasicGet{} }) }

// Hid returns (0x20, 0x02).
func (m *BasicGet) Hid() HID                      { return NewHID(cmdClassBasic, 0x02) }
func (m *BasicGet) compose(w *bitio.Writer) error { return nil }
func (m *BasicGet) parse(r *bitio.Reader) error   { return nil }

// BasicReport (0x20,0x03) answers BasicGet/Set.
type BasicReport struct {
	Value byte
}

func init() { register(NewHID(cmdClassBasic, 0x03), func() Message { return &BasicReport{} }) }

// Hid returns (0x20, 0x03).
func (m *BasicReport) Hid() HID { return NewHID(cmdClassBasic, 0x03) }

func (m *BasicReport) compose(w *bitio.Writer) error { w.Byte(m.Value); return nil }

func (m *BasicReport) parse(r *bitio.Reader) error {
	var err error
	m.Value, err = r.Byte()
	return err
}
