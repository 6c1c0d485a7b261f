package frame

import "github.com/gozwave/zwaveip/bitio"

// COMMAND_CLASS_WAKE_UP (cmdClass 0x84).
const cmdClassWakeUp = 0x84

// WakeUpIntervalSet (0x84,0x04) configures how often a FLiRS/battery node
// wakes and which node it should notify.
type WakeUpIntervalSet struct {
	Seconds uint32 // 24-bit on the wire
	NodeID  byte
}

func init() {
	register(NewHID(cmdClassWakeUp, 0x04), func() Message { return &WakeUpIntervalSet{} })
}

// Hid returns (0x84, 0x04).
func (m *WakeUpIntervalSet) Hid() HID { return NewHID(cmdClassWakeUp, 0x04) }

func (m *WakeUpIntervalSet) compose(w *bitio.Writer) error {
	w.WriteBytes([]byte{byte(m.Seconds >> 16), byte(m.Seconds >> 8), byte(m.Seconds)})
	w.Byte(m.NodeID)
	return nil
}

func (m *WakeUpIntervalSet) parse(r *bitio.Reader) error {
	b, err := r.Bytes(3)
	if err != nil {
		return err
	}
	m.Seconds = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	m.NodeID, err = r.Byte()
	return err
}

// WakeUpIntervalGet (0x84,0x05) requests the current wakeup interval.
type WakeUpIntervalGet struct{}

func init() {
	register(NewHID(cmdClassWakeUp, 0x05), func() Message { return &WakeUpIntervalGet{} })
}

// Hid returns (0x84, 0x05).
func (m *WakeUpIntervalGet) Hid() HID                      { return NewHID(cmdClassWakeUp, 0x05) }
func (m *WakeUpIntervalGet) compose(w *bitio.Writer) error { return nil }
func (m *WakeUpIntervalGet) parse(r *bitio.Reader) error   { return nil }

// WakeUpIntervalReport (0x84,0x06) answers WakeUpIntervalGet.
type WakeUpIntervalReport struct {
	Seconds uint32
	NodeID  byte
}

func init() {
	register(NewHID(cmdClassWakeUp, 0x06), func() Message { return &WakeUpIntervalReport{} })
}

// Hid returns (0x84, 0x06).
func (m *WakeUpIntervalReport) Hid() HID { return NewHID(cmdClassWakeUp, 0x06) }

func (m *WakeUpIntervalReport) compose(w *bitio.Writer) error {
	w.WriteBytes([]byte{byte(m.Seconds >> 16), byte(m.Seconds >> 8), byte(m.Seconds)})
	w.Byte(m.NodeID)
	return nil
}

func (m *WakeUpIntervalReport) parse(r *bitio.Reader) error {
	b, err := r.Bytes(3)
	if err != nil {
		return err
	}
	m.Seconds = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	m.NodeID, err = r.Byte()
	return err
}

// WakeUpNotification (0x84,0x07) tells the controller a sleeping node is
// now listening; the mailbox service treats this as "pop the next entry".
type WakeUpNotification struct{}

func init() {
	register(NewHID(cmdClassWakeUp, 0x07), func() Message { return &WakeUpNotification{} })
}

// Hid returns (0x84, 0x07).
func (m *WakeUpNotification) Hid() HID                      { return NewHID(cmdClassWakeUp, 0x07) }
func (m *WakeUpNotification) compose(w *bitio.Writer) error { return nil }
func (m *WakeUpNotification) parse(r *bitio.Reader) error   { return nil }

// WakeUpNoMoreInformation (0x84,0x08) tells the gateway the node is about
// to go back to sleep; any further mailbox traffic must wait.
type WakeUpNoMoreInformation struct{}

func init() {
	register(NewHID(cmdClassWakeUp, 0x08), func() Message { return &WakeUpNoMoreInformation{} })
}

// Hid returns (0x84, 0x08).
func (m *WakeUpNoMoreInformation) Hid() HID                      { return NewHID(cmdClassWakeUp, 0x08) }
func (m *WakeUpNoMoreInformation) compose(w *bitio.Writer) error { return nil }
func (m *WakeUpNoMoreInformation) parse(r *bitio.Reader) error   { return nil }
