package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// COMMAND_CLASS_MULTI_CHANNEL (cmdClass 0x60).
const cmdClassMultiChannel = 0x60

// MultiChannelEndPointGet (0x60,0x07) queries a node's endpoint count.
type MultiChannelEndPointGet struct{}

func init() {
	register(NewHID(cmdClassMultiChannel, 0x07), func() Message { return &MultiChannelEndPointGet{} })
}

// Hid returns (0x60, 0x07).
func (m *MultiChannelEndPointGet) Hid() HID { return NewHID(cmdClassMultiChannel, 0x07) }
func (m *MultiChannelEndPointGet) compose(w *bitio.Writer) error { return nil }
func (m *MultiChannelEndPointGet) parse(r *bitio.Reader) error   { return nil }

// MultiChannelEndPointReport (0x60,0x08) answers MultiChannelEndPointGet.
type MultiChannelEndPointReport struct {
	Identical           bool
	DynamicEndPoints    bool
	IndividualEndPoints byte
	AggregatedEndPoints byte
}

func init() {
	register(NewHID(cmdClassMultiChannel, 0x08), func() Message { return &MultiChannelEndPointReport{} })
}

// Hid returns (0x60, 0x08).
func (m *MultiChannelEndPointReport) Hid() HID { return NewHID(cmdClassMultiChannel, 0x08) }

func (m *MultiChannelEndPointReport) compose(w *bitio.Writer) error {
	w.Bits(0, 6)
	w.Bit(m.Identical)
	w.Bit(m.DynamicEndPoints)
	w.Bits(0, 1)
	w.Bits(m.IndividualEndPoints, 7)
	w.Byte(m.AggregatedEndPoints)
	return nil
}

func (m *MultiChannelEndPointReport) parse(r *bitio.Reader) error {
	if err := ztype.SkipReserved(r, 6); err != nil {
		return err
	}
	var err error
	if m.Identical, err = r.Bit(); err != nil {
		return err
	}
	if m.DynamicEndPoints, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 1); err != nil {
		return err
	}
	if m.IndividualEndPoints, err = r.Bits(7); err != nil {
		return err
	}
	m.AggregatedEndPoints, err = r.Byte()
	return err
}

// TotalEndPoints is IndividualEndPoints + AggregatedEndPoints, per §4.8.
func (m *MultiChannelEndPointReport) TotalEndPoints() int {
	return int(m.IndividualEndPoints) + int(m.AggregatedEndPoints)
}

// MultiChannelCapabilityGet (0x60,0x09) queries one endpoint's device
// class and command-class set.
type MultiChannelCapabilityGet struct {
	EndPoint byte
}

func init() {
	register(NewHID(cmdClassMultiChannel, 0x09), func() Message { return &MultiChannelCapabilityGet{} })
}

// Hid returns (0x60, 0x09).
func (m *MultiChannelCapabilityGet) Hid() HID { return NewHID(cmdClassMultiChannel, 0x09) }

func (m *MultiChannelCapabilityGet) compose(w *bitio.Writer) error {
	w.Bits(0, 1)
	w.Bits(m.EndPoint, 7)
	return nil
}

func (m *MultiChannelCapabilityGet) parse(r *bitio.Reader) error {
	if err := ztype.SkipReserved(r, 1); err != nil {
		return err
	}
	var err error
	m.EndPoint, err = r.Bits(7)
	return err
}

// MultiChannelCapabilityReport (0x60,0x0A) answers MultiChannelCapabilityGet.
type MultiChannelCapabilityReport struct {
	Dynamic             bool
	EndPoint            byte
	GenericDeviceClass  byte
	SpecificDeviceClass byte
	CommandClasses      []byte
}

func init() {
	register(NewHID(cmdClassMultiChannel, 0x0A), func() Message { return &MultiChannelCapabilityReport{} })
}

// Hid returns (0x60, 0x0A).
func (m *MultiChannelCapabilityReport) Hid() HID { return NewHID(cmdClassMultiChannel, 0x0A) }

func (m *MultiChannelCapabilityReport) compose(w *bitio.Writer) error {
	w.Bit(m.Dynamic)
	w.Bits(m.EndPoint, 7)
	w.Byte(m.GenericDeviceClass)
	w.Byte(m.SpecificDeviceClass)
	w.WriteBytes(m.CommandClasses)
	return nil
}

func (m *MultiChannelCapabilityReport) parse(r *bitio.Reader) error {
	var err error
	if m.Dynamic, err = r.Bit(); err != nil {
		return err
	}
	if m.EndPoint, err = r.Bits(7); err != nil {
		return err
	}
	if m.GenericDeviceClass, err = r.Byte(); err != nil {
		return err
	}
	if m.SpecificDeviceClass, err = r.Byte(); err != nil {
		return err
	}
	m.CommandClasses, err = ztype.ReadBytesToEnd(r)
	return err
}
