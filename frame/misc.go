package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// Command-class ids for the smaller reporting classes a node interview
// exercises.
const (
	cmdClassBattery             = 0x80
	cmdClassManufacturerSpecific = 0x72
	cmdClassIndicator           = 0x87
	cmdClassMeter               = 0x32
	cmdClassSensorMultilevel    = 0x31
	cmdClassSwitchBinary        = 0x25
	cmdClassZWavePlusInfo       = 0x5E
	cmdClassAssociationGrpInfo  = 0x59
)

// BatteryGet (0x80,0x02) requests the battery level.
type BatteryGet struct{}

func init() { register(NewHID(cmdClassBattery, 0x02), func() Message { return &BatteryGet{} }) }

// Hid returns (0x80, 0x02).
func (m *BatteryGet) Hid() HID                      { return NewHID(cmdClassBattery, 0x02) }
func (m *BatteryGet) compose(w *bitio.Writer) error { return nil }
func (m *BatteryGet) parse(r *bitio.Reader) error   { return nil }

// BatteryReport (0x80,0x03) answers BatteryGet. Level 0xFF means "low
// battery warning" rather than a percentage.
type BatteryReport struct {
	Level byte
}

func init() { register(NewHID(cmdClassBattery, 0x03), func() Message { return &BatteryReport{} }) }

// Hid returns (0x80, 0x03).
func (m *BatteryReport) Hid() HID { return NewHID(cmdClassBattery, 0x03) }

func (m *BatteryReport) compose(w *bitio.Writer) error { w.Byte(m.Level); return nil }

func (m *BatteryReport) parse(r *bitio.Reader) error {
	var err error
	m.Level, err = r.Byte()
	return err
}

// ManufacturerSpecificGet (0x72,0x04) requests the manufacturer/product ids.
type ManufacturerSpecificGet struct{}

func init() {
	register(NewHID(cmdClassManufacturerSpecific, 0x04), func() Message { return &ManufacturerSpecificGet{} })
}

// Hid returns (0x72, 0x04).
func (m *ManufacturerSpecificGet) Hid() HID                      { return NewHID(cmdClassManufacturerSpecific, 0x04) }
func (m *ManufacturerSpecificGet) compose(w *bitio.Writer) error { return nil }
func (m *ManufacturerSpecificGet) parse(r *bitio.Reader) error   { return nil }

// ManufacturerSpecificReport (0x72,0x05) answers ManufacturerSpecificGet.
type ManufacturerSpecificReport struct {
	ManufacturerID byte
	ProductTypeID  uint16
	ProductID      uint16
}

func init() {
	register(NewHID(cmdClassManufacturerSpecific, 0x05), func() Message { return &ManufacturerSpecificReport{} })
}

// Hid returns (0x72, 0x05).
func (m *ManufacturerSpecificReport) Hid() HID { return NewHID(cmdClassManufacturerSpecific, 0x05) }

func (m *ManufacturerSpecificReport) compose(w *bitio.Writer) error {
	ztype.WriteUint16(w, uint16(m.ManufacturerID)<<8)
	ztype.WriteUint16(w, m.ProductTypeID)
	ztype.WriteUint16(w, m.ProductID)
	return nil
}

func (m *ManufacturerSpecificReport) parse(r *bitio.Reader) error {
	manu, err := ztype.ReadUint16(r)
	if err != nil {
		return err
	}
	m.ManufacturerID = byte(manu >> 8)
	if m.ProductTypeID, err = ztype.ReadUint16(r); err != nil {
		return err
	}
	m.ProductID, err = ztype.ReadUint16(r)
	return err
}

// IndicatorSet (0x87,0x01) sets the node's indicator (e.g. identify LED).
type IndicatorSet struct {
	Value byte
}

func init() { register(NewHID(cmdClassIndicator, 0x01), func() Message { return &IndicatorSet{} }) }

// Hid returns (0x87, 0x01).
func (m *IndicatorSet) Hid() HID { return NewHID(cmdClassIndicator, 0x01) }

func (m *IndicatorSet) compose(w *bitio.Writer) error { w.Byte(m.Value); return nil }

func (m *IndicatorSet) parse(r *bitio.Reader) error {
	var err error
	m.Value, err = r.Byte()
	return err
}

// IndicatorGet (0x87,0x02) requests the current indicator value.
type IndicatorGet struct{}

func init() { register(NewHID(cmdClassIndicator, 0x02), func() Message { return &IndicatorGet{} }) }

// Hid returns (0x87, 0x02).
func (m *IndicatorGet) Hid() HID                      { return NewHID(cmdClassIndicator, 0x02) }
func (m *IndicatorGet) compose(w *bitio.Writer) error { return nil }
func (m *IndicatorGet) parse(r *bitio.Reader) error   { return nil }

// IndicatorReport (0x87,0x03) answers IndicatorGet/Set.
type IndicatorReport struct {
	Value byte
}

func init() { register(NewHID(cmdClassIndicator, 0x03), func() Message { return &IndicatorReport{} }) }

// Hid returns (0x87, 0x03).
func (m *IndicatorReport) Hid() HID { return NewHID(cmdClassIndicator, 0x03) }

func (m *IndicatorReport) compose(w *bitio.Writer) error { w.Byte(m.Value); return nil }

func (m *IndicatorReport) parse(r *bitio.Reader) error {
	var err error
	m.Value, err = r.Byte()
	return err
}

// MeterGet (0x32,0x01) requests a meter reading.
type MeterGet struct {
	ScaleBits byte
}

func init() { register(NewHID(cmdClassMeter, 0x01), func() Message { return &MeterGet{} }) }

// Hid returns (0x32, 0x01).
func (m *MeterGet) Hid() HID { return NewHID(cmdClassMeter, 0x01) }

func (m *MeterGet) compose(w *bitio.Writer) error {
	w.Bits(0, 5)
	w.Bits(m.ScaleBits, 3)
	return nil
}

func (m *MeterGet) parse(r *bitio.Reader) error {
	if err := ztype.SkipReserved(r, 5); err != nil {
		return err
	}
	var err error
	m.ScaleBits, err = r.Bits(3)
	return err
}

// MeterReport (0x32,0x02) answers MeterGet with a float-with-scale value.
type MeterReport struct {
	MeterType byte
	Value     ztype.FloatScale
}

func init() { register(NewHID(cmdClassMeter, 0x02), func() Message { return &MeterReport{} }) }

// Hid returns (0x32, 0x02).
func (m *MeterReport) Hid() HID { return NewHID(cmdClassMeter, 0x02) }

func (m *MeterReport) compose(w *bitio.Writer) error {
	w.Bits(0, 3)
	w.Bits(m.MeterType, 5)
	return m.Value.Write(w)
}

func (m *MeterReport) parse(r *bitio.Reader) error {
	if err := ztype.SkipReserved(r, 3); err != nil {
		return err
	}
	var err error
	if m.MeterType, err = r.Bits(5); err != nil {
		return err
	}
	m.Value, err = ztype.ReadFloatScale(r)
	return err
}

// SensorMultilevelGet (0x31,0x04) requests a sensor reading.
type SensorMultilevelGet struct {
	SensorType byte
}

func init() {
	register(NewHID(cmdClassSensorMultilevel, 0x04), func() Message { return &SensorMultilevelGet{} })
}

// Hid returns (0x31, 0x04).
func (m *SensorMultilevelGet) Hid() HID { return NewHID(cmdClassSensorMultilevel, 0x04) }

func (m *SensorMultilevelGet) compose(w *bitio.Writer) error { w.Byte(m.SensorType); return nil }

func (m *SensorMultilevelGet) parse(r *bitio.Reader) error {
	var err error
	m.SensorType, err = r.Byte()
	return err
}

// SensorMultilevelReport (0x31,0x05) answers SensorMultilevelGet.
type SensorMultilevelReport struct {
	SensorType byte
	Value      ztype.FloatScale
}

func init() {
	register(NewHID(cmdClassSensorMultilevel, 0x05), func() Message { return &SensorMultilevelReport{} })
}

// Hid returns (0x31, 0x05).
func (m *SensorMultilevelReport) Hid() HID { return NewHID(cmdClassSensorMultilevel, 0x05) }

func (m *SensorMultilevelReport) compose(w *bitio.Writer) error {
	w.Byte(m.SensorType)
	return m.Value.Write(w)
}

func (m *SensorMultilevelReport) parse(r *bitio.Reader) error {
	var err error
	if m.SensorType, err = r.Byte(); err != nil {
		return err
	}
	m.Value, err = ztype.ReadFloatScale(r)
	return err
}

// SwitchBinarySet (0x25,0x01) sets a binary actuator on/off.
type SwitchBinarySet struct {
	Value bool
}

func init() {
	register(NewHID(cmdClassSwitchBinary, 0x01), func() Message { return &SwitchBinarySet{} })
}

// Hid returns (0x25, 0x01).
func (m *SwitchBinarySet) Hid() HID { return NewHID(cmdClassSwitchBinary, 0x01) }

func (m *SwitchBinarySet) compose(w *bitio.Writer) error {
	if m.Value {
		w.Byte(0xFF)
	} else {
		w.Byte(0x00)
	}
	return nil
}

func (m *SwitchBinarySet) parse(r *bitio.Reader) error {
	b, err := r.Byte()
	if err != nil {
		return err
	}
	m.Value = b != 0
	return nil
}

// SwitchBinaryGet (0x25,0x02) requests the current state.
type SwitchBinaryGet struct{}

func init() {
	register(NewHID(cmdClassSwitchBinary, 0x02), func() Message { return &SwitchBinaryGet{} })
}

// Hid returns (0x25, 0x02).
func (m *SwitchBinaryGet) Hid() HID                      { return NewHID(cmdClassSwitchBinary, 0x02) }
func (m *SwitchBinaryGet) compose(w *bitio.Writer) error { return nil }
func (m *SwitchBinaryGet) parse(r *bitio.Reader) error   { return nil }

// SwitchBinaryReport (0x25,0x03) answers SwitchBinaryGet/Set.
type SwitchBinaryReport struct {
	Value bool
}

func init() {
	register(NewHID(cmdClassSwitchBinary, 0x03), func() Message { return &SwitchBinaryReport{} })
}

// Hid returns (0x25, 0x03).
func (m *SwitchBinaryReport) Hid() HID { return NewHID(cmdClassSwitchBinary, 0x03) }

func (m *SwitchBinaryReport) compose(w *bitio.Writer) error {
	if m.Value {
		w.Byte(0xFF)
	} else {
		w.Byte(0x00)
	}
	return nil
}

func (m *SwitchBinaryReport) parse(r *bitio.Reader) error {
	b, err := r.Byte()
	if err != nil {
		return err
	}
	m.Value = b != 0
	return nil
}

// ZWavePlusInfoGet (0x5E,0x01) requests a node's Z-Wave Plus role/device
// type.
type ZWavePlusInfoGet struct{}

func init() {
	register(NewHID(cmdClassZWavePlusInfo, 0x01), func() Message { return &ZWavePlusInfoGet{} })
}

// Hid returns (0x5E, 0x01).
func (m *ZWavePlusInfoGet) Hid() HID                      { return NewHID(cmdClassZWavePlusInfo, 0x01) }
func (m *ZWavePlusInfoGet) compose(w *bitio.Writer) error { return nil }
func (m *ZWavePlusInfoGet) parse(r *bitio.Reader) error   { return nil }

// ZWavePlusInfoReport (0x5E,0x02) answers ZWavePlusInfoGet.
type ZWavePlusInfoReport struct {
	ZWaveVersion byte
	RoleType     byte
	NodeType     byte
	InstallerIcon uint16
	UserIcon      uint16
}

func init() {
	register(NewHID(cmdClassZWavePlusInfo, 0x02), func() Message { return &ZWavePlusInfoReport{} })
}

// Hid returns (0x5E, 0x02).
func (m *ZWavePlusInfoReport) Hid() HID { return NewHID(cmdClassZWavePlusInfo, 0x02) }

func (m *ZWavePlusInfoReport) compose(w *bitio.Writer) error {
	w.Byte(m.ZWaveVersion)
	w.Byte(m.RoleType)
	w.Byte(m.NodeType)
	ztype.WriteUint16(w, m.InstallerIcon)
	ztype.WriteUint16(w, m.UserIcon)
	return nil
}

func (m *ZWavePlusInfoReport) parse(r *bitio.Reader) error {
	var err error
	if m.ZWaveVersion, err = r.Byte(); err != nil {
		return err
	}
	if m.RoleType, err = r.Byte(); err != nil {
		return err
	}
	if m.NodeType, err = r.Byte(); err != nil {
		return err
	}
	if m.InstallerIcon, err = ztype.ReadUint16(r); err != nil {
		return err
	}
	m.UserIcon, err = ztype.ReadUint16(r)
	return err
}

// AssociationGroupInfoNameGet (0x59,0x01) requests a group's display name.
type AssociationGroupInfoNameGet struct {
	GroupingIdentifier byte
}

func init() {
	register(NewHID(cmdClassAssociationGrpInfo, 0x01), func() Message { return &AssociationGroupInfoNameGet{} })
}

// Hid returns (0x59, 0x01).
func (m *AssociationGroupInfoNameGet) Hid() HID { return NewHID(cmdClassAssociationGrpInfo, 0x01) }

func (m *AssociationGroupInfoNameGet) compose(w *bitio.Writer) error {
	w.Byte(m.GroupingIdentifier)
	return nil
}

func (m *AssociationGroupInfoNameGet) parse(r *bitio.Reader) error {
	var err error
	m.GroupingIdentifier, err = r.Byte()
	return err
}

// AssociationGroupInfoNameReport (0x59,0x02) answers AssociationGroupInfoNameGet.
type AssociationGroupInfoNameReport struct {
	GroupingIdentifier byte
	Name               string
}

func init() {
	register(NewHID(cmdClassAssociationGrpInfo, 0x02), func() Message { return &AssociationGroupInfoNameReport{} })
}

// Hid returns (0x59, 0x02).
func (m *AssociationGroupInfoNameReport) Hid() HID {
	return NewHID(cmdClassAssociationGrpInfo, 0x02)
}

func (m *AssociationGroupInfoNameReport) compose(w *bitio.Writer) error {
	w.Byte(m.GroupingIdentifier)
	nameBytes := []byte(m.Name)
	w.Byte(byte(len(nameBytes)))
	w.WriteBytes(nameBytes)
	return nil
}

func (m *AssociationGroupInfoNameReport) parse(r *bitio.Reader) error {
	var err error
	if m.GroupingIdentifier, err = r.Byte(); err != nil {
		return err
	}
	length, err := r.Byte()
	if err != nil {
		return err
	}
	b, err := r.Bytes(int(length))
	if err != nil {
		return err
	}
	m.Name = string(b)
	return nil
}
