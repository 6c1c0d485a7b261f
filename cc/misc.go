package cc

import (
	"time"

	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/ztype"
)

// COMMAND_CLASS_BATTERY (0x80): the node's power level.
const batteryClassID = 0x80

// Battery mirrors COMMAND_CLASS_BATTERY.
type Battery struct {
	Base
	Level byte
}

func init() {
	Register(batteryClassID, func(securityS0 bool) CommandClass {
		return &Battery{Base: NewBase(batteryClassID, securityS0)}
	})
}

// DoInterview requests the current battery level.
func (b *Battery) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.BatteryGet{}, frame.NewHID(batteryClassID, 0x03), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.BatteryReport); ok {
		b.Level = report.Level
	}
	return nil
}

// HandleOwn claims BatteryReport.
func (b *Battery) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.BatteryReport)
	if !ok {
		return false
	}
	b.Level = report.Level
	return true
}

// COMMAND_CLASS_MANUFACTURER_SPECIFIC (0x72): manufacturer/product ids.
const manufacturerSpecificClassID = 0x72

// ManufacturerSpecific mirrors COMMAND_CLASS_MANUFACTURER_SPECIFIC.
type ManufacturerSpecific struct {
	Base
	ManufacturerID byte
	ProductTypeID  uint16
	ProductID      uint16
}

func init() {
	Register(manufacturerSpecificClassID, func(securityS0 bool) CommandClass {
		return &ManufacturerSpecific{Base: NewBase(manufacturerSpecificClassID, securityS0)}
	})
}

// DoInterview requests the manufacturer/product triple.
func (m *ManufacturerSpecific) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.ManufacturerSpecificGet{}, frame.NewHID(manufacturerSpecificClassID, 0x05), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.ManufacturerSpecificReport); ok {
		m.ManufacturerID = report.ManufacturerID
		m.ProductTypeID = report.ProductTypeID
		m.ProductID = report.ProductID
	}
	return nil
}

// HandleOwn claims ManufacturerSpecificReport.
func (m *ManufacturerSpecific) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.ManufacturerSpecificReport)
	if !ok {
		return false
	}
	m.ManufacturerID = report.ManufacturerID
	m.ProductTypeID = report.ProductTypeID
	m.ProductID = report.ProductID
	return true
}

// COMMAND_CLASS_INDICATOR (0x87): a generic identify/status LED.
const indicatorClassID = 0x87

// Indicator mirrors COMMAND_CLASS_INDICATOR.
type Indicator struct {
	Base
	Value byte
}

func init() {
	Register(indicatorClassID, func(securityS0 bool) CommandClass {
		return &Indicator{Base: NewBase(indicatorClassID, securityS0)}
	})
}

// DoInterview requests the indicator's current value.
func (i *Indicator) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.IndicatorGet{}, frame.NewHID(indicatorClassID, 0x03), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.IndicatorReport); ok {
		i.Value = report.Value
	}
	return nil
}

// HandleOwn claims IndicatorReport.
func (i *Indicator) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.IndicatorReport)
	if !ok {
		return false
	}
	i.Value = report.Value
	return true
}

// Set sends INDICATOR_SET(value).
func (i *Indicator) Set(host Host, value byte, timeout time.Duration) error {
	return host.Send(&frame.IndicatorSet{Value: value}, timeout)
}

// COMMAND_CLASS_METER (0x32): cumulative consumption readings.
const meterClassID = 0x32

// Meter mirrors COMMAND_CLASS_METER.
type Meter struct {
	Base
	MeterType byte
	Value     ztype.FloatScale
}

func init() {
	Register(meterClassID, func(securityS0 bool) CommandClass {
		return &Meter{Base: NewBase(meterClassID, securityS0)}
	})
}

// DoInterview requests the default (scale 0) meter reading.
func (m *Meter) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.MeterGet{}, frame.NewHID(meterClassID, 0x02), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.MeterReport); ok {
		m.MeterType = report.MeterType
		m.Value = report.Value
	}
	return nil
}

// HandleOwn claims MeterReport.
func (m *Meter) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.MeterReport)
	if !ok {
		return false
	}
	m.MeterType = report.MeterType
	m.Value = report.Value
	return true
}

// COMMAND_CLASS_SENSOR_MULTILEVEL (0x31): generic scalar sensor readings
// (temperature, humidity, luminance, ...).
const sensorMultilevelClassID = 0x31

// SensorMultilevel mirrors COMMAND_CLASS_SENSOR_MULTILEVEL.
type SensorMultilevel struct {
	Base
	SensorType byte
	Value      ztype.FloatScale
}

func init() {
	Register(sensorMultilevelClassID, func(securityS0 bool) CommandClass {
		return &SensorMultilevel{Base: NewBase(sensorMultilevelClassID, securityS0)}
	})
}

// DoInterview requests a reading for SensorType (0 = device's default).
func (s *SensorMultilevel) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.SensorMultilevelGet{SensorType: s.SensorType}, frame.NewHID(sensorMultilevelClassID, 0x05), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.SensorMultilevelReport); ok {
		s.SensorType = report.SensorType
		s.Value = report.Value
	}
	return nil
}

// HandleOwn claims SensorMultilevelReport.
func (s *SensorMultilevel) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.SensorMultilevelReport)
	if !ok {
		return false
	}
	s.SensorType = report.SensorType
	s.Value = report.Value
	return true
}

// COMMAND_CLASS_SWITCH_BINARY (0x25): a single on/off actuator.
const switchBinaryClassID = 0x25

// SwitchBinary mirrors COMMAND_CLASS_SWITCH_BINARY.
type SwitchBinary struct {
	Base
	Value bool
}

func init() {
	Register(switchBinaryClassID, func(securityS0 bool) CommandClass {
		return &SwitchBinary{Base: NewBase(switchBinaryClassID, securityS0)}
	})
}

// DoInterview requests the switch's current state.
func (s *SwitchBinary) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.SwitchBinaryGet{}, frame.NewHID(switchBinaryClassID, 0x03), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.SwitchBinaryReport); ok {
		s.Value = report.Value
	}
	return nil
}

// HandleOwn claims SwitchBinaryReport.
func (s *SwitchBinary) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.SwitchBinaryReport)
	if !ok {
		return false
	}
	s.Value = report.Value
	return true
}

// Set sends SWITCH_BINARY_SET(value).
func (s *SwitchBinary) Set(host Host, value bool, timeout time.Duration) error {
	return host.Send(&frame.SwitchBinarySet{Value: value}, timeout)
}

// COMMAND_CLASS_ZWAVE_PLUS_INFO (0x5E): role/device-type metadata every
// Z-Wave Plus node advertises.
const zwavePlusInfoClassID = 0x5E

// ZWavePlusInfo mirrors COMMAND_CLASS_ZWAVE_PLUS_INFO.
type ZWavePlusInfo struct {
	Base
	RoleType      byte
	NodeType      byte
	InstallerIcon uint16
	UserIcon      uint16
}

func init() {
	Register(zwavePlusInfoClassID, func(securityS0 bool) CommandClass {
		return &ZWavePlusInfo{Base: NewBase(zwavePlusInfoClassID, securityS0)}
	})
}

// DoInterview requests the node's Z-Wave Plus role/device type.
func (z *ZWavePlusInfo) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.ZWavePlusInfoGet{}, frame.NewHID(zwavePlusInfoClassID, 0x02), 3*time.Second)
	if err != nil {
		return err
	}
	report, ok := reply.(*frame.ZWavePlusInfoReport)
	if !ok {
		return nil
	}
	z.RoleType = report.RoleType
	z.NodeType = report.NodeType
	z.InstallerIcon = report.InstallerIcon
	z.UserIcon = report.UserIcon
	return nil
}

// HandleOwn claims ZWavePlusInfoReport.
func (z *ZWavePlusInfo) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.ZWavePlusInfoReport)
	if !ok {
		return false
	}
	z.RoleType = report.RoleType
	z.NodeType = report.NodeType
	return true
}
