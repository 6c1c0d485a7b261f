package frame

import (
	"fmt"

	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// COMMAND_CLASS_CONFIGURATION (cmdClass 0x70).
const cmdClassConfiguration = 0x70

// ConfigurationSet (0x70,0x04): parameterNumber, optional reset-to-default,
// and a size-tagged signed value (1/2/4 bytes, big-endian).
type ConfigurationSet struct {
	ParameterNumber byte
	Default         bool
	Size            byte // 1, 2 or 4
	Value           int32
}

func init() {
	register(NewHID(cmdClassConfiguration, 0x04), func() Message { return &ConfigurationSet{} })
}

// Hid returns (0x70, 0x04).
func (m *ConfigurationSet) Hid() HID { return NewHID(cmdClassConfiguration, 0x04) }

func (m *ConfigurationSet) compose(w *bitio.Writer) error {
	w.Byte(m.ParameterNumber)
	w.Bit(m.Default)
	w.Bits(0, 4)
	w.Bits(m.Size, 3)
	switch m.Size {
	case 1:
		w.Byte(byte(m.Value))
	case 2:
		ztype.WriteUint16(w, uint16(m.Value))
	case 4:
		ztype.WriteUint32(w, uint32(m.Value))
	default:
		return fmt.Errorf("frame: ConfigurationSet: unsupported size %d", m.Size)
	}
	return nil
}

func (m *ConfigurationSet) parse(r *bitio.Reader) error {
	var err error
	if m.ParameterNumber, err = r.Byte(); err != nil {
		return err
	}
	if m.Default, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 4); err != nil {
		return err
	}
	if m.Size, err = r.Bits(3); err != nil {
		return err
	}
	switch m.Size {
	case 1:
		b, err := r.Byte()
		if err != nil {
			return err
		}
		m.Value = int32(int8(b))
	case 2:
		v, err := ztype.ReadUint16(r)
		if err != nil {
			return err
		}
		m.Value = int32(int16(v))
	case 4:
		v, err := ztype.ReadUint32(r)
		if err != nil {
			return err
		}
		m.Value = int32(v)
	default:
		return fmt.Errorf("frame: ConfigurationSet: unsupported size %d", m.Size)
	}
	return nil
}

// ConfigurationGet (0x70,0x05) requests a parameter's current value.
type ConfigurationGet struct {
	ParameterNumber byte
}

func init() {
	register(NewHID(cmdClassConfiguration, 0x05), func() Message { return &ConfigurationGet{} })
}

// Hid returns (0x70, 0x05).
func (m *ConfigurationGet) Hid() HID { return NewHID(cmdClassConfiguration, 0x05) }

func (m *ConfigurationGet) compose(w *bitio.Writer) error { w.Byte(m.ParameterNumber); return nil }

func (m *ConfigurationGet) parse(r *bitio.Reader) error {
	var err error
	m.ParameterNumber, err = r.Byte()
	return err
}

// ConfigurationReport (0x70,0x06) answers ConfigurationGet/Set.
type ConfigurationReport struct {
	ParameterNumber byte
	Size            byte
	Value           int32
}

func init() {
	register(NewHID(cmdClassConfiguration, 0x06), func() Message { return &ConfigurationReport{} })
}

// Hid returns (0x70, 0x06).
func (m *ConfigurationReport) Hid() HID { return NewHID(cmdClassConfiguration, 0x06) }

func (m *ConfigurationReport) compose(w *bitio.Writer) error {
	w.Byte(m.ParameterNumber)
	w.Bits(0, 5)
	w.Bits(m.Size, 3)
	switch m.Size {
	case 1:
		w.Byte(byte(m.Value))
	case 2:
		ztype.WriteUint16(w, uint16(m.Value))
	case 4:
		ztype.WriteUint32(w, uint32(m.Value))
	default:
		return fmt.Errorf("frame: ConfigurationReport: unsupported size %d", m.Size)
	}
	return nil
}

func (m *ConfigurationReport) parse(r *bitio.Reader) error {
	var err error
	if m.ParameterNumber, err = r.Byte(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 5); err != nil {
		return err
	}
	if m.Size, err = r.Bits(3); err != nil {
		return err
	}
	switch m.Size {
	case 1:
		b, err := r.Byte()
		if err != nil {
			return err
		}
		m.Value = int32(int8(b))
	case 2:
		v, err := ztype.ReadUint16(r)
		if err != nil {
			return err
		}
		m.Value = int32(int16(v))
	case 4:
		v, err := ztype.ReadUint32(r)
		if err != nil {
			return err
		}
		m.Value = int32(v)
	default:
		return fmt.Errorf("frame: ConfigurationReport: unsupported size %d", m.Size)
	}
	return nil
}
