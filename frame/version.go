package frame

import (
	"github.com/gozwave/zwaveip/bitio"
)

// COMMAND_CLASS_VERSION (cmdClass 0x86).
const cmdClassVersion = 0x86

// VersionGet (0x86,0x11) requests the node's library/protocol/firmware
// version triple.
type VersionGet struct{}

func init() { register(NewHID(cmdClassVersion, 0x11), func() Message { return &VersionGet{} }) }

// Hid returns (0x86, 0x11).
func (m *VersionGet) Hid() HID                      { return NewHID(cmdClassVersion, 0x11) }
func (m *VersionGet) compose(w *bitio.Writer) error { return nil }
func (m *VersionGet) parse(r *bitio.Reader) error   { return nil }

// VersionReport (0x86,0x12) answers VersionGet.
type VersionReport struct {
	LibraryType      byte
	ProtocolVersion  byte
	ProtocolSubVersion byte
	FirmwareVersion  byte
	FirmwareSubVersion byte
	HardwareVersion  byte
}

func init() { register(NewHID(cmdClassVersion, 0x12), func() Message { return &VersionReport{} }) }

// Hid returns (0x86, 0x12).
func (m *VersionReport) Hid() HID { return NewHID(cmdClassVersion, 0x12) }

func (m *VersionReport) compose(w *bitio.Writer) error {
	w.Byte(m.LibraryType)
	w.Byte(m.ProtocolVersion)
	w.Byte(m.ProtocolSubVersion)
	w.Byte(m.FirmwareVersion)
	w.Byte(m.FirmwareSubVersion)
	w.Byte(m.HardwareVersion)
	return nil
}

func (m *VersionReport) parse(r *bitio.Reader) error {
	var err error
	if m.LibraryType, err = r.Byte(); err != nil {
		return err
	}
	if m.ProtocolVersion, err = r.Byte(); err != nil {
		return err
	}
	if m.ProtocolSubVersion, err = r.Byte(); err != nil {
		return err
	}
	if m.FirmwareVersion, err = r.Byte(); err != nil {
		return err
	}
	if m.FirmwareSubVersion, err = r.Byte(); err != nil {
		return err
	}
	m.HardwareVersion, err = r.Byte()
	return err
}

// VersionCommandClassGet (0x86,0x13) requests the supported version of a
// single command class; this is the frame the interview decorator (§4.4)
// sends for every unknown-version class during a node's interview.
type VersionCommandClassGet struct {
	RequestedCommandClass byte
}

func init() {
	register(NewHID(cmdClassVersion, 0x13), func() Message { return &VersionCommandClassGet{} })
}

// Hid returns (0x86, 0x13).
func (m *VersionCommandClassGet) Hid() HID { return NewHID(cmdClassVersion, 0x13) }

func (m *VersionCommandClassGet) compose(w *bitio.Writer) error {
	w.Byte(m.RequestedCommandClass)
	return nil
}

func (m *VersionCommandClassGet) parse(r *bitio.Reader) error {
	var err error
	m.RequestedCommandClass, err = r.Byte()
	return err
}

// VersionCommandClassReport (0x86,0x14) answers VersionCommandClassGet. A
// Version of 0 means the class is not implemented (§4.4: interview is
// skipped when the version stays 0).
type VersionCommandClassReport struct {
	RequestedCommandClass byte
	Version                byte
}

func init() {
	register(NewHID(cmdClassVersion, 0x14), func() Message { return &VersionCommandClassReport{} })
}

// Hid returns (0x86, 0x14).
func (m *VersionCommandClassReport) Hid() HID { return NewHID(cmdClassVersion, 0x14) }

func (m *VersionCommandClassReport) compose(w *bitio.Writer) error {
	w.Byte(m.RequestedCommandClass)
	w.Byte(m.Version)
	return nil
}

func (m *VersionCommandClassReport) parse(r *bitio.Reader) error {
	var err error
	if m.RequestedCommandClass, err = r.Byte(); err != nil {
		return err
	}
	m.Version, err = r.Byte()
	return err
}
