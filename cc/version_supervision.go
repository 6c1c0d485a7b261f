package cc

import (
	"time"

	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/zwerr"
)

// COMMAND_CLASS_VERSION (0x86); the base interview decorator sends
// VersionCommandClassGet directly rather than through this class, since
// the probe runs before a class's own version is known.
const (
	versionClassID               = 0x86
	versionCommandClassReportCmd = 0x14
)

// Version mirrors COMMAND_CLASS_VERSION: reports the node's
// library/protocol/firmware triple, queried by its DoInterview when the
// node interviews its supported classes.
type Version struct {
	Base
	Library            byte
	ProtocolVersion    byte
	ProtocolSubVersion byte
	FirmwareVersion    byte
	FirmwareSubVersion byte
	HardwareVersion    byte
}

func init() {
	Register(versionClassID, func(securityS0 bool) CommandClass {
		return &Version{Base: NewBase(versionClassID, securityS0)}
	})
}

// DoInterview requests the node's overall version triple.
func (v *Version) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.VersionGet{}, frame.NewHID(versionClassID, 0x12), 3*time.Second)
	if err != nil {
		return err
	}
	report, ok := reply.(*frame.VersionReport)
	if !ok {
		return zwerr.New(zwerr.Protocol, "cc.Version.DoInterview", nil)
	}
	v.Library = report.LibraryType
	v.ProtocolVersion = report.ProtocolVersion
	v.ProtocolSubVersion = report.ProtocolSubVersion
	v.FirmwareVersion = report.FirmwareVersion
	v.FirmwareSubVersion = report.FirmwareSubVersion
	v.HardwareVersion = report.HardwareVersion
	return nil
}

// HandleOwn claims VersionReport/VersionCommandClassReport so unsolicited
// resends do not fall through to the unhandled log line. A VersionReport
// updates the stored triple; a VersionCommandClassReport is claimed
// without storing anything.
func (v *Version) HandleOwn(host Host, msg frame.Message) bool {
	switch m := msg.(type) {
	case *frame.VersionReport:
		v.Library = m.LibraryType
		v.ProtocolVersion = m.ProtocolVersion
		v.ProtocolSubVersion = m.ProtocolSubVersion
		v.FirmwareVersion = m.FirmwareVersion
		v.FirmwareSubVersion = m.FirmwareSubVersion
		v.HardwareVersion = m.HardwareVersion
		return true
	case *frame.VersionCommandClassReport:
		_ = m
		return true
	}
	return false
}

// COMMAND_CLASS_SUPERVISION (0x6C).
const supervisionClassID = 0x6c

// SupervisionHandler processes a command unwrapped from a
// SupervisionGet envelope and reports whether it was handled.
type SupervisionHandler func(host Host, inner frame.Message) bool

// Supervision implements the wrap/unwrap envelope (§4.9 scenario 6): an
// inbound SupervisionGet is unwrapped, the inner command routed through
// Inner, and a SupervisionReport is always sent back reflecting whether
// the inner command was handled.
type Supervision struct {
	Base
	// Inner routes an unwrapped command to the owning node's normal
	// dispatch; set by the node when it constructs this class so
	// Supervision doesn't need to import node.
	Inner SupervisionHandler
}

func init() {
	Register(supervisionClassID, func(securityS0 bool) CommandClass {
		return &Supervision{Base: NewBase(supervisionClassID, securityS0)}
	})
}

// DoInterview is a no-op; Supervision has no state to probe.
func (s *Supervision) DoInterview(host Host) error { return nil }

// HandleOwn unwraps SupervisionGet, replying with a SupervisionReport
// whose status reflects whether Inner handled the embedded command
// (§4.9 point 1; §8 scenario 6).
func (s *Supervision) HandleOwn(host Host, msg frame.Message) bool {
	get, ok := msg.(*frame.SupervisionGet)
	if !ok {
		return false
	}
	handled := false
	if s.Inner != nil && get.Command != nil {
		handled = s.Inner(host, get.Command)
	}
	status := frame.SupervisionStatusFail
	if handled {
		status = frame.SupervisionStatusSuccess
	}
	report := &frame.SupervisionReport{SessionID: get.SessionID, Status: status, Duration: 0}
	_ = host.Send(report, 3*time.Second)
	return true
}

// Wrap builds a SupervisionGet envelope around cmd with the caller-supplied
// session id, for callers that want a delivery acknowledgement from the node's
// application layer rather than just the transport ack.
func Wrap(sessionID byte, cmd frame.Message) *frame.SupervisionGet {
	return &frame.SupervisionGet{SessionID: sessionID, Command: cmd}
}
