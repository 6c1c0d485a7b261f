package cc

import (
	"time"

	"github.com/gozwave/zwaveip/frame"
)

// COMMAND_CLASS_BASIC (0x20): the fallback single-value actuator/sensor
// interface most legacy devices expose alongside their specific class.
const basicClassID = 0x20

// Basic mirrors COMMAND_CLASS_BASIC.
type Basic struct {
	Base
	Value byte
}

func init() {
	Register(basicClassID, func(securityS0 bool) CommandClass {
		return &Basic{Base: NewBase(basicClassID, securityS0)}
	})
}

// DoInterview requests the node's current Basic value.
func (b *Basic) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.BasicGet{}, frame.NewHID(basicClassID, 0x03), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.BasicReport); ok {
		b.Value = report.Value
	}
	return nil
}

// HandleOwn claims BasicReport, updating the stored value.
func (b *Basic) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.BasicReport)
	if !ok {
		return false
	}
	b.Value = report.Value
	return true
}

// Set sends BASIC_SET(value) to the node.
func (b *Basic) Set(host Host, value byte, timeout time.Duration) error {
	return host.Send(&frame.BasicSet{Value: value}, timeout)
}
