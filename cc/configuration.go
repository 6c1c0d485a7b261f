package cc

import (
	"time"

	"github.com/gozwave/zwaveip/frame"
)

// COMMAND_CLASS_CONFIGURATION (0x70): vendor-specific tunable parameters.
// Parameters are opaque to the stack; callers name them by number.
const configurationClassID = 0x70

// Configuration mirrors COMMAND_CLASS_CONFIGURATION. It has nothing to
// probe during the standard interview: parameter numbers are
// application-specific, so values are fetched on demand via Get.
type Configuration struct {
	Base
	Values map[byte]int32
}

func init() {
	Register(configurationClassID, func(securityS0 bool) CommandClass {
		return &Configuration{Base: NewBase(configurationClassID, securityS0), Values: map[byte]int32{}}
	})
}

// DoInterview is a no-op; parameter numbers aren't enumerable.
func (c *Configuration) DoInterview(host Host) error { return nil }

// HandleOwn claims ConfigurationReport, caching the reported value.
func (c *Configuration) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.ConfigurationReport)
	if !ok {
		return false
	}
	c.Values[report.ParameterNumber] = report.Value
	return true
}

// Get requests parameter's current value via CONFIGURATION_GET.
func (c *Configuration) Get(host Host, parameter byte, timeout time.Duration) (int32, error) {
	reply, err := host.SendAndWaitForMessage(
		&frame.ConfigurationGet{ParameterNumber: parameter},
		frame.NewHID(configurationClassID, 0x06),
		timeout,
	)
	if err != nil {
		return 0, err
	}
	report, ok := reply.(*frame.ConfigurationReport)
	if !ok || report.ParameterNumber != parameter {
		return 0, nil
	}
	c.Values[parameter] = report.Value
	return report.Value, nil
}

// Set writes parameter via CONFIGURATION_SET. size must be 1, 2 or 4.
func (c *Configuration) Set(host Host, parameter byte, size byte, value int32, timeout time.Duration) error {
	return host.Send(&frame.ConfigurationSet{ParameterNumber: parameter, Size: size, Value: value}, timeout)
}
