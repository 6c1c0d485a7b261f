package cc

import (
	"time"

	"github.com/gozwave/zwaveip/frame"
)

// COMMAND_CLASS_MULTI_CHANNEL (0x60): endpoint enumeration and per-endpoint
// capability discovery, the app facade's basis for deciding whether a
// node exposes sub-devices worth modeling as endpoints (SPEC_FULL §3).
const multiChannelClassID = 0x60

// EndpointCapability is one endpoint's device class and supported
// command-class set, as reported by MULTI_CHANNEL_CAPABILITY_REPORT.
type EndpointCapability struct {
	GenericDeviceClass  byte
	SpecificDeviceClass byte
	CommandClasses      []byte
}

// MultiChannel mirrors COMMAND_CLASS_MULTI_CHANNEL.
type MultiChannel struct {
	Base
	Identical           bool
	IndividualEndPoints byte
	AggregatedEndPoints byte
	Capabilities        map[byte]EndpointCapability
}

func init() {
	Register(multiChannelClassID, func(securityS0 bool) CommandClass {
		return &MultiChannel{
			Base:         NewBase(multiChannelClassID, securityS0),
			Capabilities: map[byte]EndpointCapability{},
		}
	})
}

// DoInterview requests the endpoint count, then each individual
// endpoint's capability report.
func (m *MultiChannel) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.MultiChannelEndPointGet{}, frame.NewHID(multiChannelClassID, 0x08), 3*time.Second)
	if err != nil {
		return err
	}
	report, ok := reply.(*frame.MultiChannelEndPointReport)
	if !ok {
		return nil
	}
	m.Identical = report.Identical
	m.IndividualEndPoints = report.IndividualEndPoints
	m.AggregatedEndPoints = report.AggregatedEndPoints

	for ep := byte(1); ep <= report.IndividualEndPoints; ep++ {
		if err := m.interviewEndPoint(host, ep); err != nil {
			return err
		}
		if m.Identical {
			break
		}
	}
	return nil
}

func (m *MultiChannel) interviewEndPoint(host Host, ep byte) error {
	reply, err := host.SendAndWaitForMessage(&frame.MultiChannelCapabilityGet{EndPoint: ep}, frame.NewHID(multiChannelClassID, 0x0A), 3*time.Second)
	if err != nil {
		return err
	}
	report, ok := reply.(*frame.MultiChannelCapabilityReport)
	if !ok {
		return nil
	}
	cap := EndpointCapability{
		GenericDeviceClass:  report.GenericDeviceClass,
		SpecificDeviceClass: report.SpecificDeviceClass,
		CommandClasses:      report.CommandClasses,
	}
	m.Capabilities[report.EndPoint] = cap
	if m.Identical {
		for e := byte(1); e <= m.IndividualEndPoints; e++ {
			m.Capabilities[e] = cap
		}
	}
	return nil
}

// TotalEndPoints is IndividualEndPoints + AggregatedEndPoints.
func (m *MultiChannel) TotalEndPoints() int {
	return int(m.IndividualEndPoints) + int(m.AggregatedEndPoints)
}

// HandleOwn claims the endpoint/capability reports so unsolicited resends
// update cached state instead of falling through to the unhandled log.
func (m *MultiChannel) HandleOwn(host Host, msg frame.Message) bool {
	switch report := msg.(type) {
	case *frame.MultiChannelEndPointReport:
		m.Identical = report.Identical
		m.IndividualEndPoints = report.IndividualEndPoints
		m.AggregatedEndPoints = report.AggregatedEndPoints
		return true
	case *frame.MultiChannelCapabilityReport:
		m.Capabilities[report.EndPoint] = EndpointCapability{
			GenericDeviceClass:  report.GenericDeviceClass,
			SpecificDeviceClass: report.SpecificDeviceClass,
			CommandClasses:      report.CommandClasses,
		}
		return true
	}
	return false
}
