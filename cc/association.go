package cc

import (
	"time"

	"github.com/gozwave/zwaveip/frame"
)

// COMMAND_CLASS_ASSOCIATION (0x85): groups of destinations a node sends
// its reports to. Group 1 is conventionally the lifeline (GLOSSARY).
const associationClassID = 0x85

// LifelineGroup is the association group every Z-Wave Plus device routes
// its unsolicited reports through; hard-coded per spec.md §9 quirks.
const LifelineGroup = 1

// Association mirrors COMMAND_CLASS_ASSOCIATION.
type Association struct {
	Base
	Groupings byte
	Groups    map[byte]frame.Nodes
}

func init() {
	Register(associationClassID, func(securityS0 bool) CommandClass {
		return &Association{Base: NewBase(associationClassID, securityS0), Groups: map[byte]frame.Nodes{}}
	})
}

// DoInterview reads the grouping count and the lifeline group's members.
func (a *Association) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(&frame.AssociationGroupingsGet{}, frame.NewHID(associationClassID, 0x06), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.AssociationGroupingsReport); ok {
		a.Groupings = report.SupportedGroupings
	}

	reply, err = host.SendAndWaitForMessage(&frame.AssociationGet{GroupingIdentifier: LifelineGroup}, frame.NewHID(associationClassID, 0x03), 3*time.Second)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.AssociationReport); ok {
		a.Groups[report.GroupingIdentifier] = report.Nodes
	}
	return nil
}

// HandleOwn claims AssociationReport, updating the stored group.
func (a *Association) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.AssociationReport)
	if !ok {
		return false
	}
	a.Groups[report.GroupingIdentifier] = report.Nodes
	return true
}

// Set adds nodes to grouping via ASSOCIATION_SET.
func (a *Association) Set(host Host, grouping byte, nodes frame.Nodes, timeout time.Duration) error {
	return host.Send(&frame.AssociationSet{GroupingIdentifier: grouping, Nodes: nodes}, timeout)
}

// Remove removes nodes from grouping via ASSOCIATION_REMOVE.
func (a *Association) Remove(host Host, grouping byte, nodes frame.Nodes, timeout time.Duration) error {
	return host.Send(&frame.AssociationRemove{GroupingIdentifier: grouping, Nodes: nodes}, timeout)
}

// COMMAND_CLASS_ASSOCIATION_GRP_INFO (0x59): human-readable group names
// and profile identification, supplementing plain Association (SPEC_FULL
// §3: carried over from pyzwave's command class catalog).
const associationGrpInfoClassID = 0x59

// AssociationGrpInfo mirrors COMMAND_CLASS_ASSOCIATION_GRP_INFO.
type AssociationGrpInfo struct {
	Base
	Names map[byte]string
}

func init() {
	Register(associationGrpInfoClassID, func(securityS0 bool) CommandClass {
		return &AssociationGrpInfo{Base: NewBase(associationGrpInfoClassID, securityS0), Names: map[byte]string{}}
	})
}

// DoInterview requests the lifeline group's name.
func (g *AssociationGrpInfo) DoInterview(host Host) error {
	reply, err := host.SendAndWaitForMessage(
		&frame.AssociationGroupInfoNameGet{GroupingIdentifier: LifelineGroup},
		frame.NewHID(associationGrpInfoClassID, 0x02),
		3*time.Second,
	)
	if err != nil {
		return err
	}
	if report, ok := reply.(*frame.AssociationGroupInfoNameReport); ok {
		g.Names[report.GroupingIdentifier] = report.Name
	}
	return nil
}

// HandleOwn claims AssociationGroupInfoNameReport.
func (g *AssociationGrpInfo) HandleOwn(host Host, msg frame.Message) bool {
	report, ok := msg.(*frame.AssociationGroupInfoNameReport)
	if !ok {
		return false
	}
	g.Names[report.GroupingIdentifier] = report.Name
	return true
}
