package node

import (
	"time"

	"github.com/gozwave/zwaveip/cc"
	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
)

// NodeEndPoint is one multi-channel endpoint on a Node: it shares the
// parent's root node id and device attributes but has its own
// command-class set and addresses itself on the wire (§4.9).
type NodeEndPoint struct {
	parent *Node
	ep     byte

	supported  map[byte]cc.CommandClass
	controlled map[byte]cc.CommandClass
}

// RootNodeID satisfies events.NodeView, delegating to the parent node.
func (e *NodeEndPoint) RootNodeID() byte { return e.parent.rootNodeID }

// EndpointID satisfies events.NodeView.
func (e *NodeEndPoint) EndpointID() byte { return e.ep }

// NodeView satisfies cc.Host.
func (e *NodeEndPoint) NodeView() events.NodeView { return e }

// Listeners satisfies cc.Host, sharing the parent node's observer list.
func (e *NodeEndPoint) Listeners() *events.Listenable { return e.parent.listeners }

// Send satisfies cc.Host, addressing this endpoint.
func (e *NodeEndPoint) Send(cmd frame.Message, timeout time.Duration) error {
	return e.parent.tr.Send(cmd, 0, e.ep, timeout)
}

// SendAndWaitForMessage satisfies cc.Host, addressing this endpoint.
func (e *NodeEndPoint) SendAndWaitForMessage(cmd frame.Message, replyHid frame.HID, timeout time.Duration) (frame.Message, error) {
	return e.parent.tr.SendAndWaitForMessage(cmd, 0, e.ep, replyHid, timeout)
}

// Parent returns the root node this endpoint belongs to.
func (e *NodeEndPoint) Parent() *Node { return e.parent }

// Listening, FLiRS, IsFailed and BasicDeviceClass delegate to the parent
// node (§4.9: "Attributes ... delegate to the parent").
func (e *NodeEndPoint) Listening() bool        { return e.parent.listening }
func (e *NodeEndPoint) FLiRS() bool            { return e.parent.flirs }
func (e *NodeEndPoint) IsFailed() bool         { return e.parent.isFailed }
func (e *NodeEndPoint) BasicDeviceClass() byte { return e.parent.basicDeviceClass }

// Supports reports whether classID is in this endpoint's supported set.
func (e *NodeEndPoint) Supports(classID byte) bool {
	_, ok := e.supported[classID]
	return ok
}

// SupportedClass returns this endpoint's instance of classID, if supported.
func (e *NodeEndPoint) SupportedClass(classID byte) (cc.CommandClass, bool) {
	inst, ok := e.supported[classID]
	return inst, ok
}
