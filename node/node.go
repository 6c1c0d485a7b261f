// Package node implements the node/endpoint model (C9): command-class set
// construction from a raw NIF, message dispatch, per-class interview
// orchestration and the storage-dirty-tracking lock. Node and NodeEndPoint
// are the concrete types that close the Host/NodeView interfaces cc and
// events declare without importing this package.
package node

import (
	"sync"
	"time"

	"github.com/gozwave/zwaveip/cc"
	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
)

// Sender is the transport surface a Node needs to reach its device;
// satisfied by *transport.Transport.
type Sender interface {
	Send(cmd frame.Message, sourceEP, destEP byte, timeout time.Duration) error
	SendAndWaitForMessage(cmd frame.Message, sourceEP, destEP byte, replyHid frame.HID, timeout time.Duration) (frame.Message, error)
}

type lockState int32

const (
	stateClean lockState = iota
	stateLockedClean
	stateLockedDirty
)

// Node is one entry in the network's node table: its device class triple,
// listening/FLiRS/security flags, supported and controlled command-class
// sets, and any multi-channel endpoints built on top of it.
type Node struct {
	rootNodeID byte

	listening  bool
	flirs      bool
	isFailed   bool
	securityS0 bool

	basicDeviceClass    byte
	genericDeviceClass  byte
	specificDeviceClass byte

	supported  map[byte]cc.CommandClass
	controlled map[byte]cc.CommandClass
	endpoints  map[byte]*NodeEndPoint

	supervision *cc.Supervision

	listeners *events.Listenable
	tr        Sender
	log       clog.Clog

	lockMu sync.Mutex
	state  lockState
}

// New constructs a Node from the device attributes a NODE_INFO_CACHED_REPORT
// carries, parsing its NIF into supported/controlled command-class
// instances (§4.9).
func New(rootNodeID byte, tr Sender, listening, flirs bool, basicDeviceClass, genericDeviceClass, specificDeviceClass byte, nif []byte) *Node {
	supported, controlled := ParseCommandClasses(nif)
	n := &Node{
		rootNodeID:          rootNodeID,
		listening:           listening,
		flirs:               flirs,
		basicDeviceClass:    basicDeviceClass,
		genericDeviceClass:  genericDeviceClass,
		specificDeviceClass: specificDeviceClass,
		supported:           supported,
		controlled:          controlled,
		endpoints:           map[byte]*NodeEndPoint{},
		listeners:           events.NewListenable("node"),
		tr:                  tr,
		log:                 clog.NewLogger("node"),
	}
	if s, ok := supported[0x6C]; ok {
		if sup, ok := s.(*cc.Supervision); ok {
			n.supervision = sup
		}
	}
	if n.supervision == nil {
		n.supervision = &cc.Supervision{}
	}
	n.supervision.Inner = n.dispatchInner
	return n
}

// RootNodeID satisfies events.NodeView.
func (n *Node) RootNodeID() byte { return n.rootNodeID }

// EndpointID satisfies events.NodeView; the root node is endpoint 0.
func (n *Node) EndpointID() byte { return 0 }

// NodeView satisfies cc.Host.
func (n *Node) NodeView() events.NodeView { return n }

// Listeners satisfies cc.Host.
func (n *Node) Listeners() *events.Listenable { return n.listeners }

// Send satisfies cc.Host, addressing the root endpoint (0).
func (n *Node) Send(cmd frame.Message, timeout time.Duration) error {
	return n.tr.Send(cmd, 0, 0, timeout)
}

// SendAndWaitForMessage satisfies cc.Host, addressing the root endpoint (0).
func (n *Node) SendAndWaitForMessage(cmd frame.Message, replyHid frame.HID, timeout time.Duration) (frame.Message, error) {
	return n.tr.SendAndWaitForMessage(cmd, 0, 0, replyHid, timeout)
}

// IsFailed reports whether the controller marked this node as failed.
func (n *Node) IsFailed() bool { return n.isFailed }

// SetFailed updates the failed mark, emitting nodeUpdated if it changed.
func (n *Node) SetFailed(failed bool) {
	if n.isFailed == failed {
		return
	}
	n.isFailed = failed
	n.markUpdated()
}

// Listening reports whether the node is an always-on listening device.
func (n *Node) Listening() bool { return n.listening }

// FLiRS reports whether the node is a Frequently Listening Routing Slave.
func (n *Node) FLiRS() bool { return n.flirs }

// BasicDeviceClass, GenericDeviceClass and SpecificDeviceClass return the
// node's device class triple from its NIF.
func (n *Node) BasicDeviceClass() byte    { return n.basicDeviceClass }
func (n *Node) GenericDeviceClass() byte  { return n.genericDeviceClass }
func (n *Node) SpecificDeviceClass() byte { return n.specificDeviceClass }

// Supports reports whether classID is in the supported set.
func (n *Node) Supports(classID byte) bool {
	_, ok := n.supported[classID]
	return ok
}

// SupportedClass returns the node's instance of classID, if supported.
func (n *Node) SupportedClass(classID byte) (cc.CommandClass, bool) {
	inst, ok := n.supported[classID]
	return inst, ok
}

// SupportedClasses returns every command class instance the root node
// supports, for callers that need to enumerate rather than probe one id
// at a time (e.g. a debug surface listing interview state).
func (n *Node) SupportedClasses() []cc.CommandClass {
	out := make([]cc.CommandClass, 0, len(n.supported))
	for _, inst := range n.supported {
		out = append(out, inst)
	}
	return out
}

// Endpoint returns the multi-channel endpoint ep, if it has been built.
func (n *Node) Endpoint(ep byte) (*NodeEndPoint, bool) {
	e, ok := n.endpoints[ep]
	return e, ok
}

// Endpoints returns every built multi-channel endpoint.
func (n *Node) Endpoints() map[byte]*NodeEndPoint { return n.endpoints }

// BuildEndpoint constructs and registers endpoint ep from its capability
// report's command-class list (§4.12: the app facade drives this after
// reading COMMAND_CLASS_MULTI_CHANNEL_V2's endpoint count).
func (n *Node) BuildEndpoint(ep byte, nif []byte) *NodeEndPoint {
	supported, controlled := ParseCommandClasses(nif)
	e := &NodeEndPoint{parent: n, ep: ep, supported: supported, controlled: controlled}
	n.endpoints[ep] = e
	return e
}

// WithStorageLock holds the storage lock for fn's duration, suspending
// nodeUpdated emission and collapsing any number of attribute changes made
// during fn into at most one nodeUpdated on exit (§4.9).
func (n *Node) WithStorageLock(fn func()) {
	n.lockMu.Lock()
	n.state = stateLockedClean
	n.lockMu.Unlock()

	fn()

	n.lockMu.Lock()
	dirty := n.state == stateLockedDirty
	n.state = stateClean
	n.lockMu.Unlock()

	if dirty {
		n.emitUpdated()
	}
}

// markUpdated records an attribute change, emitting nodeUpdated
// immediately unless a storage lock is currently held.
func (n *Node) markUpdated() {
	n.lockMu.Lock()
	switch n.state {
	case stateClean:
		n.lockMu.Unlock()
		n.emitUpdated()
		return
	case stateLockedClean:
		n.state = stateLockedDirty
	}
	n.lockMu.Unlock()
}

func (n *Node) emitUpdated() {
	n.listeners.Speak(func(listener interface{}) {
		if l, ok := listener.(events.NodeEvents); ok {
			l.NodeUpdated(n)
		}
	})
}

// Interview runs each supported class's interview decorator, under a
// single storage lock spanning the whole node (§4.9/§4.12).
func (n *Node) Interview() {
	n.WithStorageLock(func() {
		for _, inst := range n.supported {
			if cc.Interview(n, inst) {
				n.markUpdated()
			}
		}
		for _, ep := range n.endpoints {
			for _, inst := range ep.supported {
				if cc.Interview(ep, inst) {
					n.markUpdated()
				}
			}
		}
	})
}

// HandleMessage implements the base dispatch order (§4.9): a
// SUPERVISION_GET envelope is always unwrapped first and always answered;
// everything else routes through the owning endpoint's command class,
// then listener broadcast, then an unhandled log line.
func (n *Node) HandleMessage(msg frame.Message, sourceEP, destEP byte) {
	if get, ok := msg.(*frame.SupervisionGet); ok {
		n.supervision.HandleOwn(n.hostFor(destEP), get)
		return
	}

	host := n.hostFor(destEP)
	classID := msg.Hid().CmdClass()
	inst, ok := n.classFor(destEP, classID)
	if !ok {
		inst = &cc.Unknown{Base: cc.NewBase(classID, false)}
	}
	cc.Dispatch(host, inst, msg, cc.MessageFlags{SourceEP: sourceEP, DestEP: destEP})
}

// dispatchInner routes a command unwrapped from a SUPERVISION_GET envelope
// to the root device's instance of its command class via HandleOwn,
// reporting whether that instance handled it. Endpoint classes and
// listener broadcast are not consulted; a class the root does not support
// reports false.
func (n *Node) dispatchInner(host cc.Host, inner frame.Message) bool {
	classID := inner.Hid().CmdClass()
	inst, ok := n.supported[classID]
	if !ok {
		return false
	}
	return inst.HandleOwn(host, inner)
}

func (n *Node) hostFor(destEP byte) cc.Host {
	if destEP == 0 {
		return n
	}
	if e, ok := n.endpoints[destEP]; ok {
		return e
	}
	return n
}

func (n *Node) classFor(destEP, classID byte) (cc.CommandClass, bool) {
	if destEP != 0 {
		if e, ok := n.endpoints[destEP]; ok {
			if inst, ok := e.supported[classID]; ok {
				return inst, true
			}
		}
	}
	inst, ok := n.supported[classID]
	return inst, ok
}
