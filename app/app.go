// Package app implements the application facade (C12): node-list startup
// and reconciliation on top of a gateway controller, building a Node (and
// its multi-channel endpoints) per entry and driving the storage-lock-
// wrapped interview, then re-broadcasting everything as the typed
// NodeEvents/ApplicationEvents a host application consumes.
package app

import (
	"sync"
	"time"

	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/gateway"
	"github.com/gozwave/zwaveip/node"
)

const multiChannelClassID = 0x60

// DefaultRPCTimeout bounds every gateway RPC issued during startup and
// reconciliation.
const DefaultRPCTimeout = 5 * time.Second

// Application owns the live node table and drives it from a gateway's
// node-list/node-info RPCs and unsolicited events.
type Application struct {
	gw        *gateway.Gateway
	mu        sync.Mutex
	nodes     map[byte]*node.Node
	listeners *events.Listenable
	log       clog.Clog
}

// New builds a facade over gw. Call Startup once the gateway's control
// connection is up.
func New(gw *gateway.Gateway) *Application {
	a := &Application{
		gw:        gw,
		nodes:     map[byte]*node.Node{},
		listeners: events.NewListenable("app"),
		log:       clog.NewLogger("app"),
	}
	gw.Listeners().Register(&gatewayWatcher{app: a})
	gw.OnNodeMessage(a.dispatchNodeMessage)
	return a
}

// dispatchNodeMessage routes an inbound command-class message from a
// node's sub-connection to that Node's own handler, where it is claimed
// by a registered command class or broadcast via TransportEvents (§4.9).
func (a *Application) dispatchNodeMessage(nodeID byte, msg frame.Message, sourceEP, destEP byte) {
	n, ok := a.Node(nodeID)
	if !ok {
		a.log.Warn("app: message from unknown node %d", nodeID)
		return
	}
	n.HandleMessage(msg, sourceEP, destEP)
}

// Listeners returns the facade's observer list: NodeEvents for table
// lifecycle/attribute changes, ApplicationEvents for inclusion/exclusion
// outcomes.
func (a *Application) Listeners() *events.Listenable { return a.listeners }

// Node returns the live Node for id, if known.
func (a *Application) Node(id byte) (*node.Node, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n, ok := a.nodes[id]
	return n, ok
}

// Nodes returns a snapshot of the live node table, keyed by node id.
func (a *Application) Nodes() map[byte]*node.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[byte]*node.Node, len(a.nodes))
	for id, n := range a.nodes {
		out[id] = n
	}
	return out
}

// Startup loads the full node list, builds a Node per non-controller
// entry, interviews each one, and emits nodesAdded once followed by
// nodeAdded per node (§4.12).
func (a *Application) Startup() error {
	nodeIDs, err := a.gw.GetNodeList(DefaultRPCTimeout)
	if err != nil {
		return err
	}
	controllerID := a.gw.ControllerID()

	var added []events.NodeView
	for id := range nodeIDs {
		if id == controllerID {
			continue
		}
		n, err := a.buildNode(id)
		if err != nil {
			a.log.Warn("app: build node %d: %v", id, err)
			continue
		}
		a.mu.Lock()
		a.nodes[id] = n
		a.mu.Unlock()
		added = append(added, n)
	}

	a.emitNodesAdded(added)
	for _, view := range added {
		a.emitNodeAdded(view)
	}
	return nil
}

func (a *Application) buildNode(id byte) (*node.Node, error) {
	if _, err := a.gw.IPOfNode(id, DefaultRPCTimeout); err != nil {
		return nil, err
	}
	sender, err := a.gw.ConnectToNode(id)
	if err != nil {
		return nil, err
	}
	info, err := a.gw.GetNodeInfo(id, 0, DefaultRPCTimeout)
	if err != nil {
		return nil, err
	}

	n := node.New(id, sender, info.Listening, info.FLiRS, info.BasicDeviceClass, info.GenericDeviceClass, info.SpecificDeviceClass, info.CommandClasses)

	if n.Supports(multiChannelClassID) {
		individual, _, err := a.gw.GetMultiChannelEndPoints(id, DefaultRPCTimeout)
		if err != nil {
			a.log.Warn("app: multi channel end points for node %d: %v", id, err)
		} else {
			for ep := byte(1); ep <= individual; ep++ {
				capability, err := a.gw.GetMultiChannelCapability(id, ep, DefaultRPCTimeout)
				if err != nil {
					a.log.Warn("app: multi channel capability for node %d endpoint %d: %v", id, ep, err)
					continue
				}
				n.BuildEndpoint(ep, capability.CommandClasses)
			}
		}
	}

	n.Interview()
	return n, nil
}

// reconcile re-fetches the node list and diffs it against the live table:
// nodes absent from the new list are removed (nodeRemoved per id, batched
// nodesRemoved), nodes newly present are built and added (batched
// nodesAdded, then nodeAdded per node) (§4.12).
func (a *Application) reconcile() {
	nodeIDs, err := a.gw.GetNodeList(DefaultRPCTimeout)
	if err != nil {
		a.log.Warn("app: reconcile getNodeList: %v", err)
		return
	}
	controllerID := a.gw.ControllerID()

	a.mu.Lock()
	var removedIDs []byte
	for id := range a.nodes {
		if !nodeIDs[id] {
			removedIDs = append(removedIDs, id)
		}
	}
	for _, id := range removedIDs {
		delete(a.nodes, id)
	}
	a.mu.Unlock()
	for _, id := range removedIDs {
		a.emitNodeRemoved(id)
	}
	if len(removedIDs) > 0 {
		a.emitNodesRemoved(removedIDs)
	}

	var added []events.NodeView
	for id := range nodeIDs {
		if id == controllerID {
			continue
		}
		a.mu.Lock()
		_, known := a.nodes[id]
		a.mu.Unlock()
		if known {
			continue
		}
		n, err := a.buildNode(id)
		if err != nil {
			a.log.Warn("app: reconcile build node %d: %v", id, err)
			continue
		}
		a.mu.Lock()
		a.nodes[id] = n
		a.mu.Unlock()
		added = append(added, n)
	}
	a.emitNodesAdded(added)
	for _, view := range added {
		a.emitNodeAdded(view)
	}
}

func (a *Application) emitNodeAdded(n events.NodeView) {
	a.listeners.Speak(func(listener interface{}) {
		if l, ok := listener.(events.NodeEvents); ok {
			l.NodeAdded(n)
		}
	})
}

func (a *Application) emitNodesAdded(nodes []events.NodeView) {
	if len(nodes) == 0 {
		return
	}
	a.listeners.Speak(func(listener interface{}) {
		if l, ok := listener.(events.NodeEvents); ok {
			l.NodesAdded(nodes)
		}
	})
}

func (a *Application) emitNodeRemoved(id byte) {
	a.listeners.Speak(func(listener interface{}) {
		if l, ok := listener.(events.NodeEvents); ok {
			l.NodeRemoved(id)
		}
	})
}

func (a *Application) emitNodesRemoved(ids []byte) {
	a.listeners.Speak(func(listener interface{}) {
		if l, ok := listener.(events.NodeEvents); ok {
			l.NodesRemoved(ids)
		}
	})
}

// gatewayWatcher is the facade's own listener on the gateway, translating
// its raw NodeListUpdated/ApplicationEvents signals into table
// reconciliation and the nodeId=0 exclusion-outside-network special case.
type gatewayWatcher struct {
	app *Application
}

func (w *gatewayWatcher) NodeAdded(events.NodeView)             {}
func (w *gatewayWatcher) NodesAdded([]events.NodeView)           {}
func (w *gatewayWatcher) NodeRemoved(byte)                       {}
func (w *gatewayWatcher) NodesRemoved([]byte)                    {}
func (w *gatewayWatcher) NodeUpdated(events.NodeView)            {}
func (w *gatewayWatcher) CommandClassUpdated(events.NodeView, byte) {}

// NodeListUpdated fires reconciliation when an unsolicited NODE_LIST_REPORT
// tells the gateway the network's node set has changed.
func (w *gatewayWatcher) NodeListUpdated() { w.app.reconcile() }

// AddNodeStatus is not interpreted by the facade itself; a host listens on
// Application.Listeners() for the raw ApplicationEvents instead.
func (w *gatewayWatcher) AddNodeStatus(status byte, node events.NodeView) {}

// RemoveNodeStatus implements the nodeId=0 exclusion-outside-network case:
// a Done status paired with node id 0 still emits nodeRemoved(0) even
// though no such node was ever in the live table (§4.12).
func (w *gatewayWatcher) RemoveNodeStatus(status byte, nodeID byte) {
	if status == frame.AddNodeStatusDone && nodeID == 0 {
		w.app.emitNodeRemoved(0)
		w.app.emitNodesRemoved([]byte{0})
	}
}
