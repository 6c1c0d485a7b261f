// Package events implements the listener/eventing component (C11): an
// ordered observer list plus the typed event-family interfaces that
// replace the original's duck-typed "call a method named after the
// message" dispatch (spec.md §9 design notes). A listener only needs to
// implement the event family it cares about; Listenable type-asserts
// each registered observer against the family being spoken to.
package events

import (
	"sync"

	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/frame"
)

// NodeView is the minimal read-only identity a listener needs to react
// to a node-related event, satisfied by *node.Node without this package
// importing node (which would cycle back through cc).
type NodeView interface {
	RootNodeID() byte
	EndpointID() byte
}

// TransportEvents is implemented by observers interested in raw inbound
// command-class traffic, mirroring the embedding API's messageReceived
// callback (spec.md §6).
type TransportEvents interface {
	MessageReceived(node NodeView, sourceEP, destEP byte, msg frame.Message, headerExt []frame.HeaderExtensionOption)
}

// NodeEvents is implemented by observers interested in the node table's
// lifecycle: additions, removals, attribute updates and per-class
// interview completion.
type NodeEvents interface {
	NodeAdded(node NodeView)
	NodesAdded(nodes []NodeView)
	NodeRemoved(nodeID byte)
	NodesRemoved(nodeIDs []byte)
	NodeUpdated(node NodeView)
	NodeListUpdated()
	CommandClassUpdated(node NodeView, classID byte)
}

// ApplicationEvents is implemented by observers interested in inclusion
// and exclusion outcomes reported by the gateway controller.
type ApplicationEvents interface {
	AddNodeStatus(status byte, node NodeView)
	RemoveNodeStatus(status byte, nodeID byte)
}

// Listenable is an ordered set of observers (§4.11). Speak invokes a
// callback against every registered observer inline, in registration
// order; Ask spawns one goroutine per observer and blocks until all
// return, modeling the asynchronous-handler case. A panicking observer
// is recovered and logged rather than aborting its siblings.
type Listenable struct {
	mu        sync.Mutex
	listeners []interface{}
	log       clog.Clog
}

// NewListenable builds an empty observer list logging under component.
func NewListenable(component string) *Listenable {
	return &Listenable{log: clog.NewLogger(component)}
}

// Register appends listener to the observer list. A listener only needs
// to implement whichever event-family interfaces it cares about.
func (l *Listenable) Register(listener interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

// Unregister removes the first registration of listener, if present.
func (l *Listenable) Unregister(listener interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.listeners {
		if existing == listener {
			l.listeners = append(l.listeners[:i:i], l.listeners[i+1:]...)
			return
		}
	}
}

func (l *Listenable) snapshot() []interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]interface{}, len(l.listeners))
	copy(out, l.listeners)
	return out
}

// Speak invokes fn synchronously against every registered listener, in
// order, on the calling goroutine.
func (l *Listenable) Speak(fn func(listener interface{})) {
	for _, listener := range l.snapshot() {
		l.safeCall(listener, fn)
	}
}

// Ask invokes fn against every registered listener concurrently and
// blocks until all have returned.
func (l *Listenable) Ask(fn func(listener interface{})) {
	listeners := l.snapshot()
	var wg sync.WaitGroup
	wg.Add(len(listeners))
	for _, listener := range listeners {
		listener := listener
		go func() {
			defer wg.Done()
			l.safeCall(listener, fn)
		}()
	}
	wg.Wait()
}

func (l *Listenable) safeCall(listener interface{}, fn func(listener interface{})) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("listener %T panicked: %v", listener, r)
		}
	}()
	fn(listener)
}
