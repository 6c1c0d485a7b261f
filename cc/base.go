// Package cc implements the command-class registry and base (C4): a
// class-id → constructor registry, a shared attribute/version/interview
// bookkeeping type (Base), the interview decorator, and message
// dispatch. Concrete classes live one file per command class.
//
// cc depends only on frame and events; it never imports node. Each
// class's owning node is reached through the Host interface below, the
// non-owning handle that breaks the Node↔CommandClass reference cycle
// described in spec.md §9.
package cc

import (
	"fmt"
	"time"

	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/zwerr"
)

// Host is the handle a command class uses to reach its owning node.
type Host interface {
	// NodeView identifies the owning node for event dispatch.
	NodeView() events.NodeView
	// Send delivers cmd to the owning node's endpoint and waits for
	// transport-level delivery (an ack), not a reply.
	Send(cmd frame.Message, timeout time.Duration) error
	// SendAndWaitForMessage sends cmd and waits for the next inbound
	// message with replyHid from the same endpoint.
	SendAndWaitForMessage(cmd frame.Message, replyHid frame.HID, timeout time.Duration) (frame.Message, error)
	// Listeners returns the node's observer list, shared by every
	// command class it owns.
	Listeners() *events.Listenable
}

// MessageFlags carries per-delivery routing metadata that isn't part of
// the wire frame itself.
type MessageFlags struct {
	SourceEP, DestEP byte
}

// CommandClass is the contract every concrete class satisfies.
type CommandClass interface {
	// ID returns the command class id.
	ID() byte
	// Base returns the shared bookkeeping embedded by every concrete
	// class, used by the Interview/Dispatch decorators.
	Base() *Base
	// HandleOwn dispatches msg if it's one of this class's own reply
	// types, returning true if handled. Dispatch falls through to
	// listener broadcast when it returns false.
	HandleOwn(host Host, msg frame.Message) bool
	// DoInterview performs the class-specific interview step. Classes
	// with nothing to probe return nil immediately.
	DoInterview(host Host) error
}

// Base holds the attribute storage and bookkeeping shared by every
// command class: identity, negotiated version, interview state and the
// Security Scheme 0 mark carried from NIF parsing (§4.9).
type Base struct {
	id          byte
	version     uint8
	interviewed bool
	securityS0  bool
	log         clog.Clog
}

// NewBase constructs the shared bookkeeping for a class with the given
// id, marked secure if it followed a Security Scheme 0 Mark in the NIF.
func NewBase(id byte, securityS0 bool) Base {
	return Base{id: id, securityS0: securityS0, log: clog.NewLogger("cc")}
}

// ID returns the command class id.
func (b *Base) ID() byte { return b.id }

// Version returns the negotiated class version (0 = unknown/unprobed).
func (b *Base) Version() uint8 { return b.version }

// Interviewed reports whether the interview decorator has completed
// successfully for this class at least once.
func (b *Base) Interviewed() bool { return b.interviewed }

// SecurityS0 reports whether this class was marked secure in the NIF.
func (b *Base) SecurityS0() bool { return b.securityS0 }

// Base satisfies CommandClass.Base() for embedders.
func (b *Base) Base() *Base { return b }

// Constructor builds a fresh, unattached instance of a registered class.
type Constructor func(securityS0 bool) CommandClass

var registry = map[byte]Constructor{}

// Register associates a constructor with a command class id. Called
// from each concrete class file's init().
func Register(id byte, ctor Constructor) {
	if _, dup := registry[id]; dup {
		panic(fmt.Sprintf("cc: duplicate registration for class 0x%02x", id))
	}
	registry[id] = ctor
}

// Unknown wraps an unrecognized class id so a node can still carry it in
// its supported/controlled maps without special-casing nil.
type Unknown struct {
	Base
}

// DoInterview is a no-op; an unrecognized class has nothing to probe.
func (u *Unknown) DoInterview(host Host) error { return nil }

// HandleOwn never claims a message; everything falls through to
// listener broadcast and the unhandled log line.
func (u *Unknown) HandleOwn(host Host, msg frame.Message) bool { return false }

// Load constructs the registered class for id, or an Unknown wrapper if
// none is registered (§4.4: load(cmdClassId, securityS0, node)).
func Load(id byte, securityS0 bool) CommandClass {
	if ctor, ok := registry[id]; ok {
		return ctor(securityS0)
	}
	return &Unknown{Base: NewBase(id, securityS0)}
}

// Interview runs the shared interview decorator (§4.4) around self's
// DoInterview: probes the class version if unknown, skips the rest of
// the interview if the probe settles at 0, and on success marks the
// class interviewed and notifies NodeEvents listeners.
func Interview(host Host, self CommandClass) bool {
	b := self.Base()
	if b.version == 0 && b.id != versionClassID {
		if err := probeVersion(host, b); err != nil {
			b.log.Warn("class 0x%02x: version probe: %v", b.id, err)
			return false
		}
		if b.version == 0 {
			return true
		}
	}

	if err := self.DoInterview(host); err != nil {
		b.log.Warn("class 0x%02x: interview: %v", b.id, err)
		return false
	}

	b.interviewed = true
	host.Listeners().Speak(func(listener interface{}) {
		if l, ok := listener.(events.NodeEvents); ok {
			l.CommandClassUpdated(host.NodeView(), b.id)
		}
	})
	return true
}

func probeVersion(host Host, b *Base) error {
	reply, err := host.SendAndWaitForMessage(
		&frame.VersionCommandClassGet{RequestedCommandClass: b.id},
		frame.NewHID(versionClassID, versionCommandClassReportCmd),
		3*time.Second,
	)
	if err != nil {
		return err
	}
	report, ok := reply.(*frame.VersionCommandClassReport)
	if !ok {
		return zwerr.New(zwerr.Protocol, "cc.probeVersion", nil)
	}
	b.version = report.Version
	return nil
}

// Dispatch implements the base handleMessage order (§4.4): a registered
// per-type handler on the class first, then listener broadcast, then an
// unhandled log line.
func Dispatch(host Host, self CommandClass, msg frame.Message, flags MessageFlags) {
	if self.HandleOwn(host, msg) {
		return
	}

	delivered := false
	host.Listeners().Speak(func(listener interface{}) {
		if l, ok := listener.(events.TransportEvents); ok {
			l.MessageReceived(host.NodeView(), flags.SourceEP, flags.DestEP, msg, nil)
			delivered = true
		}
	})
	if !delivered {
		self.Base().log.Debug("class 0x%02x: unhandled message %T", self.ID(), msg)
	}
}
