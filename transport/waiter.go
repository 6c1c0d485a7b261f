package transport

import (
	"sync"

	"github.com/gozwave/zwaveip/frame"
)

// messageWaiter is one registered wait for the next inbound message
// matching a given HID and source endpoint.
type messageWaiter struct {
	hid frame.HID
	ep  byte
	out chan frame.Message
}

// MessageWaiter lets a caller register interest in the next embedded
// command-class message of a given type before sending the request that
// will provoke it, then block on the result. Registration must happen
// before the request goes out, otherwise a fast reply could arrive and
// be dropped as unhandled (§4.9 request/response correlation).
type MessageWaiter struct {
	mu      sync.Mutex
	waiters map[frame.HID][]*messageWaiter
}

// NewMessageWaiter builds an empty waiter registry.
func NewMessageWaiter() *MessageWaiter {
	return &MessageWaiter{waiters: make(map[frame.HID][]*messageWaiter)}
}

// AddWaitingSession registers interest in the next message with hid
// arriving from sourceEP and returns the channel it will be delivered on.
func (w *MessageWaiter) AddWaitingSession(hid frame.HID, sourceEP byte) <-chan frame.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	ws := &messageWaiter{hid: hid, ep: sourceEP, out: make(chan frame.Message, 1)}
	w.waiters[hid] = append(w.waiters[hid], ws)
	return ws.out
}

// MessageReceived delivers msg to the oldest matching waiter for
// (msg.Hid(), sourceEP), if any. It returns true if a waiter consumed the
// message; callers should fall through to normal dispatch when false.
func (w *MessageWaiter) MessageReceived(msg frame.Message, sourceEP byte) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	hid := msg.Hid()
	list := w.waiters[hid]
	for i, ws := range list {
		if ws.ep != sourceEP {
			continue
		}
		w.waiters[hid] = append(list[:i:i], list[i+1:]...)
		ws.out <- msg
		return true
	}
	return false
}

// Cancel removes a registered waiter without delivering anything to it,
// used when the caller's own timeout fires first.
func (w *MessageWaiter) Cancel(hid frame.HID, sourceEP byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	list := w.waiters[hid]
	for i, ws := range list {
		if ws.ep == sourceEP {
			w.waiters[hid] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}
