package transport

import (
	"sync"
	"time"

	"github.com/gozwave/zwaveip/zwerr"
)

// AckState is the lifecycle of one outstanding Z/IP Packet awaiting an
// ackResponse (§4.6).
type AckState int

const (
	// AckPending means Send is blocked waiting for an ackResponse or
	// nackResponse with this seqNo.
	AckPending AckState = iota
	// AckQueued means a nackResponse(nackWaiting) moved this seqNo into
	// the gateway's mailbox queue; the deadline was extended and Send is
	// still blocked.
	AckQueued
	// AckReceived means an ackResponse arrived; the waiter has been (or
	// is about to be) woken with a nil error.
	AckReceived
)

// ackSlot tracks one seqNo's ack wait.
type ackSlot struct {
	state    AckState
	deadline time.Time
	done     chan error
}

// AckTable correlates outbound ZipPacket seqNos with their eventual
// ackResponse/nackResponse, so Send can block the caller until the
// gateway confirms delivery (or definitively fails it) rather than
// firing the datagram and returning immediately.
type AckTable struct {
	mu    sync.Mutex
	slots map[byte]*ackSlot
}

// NewAckTable builds an empty correlator.
func NewAckTable() *AckTable {
	return &AckTable{slots: make(map[byte]*ackSlot)}
}

// WaitForAck registers seqNo as pending and returns the channel its
// resolution will be delivered on. Registering a seqNo that is already
// pending is a programmer error: the seqNo generator guarantees
// uniqueness among in-flight sends, so a collision means a caller reused
// one without waiting for the first to resolve.
func (t *AckTable) WaitForAck(seqNo byte, deadline time.Time) <-chan error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.slots[seqNo]; exists {
		panic("transport: AckTable: seqNo already pending")
	}
	slot := &ackSlot{state: AckPending, deadline: deadline, done: make(chan error, 1)}
	t.slots[seqNo] = slot
	return slot.done
}

// Queued marks seqNo as moved into the mailbox queue (nackWaiting) and
// extends its deadline.
func (t *AckTable) Queued(seqNo byte, newDeadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.slots[seqNo]
	if !ok {
		return
	}
	slot.state = AckQueued
	slot.deadline = newDeadline
}

// Received resolves seqNo with err (nil for a plain ackResponse, a
// *zwerr.Error{Kind: Protocol} for nackResponse/nackOptionError) and
// removes it from the table.
func (t *AckTable) Received(seqNo byte, err error) {
	t.mu.Lock()
	slot, ok := t.slots[seqNo]
	if ok {
		delete(t.slots, seqNo)
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	slot.state = AckReceived
	slot.done <- err
}

// Cancel removes seqNo without resolving its channel; used when Send's
// own context/timeout fires first.
func (t *AckTable) Cancel(seqNo byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.slots, seqNo)
}

// Deadline returns the current deadline for seqNo, used by the caller's
// timer goroutine after a Queued extension.
func (t *AckTable) Deadline(seqNo byte) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.slots[seqNo]
	if !ok {
		return time.Time{}, false
	}
	return slot.deadline, true
}

func timeoutError(op string) error {
	return zwerr.New(zwerr.Timeout, op, nil)
}
