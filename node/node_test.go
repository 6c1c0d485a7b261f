package node

import (
	"testing"
	"time"

	"github.com/gozwave/zwaveip/cc"
	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
	"github.com/stretchr/testify/require"
)

func TestParseCommandClassesMarksSecurityAndControl(t *testing.T) {
	nif := []byte{0x20, 0xF1, 0x00, 0x85, 0xEF, 0x86}
	supported, controlled := ParseCommandClasses(nif)

	require.Contains(t, supported, byte(0x20))
	require.False(t, supported[0x20].Base().SecurityS0())

	require.Contains(t, supported, byte(0x85))
	require.True(t, supported[0x85].Base().SecurityS0())

	require.Contains(t, controlled, byte(0x86))
	require.NotContains(t, supported, byte(0x86))
}

type fakeSender struct {
	sent    []frame.Message
	replies map[frame.HID]frame.Message
}

var errNoReply = &timeoutStub{}

type timeoutStub struct{}

func (*timeoutStub) Error() string { return "fake sender: no reply registered" }

func (f *fakeSender) Send(cmd frame.Message, sourceEP, destEP byte, timeout time.Duration) error {
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeSender) SendAndWaitForMessage(cmd frame.Message, sourceEP, destEP byte, replyHid frame.HID, timeout time.Duration) (frame.Message, error) {
	f.sent = append(f.sent, cmd)
	if reply, ok := f.replies[replyHid]; ok {
		return reply, nil
	}
	return nil, errNoReply
}

type countingNodeListener struct {
	updates int
}

func (c *countingNodeListener) NodeAdded(node events.NodeView)          {}
func (c *countingNodeListener) NodesAdded(nodes []events.NodeView)      {}
func (c *countingNodeListener) NodeRemoved(nodeID byte)                 {}
func (c *countingNodeListener) NodesRemoved(nodeIDs []byte)             {}
func (c *countingNodeListener) NodeUpdated(node events.NodeView)        { c.updates++ }
func (c *countingNodeListener) NodeListUpdated()                        {}
func (c *countingNodeListener) CommandClassUpdated(node events.NodeView, classID byte) {}

func TestWithStorageLockBatchesNodeUpdated(t *testing.T) {
	sender := &fakeSender{replies: map[frame.HID]frame.Message{}}
	n := New(5, sender, true, false, 0x10, 0x20, 0x01, []byte{0x20})

	listener := &countingNodeListener{}
	n.listeners.Register(listener)

	n.WithStorageLock(func() {
		n.markUpdated()
		n.markUpdated()
		n.markUpdated()
	})

	require.Equal(t, 1, listener.updates)
}

func TestMarkUpdatedEmitsImmediatelyOutsideLock(t *testing.T) {
	sender := &fakeSender{replies: map[frame.HID]frame.Message{}}
	n := New(5, sender, true, false, 0x10, 0x20, 0x01, []byte{0x20})

	listener := &countingNodeListener{}
	n.listeners.Register(listener)

	n.markUpdated()
	n.markUpdated()

	require.Equal(t, 2, listener.updates)
}

func TestHandleMessageClaimsSwitchBinaryReport(t *testing.T) {
	sender := &fakeSender{replies: map[frame.HID]frame.Message{}}
	n := New(5, sender, true, false, 0x10, 0x20, 0x01, []byte{0x25})

	n.HandleMessage(&frame.SwitchBinaryReport{Value: true}, 0, 0)

	inst, ok := n.SupportedClass(0x25)
	require.True(t, ok)
	sb, ok := inst.(*cc.SwitchBinary)
	require.True(t, ok)
	require.True(t, sb.Value)
}

func TestHandleMessageUnwrapsSupervisionGet(t *testing.T) {
	sender := &fakeSender{replies: map[frame.HID]frame.Message{}}
	n := New(5, sender, true, false, 0x10, 0x20, 0x01, []byte{0x25, 0x6C})

	wrapped := &frame.SupervisionGet{SessionID: 7, Command: &frame.SwitchBinaryReport{Value: true}}
	n.HandleMessage(wrapped, 0, 0)

	require.Len(t, sender.sent, 1)
	report, ok := sender.sent[0].(*frame.SupervisionReport)
	require.True(t, ok)
	require.Equal(t, byte(7), report.SessionID)
	require.Equal(t, frame.SupervisionStatusSuccess, report.Status)
}
