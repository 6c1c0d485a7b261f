package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gozwave/zwaveip/frame"
)

type fakeSender struct {
	sent []frame.Message
}

func (f *fakeSender) Send(cmd frame.Message, sourceEP, destEP byte, timeout time.Duration) error {
	f.sent = append(f.sent, cmd)
	return nil
}

func TestConfigureArmsProxyForwarding(t *testing.T) {
	sender := &fakeSender{}
	svc := New(sender, [16]byte{0xfd}, 4123, nil)

	require.NoError(t, svc.Configure(time.Second))
	require.Len(t, sender.sent, 1)
	set, ok := sender.sent[0].(*frame.MailboxConfigurationSet)
	require.True(t, ok)
	require.Equal(t, frame.MailboxModeEnableProxyForwarding, set.Mode)
	require.Equal(t, uint16(4123), set.UDPPort)
}

func TestWakeUpNotificationTriggersPop(t *testing.T) {
	sender := &fakeSender{}
	svc := New(sender, [16]byte{}, 0, nil)

	require.True(t, svc.HandleMessage(&frame.WakeUpNotification{}))
	require.Len(t, sender.sent, 1)
	q, ok := sender.sent[0].(*frame.MailboxQueue)
	require.True(t, ok)
	require.Equal(t, frame.MailboxQueueOpPop, q.Operation)
}

func TestHandleQueuePushDeliversOnceAndAcks(t *testing.T) {
	sender := &fakeSender{}
	var delivered [][]byte
	svc := New(sender, [16]byte{}, 0, func(nodeID byte, entry []byte) {
		delivered = append(delivered, entry)
	})

	entry := []byte{0x01, 0x02, 0x03}
	push := &frame.MailboxQueue{Operation: frame.MailboxQueueOpPush, QueueHandle: 7, MailboxEntry: entry}

	require.True(t, svc.HandleMessage(push))
	require.True(t, svc.HandleMessage(push)) // retransmit of the same entry

	require.Len(t, delivered, 1, "duplicate push must not be redelivered")
	require.Len(t, sender.sent, 2, "both pushes must still be acked")
	for _, sent := range sender.sent {
		ack, ok := sent.(*frame.MailboxQueue)
		require.True(t, ok)
		require.Equal(t, frame.MailboxQueueOpAck, ack.Operation)
		require.Equal(t, byte(7), ack.QueueHandle)
	}
}

func TestHandleQueueIgnoresNonPushOperations(t *testing.T) {
	sender := &fakeSender{}
	called := false
	svc := New(sender, [16]byte{}, 0, func(nodeID byte, entry []byte) { called = true })

	require.True(t, svc.HandleMessage(&frame.MailboxQueue{Operation: frame.MailboxQueueOpAck, QueueHandle: 3}))
	require.False(t, called)
	require.Empty(t, sender.sent)
}
