package cc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gozwave/zwaveip/events"
	"github.com/gozwave/zwaveip/frame"
)

type fakeView byte

func (f fakeView) RootNodeID() byte { return byte(f) }
func (f fakeView) EndpointID() byte { return 0 }

type fakeHost struct {
	view      fakeView
	listeners *events.Listenable
	replies   map[frame.HID]frame.Message
	sent      []frame.Message
}

func newFakeHost() *fakeHost {
	return &fakeHost{view: fakeView(1), listeners: events.NewListenable("test"), replies: map[frame.HID]frame.Message{}}
}

func (h *fakeHost) NodeView() events.NodeView { return h.view }
func (h *fakeHost) Listeners() *events.Listenable { return h.listeners }
func (h *fakeHost) Send(cmd frame.Message, timeout time.Duration) error {
	h.sent = append(h.sent, cmd)
	return nil
}
func (h *fakeHost) SendAndWaitForMessage(cmd frame.Message, replyHid frame.HID, timeout time.Duration) (frame.Message, error) {
	h.sent = append(h.sent, cmd)
	if reply, ok := h.replies[replyHid]; ok {
		return reply, nil
	}
	return nil, errNoReply
}

type noReplyErr struct{}

func (noReplyErr) Error() string { return "fakeHost: no reply registered" }

var errNoReply = noReplyErr{}

func TestLoadReturnsUnknownForUnregisteredClass(t *testing.T) {
	inst := Load(0xFE, false)
	_, ok := inst.(*Unknown)
	require.True(t, ok)
	require.Equal(t, byte(0xFE), inst.ID())
}

func TestLoadReturnsRegisteredConstructor(t *testing.T) {
	inst := Load(configurationClassID, true)
	cfg, ok := inst.(*Configuration)
	require.True(t, ok)
	require.True(t, cfg.Base().SecurityS0())
}

func TestInterviewSkipsRestWhenVersionProbeSettlesAtZero(t *testing.T) {
	host := newFakeHost()
	host.replies[frame.NewHID(versionClassID, versionCommandClassReportCmd)] = &frame.VersionCommandClassReport{RequestedCommandClass: configurationClassID, Version: 0}

	inst := Load(configurationClassID, false)
	ok := Interview(host, inst)

	require.True(t, ok)
	require.True(t, inst.Base().Interviewed() == false)
	require.Len(t, host.sent, 1)
}

func TestInterviewMarksInterviewedAndNotifiesListeners(t *testing.T) {
	host := newFakeHost()
	host.replies[frame.NewHID(versionClassID, versionCommandClassReportCmd)] = &frame.VersionCommandClassReport{RequestedCommandClass: configurationClassID, Version: 1}

	var notified byte
	host.listeners.Register(&classUpdateListener{onUpdate: func(classID byte) { notified = classID }})

	inst := Load(configurationClassID, false)
	ok := Interview(host, inst)

	require.True(t, ok)
	require.True(t, inst.Base().Interviewed())
	require.Equal(t, byte(configurationClassID), notified)
}

type classUpdateListener struct {
	onUpdate func(classID byte)
}

func (c *classUpdateListener) NodeAdded(node events.NodeView)      {}
func (c *classUpdateListener) NodesAdded(nodes []events.NodeView)  {}
func (c *classUpdateListener) NodeRemoved(nodeID byte)             {}
func (c *classUpdateListener) NodesRemoved(nodeIDs []byte)         {}
func (c *classUpdateListener) NodeUpdated(node events.NodeView)    {}
func (c *classUpdateListener) NodeListUpdated()                    {}
func (c *classUpdateListener) CommandClassUpdated(node events.NodeView, classID byte) {
	c.onUpdate(classID)
}

func TestDispatchClaimsOwnMessageWithoutBroadcast(t *testing.T) {
	host := newFakeHost()
	broadcast := false
	host.listeners.Register(&messageListener{onMessage: func() { broadcast = true }})

	inst := Load(configurationClassID, false)
	Dispatch(host, inst, &frame.ConfigurationReport{ParameterNumber: 3, Value: 42}, MessageFlags{})

	cfg := inst.(*Configuration)
	require.Equal(t, int32(42), cfg.Values[3])
	require.False(t, broadcast)
}

func TestDispatchBroadcastsUnclaimedMessage(t *testing.T) {
	host := newFakeHost()
	broadcast := false
	host.listeners.Register(&messageListener{onMessage: func() { broadcast = true }})

	inst := Load(0xFE, false)
	Dispatch(host, inst, &frame.BasicSet{Value: 0xFF}, MessageFlags{})

	require.True(t, broadcast)
}

type messageListener struct {
	onMessage func()
}

func (m *messageListener) MessageReceived(node events.NodeView, sourceEP, destEP byte, msg frame.Message, headerExt []frame.HeaderExtensionOption) {
	m.onMessage()
}
