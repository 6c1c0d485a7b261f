package events

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingNodeListener struct {
	added int32
}

func (c *countingNodeListener) NodeAdded(node NodeView)                        { atomic.AddInt32(&c.added, 1) }
func (c *countingNodeListener) NodesAdded(nodes []NodeView)                    {}
func (c *countingNodeListener) NodeRemoved(nodeID byte)                        {}
func (c *countingNodeListener) NodesRemoved(nodeIDs []byte)                    {}
func (c *countingNodeListener) NodeUpdated(node NodeView)                      {}
func (c *countingNodeListener) NodeListUpdated()                               {}
func (c *countingNodeListener) CommandClassUpdated(node NodeView, classID byte) {}

type panickyListener struct{}

func (panickyListener) NodeAdded(node NodeView) { panic("boom") }
func (panickyListener) NodesAdded(nodes []NodeView)                    {}
func (panickyListener) NodeRemoved(nodeID byte)                        {}
func (panickyListener) NodesRemoved(nodeIDs []byte)                    {}
func (panickyListener) NodeUpdated(node NodeView)                      {}
func (panickyListener) NodeListUpdated()                               {}
func (panickyListener) CommandClassUpdated(node NodeView, classID byte) {}

func TestSpeakDispatchesToTypedListenersOnly(t *testing.T) {
	l := NewListenable("test")
	counter := &countingNodeListener{}
	l.Register(counter)
	l.Register("not a listener")

	l.Speak(func(listener interface{}) {
		if nl, ok := listener.(NodeEvents); ok {
			nl.NodeAdded(nil)
		}
	})

	require.EqualValues(t, 1, atomic.LoadInt32(&counter.added))
}

func TestSpeakRecoversFromPanickingListener(t *testing.T) {
	l := NewListenable("test")
	l.Register(panickyListener{})
	counter := &countingNodeListener{}
	l.Register(counter)

	require.NotPanics(t, func() {
		l.Speak(func(listener interface{}) {
			if nl, ok := listener.(NodeEvents); ok {
				nl.NodeAdded(nil)
			}
		})
	})
	require.EqualValues(t, 1, atomic.LoadInt32(&counter.added))
}

func TestAskWaitsForAllListeners(t *testing.T) {
	l := NewListenable("test")
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		l.Register(&slowListener{done: done})
	}

	start := time.Now()
	l.Ask(func(listener interface{}) {
		if sl, ok := listener.(*slowListener); ok {
			sl.run()
		}
	})
	require.Less(t, time.Since(start), 200*time.Millisecond)
	require.Len(t, done, 2)
}

type slowListener struct {
	done chan struct{}
}

func (s *slowListener) run() {
	time.Sleep(20 * time.Millisecond)
	s.done <- struct{}{}
}
