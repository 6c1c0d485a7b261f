// Package mailbox implements the mailbox service (C10): arms the Z/IP
// Gateway's mailbox proxy forwarding for sleeping nodes, keeps the forward
// channel alive with a WAITING/PING heartbeat, pops queued entries on
// WAKE_UP_NOTIFICATION, and dedupes/acks inbound PUSH deliveries (§4.10).
package mailbox

import (
	"sync"
	"time"

	"github.com/snksoft/crc"

	"github.com/gozwave/zwaveip/clog"
	"github.com/gozwave/zwaveip/frame"
)

// crcParams is CRC-16/AUG-CCITT (poly 0x1021, init 0x1D0F), the variant
// zipgateway uses to fingerprint a mailbox entry for dedup.
var crcParams = &crc.Parameters{Width: 16, Polynomial: 0x1021, InitialValue: 0x1D0F, ReflectIn: false, ReflectOut: false, FinalXor: 0x0000}

func checksum(entry []byte) uint16 {
	return uint16(crc.CalculateCRC(crcParams, entry))
}

// HeartbeatInterval is how often the service refreshes the gateway's
// mailbox proxy forwarding registration (§4.10).
const HeartbeatInterval = 60 * time.Second

// PingEvery is the heartbeat cadence at which a PING is sent instead of a
// plain WAITING; zipgateway treats a sustained run of WAITING-only beats as
// a candidate for tearing down the forwarding registration.
const PingEvery = 10

// Sender is the control-plane connection the service configures the proxy
// over and sends queue operations on.
type Sender interface {
	Send(cmd frame.Message, sourceEP, destEP byte, timeout time.Duration) error
}

// DeliveryHandler receives one deduped mailbox entry for nodeID.
type DeliveryHandler func(nodeID byte, entry []byte)

type queueState struct {
	lastChecksum uint16
	haveLast     bool
}

// Service is the mailbox proxy client: one instance per gateway
// connection, tracking per-queue-handle dedup state across however many
// sleeping nodes the gateway multiplexes onto it.
type Service struct {
	tr       Sender
	destIP   [16]byte
	destPort uint16
	onDeliver DeliveryHandler
	log      clog.Clog

	mu        sync.Mutex
	queues    map[byte]*queueState
	beatCount int
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// New builds a mailbox service that forwards to destIP:destPort and hands
// every deduped PUSH entry to onDeliver.
func New(tr Sender, destIP [16]byte, destPort uint16, onDeliver DeliveryHandler) *Service {
	return &Service{
		tr:        tr,
		destIP:    destIP,
		destPort:  destPort,
		onDeliver: onDeliver,
		log:       clog.NewLogger("mailbox"),
		queues:    map[byte]*queueState{},
		stopCh:    make(chan struct{}),
	}
}

// Configure arms ENABLE_MAILBOX_PROXY_FORWARDING mode, telling the gateway
// where to forward queue traffic.
func (s *Service) Configure(timeout time.Duration) error {
	return s.tr.Send(&frame.MailboxConfigurationSet{
		Mode:    frame.MailboxModeEnableProxyForwarding,
		DestIP:  s.destIP,
		UDPPort: s.destPort,
	}, 0, 0, timeout)
}

// StartHeartbeat launches the background WAITING/PING beat that keeps the
// gateway's forwarding registration alive. Call Stop to halt it.
func (s *Service) StartHeartbeat() {
	go s.heartbeatLoop()
}

func (s *Service) heartbeatLoop() {
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.beat()
		}
	}
}

func (s *Service) beat() {
	s.mu.Lock()
	s.beatCount++
	op := frame.MailboxQueueOpWaiting
	if s.beatCount%PingEvery == 0 {
		op = frame.MailboxQueueOpPing
	}
	s.mu.Unlock()

	if err := s.tr.Send(&frame.MailboxQueue{Operation: op}, 0, 0, 3*time.Second); err != nil {
		s.log.Warn("mailbox heartbeat: %v", err)
	}
}

// Stop halts the heartbeat loop. Safe to call more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// HandleMessage processes one inbound message addressed to the mailbox
// service, returning true if it was a mailbox/wakeup message it claimed.
func (s *Service) HandleMessage(msg frame.Message) bool {
	switch m := msg.(type) {
	case *frame.WakeUpNotification:
		s.pop()
		return true
	case *frame.MailboxQueue:
		s.handleQueue(m)
		return true
	case *frame.MailboxNodeFailing:
		s.log.Warn("mailbox delivery failing for queue handle %d", m.QueueHandle)
		return true
	}
	return false
}

// pop asks the gateway for the next queued entry; called when a sleeping
// node wakes up and announces it via WAKE_UP_NOTIFICATION.
func (s *Service) pop() {
	if err := s.tr.Send(&frame.MailboxQueue{Operation: frame.MailboxQueueOpPop}, 0, 0, 3*time.Second); err != nil {
		s.log.Warn("mailbox pop: %v", err)
	}
}

func (s *Service) handleQueue(m *frame.MailboxQueue) {
	if m.Operation != frame.MailboxQueueOpPush {
		return
	}

	sum := checksum(m.MailboxEntry)

	s.mu.Lock()
	q, ok := s.queues[m.QueueHandle]
	if !ok {
		q = &queueState{}
		s.queues[m.QueueHandle] = q
	}
	duplicate := q.haveLast && q.lastChecksum == sum
	q.lastChecksum = sum
	q.haveLast = true
	s.mu.Unlock()

	if duplicate {
		s.log.Debug("mailbox: dropping duplicate entry for queue handle %d", m.QueueHandle)
	} else if s.onDeliver != nil {
		s.onDeliver(m.QueueHandle, m.MailboxEntry)
	}

	ack := &frame.MailboxQueue{Operation: frame.MailboxQueueOpAck, QueueHandle: m.QueueHandle, Last: m.Last}
	if err := s.tr.Send(ack, 0, 0, 3*time.Second); err != nil {
		s.log.Warn("mailbox ack: %v", err)
	}
}
