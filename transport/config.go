package transport

import (
	"errors"
	"time"
)

const (
	// ControlPort is the Z/IP Gateway's DTLS control port.
	ControlPort = 4123

	// UnsolicitedPort is the port the gateway is told (via
	// UnsolicitedDestinationSet) to forward unsolicited Z/IP Packets to.
	UnsolicitedPort = 4123
)

// defines the Z/IP transport's timing range, §4.6/§4.7.
const (
	// KeepAliveMin/Max bound the idle-link probe interval. Default 25s.
	KeepAliveMin = 1 * time.Second
	KeepAliveMax = 255 * time.Second

	// AckTimeoutMin/Max bound the Config.AckTimeout that Valid accepts.
	// Default 3s.
	AckTimeoutMin = 100 * time.Millisecond
	AckTimeoutMax = 30 * time.Second

	// NackWaitingExtension is added to a present, non-negative
	// ExpectedDelay when computing the new nackWaiting deadline (§4.6).
	NackWaitingExtension = 60 * time.Second

	// DefaultNackWaitingDelay is used when ExpectedDelay is absent or
	// negative — the gateway's way of saying the node should already be
	// awake (§9 open questions: treat negative delay as 120s).
	DefaultNackWaitingDelay = 120 * time.Second
)

// Config defines a Z/IP transport's timing and addressing.
// The default is applied for each unspecified value.
type Config struct {
	// KeepAliveInterval is how long the link can sit idle before a
	// ZipKeepAlive(ackRequest) is sent to keep the DTLS session and any
	// intermediate NAT binding alive. Default 25s.
	KeepAliveInterval time.Duration

	// AckTimeout is the ack timeout this link is configured with.
	// Default 3s. Send does not read it: each Send call takes its own
	// timeout argument.
	AckTimeout time.Duration

	// MaxRetries is validated and defaulted by Valid (default 2). Send does
	// not read it and never resends an unacked packet: a packet that is
	// not acked within Send's timeout fails with zwerr.Timeout.
	MaxRetries int
}

// Valid applies the documented default for each unspecified value.
func (c *Config) Valid() error {
	if c == nil {
		return errors.New("transport: invalid pointer")
	}

	if c.KeepAliveInterval == 0 {
		c.KeepAliveInterval = 25 * time.Second
	} else if c.KeepAliveInterval < KeepAliveMin || c.KeepAliveInterval > KeepAliveMax {
		return errors.New("transport: KeepAliveInterval not in [1s, 255s]")
	}

	if c.AckTimeout == 0 {
		c.AckTimeout = 3 * time.Second
	} else if c.AckTimeout < AckTimeoutMin || c.AckTimeout > AckTimeoutMax {
		return errors.New("transport: AckTimeout not in [100ms, 30s]")
	}

	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}

	return nil
}

// DefaultConfig returns the documented Z/IP transport defaults.
func DefaultConfig() Config {
	return Config{
		KeepAliveInterval: 25 * time.Second,
		AckTimeout:        3 * time.Second,
		MaxRetries:        2,
	}
}
