package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk daemon configuration, loaded from a YAML file
// whose path defaults to /etc/zwaveipd/config.yaml but can be overridden
// with --config.
type Config struct {
	// Gateway is the Z/IP Gateway's control address, host:port (port
	// defaults to transport.ControlPort if omitted).
	Gateway string `yaml:"gateway"`

	// PSKHex is the DTLS-PSK pre-shared key, hex-encoded. Empty means
	// dial the gateway over plain UDP instead (§4.5).
	PSKHex string `yaml:"psk"`

	// IdentityHex is the PSK identity hint sent during the DTLS
	// handshake, hex-encoded.
	IdentityHex string `yaml:"identity"`

	// LocalIP is advertised to the gateway as the unsolicited
	// destination (§4.8). Required if UnsolicitedPort is nonzero.
	LocalIP string `yaml:"local_ip"`

	// UnsolicitedPort is the local port to listen for unsolicited
	// traffic on; 0 disables it.
	UnsolicitedPort int `yaml:"unsolicited_port"`

	// HTTPAddr is the debug/metrics HTTP listen address, e.g.
	// ":8080". Empty disables the HTTP server.
	HTTPAddr string `yaml:"http_addr"`

	// LogLevel is one of logrus's level names: debug, info, warn,
	// error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig mirrors the values a development gateway is reachable at.
func DefaultConfig() Config {
	return Config{
		Gateway:         "127.0.0.1:4123",
		UnsolicitedPort: 4123,
		HTTPAddr:        ":8080",
		LogLevel:        "info",
	}
}

// LoadConfig reads and parses the YAML config at path on top of
// DefaultConfig: keys absent from the file keep their defaults, and keys
// set in the file override them, zero values included.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// PSK decodes the configured hex PSK, if any.
func (c Config) PSK() ([]byte, error) {
	if c.PSKHex == "" {
		return nil, nil
	}
	return hex.DecodeString(c.PSKHex)
}

// Identity decodes the configured hex PSK identity, if any.
func (c Config) Identity() ([]byte, error) {
	if c.IdentityHex == "" {
		return nil, nil
	}
	return hex.DecodeString(c.IdentityHex)
}
