package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfigFillsInUnsetFields(t *testing.T) {
	path := writeConfig(t, "gateway: 10.0.0.5:4123\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.5:4123", cfg.Gateway)
	require.Equal(t, DefaultConfig().HTTPAddr, cfg.HTTPAddr)
	require.Equal(t, DefaultConfig().UnsolicitedPort, cfg.UnsolicitedPort)
}

func TestLoadConfigMissingFileReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPSKAndIdentityDecodeHex(t *testing.T) {
	cfg := Config{PSKHex: "deadbeef", IdentityHex: "cafe"}

	psk, err := cfg.PSK()
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, psk)

	identity, err := cfg.Identity()
	require.NoError(t, err)
	require.Equal(t, []byte{0xca, 0xfe}, identity)
}

func TestPSKEmptyReturnsNil(t *testing.T) {
	cfg := Config{}
	psk, err := cfg.PSK()
	require.NoError(t, err)
	require.Nil(t, psk)
}
