// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pion/cue-receiver/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 12346, cfg.Image.Port)
	assert.Equal(t, 12347, cfg.Audio.Port)
	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 65507, cfg.MaxDatagramSize)
	assert.Equal(t, 33*time.Millisecond, cfg.Relay.Interval)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Image, cfg.Image)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
image:
  port: 5000
  queue_capacity: 4
  overflow_policy: drop-oldest
audio:
  port: 5001
require_image_mime: true
log:
  level: debug
  scopes:
    receiver: trace
relay:
  addr: ":8081"
  interval: 100ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Image.Port)
	assert.Equal(t, 4, cfg.Image.QueueCapacity)
	policy, err := cfg.Image.Policy()
	require.NoError(t, err)
	assert.Equal(t, queue.DropOldest, policy)
	assert.Equal(t, 5001, cfg.Audio.Port)
	assert.True(t, cfg.RequireImageMIME)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "trace", cfg.Log.Scopes["receiver"])
	assert.Equal(t, ":8081", cfg.Relay.Addr)
	assert.Equal(t, 100*time.Millisecond, cfg.Relay.Interval)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QUEST_PORT", "22346")
	t.Setenv("QUEST_AUDIO_PORT", "22347")
	t.Setenv("CUE_RECEIVER_LOG_LEVEL", "warn")
	t.Setenv("CUE_RECEIVER_BIND_ADDRESS", "127.0.0.1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 22346, cfg.Image.Port)
	assert.Equal(t, 22347, cfg.Audio.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1", cfg.BindAddress)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{name: "negative port", mutate: func(c *Config) { c.Image.Port = -1 }, err: errInvalidPort},
		{name: "port too large", mutate: func(c *Config) { c.Audio.Port = 70000 }, err: errInvalidPort},
		{name: "same ports", mutate: func(c *Config) { c.Audio.Port = c.Image.Port }, err: errSamePorts},
		{name: "unknown policy", mutate: func(c *Config) { c.Audio.OverflowPolicy = "lifo" }, err: queue.ErrUnknownPolicy},
		{name: "zero datagram size", mutate: func(c *Config) { c.MaxDatagramSize = 0 }, err: errInvalidSize},
		{
			name:   "relay without interval",
			mutate: func(c *Config) { c.Relay.Addr, c.Relay.Interval = ":8081", 0 },
			err:    errInvalidInterval,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}

	both := Default()
	both.Image.Port, both.Audio.Port = 0, 0
	assert.NoError(t, both.Validate(), "two ephemeral ports are allowed")
}

func TestLoad_InvalidFileValues(t *testing.T) {
	path := writeConfig(t, "image:\n  port: 12347\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, errSamePorts)
}
