// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package config loads receiver settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pion/cue-receiver/queue"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CUE_RECEIVER_LOG_LEVEL.
const EnvPrefix = "CUE_RECEIVER"

const maxDatagramSize = 65507

var (
	errInvalidPort     = errors.New("invalid port")
	errSamePorts       = errors.New("image and audio ports must differ")
	errInvalidSize     = errors.New("invalid max datagram size")
	errInvalidInterval = errors.New("relay interval must be positive")
)

// Config holds all receiver configuration.
type Config struct {
	Image            ChannelConfig `mapstructure:"image"`
	Audio            ChannelConfig `mapstructure:"audio"`
	BindAddress      string        `mapstructure:"bind_address"`
	MaxDatagramSize  int           `mapstructure:"max_datagram_size"`
	RequireImageMIME bool          `mapstructure:"require_image_mime"`
	Log              LogConfig     `mapstructure:"log"`
	Relay            RelayConfig   `mapstructure:"relay"`
}

// ChannelConfig configures one datagram channel.
type ChannelConfig struct {
	Port           int    `mapstructure:"port"`
	QueueCapacity  int    `mapstructure:"queue_capacity"` // 0 = unbounded
	OverflowPolicy string `mapstructure:"overflow_policy"`
}

// Policy parses OverflowPolicy.
func (c ChannelConfig) Policy() (queue.Policy, error) {
	return queue.ParsePolicy(c.OverflowPolicy)
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string            `mapstructure:"level"`
	File   string            `mapstructure:"file"` // "", stdout, stderr or a path
	Scopes map[string]string `mapstructure:"scopes"`
}

// RelayConfig configures the websocket relay. An empty Addr disables it.
type RelayConfig struct {
	Addr     string        `mapstructure:"addr"`
	Interval time.Duration `mapstructure:"interval"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Image: ChannelConfig{
			Port:           12346,
			OverflowPolicy: queue.Unbounded.String(),
		},
		Audio: ChannelConfig{
			Port:           12347,
			OverflowPolicy: queue.Unbounded.String(),
		},
		BindAddress:     "0.0.0.0",
		MaxDatagramSize: maxDatagramSize,
		Log: LogConfig{
			Level: "info",
			File:  "stdout",
		},
		Relay: RelayConfig{
			Interval: 33 * time.Millisecond,
		},
	}
}

// Load reads configuration. path may be empty, in which case config.yaml is
// looked up in the working directory and /etc/cue-receiver and is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The slide sender configures the headset with these names.
	if err := v.BindEnv("image.port", EnvPrefix+"_IMAGE_PORT", "QUEST_PORT"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("audio.port", EnvPrefix+"_AUDIO_PORT", "QUEST_AUDIO_PORT"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cue-receiver")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("image.port", d.Image.Port)
	v.SetDefault("image.queue_capacity", d.Image.QueueCapacity)
	v.SetDefault("image.overflow_policy", d.Image.OverflowPolicy)
	v.SetDefault("audio.port", d.Audio.Port)
	v.SetDefault("audio.queue_capacity", d.Audio.QueueCapacity)
	v.SetDefault("audio.overflow_policy", d.Audio.OverflowPolicy)
	v.SetDefault("bind_address", d.BindAddress)
	v.SetDefault("max_datagram_size", d.MaxDatagramSize)
	v.SetDefault("require_image_mime", d.RequireImageMIME)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("relay.addr", d.Relay.Addr)
	v.SetDefault("relay.interval", d.Relay.Interval)
}

// Validate checks ranges and enum values.
func (c *Config) Validate() error {
	for name, ch := range map[string]ChannelConfig{"image": c.Image, "audio": c.Audio} {
		if ch.Port < 0 || ch.Port > 65535 {
			return fmt.Errorf("%s: %w: %d", name, errInvalidPort, ch.Port)
		}
		policy, err := ch.Policy()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := queue.Validate(ch.QueueCapacity, policy); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Image.Port != 0 && c.Image.Port == c.Audio.Port {
		return fmt.Errorf("%w: %d", errSamePorts, c.Image.Port)
	}
	if c.MaxDatagramSize <= 0 || c.MaxDatagramSize > maxDatagramSize {
		return fmt.Errorf("%w: %d", errInvalidSize, c.MaxDatagramSize)
	}
	if c.Relay.Addr != "" && c.Relay.Interval <= 0 {
		return fmt.Errorf("%w: %v", errInvalidInterval, c.Relay.Interval)
	}

	return nil
}
