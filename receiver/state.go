// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package receiver

import "fmt"

// Channel identifies one of the two independent datagram streams.
type Channel int

const (
	// ImageChannel carries one encoded image per datagram.
	ImageChannel Channel = iota
	// AudioChannel carries one caption or audio cue per datagram.
	AudioChannel
)

func (c Channel) String() string {
	switch c {
	case ImageChannel:
		return "image"
	case AudioChannel:
		return "audio"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ChannelState is the lifecycle position of a single channel.
// Stopped -> Starting -> Listening -> Stopping -> Stopped.
type ChannelState int32

const (
	StateStopped ChannelState = iota
	StateStarting
	StateListening
	StateStopping
)

func (s ChannelState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("ChannelState(%d)", int32(s))
	}
}

// StateHandler is notified of every channel state transition, including the
// final transition to StateStopped.
type StateHandler func(Channel, ChannelState)

// ErrorHandler receives bind, transient and fatal channel errors. It is called
// from the receive goroutines and must not block for long. It may call Stop.
type ErrorHandler func(error)
