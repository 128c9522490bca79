// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package receiver

import (
	"fmt"

	"github.com/pion/cue-receiver/metrics"
	"github.com/pion/cue-receiver/queue"
	"github.com/pion/logging"
	"github.com/pion/transport/v3"
)

// Option configures a Receiver.
type Option func(*Receiver) error

// SetLoggerFactory sets the logger factory used for the receiver logger.
func SetLoggerFactory(loggerFactory logging.LoggerFactory) Option {
	return func(r *Receiver) error {
		r.log = loggerFactory.NewLogger("receiver")

		return nil
	}
}

// SetNet replaces the network the sockets are opened on. Tests use a
// vnet.Net here.
func SetNet(n transport.Net) Option {
	return func(r *Receiver) error {
		r.net = n

		return nil
	}
}

// SetBindAddress sets the local IP both channels bind to. The default binds
// all interfaces.
func SetBindAddress(addr string) Option {
	return func(r *Receiver) error {
		r.bindAddress = addr

		return nil
	}
}

// SetImagePort sets the image channel port. 0 picks an ephemeral port.
func SetImagePort(port int) Option {
	return func(r *Receiver) error {
		if err := validatePort(port); err != nil {
			return err
		}
		r.image.port = port

		return nil
	}
}

// SetAudioPort sets the audio/caption channel port. 0 picks an ephemeral port.
func SetAudioPort(port int) Option {
	return func(r *Receiver) error {
		if err := validatePort(port); err != nil {
			return err
		}
		r.audio.port = port

		return nil
	}
}

// SetMaxDatagramSize sets the largest payload accepted. Longer datagrams are
// reported as truncated.
func SetMaxDatagramSize(size int) Option {
	return func(r *Receiver) error {
		if size <= 0 || size > MaxDatagramSize {
			return fmt.Errorf("%w: %d", ErrInvalidDatagramMax, size)
		}
		r.maxDatagramSize = size

		return nil
	}
}

// SetQueuePolicy bounds both channel queues. capacity <= 0 keeps them
// unbounded.
func SetQueuePolicy(capacity int, policy queue.Policy) Option {
	return func(r *Receiver) error {
		if err := queue.Validate(capacity, policy); err != nil {
			return err
		}
		r.image.capacity, r.image.policy = capacity, policy
		r.audio.capacity, r.audio.policy = capacity, policy

		return nil
	}
}

// SetChannelQueuePolicy bounds a single channel's queue.
func SetChannelQueuePolicy(ch Channel, capacity int, policy queue.Policy) Option {
	return func(r *Receiver) error {
		if err := queue.Validate(capacity, policy); err != nil {
			return err
		}
		c := r.channelConfig(ch)
		c.capacity, c.policy = capacity, policy

		return nil
	}
}

// SetErrorHandler registers a callback for bind, transient and fatal errors.
func SetErrorHandler(h ErrorHandler) Option {
	return func(r *Receiver) error {
		r.onError = h

		return nil
	}
}

// SetStateHandler registers a callback for channel state transitions.
func SetStateHandler(h StateHandler) Option {
	return func(r *Receiver) error {
		r.onState = h

		return nil
	}
}

// SetMetrics records receive statistics into m.
func SetMetrics(m *metrics.Metrics) Option {
	return func(r *Receiver) error {
		r.metrics = m

		return nil
	}
}

// RequireImageMIME rejects image datagrams whose sniffed type is not image/*.
func RequireImageMIME(require bool) Option {
	return func(r *Receiver) error {
		r.requireImage = require

		return nil
	}
}

func validatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}

	return nil
}
