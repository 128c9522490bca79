// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sender

import (
	"github.com/pion/logging"
	"github.com/pion/transport/v3"
)

// Option configures a Sender.
type Option func(*Sender) error

// SetNet replaces the network the socket is opened on.
func SetNet(n transport.Net) Option {
	return func(s *Sender) error {
		s.net = n

		return nil
	}
}

// SetLoggerFactory sets the logger factory used for the sender logger.
func SetLoggerFactory(loggerFactory logging.LoggerFactory) Option {
	return func(s *Sender) error {
		s.log = loggerFactory.NewLogger("sender")

		return nil
	}
}

// SetLocalAddress sets the local host:port the sending socket binds.
func SetLocalAddress(addr string) Option {
	return func(s *Sender) error {
		s.localAddress = addr

		return nil
	}
}
