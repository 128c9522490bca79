// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package relay

import (
	"fmt"
	"time"

	"github.com/pion/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Server.
type Option func(*Server) error

// SetLoggerFactory sets the logger factory used for the relay logger.
func SetLoggerFactory(loggerFactory logging.LoggerFactory) Option {
	return func(s *Server) error {
		s.log = loggerFactory.NewLogger("relay")

		return nil
	}
}

// SetInterval sets how often the source is drained.
func SetInterval(d time.Duration) Option {
	return func(s *Server) error {
		if d <= 0 {
			return fmt.Errorf("%w: %v", errInvalidInterval, d)
		}
		s.interval = d

		return nil
	}
}

// SetGatherer exposes g on /metrics.
func SetGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) error {
		s.gatherer = g

		return nil
	}
}

// SetClientBuffer sets how many updates may queue per presenter before it is
// dropped as too slow. It must leave room for the two replayed updates.
func SetClientBuffer(n int) Option {
	return func(s *Server) error {
		if n < 2 {
			n = 2
		}
		s.clientBuffer = n

		return nil
	}
}
