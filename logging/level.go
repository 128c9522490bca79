// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package logging builds the pion logger factories used across the module.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	plogging "github.com/pion/logging"
)

var errUnknownLogLevel = errors.New("unknown log level")

// ParseLevel maps a level name to a pion log level.
func ParseLevel(logLevel string) (plogging.LogLevel, error) {
	logLevels := map[string]plogging.LogLevel{
		"disable": plogging.LogLevelDisabled,
		"error":   plogging.LogLevelError,
		"warn":    plogging.LogLevelWarn,
		"info":    plogging.LogLevelInfo,
		"debug":   plogging.LogLevelDebug,
		"trace":   plogging.LogLevelTrace,
	}

	level, ok := logLevels[strings.ToLower(strings.TrimSpace(logLevel))]
	if !ok {
		return plogging.LogLevelDisabled, fmt.Errorf("%w: %s", errUnknownLogLevel, logLevel)
	}

	return level, nil
}

// NewLoggerFactory returns a factory writing to w at the given level.
// scopeLevels overrides the level per scope, e.g. {"receiver": "debug"}.
func NewLoggerFactory(logLevel string, w io.Writer, scopeLevels map[string]string) (*plogging.DefaultLoggerFactory, error) {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}

	loggerFactory := &plogging.DefaultLoggerFactory{
		Writer:          w,
		DefaultLogLevel: level,
		ScopeLevels:     make(map[string]plogging.LogLevel),
	}
	for scope, name := range scopeLevels {
		scopeLevel, err := ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("scope %s: %w", scope, err)
		}
		loggerFactory.ScopeLevels[scope] = scopeLevel
	}

	return loggerFactory, nil
}
