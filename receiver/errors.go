// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package receiver

import (
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrEmptyDatagram      = errors.New("empty datagram")
	ErrDatagramTruncated  = errors.New("datagram exceeds maximum size")
	ErrInvalidUTF8        = errors.New("caption is not valid UTF-8")
	ErrNotAnImage         = errors.New("payload is not an image")
	ErrSocketClosed       = errors.New("socket closed unexpectedly")
	ErrTooManyReadErrors  = errors.New("too many consecutive read errors")
	ErrAlreadyStarted     = errors.New("receiver already started")
	ErrReceiverStopped    = errors.New("receiver stopped")
	ErrInvalidPort        = errors.New("invalid port")
	ErrInvalidDatagramMax = errors.New("invalid maximum datagram size")
	ErrNoChannel          = errors.New("no channel could be started")
)

// BindError reports that a channel's socket could not be opened. It is fatal
// to that channel only.
type BindError struct {
	Channel Channel
	Port    int
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("%s channel: bind port %d: %v", e.Channel, e.Port, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// TransientReceiveError reports a single datagram that could not be read or
// decoded. The loop keeps running.
type TransientReceiveError struct {
	Channel Channel
	Err     error
}

func (e *TransientReceiveError) Error() string {
	return fmt.Sprintf("%s channel: transient receive error: %v", e.Channel, e.Err)
}

func (e *TransientReceiveError) Unwrap() error {
	return e.Err
}

// FatalChannelError reports that a channel's socket failed after startup and
// its loop terminated. The other channel is unaffected.
type FatalChannelError struct {
	Channel Channel
	Err     error
}

func (e *FatalChannelError) Error() string {
	return fmt.Sprintf("%s channel: fatal: %v", e.Channel, e.Err)
}

func (e *FatalChannelError) Unwrap() error {
	return e.Err
}
