// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package receiver

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/pion/cue-receiver/metrics"
	"github.com/pion/cue-receiver/queue"
)

// run reads one datagram per iteration until the receiver stops or the socket
// fails. The read buffer is one byte larger than the limit so an oversize
// datagram is detectable instead of silently truncated.
func (r *Receiver) run(l *loop) error {
	defer l.exit()
	defer r.finish(l)

	buf := make([]byte, r.maxDatagramSize+1)
	consecutiveErrors := 0

	for !r.stopping.Load() {
		n, src, err := l.conn.ReadFrom(buf)
		if err != nil {
			if r.stopping.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
				return r.fail(l, fmt.Errorf("%w: %w", ErrSocketClosed, err))
			}

			consecutiveErrors++
			if consecutiveErrors >= maxConsecutiveReadErrors {
				return r.fail(l, fmt.Errorf("%w: %w", ErrTooManyReadErrors, err))
			}
			r.transient(l, err)

			continue
		}
		consecutiveErrors = 0

		if n > r.maxDatagramSize {
			r.transient(l, fmt.Errorf("%w: more than %d bytes from %v",
				ErrDatagramTruncated, r.maxDatagramSize, src))

			continue
		}

		if err := r.deliver(l.channel, buf[:n], src); err != nil {
			r.transient(l, err)
		}
	}

	return nil
}

// finish closes the socket on every exit path and marks the channel stopped.
func (r *Receiver) finish(l *loop) {
	r.transition(l, l.channel, StateListening, StateStopping)
	if err := l.close(); err != nil && !errors.Is(err, net.ErrClosed) && !r.stopping.Load() {
		r.log.Warnf("close %s socket: %v", l.channel, err)
	}
	r.setState(l, l.channel, StateStopped)
}

// deliver decodes one payload for its channel and queues the result.
func (r *Receiver) deliver(ch Channel, payload []byte, src net.Addr) error {
	now := time.Now()

	var (
		pushErr error
		depth   int
	)
	switch ch {
	case ImageChannel:
		frame, err := decodeImage(payload, src, now, r.requireImage)
		if err != nil {
			return err
		}
		pushErr = r.images.Push(frame)
		depth = r.images.Len()
		r.log.Tracef("image frame from %v: %d bytes, %s", src, len(frame.Data), frame.MIME)
	case AudioChannel:
		msg, err := decodeCaption(payload, src, now)
		if err != nil {
			return err
		}
		pushErr = r.captions.Push(msg)
		depth = r.captions.Len()
		r.log.Tracef("%s from %v: %q", msg.Kind, src, msg.Text)
	}

	label := ch.String()
	r.metrics.SetQueueDepth(label, depth)

	switch {
	case pushErr == nil:
	case errors.Is(pushErr, queue.ErrOldestEvicted):
		r.metrics.ObserveDrop(label)
		r.log.Debugf("%s queue full, evicted oldest item", ch)
	default:
		r.metrics.ObserveDrop(label)

		return pushErr
	}

	r.metrics.ObserveDatagram(label, len(payload))

	return nil
}

func (r *Receiver) transient(l *loop, err error) {
	terr := &TransientReceiveError{Channel: l.channel, Err: err}
	r.metrics.ObserveError(l.channel.String(), metrics.KindTransient)
	r.log.Warnf("%v", terr)
	r.report(l, terr)
}

func (r *Receiver) fail(l *loop, err error) error {
	ferr := &FatalChannelError{Channel: l.channel, Err: err}
	r.metrics.ObserveError(l.channel.String(), metrics.KindFatal)
	r.log.Errorf("%v", ferr)
	r.report(l, ferr)

	return ferr
}
