// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package receiver

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ImageFrame is one encoded image received as a single datagram. The consumer
// owns Data once the frame is dequeued.
type ImageFrame struct {
	Data       []byte
	MIME       string // sniffed from the payload, e.g. image/jpeg
	Source     net.Addr
	ReceivedAt time.Time
}

// decodeImage copies payload out of the read buffer and sniffs its type.
// With requireImage set, anything not detected as image/* is rejected.
func decodeImage(payload []byte, src net.Addr, now time.Time, requireImage bool) (ImageFrame, error) {
	if len(payload) == 0 {
		return ImageFrame{}, ErrEmptyDatagram
	}

	mime := mimetype.Detect(payload).String()
	if requireImage && !strings.HasPrefix(mime, "image/") {
		return ImageFrame{}, fmt.Errorf("%w: detected %s", ErrNotAnImage, mime)
	}

	data := make([]byte, len(payload))
	copy(data, payload)

	return ImageFrame{
		Data:       data,
		MIME:       mime,
		Source:     src,
		ReceivedAt: now,
	}, nil
}
