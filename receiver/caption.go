// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package receiver

import (
	"net"
	"strings"
	"time"
	"unicode/utf8"
)

// AudioCuePrefix marks a caption datagram that names a synthesized voice file
// instead of carrying subtitle text.
const AudioCuePrefix = "AUDIO:"

// CaptionKind distinguishes subtitle text from audio cues.
type CaptionKind int

const (
	CaptionText CaptionKind = iota
	CaptionAudioCue
)

func (k CaptionKind) String() string {
	if k == CaptionAudioCue {
		return "audio"
	}

	return "caption"
}

// CaptionMessage is one datagram from the audio channel. Text always holds the
// full datagram; AudioPath is set for audio cues.
type CaptionMessage struct {
	Text       string
	Kind       CaptionKind
	AudioPath  string
	Source     net.Addr
	ReceivedAt time.Time
}

// Speaking reports whether the message should put the avatar into its
// speaking state. Both subtitles and voice cues do; an empty caption clears.
func (m CaptionMessage) Speaking() bool {
	return m.Kind == CaptionAudioCue || m.Text != ""
}

func decodeCaption(payload []byte, src net.Addr, now time.Time) (CaptionMessage, error) {
	if !utf8.Valid(payload) {
		return CaptionMessage{}, ErrInvalidUTF8
	}

	text := string(payload)
	msg := CaptionMessage{
		Text:       text,
		Kind:       CaptionText,
		Source:     src,
		ReceivedAt: now,
	}
	if path, ok := strings.CutPrefix(text, AudioCuePrefix); ok {
		msg.Kind = CaptionAudioCue
		msg.AudioPath = strings.TrimSpace(path)
	}

	return msg, nil
}
