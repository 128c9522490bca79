// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package sender pushes slide images, captions and audio cues to a receiver,
// one datagram per message.
package sender

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/pion/logging"
	"github.com/pion/transport/v3"
	"github.com/pion/transport/v3/stdnet"
)

// MaxDatagramSize is the largest UDP payload over IPv4.
const MaxDatagramSize = 65507

// audioCuePrefix must match what the receiver recognizes.
const audioCuePrefix = "AUDIO:"

// Static errors for err113 compliance.
var (
	ErrDatagramTooLarge = errors.New("payload does not fit in one datagram")
	ErrEmptyImage       = errors.New("empty image")
)

// Sender owns one UDP socket and the two destination addresses.
type Sender struct {
	net          transport.Net
	log          logging.LeveledLogger
	localAddress string

	conn      net.PacketConn
	imageAddr *net.UDPAddr
	audioAddr *net.UDPAddr
}

// NewSender resolves host's image and audio ports and opens the sending socket.
func NewSender(host string, imagePort, audioPort int, opts ...Option) (*Sender, error) {
	s := &Sender{
		log:          logging.NewDefaultLoggerFactory().NewLogger("sender"),
		localAddress: ":0",
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.net == nil {
		n, err := stdnet.NewNet()
		if err != nil {
			return nil, fmt.Errorf("create network: %w", err)
		}
		s.net = n
	}

	var err error
	if s.imageAddr, err = s.net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(imagePort))); err != nil {
		return nil, fmt.Errorf("resolve image address: %w", err)
	}
	if s.audioAddr, err = s.net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(audioPort))); err != nil {
		return nil, fmt.Errorf("resolve audio address: %w", err)
	}

	if s.conn, err = s.net.ListenPacket("udp", s.localAddress); err != nil {
		return nil, fmt.Errorf("open socket: %w", err)
	}

	return s, nil
}

// SendImage sends one encoded image.
func (s *Sender) SendImage(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyImage
	}
	if err := s.write(data, s.imageAddr); err != nil {
		return fmt.Errorf("send image: %w", err)
	}
	s.log.Debugf("sent image: %d bytes to %v", len(data), s.imageAddr)

	return nil
}

// SendImageFile reads an encoded image from disk and sends it.
func (s *Sender) SendImageFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if err := s.SendImage(data); err != nil {
		return err
	}
	s.log.Infof("sent image file: %s", path)

	return nil
}

// SendCaption sends subtitle text.
func (s *Sender) SendCaption(text string) error {
	if err := s.write([]byte(text), s.audioAddr); err != nil {
		return fmt.Errorf("send caption: %w", err)
	}
	s.log.Debugf("sent caption to %v: %q", s.audioAddr, text)

	return nil
}

// SendAudioCue tells the receiver a voice file is ready at path.
func (s *Sender) SendAudioCue(path string) error {
	if err := s.write([]byte(audioCuePrefix+path), s.audioAddr); err != nil {
		return fmt.Errorf("send audio cue: %w", err)
	}
	s.log.Debugf("sent audio cue to %v: %s", s.audioAddr, path)

	return nil
}

// LocalAddr returns the address of the sending socket.
func (s *Sender) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

func (s *Sender) write(payload []byte, addr *net.UDPAddr) error {
	if len(payload) > MaxDatagramSize {
		return fmt.Errorf("%w: %d bytes", ErrDatagramTooLarge, len(payload))
	}
	_, err := s.conn.WriteTo(payload, addr)

	return err
}
