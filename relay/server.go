// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package relay forwards drained receiver output to presenters over websocket.
package relay

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/cue-receiver/receiver"
	"github.com/pion/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultInterval     = 33 * time.Millisecond
	defaultClientBuffer = 64
	writeTimeout        = 5 * time.Second
)

var errInvalidInterval = errors.New("interval must be positive")

// Update kinds.
const (
	KindImage   = "image"
	KindCaption = "caption"
	KindAudio   = "audio"
)

// Update is one item pushed to presenters.
type Update struct {
	Kind      string `json:"kind"`
	MIME      string `json:"mime,omitempty"`
	Data      []byte `json:"data,omitempty"` // base64 in JSON
	Text      string `json:"text,omitempty"`
	AudioPath string `json:"audioPath,omitempty"`
	Speaking  bool   `json:"speaking"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Source is what the relay drains once per tick. *receiver.Receiver
// implements it.
type Source interface {
	DrainImages() []receiver.ImageFrame
	DrainCaptions() []receiver.CaptionMessage
}

// Server relays updates to websocket clients.
type Server struct {
	upgrader     *websocket.Upgrader
	source       Source
	gatherer     prometheus.Gatherer
	interval     time.Duration
	clientBuffer int
	log          logging.LeveledLogger

	mu      sync.Mutex
	clients map[*client]struct{}
	// Sent to every new client so it starts from the current slide and caption.
	lastImage   *Update
	lastCaption *Update
}

type client struct {
	send chan Update
}

// New creates a relay draining source.
func New(source Source, opts ...Option) (*Server, error) {
	s := &Server{
		upgrader:     &websocket.Upgrader{},
		source:       source,
		interval:     defaultInterval,
		clientBuffer: defaultClientBuffer,
		log:          logging.NewDefaultLoggerFactory().NewLogger("relay"),
		clients:      make(map[*client]struct{}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Handler serves the presenter page, the websocket and, if a gatherer was
// set, Prometheus metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.home)
	mux.HandleFunc("/update", s.update)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}

// ListenAndServe serves Handler on addr and drains the source until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("relay listening on %s", addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			cancel()
		}
		close(errCh)
	}()

	runErr := s.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("failed to shut down relay: %v", err)
	}
	s.closeClients()

	if err := <-errCh; err != nil {
		return err
	}

	return runErr
}

// Run drains the source every interval until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Flush()

			return nil
		case <-ticker.C:
			s.Flush()
		}
	}
}

// Flush drains the source once and broadcasts everything drained. It returns
// the number of updates sent.
func (s *Server) Flush() int {
	var updates []Update
	for _, frame := range s.source.DrainImages() {
		updates = append(updates, imageUpdate(frame))
	}
	for _, msg := range s.source.DrainCaptions() {
		updates = append(updates, captionUpdate(msg))
	}

	for _, u := range updates {
		s.broadcast(u)
	}

	return len(updates)
}

// Clients returns the number of connected presenters.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.clients)
}

func imageUpdate(frame receiver.ImageFrame) Update {
	return Update{
		Kind:      KindImage,
		MIME:      frame.MIME,
		Data:      frame.Data,
		Timestamp: frame.ReceivedAt.UnixMilli(),
	}
}

func captionUpdate(msg receiver.CaptionMessage) Update {
	u := Update{
		Kind:      KindCaption,
		Text:      msg.Text,
		Speaking:  msg.Speaking(),
		Timestamp: msg.ReceivedAt.UnixMilli(),
	}
	if msg.Kind == receiver.CaptionAudioCue {
		u.Kind = KindAudio
		u.Text = ""
		u.AudioPath = msg.AudioPath
	}

	return u
}

func (s *Server) broadcast(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch u.Kind {
	case KindImage:
		s.lastImage = &u
	case KindCaption:
		s.lastCaption = &u
	}

	for c := range s.clients {
		select {
		case c.send <- u:
		default:
			s.log.Warnf("dropping slow presenter")
			s.removeLocked(c)
		}
	}
}

func (s *Server) register() *client {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &client{send: make(chan Update, s.clientBuffer)}
	for _, u := range []*Update{s.lastImage, s.lastCaption} {
		if u != nil {
			c.send <- *u
		}
	}
	s.clients[c] = struct{}{}

	return c
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(c)
}

func (s *Server) removeLocked(c *client) {
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.removeLocked(c)
	}
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("s.upgrader.Upgrade: %v", err)

		return
	}
	defer func() {
		if err = wsConn.Close(); err != nil {
			s.log.Debugf("failed to close websocket connection: %v", err)
		}
	}()

	c := s.register()
	s.log.Infof("presenter connected: %s", r.RemoteAddr)

	// Presenters never send; reading only notices when they go away.
	go func() {
		for {
			if _, _, err := wsConn.ReadMessage(); err != nil {
				s.remove(c)

				return
			}
		}
	}()

	for u := range c.send {
		if err = wsConn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			break
		}
		if err = wsConn.WriteJSON(u); err != nil {
			s.log.Errorf("c.WriteJSON: %v", err)

			break
		}
	}
	s.remove(c)
	s.log.Infof("presenter disconnected: %s", r.RemoteAddr)
}
