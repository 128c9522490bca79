// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package receiver implements the dual-channel datagram receiver: one UDP
// socket for encoded images and one for captions and audio cues, each read by
// its own goroutine and handed off through a queue to whoever drains it.
package receiver

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pion/cue-receiver/metrics"
	"github.com/pion/cue-receiver/queue"
	"github.com/pion/logging"
	"github.com/pion/transport/v3"
	"github.com/pion/transport/v3/stdnet"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxDatagramSize is the largest UDP payload over IPv4.
	MaxDatagramSize = 65507

	// DefaultImagePort and DefaultAudioPort match what the slide sender
	// targets; the audio port is the image port plus one.
	DefaultImagePort = 12346
	DefaultAudioPort = DefaultImagePort + 1

	defaultBindAddress = "0.0.0.0"

	// A channel gives up after this many read errors in a row.
	maxConsecutiveReadErrors = 16
)

type channelConfig struct {
	port     int
	capacity int
	policy   queue.Policy
}

// Receiver owns the two channel sockets, their receive loops and their
// queues. The zero value is not usable; create one with NewReceiver or Start.
type Receiver struct {
	net             transport.Net
	log             logging.LeveledLogger
	bindAddress     string
	maxDatagramSize int
	requireImage    bool
	onError         ErrorHandler
	onState         StateHandler
	metrics         *metrics.Metrics

	image channelConfig
	audio channelConfig

	images   *queue.Queue[ImageFrame]
	captions *queue.Queue[CaptionMessage]

	// lifecycle serializes Start against Stop.
	lifecycle sync.Mutex
	started   bool
	stopping  atomic.Bool
	stopOnce  sync.Once
	group     errgroup.Group

	loops  [2]*loop
	states [2]atomic.Int32
}

type loop struct {
	channel   Channel
	conn      net.PacketConn
	closeOnce sync.Once
	closeErr  error

	// mu guards exited and handlers; cond is broadcast when either changes
	// in a way a waiter cares about.
	mu       sync.Mutex
	cond     *sync.Cond
	exited   bool
	handlers int
}

func newLoop(ch Channel, conn net.PacketConn) *loop {
	l := &loop{channel: ch, conn: conn}
	l.cond = sync.NewCond(&l.mu)

	return l
}

func (l *loop) close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.conn.Close()
	})

	return l.closeErr
}

// callback runs fn, a user handler invoked from the loop goroutine. While it
// runs, waiters stop waiting for this loop, so a handler may call Stop.
func (l *loop) callback(fn func()) {
	if l == nil {
		fn()

		return
	}

	l.mu.Lock()
	l.handlers++
	l.cond.Broadcast()
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.handlers--
		l.mu.Unlock()
	}()

	fn()
}

func (l *loop) exit() {
	l.mu.Lock()
	l.exited = true
	l.cond.Broadcast()
	l.mu.Unlock()
}

// wait blocks until the loop goroutine has returned or is inside a handler.
// It reports whether the goroutine returned.
func (l *loop) wait() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for !l.exited && l.handlers == 0 {
		l.cond.Wait()
	}

	return l.exited
}

// NewReceiver creates a receiver with the given options. Nothing is bound
// until Start is called.
func NewReceiver(opts ...Option) (*Receiver, error) {
	receiver := &Receiver{
		log:             logging.NewDefaultLoggerFactory().NewLogger("receiver"),
		bindAddress:     defaultBindAddress,
		maxDatagramSize: MaxDatagramSize,
		image:           channelConfig{port: DefaultImagePort},
		audio:           channelConfig{port: DefaultAudioPort},
	}
	for _, opt := range opts {
		if err := opt(receiver); err != nil {
			return nil, err
		}
	}

	if receiver.net == nil {
		n, err := stdnet.NewNet()
		if err != nil {
			return nil, fmt.Errorf("create network: %w", err)
		}
		receiver.net = n
	}

	receiver.images = queue.New[ImageFrame](receiver.image.capacity, receiver.image.policy)
	receiver.captions = queue.New[CaptionMessage](receiver.audio.capacity, receiver.audio.policy)

	return receiver, nil
}

// Start binds imagePort and audioPort and starts both receive loops.
//
// A channel that cannot bind yields a *BindError and the other channel still
// runs: the receiver is returned together with the error. Only when neither
// channel binds is the receiver nil.
func Start(imagePort, audioPort int, opts ...Option) (*Receiver, error) {
	all := make([]Option, 0, len(opts)+2)
	all = append(all, SetImagePort(imagePort), SetAudioPort(audioPort))
	all = append(all, opts...)

	r, err := NewReceiver(all...)
	if err != nil {
		return nil, err
	}
	if err := r.Start(); err != nil {
		if r.ImageAddr() == nil && r.AudioAddr() == nil {
			return nil, err
		}

		return r, err
	}

	return r, nil
}

// Start binds both channels and launches their receive loops. It returns the
// bind errors of the channels that failed, joined; the remaining channel keeps
// running.
func (r *Receiver) Start() error {
	r.lifecycle.Lock()
	if r.stopping.Load() {
		r.lifecycle.Unlock()

		return ErrReceiverStopped
	}
	if r.started {
		r.lifecycle.Unlock()

		return ErrAlreadyStarted
	}
	r.started = true
	r.lifecycle.Unlock()

	// Handlers run without the lifecycle lock held, so they may call Stop.
	var errs []error
	for _, ch := range []Channel{ImageChannel, AudioChannel} {
		if r.stopping.Load() {
			errs = append(errs, ErrReceiverStopped)

			continue
		}
		l, err := r.listen(ch)
		if err != nil {
			errs = append(errs, err)

			continue
		}
		if !r.launch(l) {
			errs = append(errs, ErrReceiverStopped)
		}
	}

	if r.ImageAddr() == nil && r.AudioAddr() == nil {
		errs = append(errs, ErrNoChannel)
	} else {
		r.log.Infof("UDP receive started - image: %v, audio: %v", r.ImageAddr(), r.AudioAddr())
	}

	return errors.Join(errs...)
}

// launch registers l and starts its receive loop, unless Stop got there
// first, in which case the socket is closed and false is returned.
func (r *Receiver) launch(l *loop) bool {
	r.lifecycle.Lock()
	if r.stopping.Load() {
		r.lifecycle.Unlock()
		_ = l.close()
		r.setState(nil, l.channel, StateStopping)
		r.setState(nil, l.channel, StateStopped)

		return false
	}
	r.loops[l.channel] = l
	r.group.Go(func() error {
		return r.run(l)
	})
	r.lifecycle.Unlock()

	return true
}

func (r *Receiver) listen(ch Channel) (*loop, error) {
	r.setState(nil, ch, StateStarting)

	port := r.channelConfig(ch).port
	conn, err := r.net.ListenPacket("udp", net.JoinHostPort(r.bindAddress, strconv.Itoa(port)))
	if err != nil {
		bindErr := &BindError{Channel: ch, Port: port, Err: err}
		r.setState(nil, ch, StateStopped)
		r.metrics.ObserveError(ch.String(), metrics.KindBind)
		r.log.Errorf("%v", bindErr)
		r.report(nil, bindErr)

		return nil, bindErr
	}

	r.setState(nil, ch, StateListening)

	return newLoop(ch, conn), nil
}

// Stop closes both sockets and waits for the receive loops to return. Pending
// items stay queued and can still be drained. Calling Stop again does nothing
// and returns nil.
//
// Stop may be called from an ErrorHandler or StateHandler. It does not wait
// for a loop that is running a handler at that moment; such a loop returns as
// soon as its handler does.
func (r *Receiver) Stop() error {
	var err error
	r.stopOnce.Do(func() {
		err = r.shutdown()
	})

	return err
}

// Close is Stop, so a Receiver can be used as an io.Closer.
func (r *Receiver) Close() error {
	return r.Stop()
}

func (r *Receiver) shutdown() error {
	r.stopping.Store(true)

	r.lifecycle.Lock()
	loops := r.loops
	started := r.started
	r.lifecycle.Unlock()

	var errs []error
	for _, l := range loops {
		if l == nil {
			continue
		}
		// Loops report Stopping themselves; shutdown never calls a handler.
		if err := l.close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("close %s socket: %w", l.channel, err))
		}
	}

	exited := true
	for _, l := range loops {
		if l != nil && !l.wait() {
			exited = false
		}
	}
	if exited {
		// Fatal loop errors were already reported when they happened.
		_ = r.group.Wait()
	}

	if started {
		r.log.Infof("UDP receive stopped")
	}

	return errors.Join(errs...)
}

// DrainImages removes and returns every pending image frame in arrival order.
func (r *Receiver) DrainImages() []ImageFrame {
	frames := r.images.Drain()
	r.metrics.SetQueueDepth(ImageChannel.String(), r.images.Len())

	return frames
}

// DrainCaptions removes and returns every pending caption in arrival order.
func (r *Receiver) DrainCaptions() []CaptionMessage {
	captions := r.captions.Drain()
	r.metrics.SetQueueDepth(AudioChannel.String(), r.captions.Len())

	return captions
}

// PopImage removes and returns the oldest pending image frame.
func (r *Receiver) PopImage() (ImageFrame, bool) {
	frame, ok := r.images.Pop()
	r.metrics.SetQueueDepth(ImageChannel.String(), r.images.Len())

	return frame, ok
}

// PopCaption removes and returns the oldest pending caption.
func (r *Receiver) PopCaption() (CaptionMessage, bool) {
	msg, ok := r.captions.Pop()
	r.metrics.SetQueueDepth(AudioChannel.String(), r.captions.Len())

	return msg, ok
}

// Pending returns the number of queued images and captions.
func (r *Receiver) Pending() (images, captions int) {
	return r.images.Len(), r.captions.Len()
}

// Dropped returns how many items each queue discarded on overflow.
func (r *Receiver) Dropped() (images, captions uint64) {
	return r.images.Dropped(), r.captions.Dropped()
}

// State returns the lifecycle state of a channel.
func (r *Receiver) State(ch Channel) ChannelState {
	if ch != ImageChannel && ch != AudioChannel {
		return StateStopped
	}

	return ChannelState(r.states[ch].Load())
}

// ImageAddr returns the bound image socket address, nil if it is not bound.
func (r *Receiver) ImageAddr() net.Addr {
	return r.addr(ImageChannel)
}

// AudioAddr returns the bound audio socket address, nil if it is not bound.
func (r *Receiver) AudioAddr() net.Addr {
	return r.addr(AudioChannel)
}

func (r *Receiver) addr(ch Channel) net.Addr {
	r.lifecycle.Lock()
	l := r.loops[ch]
	r.lifecycle.Unlock()

	if l != nil {
		return l.conn.LocalAddr()
	}

	return nil
}

func (r *Receiver) channelConfig(ch Channel) *channelConfig {
	if ch == ImageChannel {
		return &r.image
	}

	return &r.audio
}

// The state and error helpers take the calling loop, or nil when the caller
// is not a receive goroutine.

func (r *Receiver) setState(l *loop, ch Channel, s ChannelState) {
	if old := ChannelState(r.states[ch].Swap(int32(s))); old != s {
		r.notifyState(l, ch, s)
	}
}

// transition moves ch from one state to another only if it is still in from.
func (r *Receiver) transition(l *loop, ch Channel, from, to ChannelState) {
	if r.states[ch].CompareAndSwap(int32(from), int32(to)) {
		r.notifyState(l, ch, to)
	}
}

func (r *Receiver) notifyState(l *loop, ch Channel, s ChannelState) {
	r.log.Debugf("%s channel %s", ch, s)
	if r.onState != nil {
		l.callback(func() { r.onState(ch, s) })
	}
}

func (r *Receiver) report(l *loop, err error) {
	if r.onError != nil {
		l.callback(func() { r.onError(err) })
	}
}
