// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pion/cue-receiver/config"
	"github.com/pion/cue-receiver/metrics"
	"github.com/pion/cue-receiver/receiver"
	"github.com/pion/cue-receiver/relay"
	"github.com/pion/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newListenCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Receive images and captions until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runListen(ctx, cfg)
		},
	}
}

// receiverOptions turns the configuration into receiver options.
func receiverOptions(cfg *config.Config, lf logging.LoggerFactory, m *metrics.Metrics) ([]receiver.Option, error) {
	imagePolicy, err := cfg.Image.Policy()
	if err != nil {
		return nil, err
	}
	audioPolicy, err := cfg.Audio.Policy()
	if err != nil {
		return nil, err
	}

	return []receiver.Option{
		receiver.SetLoggerFactory(lf),
		receiver.SetBindAddress(cfg.BindAddress),
		receiver.SetMaxDatagramSize(cfg.MaxDatagramSize),
		receiver.RequireImageMIME(cfg.RequireImageMIME),
		receiver.SetChannelQueuePolicy(receiver.ImageChannel, cfg.Image.QueueCapacity, imagePolicy),
		receiver.SetChannelQueuePolicy(receiver.AudioChannel, cfg.Audio.QueueCapacity, audioPolicy),
		receiver.SetMetrics(m),
	}, nil
}

func runListen(ctx context.Context, cfg *config.Config) error {
	lf, logSink, err := loggerFactory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logSink.Close() }()
	logger := lf.NewLogger("cue_receiver")

	registry := prometheus.NewRegistry()
	recvOpts, err := receiverOptions(cfg, lf, metrics.New(registry))
	if err != nil {
		return err
	}

	recv, err := receiver.Start(cfg.Image.Port, cfg.Audio.Port, recvOpts...)
	if recv == nil {
		return err
	}
	if err != nil {
		logger.Warnf("running with one channel: %v", err)
	}
	defer func() {
		if err := recv.Stop(); err != nil {
			logger.Errorf("stop receiver: %v", err)
		}
	}()

	group, ctx := errgroup.WithContext(ctx)
	if cfg.Relay.Addr != "" {
		server, err := relay.New(recv,
			relay.SetLoggerFactory(lf),
			relay.SetInterval(cfg.Relay.Interval),
			relay.SetGatherer(registry),
		)
		if err != nil {
			return err
		}
		group.Go(func() error {
			return server.ListenAndServe(ctx, cfg.Relay.Addr)
		})
	} else {
		group.Go(func() error {
			logDrained(ctx, recv, logger, cfg.Relay.Interval)

			return nil
		})
	}

	err = group.Wait()
	logger.Info("Shutting down receiver")

	return err
}

// logDrained is the presenter used when no relay is configured: it drains
// once per interval and logs what arrived.
func logDrained(ctx context.Context, recv *receiver.Receiver, logger logging.LeveledLogger, interval time.Duration) {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, frame := range recv.DrainImages() {
				logger.Infof("image: %d bytes %s from %v", len(frame.Data), frame.MIME, frame.Source)
			}
			for _, msg := range recv.DrainCaptions() {
				if msg.Kind == receiver.CaptionAudioCue {
					logger.Infof("audio cue: %s", msg.AudioPath)

					continue
				}
				logger.Infof("caption: %s", msg.Text)
			}
		}
	}
}
