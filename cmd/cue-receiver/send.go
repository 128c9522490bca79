// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package main

import (
	"strings"

	"github.com/pion/cue-receiver/config"
	"github.com/pion/cue-receiver/sender"
	"github.com/spf13/cobra"
)

func newSendCommand(opts *globalOptions) *cobra.Command {
	var host string

	send := &cobra.Command{
		Use:   "send",
		Short: "Send one image, caption or audio cue to a receiver",
	}
	send.PersistentFlags().StringVar(&host, "host", "127.0.0.1", "receiver host")

	withSender := func(fn func(*sender.Sender, []string) error) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			return sendWith(cfg, host, func(s *sender.Sender) error {
				return fn(s, args)
			})
		}
	}

	send.AddCommand(&cobra.Command{
		Use:   "image <file>",
		Short: "Send an encoded image file",
		Args:  cobra.ExactArgs(1),
		RunE: withSender(func(s *sender.Sender, args []string) error {
			return s.SendImageFile(args[0])
		}),
	})
	send.AddCommand(&cobra.Command{
		Use:   "caption <text>...",
		Short: "Send caption text",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSender(func(s *sender.Sender, args []string) error {
			return s.SendCaption(strings.Join(args, " "))
		}),
	})
	send.AddCommand(&cobra.Command{
		Use:   "audio <path>",
		Short: "Send an audio cue naming a voice file",
		Args:  cobra.ExactArgs(1),
		RunE: withSender(func(s *sender.Sender, args []string) error {
			return s.SendAudioCue(args[0])
		}),
	})

	return send
}

func sendWith(cfg *config.Config, host string, fn func(*sender.Sender) error) error {
	lf, logSink, err := loggerFactory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logSink.Close() }()

	s, err := sender.NewSender(host, cfg.Image.Port, cfg.Audio.Port, sender.SetLoggerFactory(lf))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return fn(s)
}
