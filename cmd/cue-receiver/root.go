// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package main

import (
	"io"

	"github.com/pion/cue-receiver/config"
	"github.com/pion/cue-receiver/logging"
	plogging "github.com/pion/logging"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "cue-receiver",
		Short: "Receive slide images and speech cues over UDP",
		Long: `cue-receiver listens on two UDP ports: one carries encoded slide images,
the other captions and AUDIO:<path> voice cues. Received items can be relayed
to browser presenters over websocket.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./config.yaml if present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level: disable|error|warn|info|debug|trace")

	root.AddCommand(newListenCommand(opts))
	root.AddCommand(newSendCommand(opts))

	return root
}

// load reads the configuration and applies command line overrides.
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	return cfg, nil
}

// loggerFactory opens the configured log sink. The returned closer flushes it.
func loggerFactory(cfg *config.Config) (*plogging.DefaultLoggerFactory, io.Closer, error) {
	w, err := logging.GetLogFile(cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	lf, err := logging.NewLoggerFactory(cfg.Log.Level, w, cfg.Log.Scopes)
	if err != nil {
		_ = w.Close()

		return nil, nil, err
	}

	return lf, w, nil
}
