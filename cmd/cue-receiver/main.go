// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package main is the cue-receiver command: it listens for slide images and
// speech cues, or sends them for testing.
package main

import "log"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
