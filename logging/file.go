// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package logging

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// GetLogFile opens the log destination named by file: "" discards, "stdout"
// and "stderr" use the process streams, anything else is created as a
// buffered file that is flushed on Close.
func GetLogFile(file string) (io.WriteCloser, error) {
	switch file {
	case "":
		return nopCloser{io.Discard}, nil
	case "stdout":
		return nopCloser{os.Stdout}, nil
	case "stderr":
		return nopCloser{os.Stderr}, nil
	}

	fd, err := os.Create(filepath.Clean(file))
	if err != nil {
		return nil, err
	}

	return &fileCloser{
		f:   fd,
		buf: bufio.NewWriterSize(fd, 4096),
	}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// fileCloser is written to by several loggers at once.
type fileCloser struct {
	mu  sync.Mutex
	f   *os.File
	buf *bufio.Writer
}

func (f *fileCloser) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.buf.Write(p)
}

func (f *fileCloser) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.buf.Flush(); err != nil {
		_ = f.f.Close()

		return err
	}

	return f.f.Close()
}
