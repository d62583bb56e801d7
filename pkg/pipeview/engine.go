// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package pipeview

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"syscall"
)

// DefaultChunkSize is the size of the engine's read buffer.
const DefaultChunkSize = 64 * 1024

// Line delimiters.
const (
	NewlineDelimiter byte = '\n'
	NullDelimiter    byte = 0
)

const (
	opRead  = "read"
	opWrite = "write"
)

// Advancer receives progress from the engine. Advance is called once per
// chunk with the number of units the chunk contained.
type Advancer interface {
	Advance(n uint64)
}

// AdvanceFunc adapts a function to the Advancer interface.
type AdvanceFunc func(n uint64)

// Advance calls f(n).
func (f AdvanceFunc) Advance(n uint64) {
	f(n)
}

// Engine copies a source to a sink in fixed-size chunks, reporting progress
// after every chunk.
//
// An Engine owns its source, sink, buffer and advancer for the duration of
// Run and is not safe for concurrent use.
type Engine struct {
	src      io.Reader
	dst      io.Writer
	cfg      TransferConfig
	progress Advancer
	buf      []byte

	// Logger, when set, receives one line per skipped error.
	Logger *log.Logger
}

// NewEngine creates an engine. A nil progress discards progress updates.
func NewEngine(src io.Reader, dst io.Writer, cfg TransferConfig, progress Advancer) *Engine {
	if progress == nil {
		progress = AdvanceFunc(func(uint64) {})
	}
	return &Engine{
		src:      src,
		dst:      dst,
		cfg:      cfg,
		progress: progress,
		buf:      make([]byte, DefaultChunkSize),
	}
}

// Run copies until end of input and returns the number of units transferred:
// bytes, or delimiter occurrences in line mode.
//
// Interrupted reads are always retried. Other read and write errors are
// skipped or returned as a *TransferError, depending on the configuration.
// The context is checked between chunks; a blocked read is not interrupted.
func (e *Engine) Run(ctx context.Context) (uint64, error) {
	var total uint64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, rerr := e.src.Read(e.buf)
		if n > 0 {
			units, err := e.forward(e.buf[:n])
			total += units
			if err != nil {
				return total, &TransferError{Op: opWrite, Transferred: total, Err: err}
			}
		}

		switch {
		case rerr == nil:
			if n == 0 {
				return total, nil
			}
		case errors.Is(rerr, io.EOF):
			return total, nil
		case errors.Is(rerr, syscall.EINTR):
			// retried regardless of configuration
		case e.cfg.SkipInputErrors:
			e.logf("skipping read error: %v", rerr)
		default:
			return total, &TransferError{Op: opRead, Transferred: total, Err: rerr}
		}
	}
}

// forward writes chunk to the sink and accounts for it. It returns a non-nil
// error only for a write failure that must abort the run.
func (e *Engine) forward(chunk []byte) (uint64, error) {
	if err := writeFull(e.dst, chunk); err != nil {
		if !e.cfg.SkipOutputErrors {
			return 0, err
		}
		e.logf("skipping write error: %v", err)
	}
	units := e.cfg.Unit.Count(chunk)
	e.progress.Advance(units)
	return units, nil
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

func countByte(b []byte, c byte) uint64 {
	return uint64(bytes.Count(b, []byte{c}))
}
