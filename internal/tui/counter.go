// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package tui renders pv's progress indicator on the terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/bodaay/pipeview/pkg/pipeview"
)

// DefaultRefreshRate is how often the indicator is redrawn.
const DefaultRefreshRate = 200 * time.Millisecond

// CounterOptions configures a Counter.
type CounterOptions struct {
	// Output receives the indicator. Default: os.Stderr
	Output io.Writer

	// RefreshRate is the redraw interval. Default: DefaultRefreshRate
	RefreshRate time.Duration

	// Width is the total line width in cells. Zero uses the terminal width,
	// or 80 when Output is not a terminal.
	Width int
}

// Counter is a progress bar or spinner driven by Advance calls. It redraws
// on its own schedule once started.
type Counter struct {
	bar *pb.ProgressBar
}

// NewCounter builds a counter from a render spec. total is only used when
// the spec is bounded; an unbounded spec always runs as a spinner.
func NewCounter(spec pipeview.RenderSpec, total uint64, opts CounterOptions) (*Counter, error) {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = DefaultRefreshRate
	}
	if opts.Width <= 0 {
		if w, ok := termWidth(opts.Output); ok {
			opts.Width = w
		} else {
			opts.Width = defaultLineWidth
		}
	}
	if !spec.Bounded {
		total = 0
	}

	bar := pb.New64(int64(total)).
		SetWriter(opts.Output).
		SetRefreshRate(opts.RefreshRate).
		SetWidth(opts.Width)

	// The writer, refresh and width setters reconfigure the bar, which swaps a
	// broken template for pb's default and clears the error. Template last.
	bar.SetTemplateString(spec.Template)
	if err := bar.Err(); err != nil {
		return nil, fmt.Errorf("progress template %q: %w", spec.Template, err)
	}
	bar.Set(meterKey, newMeter())
	bar.Set(colorKey, IsTerminal(opts.Output) && ansiOkay())

	return &Counter{bar: bar}, nil
}

// Start begins periodic redraws.
func (c *Counter) Start() {
	c.bar.Start()
}

// Advance adds n units to the counter.
func (c *Counter) Advance(n uint64) {
	c.bar.Add64(int64(n))
}

// Current returns the number of units counted so far.
func (c *Counter) Current() uint64 {
	return uint64(c.bar.Current())
}

// Bounded reports whether the counter has a known total.
func (c *Counter) Bounded() bool {
	return c.bar.Total() > 0
}

// String renders one frame without writing it.
func (c *Counter) String() string {
	return c.bar.String()
}

// Finish draws the final frame and stops redrawing.
func (c *Counter) Finish() {
	c.bar.Finish()
}
