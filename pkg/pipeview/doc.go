// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

/*
Package pipeview provides the core of pv, a pipe monitor that passes data
through unchanged while reporting progress.

It has two parts: a transfer engine that copies a source to a sink in
fixed-size chunks, and a template builder that turns display preferences into
a progress-bar template.

# Quick Start

Copy stdin to stdout, counting lines:

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/bodaay/pipeview/pkg/pipeview"
	)

	func main() {
		cfg := pipeview.TransferConfig{
			Unit: pipeview.LineUnit(pipeview.NewlineDelimiter),
		}

		engine := pipeview.NewEngine(os.Stdin, os.Stdout, cfg, pipeview.AdvanceFunc(func(n uint64) {
			// feed a progress bar here
		}))

		lines, err := engine.Run(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(os.Stderr, "%d lines\n", lines)
	}

# Templates

BuildRenderSpec maps DisplayPreferences to a RenderSpec. The template uses the
pb/v3 template language; the element names it references are registered by
the progress counter.

Enabled segments always appear in this order:

  - elapsed time
  - bar (or spinner) with percent
  - transferred amount, with the total when known
  - rate
  - ETA

When none of elapsed, amount, rate or ETA is requested, a full default
template showing all of them is used instead of a bare bar:

	spec := pipeview.BuildRenderSpec(pipeview.DisplayPreferences{})
	// {{elapsed . }} {{wide_bar . }} {{percent . }} {{bytes . }}/{{total_bytes . }} {{bytes_per_sec . }} {{eta . }}

Byte mode and line mode use disjoint placeholder names; switching LineMode
changes only the names, never which segments appear.

# Bounded and Unbounded

RenderSpec.Bounded is true exactly when DisplayPreferences.EstimatedTotal is
non-zero. A bounded run draws a bar; an unbounded run draws a spinner. The
choice is made once per run.

# Error Handling

The engine classifies every I/O error:

  - Interrupted reads (EINTR) are retried silently.
  - With SkipInputErrors, other read errors are discarded and the read retried.
  - With SkipOutputErrors, write errors are discarded and the chunk is still
    counted; consumed data is never replayed.
  - Anything else ends the run with a *TransferError wrapping the cause.

Use errors.Is with ErrRead or ErrWrite to tell the directions apart.
*/
package pipeview
