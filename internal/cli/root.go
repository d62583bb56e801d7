// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bodaay/pipeview/internal/tui"
	"github.com/bodaay/pipeview/pkg/pipeview"
)

// RootOpts holds the pipe command's flags.
type RootOpts struct {
	Size             string
	Timer            bool
	Width            int
	Bytes            bool
	Rate             bool
	AverageRate      bool
	ETA              bool
	LineMode         bool
	Null             bool
	SkipErrors       bool
	SkipOutputErrors bool
	Interval         time.Duration
	Force            bool

	// accepted for compatibility, never read
	BufferPercent bool
	BufferSize    string
	Quiet         bool
	Progress      bool

	Config  string
	Verbose bool
}

// Execute runs the CLI with the given version string.
func Execute(version string) error {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := newRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

func newRootCmd(version string) *cobra.Command {
	ro := &RootOpts{}

	root := &cobra.Command{
		Use:   "pv",
		Short: "Monitor the progress of data through a pipe",
		Long: `pv copies standard input to standard output unchanged while drawing a
progress indicator on standard error: elapsed time, a bar (or a spinner when
the size is unknown), transferred amount, rate and ETA.

Example:
  tar cf - dir | pv -s 2GiB | gzip > dir.tar.gz
  pv -l < access.log | grep 500 > errors.log`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &ExitError{Code: ExitInvalidArgs, Err: fmt.Errorf("input files are not supported (got %q); pipe data through stdin", args[0])}
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigDefaults(cmd, ro); err != nil {
				return &ExitError{Code: ExitInvalidArgs, Err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := finalize(ro, cmd.InOrStdin())
			if err != nil {
				return &ExitError{Code: ExitInvalidArgs, Err: err}
			}
			return runPipe(cmd, ro, opts)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: ExitInvalidArgs, Err: err}
	})

	f := root.Flags()
	f.StringVarP(&ro.Size, "size", "s", "", "Set estimated data size to SIZE (e.g. 4096, 32MiB, 1.5GB)")
	f.BoolVarP(&ro.Timer, "timer", "t", false, "Show elapsed time")
	f.IntVarP(&ro.Width, "width", "w", 0, "Width of the progress bar (default: fill the line)")
	f.BoolVarP(&ro.Bytes, "bytes", "b", false, "Show number of bytes (or lines) transferred")
	f.BoolVarP(&ro.Rate, "rate", "r", false, "Show data transfer rate")
	f.BoolVarP(&ro.AverageRate, "average-rate", "a", false, "Show data transfer average rate (same as --rate)")
	f.BoolVarP(&ro.ETA, "eta", "e", false, "Show estimated time of arrival (completion)")
	f.BoolVarP(&ro.LineMode, "line-mode", "l", false, "Count lines instead of bytes")
	f.BoolVarP(&ro.Null, "null", "0", false, "Lines are NUL-terminated (with --line-mode)")
	f.BoolVarP(&ro.SkipErrors, "skip-errors", "E", false, "Skip read errors in input")
	f.BoolVar(&ro.SkipOutputErrors, "skip-output-errors", false, "Skip write errors in output")
	f.DurationVarP(&ro.Interval, "interval", "i", tui.DefaultRefreshRate, "Redraw interval")
	f.BoolVarP(&ro.Force, "force", "f", false, "Show progress even if stderr is not a terminal")

	f.BoolVarP(&ro.BufferPercent, "buffer-percent", "T", false, "Ignored for compatibility")
	f.StringVarP(&ro.BufferSize, "buffer-size", "B", "", "Ignored for compatibility")
	f.BoolVarP(&ro.Quiet, "quiet", "q", false, "Ignored for compatibility; if you want quiet, don't use pv")
	f.BoolVarP(&ro.Progress, "progress", "p", false, "Ignored for compatibility; the progress bar is always shown")

	root.PersistentFlags().StringVar(&ro.Config, "config", "", "Path to config file (JSON or YAML)")
	root.PersistentFlags().BoolVarP(&ro.Verbose, "verbose", "v", false, "Log skipped errors and startup details to stderr")

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newConfigCmd())
	root.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	return root
}

// finalize turns flags into the options of one run.
func finalize(ro *RootOpts, stdin io.Reader) (pipeview.Options, error) {
	total, err := pipeview.ParseSize(ro.Size, 0)
	if err != nil {
		return pipeview.Options{}, fmt.Errorf("--size: %w", err)
	}
	if ro.Width < 0 {
		return pipeview.Options{}, fmt.Errorf("--width must be positive, got %d", ro.Width)
	}
	if ro.Size == "" && !ro.LineMode {
		total = stdinSize(stdin)
	}

	unit := pipeview.ByteUnit()
	if ro.LineMode {
		delim := pipeview.NewlineDelimiter
		if ro.Null {
			delim = pipeview.NullDelimiter
		}
		unit = pipeview.LineUnit(delim)
	}

	return pipeview.Options{
		Display: pipeview.DisplayPreferences{
			EstimatedTotal:        total,
			ShowElapsed:           ro.Timer,
			Width:                 ro.Width,
			ShowTransferredAmount: ro.Bytes,
			ShowETA:               ro.ETA,
			ShowRate:              ro.Rate || ro.AverageRate,
			LineMode:              ro.LineMode,
		},
		Transfer: pipeview.TransferConfig{
			Unit:             unit,
			SkipInputErrors:  ro.SkipErrors,
			SkipOutputErrors: ro.SkipOutputErrors,
		},
		Compat: pipeview.Compat{
			BufferSize:    ro.BufferSize,
			BufferPercent: ro.BufferPercent,
			Quiet:         ro.Quiet,
			Progress:      ro.Progress,
		},
	}, nil
}

// stdinSize returns the size of stdin when it is a regular file.
func stdinSize(stdin io.Reader) uint64 {
	f, ok := stdin.(*os.File)
	if !ok {
		return 0
	}
	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() || fi.Size() <= 0 {
		return 0
	}
	return uint64(fi.Size())
}

func runPipe(cmd *cobra.Command, ro *RootOpts, opts pipeview.Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()
	logger := log.New(io.Discard, "[pv] ", 0)
	if ro.Verbose {
		logger.SetOutput(stderr)
	}

	spec := opts.RenderSpec()
	logger.Printf("counting %s, estimated total %d, bounded=%v", opts.Transfer.Unit, opts.Display.EstimatedTotal, spec.Bounded)

	var progress pipeview.Advancer
	if ro.Force || tui.IsTerminal(stderr) {
		counter, err := tui.NewCounter(spec, opts.Display.EstimatedTotal, tui.CounterOptions{
			Output:      stderr,
			RefreshRate: ro.Interval,
		})
		if err != nil {
			return err
		}
		counter.Start()
		defer counter.Finish()
		progress = counter
	} else {
		logger.Printf("stderr is not a terminal; progress display disabled (use --force)")
	}

	engine := pipeview.NewEngine(cmd.InOrStdin(), cmd.OutOrStdout(), opts.TransferConfig(), progress)
	if ro.Verbose {
		engine.Logger = logger
	}

	type result struct {
		n   uint64
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := engine.Run(ctx)
		done <- result{n, err}
	}()

	// A blocked read cannot observe cancellation, so stop waiting on the
	// engine once the context is done.
	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.Canceled) {
				return &ExitError{Code: ExitInterrupted, Err: errInterrupted}
			}
			return &ExitError{Code: ExitTransferFailed, Err: r.err}
		}
		logger.Printf("transferred %d %s", r.n, opts.Transfer.Unit)
		return nil
	case <-ctx.Done():
		return &ExitError{Code: ExitInterrupted, Err: errInterrupted}
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}

func printError(w io.Writer, err error) {
	c := color.New(color.FgRed, color.Bold)
	if tui.IsTerminal(w) && os.Getenv("NO_COLOR") == "" {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprint(w, "error:")
	fmt.Fprintf(w, " %v\n", err)
}
