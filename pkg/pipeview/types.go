// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package pipeview

// AccountingUnit selects what the progress indicator counts.
//
// The zero value counts bytes. Use LineUnit to count occurrences of a
// delimiter byte instead.
type AccountingUnit struct {
	// Lines is true when the engine counts delimiter bytes instead of raw bytes.
	Lines bool

	// Delimiter is the byte that terminates a line. Only used when Lines is true.
	Delimiter byte
}

// ByteUnit returns the accounting unit that counts raw bytes.
func ByteUnit() AccountingUnit {
	return AccountingUnit{}
}

// LineUnit returns an accounting unit that counts occurrences of delim.
func LineUnit(delim byte) AccountingUnit {
	return AccountingUnit{Lines: true, Delimiter: delim}
}

// Count returns how many units chunk contains.
func (u AccountingUnit) Count(chunk []byte) uint64 {
	if !u.Lines {
		return uint64(len(chunk))
	}
	return countByte(chunk, u.Delimiter)
}

func (u AccountingUnit) String() string {
	switch {
	case !u.Lines:
		return "bytes"
	case u.Delimiter == NullDelimiter:
		return "lines (NUL-terminated)"
	default:
		return "lines"
	}
}

// TransferConfig configures one run of the Engine.
//
// Example:
//
//	cfg := pipeview.TransferConfig{
//	    Unit:            pipeview.LineUnit(pipeview.NewlineDelimiter),
//	    SkipInputErrors: true,
//	}
type TransferConfig struct {
	// Unit is the accounting unit used for progress and the returned total.
	Unit AccountingUnit

	// SkipInputErrors discards non-transient read errors and retries the read.
	// When false, the first such error aborts the transfer.
	SkipInputErrors bool

	// SkipOutputErrors discards write errors. The chunk is still counted as
	// transferred; data already consumed from the source is not replayed.
	// When false, the first write error aborts the transfer.
	SkipOutputErrors bool
}

// DisplayPreferences describes what the progress indicator should show.
//
// Every combination is valid, including the zero value, which selects the
// full default template. See BuildRenderSpec.
type DisplayPreferences struct {
	// EstimatedTotal is the expected number of units (bytes, or lines in line
	// mode). Zero means unknown: the indicator runs as a spinner.
	EstimatedTotal uint64

	// ShowElapsed adds the elapsed timer.
	ShowElapsed bool

	// Width fixes the bar width in cells. Zero fills the available space.
	Width int

	// ShowTransferredAmount adds the transferred amount, and the total when
	// EstimatedTotal is known.
	ShowTransferredAmount bool

	// ShowETA adds the estimated time remaining.
	ShowETA bool

	// ShowRate adds the transfer rate. Average rate and instantaneous rate are
	// the same display.
	ShowRate bool

	// LineMode switches counters from bytes to items.
	LineMode bool
}

// RenderSpec is what the progress counter is built from.
type RenderSpec struct {
	// Template is a pb/v3 template string.
	Template string

	// Bounded selects a bar with a known total. When false the counter runs as
	// a spinner.
	Bounded bool
}

// Compat holds flags accepted for command-line compatibility with pv(1).
//
// They are intentionally inert: nothing in this package reads them, and
// neither the render spec nor the transfer configuration depends on them.
type Compat struct {
	BufferSize    string
	BufferPercent bool
	Quiet         bool
	Progress      bool
}

// Options is the complete parsed configuration of one pv run.
type Options struct {
	Display  DisplayPreferences
	Transfer TransferConfig
	Compat   Compat
}

// RenderSpec derives the render spec from the display preferences.
func (o Options) RenderSpec() RenderSpec {
	return BuildRenderSpec(o.Display)
}

// TransferConfig returns the engine configuration for this run.
func (o Options) TransferConfig() TransferConfig {
	return o.Transfer
}
