// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
)

type barKey int

const (
	meterKey barKey = iota
	colorKey
)

const (
	defaultFixedBarWidth = 20
	rateWidth            = 12
	unknown              = "?"
)

// The element names below are the vocabulary pipeview.BuildRenderSpec emits.
// "bar" and "percent" replace pb's built-in elements of the same name.
func init() {
	pb.RegisterElement("elapsed", pb.ElementFunc(elapsedElement), false)
	pb.RegisterElement("elapsed_precise", pb.ElementFunc(elapsedPreciseElement), false)
	pb.RegisterElement("eta", pb.ElementFunc(etaElement), false)
	pb.RegisterElement("eta_precise", pb.ElementFunc(etaPreciseElement), false)
	pb.RegisterElement("bar", pb.ElementFunc(fixedBarElement), false)
	pb.RegisterElement("wide_bar", pb.ElementFunc(wideBarElement), true)
	pb.RegisterElement("percent", pb.ElementFunc(percentElement), false)

	pb.RegisterElement("bytes", pb.ElementFunc(bytesElement), false)
	pb.RegisterElement("total_bytes", pb.ElementFunc(totalBytesElement), false)
	pb.RegisterElement("bytes_per_sec", pb.ElementFunc(bytesPerSecElement), false)

	pb.RegisterElement("pos", pb.ElementFunc(posElement), false)
	pb.RegisterElement("len", pb.ElementFunc(lenElement), false)
	pb.RegisterElement("per_sec", pb.ElementFunc(perSecElement), false)
}

func elapsed(state *pb.State) time.Duration {
	return state.Time().Sub(state.StartTime())
}

func elapsedElement(state *pb.State, args ...string) string {
	return fmtCompact(elapsed(state))
}

func elapsedPreciseElement(state *pb.State, args ...string) string {
	return fmtDuration(elapsed(state))
}

// remaining returns the time left at the current rate. ok is false when it
// cannot be estimated.
func remaining(state *pb.State) (d time.Duration, ok bool) {
	if state.IsFinished() {
		return 0, true
	}
	total, cur := state.Total(), state.Value()
	if total <= 0 {
		return 0, false
	}
	rate := rateOf(state)
	if rate <= 0 {
		return 0, false
	}
	left := total - cur
	if left < 0 {
		left = 0
	}
	return time.Duration(float64(left) / rate * float64(time.Second)), true
}

func etaElement(state *pb.State, args ...string) string {
	d, ok := remaining(state)
	if !ok {
		return unknown
	}
	return fmtCompact(d)
}

func etaPreciseElement(state *pb.State, args ...string) string {
	d, ok := remaining(state)
	if !ok {
		return "--:--:--"
	}
	return fmtDuration(d)
}

// rateOf returns the per-second rate: smoothed while running, the overall
// average once finished.
func rateOf(state *pb.State) float64 {
	if state.IsFinished() {
		secs := elapsed(state).Seconds()
		if secs <= 0 {
			return 0
		}
		return float64(state.Value()) / secs
	}
	m, _ := state.Get(meterKey).(*meter)
	return m.observe(state.Time(), state.Value())
}

func bytesElement(state *pb.State, args ...string) string {
	return humanBytes(state.Value())
}

func totalBytesElement(state *pb.State, args ...string) string {
	if state.Total() <= 0 {
		return unknown
	}
	return humanBytes(state.Total())
}

func bytesPerSecElement(state *pb.State, args ...string) string {
	return pad(humanRate(rateOf(state)), rateWidth)
}

func posElement(state *pb.State, args ...string) string {
	return strconv.FormatInt(state.Value(), 10)
}

func lenElement(state *pb.State, args ...string) string {
	if state.Total() <= 0 {
		return unknown
	}
	return strconv.FormatInt(state.Total(), 10)
}

func perSecElement(state *pb.State, args ...string) string {
	return pad(countRate(rateOf(state)), rateWidth)
}

// percentElement renders the completed share of the total, or nothing when
// the total is unknown. An optional first argument overrides the format.
func percentElement(state *pb.State, args ...string) string {
	total := state.Total()
	if total <= 0 {
		return ""
	}
	format := "%.02f%%"
	if len(args) > 0 && args[0] != "" {
		format = args[0]
	}
	p := float64(state.Value()) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return fmt.Sprintf(format, p)
}

func fixedBarElement(state *pb.State, args ...string) string {
	width := defaultFixedBarWidth
	if len(args) > 0 {
		if w, err := strconv.Atoi(args[0]); err == nil && w > 0 {
			width = w
		}
	}
	return renderBar(state, width)
}

func wideBarElement(state *pb.State, args ...string) string {
	return renderBar(state, state.AdaptiveElWidth())
}

// renderBar draws a filled bar when the total is known and a bouncing
// indicator otherwise.
func renderBar(state *pb.State, width int) string {
	if width < 3 {
		width = 3
	}
	total := state.Total()
	if total <= 0 {
		return renderSpinner(state.Id(), width)
	}

	p := float64(state.Value()) / float64(total)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p * float64(width))
	fill := strings.Repeat("█", filled)
	if color, _ := state.Get(colorKey).(bool); color && filled > 0 {
		fill = "\x1b[32m" + fill + "\x1b[0m"
	}
	return fill + strings.Repeat("░", width-filled)
}

const indicator = "<=>"

// renderSpinner places the indicator inside brackets, moving one cell per
// frame and reversing at either end.
func renderSpinner(frame uint64, width int) string {
	inner := width - 2
	if inner < len(indicator) {
		return strings.Repeat(" ", width)
	}
	span := inner - len(indicator)
	pos := 0
	if span > 0 {
		cycle := uint64(2 * span)
		step := int(frame % cycle)
		pos = step
		if step > span {
			pos = 2*span - step
		}
	}
	return "[" + strings.Repeat(" ", pos) + indicator + strings.Repeat(" ", span-pos) + "]"
}
