// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package pipeview

import (
	"strconv"
	"strings"
)

// placeholders names the position, total and rate elements for one
// accounting mode. Byte and line sets never share a name.
type placeholders struct {
	pos   string
	total string
	rate  string
}

var (
	bytePlaceholders = placeholders{
		pos:   "{{bytes . }}",
		total: "{{total_bytes . }}",
		rate:  "{{bytes_per_sec . }}",
	}
	linePlaceholders = placeholders{
		pos:   "{{pos . }}",
		total: "{{len . }}",
		rate:  "{{per_sec . }}",
	}
)

const (
	elapsedPreciseSegment = "{{elapsed_precise . }}"
	etaPreciseSegment     = "{{eta_precise . }}"
	wideBarSegment        = "{{wide_bar . }} {{percent . }}"
)

// BuildRenderSpec turns display preferences into a render spec.
//
// Enabled segments appear in a fixed order: elapsed time, bar with percent,
// transferred amount, rate, ETA. The bar is always present. When none of
// elapsed, amount, rate or ETA is requested the full default template is used
// instead, showing all of them.
//
// Bounded is true exactly when an estimated total is known.
func BuildRenderSpec(p DisplayPreferences) RenderSpec {
	ph := bytePlaceholders
	if p.LineMode {
		ph = linePlaceholders
	}
	bounded := p.EstimatedTotal > 0

	if !(p.ShowElapsed || p.ShowTransferredAmount || p.ShowRate || p.ShowETA) {
		return RenderSpec{Template: defaultTemplate(ph), Bounded: bounded}
	}

	var segments []string
	if p.ShowElapsed {
		segments = append(segments, elapsedPreciseSegment)
	}

	if p.Width > 0 {
		segments = append(segments, `{{bar . "`+strconv.Itoa(p.Width)+`"}} {{percent . }}`)
	} else {
		segments = append(segments, wideBarSegment)
	}

	// position and total are joined without a space
	if p.ShowTransferredAmount && bounded {
		segments = append(segments, ph.pos+"/"+ph.total)
	} else if p.ShowTransferredAmount {
		segments = append(segments, ph.pos)
	}

	if p.ShowRate {
		segments = append(segments, ph.rate)
	}

	if p.ShowETA {
		segments = append(segments, etaPreciseSegment)
	}

	return RenderSpec{Template: strings.Join(segments, " "), Bounded: bounded}
}

func defaultTemplate(ph placeholders) string {
	return "{{elapsed . }} " + wideBarSegment + " " + ph.pos + "/" + ph.total + " " + ph.rate + " {{eta . }}"
}
