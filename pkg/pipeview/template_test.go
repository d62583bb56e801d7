// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package pipeview

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildRenderSpec_Default(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		got := BuildRenderSpec(DisplayPreferences{})
		want := RenderSpec{
			Template: "{{elapsed . }} {{wide_bar . }} {{percent . }} {{bytes . }}/{{total_bytes . }} {{bytes_per_sec . }} {{eta . }}",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("BuildRenderSpec mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("lines", func(t *testing.T) {
		got := BuildRenderSpec(DisplayPreferences{LineMode: true})
		want := RenderSpec{
			Template: "{{elapsed . }} {{wide_bar . }} {{percent . }} {{pos . }}/{{len . }} {{per_sec . }} {{eta . }}",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("BuildRenderSpec mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("width and total do not shrink the default", func(t *testing.T) {
		got := BuildRenderSpec(DisplayPreferences{EstimatedTotal: 100, Width: 30})
		if !got.Bounded {
			t.Error("expected bounded spec")
		}
		if got.Template != defaultTemplate(bytePlaceholders) {
			t.Errorf("expected default template, got %q", got.Template)
		}
	})
}

func TestBuildRenderSpec_Segments(t *testing.T) {
	tests := []struct {
		name  string
		prefs DisplayPreferences
		want  string
	}{
		{
			name:  "eta with total",
			prefs: DisplayPreferences{EstimatedTotal: 100, ShowETA: true},
			want:  "{{wide_bar . }} {{percent . }} {{eta_precise . }}",
		},
		{
			name:  "timer only",
			prefs: DisplayPreferences{ShowElapsed: true},
			want:  "{{elapsed_precise . }} {{wide_bar . }} {{percent . }}",
		},
		{
			name:  "amount with total",
			prefs: DisplayPreferences{EstimatedTotal: 10, ShowTransferredAmount: true},
			want:  "{{wide_bar . }} {{percent . }} {{bytes . }}/{{total_bytes . }}",
		},
		{
			name:  "amount without total",
			prefs: DisplayPreferences{ShowTransferredAmount: true},
			want:  "{{wide_bar . }} {{percent . }} {{bytes . }}",
		},
		{
			name:  "fixed width without total",
			prefs: DisplayPreferences{Width: 40, ShowRate: true},
			want:  `{{bar . "40"}} {{percent . }} {{bytes_per_sec . }}`,
		},
		{
			name: "everything in order",
			prefs: DisplayPreferences{
				EstimatedTotal:        5,
				ShowElapsed:           true,
				Width:                 20,
				ShowTransferredAmount: true,
				ShowETA:               true,
				ShowRate:              true,
			},
			want: `{{elapsed_precise . }} {{bar . "20"}} {{percent . }} {{bytes . }}/{{total_bytes . }} {{bytes_per_sec . }} {{eta_precise . }}`,
		},
		{
			name: "line mode everything",
			prefs: DisplayPreferences{
				EstimatedTotal:        5,
				ShowElapsed:           true,
				ShowTransferredAmount: true,
				ShowETA:               true,
				ShowRate:              true,
				LineMode:              true,
			},
			want: "{{elapsed_precise . }} {{wide_bar . }} {{percent . }} {{pos . }}/{{len . }} {{per_sec . }} {{eta_precise . }}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRenderSpec(tt.prefs).Template
			if got != tt.want {
				t.Errorf("template = %q, want %q", got, tt.want)
			}
		})
	}
}

// allPrefs enumerates every combination of the boolean preferences with and
// without a total and a width.
func allPrefs() []DisplayPreferences {
	var out []DisplayPreferences
	for mask := 0; mask < 1<<7; mask++ {
		p := DisplayPreferences{
			ShowElapsed:           mask&1 != 0,
			ShowTransferredAmount: mask&2 != 0,
			ShowETA:               mask&4 != 0,
			ShowRate:              mask&8 != 0,
			LineMode:              mask&16 != 0,
		}
		if mask&32 != 0 {
			p.EstimatedTotal = 1000
		}
		if mask&64 != 0 {
			p.Width = 25
		}
		out = append(out, p)
	}
	return out
}

func TestBuildRenderSpec_BoundedIffTotal(t *testing.T) {
	for _, p := range allPrefs() {
		got := BuildRenderSpec(p).Bounded
		if got != (p.EstimatedTotal > 0) {
			t.Errorf("%+v: Bounded = %v", p, got)
		}
	}
}

func TestBuildRenderSpec_SegmentOrder(t *testing.T) {
	for _, p := range allPrefs() {
		if !(p.ShowElapsed || p.ShowTransferredAmount || p.ShowRate || p.ShowETA) {
			continue
		}
		ph := bytePlaceholders
		if p.LineMode {
			ph = linePlaceholders
		}
		tmpl := BuildRenderSpec(p).Template

		checks := []struct {
			segment string
			want    bool
		}{
			{elapsedPreciseSegment, p.ShowElapsed},
			{"{{percent . }}", true},
			{ph.pos, p.ShowTransferredAmount},
			{ph.total, p.ShowTransferredAmount && p.EstimatedTotal > 0},
			{ph.rate, p.ShowRate},
			{etaPreciseSegment, p.ShowETA},
		}
		last := -1
		for _, c := range checks {
			idx := strings.Index(tmpl, c.segment)
			if (idx >= 0) != c.want {
				t.Errorf("%+v: segment %q present=%v, want %v in %q", p, c.segment, idx >= 0, c.want, tmpl)
				continue
			}
			if idx >= 0 {
				if idx < last {
					t.Errorf("%+v: segment %q out of order in %q", p, c.segment, tmpl)
				}
				last = idx
			}
		}
		if strings.Contains(tmpl, "{{elapsed . }}") || strings.Contains(tmpl, "{{eta . }}") {
			t.Errorf("%+v: explicit template uses default-only elements: %q", p, tmpl)
		}
	}
}

func TestBuildRenderSpec_LineModeOnlyRenames(t *testing.T) {
	rename := strings.NewReplacer(
		linePlaceholders.pos, bytePlaceholders.pos,
		linePlaceholders.total, bytePlaceholders.total,
		linePlaceholders.rate, bytePlaceholders.rate,
	)
	for _, p := range allPrefs() {
		if p.LineMode {
			continue
		}
		byteTmpl := BuildRenderSpec(p).Template
		p.LineMode = true
		lineTmpl := BuildRenderSpec(p).Template

		for _, name := range []string{bytePlaceholders.pos, bytePlaceholders.total, bytePlaceholders.rate} {
			if strings.Contains(lineTmpl, name) {
				t.Errorf("%+v: line template contains byte placeholder %q", p, name)
			}
		}
		for _, name := range []string{linePlaceholders.pos, linePlaceholders.total, linePlaceholders.rate} {
			if strings.Contains(byteTmpl, name) {
				t.Errorf("%+v: byte template contains line placeholder %q", p, name)
			}
		}
		if got := rename.Replace(lineTmpl); got != byteTmpl {
			t.Errorf("%+v: line mode changed segments: %q vs %q", p, got, byteTmpl)
		}
	}
}

func TestOptions_CompatIsInert(t *testing.T) {
	base := Options{
		Display: DisplayPreferences{EstimatedTotal: 42, ShowRate: true},
		Transfer: TransferConfig{
			Unit:            LineUnit(NullDelimiter),
			SkipInputErrors: true,
		},
	}
	variants := []Compat{
		{BufferSize: "1M"},
		{BufferPercent: true},
		{Quiet: true},
		{Progress: true},
		{BufferSize: "64k", BufferPercent: true, Quiet: true, Progress: true},
	}
	for _, c := range variants {
		o := base
		o.Compat = c
		if diff := cmp.Diff(base.RenderSpec(), o.RenderSpec()); diff != "" {
			t.Errorf("compat %+v changed render spec:\n%s", c, diff)
		}
		if diff := cmp.Diff(base.TransferConfig(), o.TransferConfig()); diff != "" {
			t.Errorf("compat %+v changed transfer config:\n%s", c, diff)
		}
	}
}
