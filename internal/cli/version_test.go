// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWriteVersion(t *testing.T) {
	tests := []struct {
		name string
		info versionInfo
		want string
	}{
		{
			name: "release build",
			info: versionInfo{
				Version:   "1.0.0",
				Commit:    "abc1234",
				Built:     "2025-06-01T10:00:00Z",
				Go:        "go1.21.5",
				Platform:  "linux/amd64",
				ChunkSize: 64 * 1024,
				Redraw:    200 * time.Millisecond,
				Stack: map[string]string{
					"github.com/spf13/cobra":    "v1.7.0",
					"github.com/cheggaaa/pb/v3": "v3.1.2",
				},
			},
			want: "pv 1.0.0 (abc1234)\n" +
				"built with go1.21.5 for linux/amd64 on 2025-06-01T10:00:00Z\n" +
				"copies in 64 KiB chunks, redraws every 200ms\n" +
				"  github.com/cheggaaa/pb/v3 v3.1.2\n" +
				"  github.com/spf13/cobra v1.7.0\n",
		},
		{
			name: "dirty tree",
			info: versionInfo{Version: "dev", Commit: "deadbee", Dirty: true, Go: "go1.22.0", Platform: "darwin/arm64", ChunkSize: 64 * 1024, Redraw: time.Second},
			want: "pv dev (deadbee, modified)\n" +
				"built with go1.22.0 for darwin/arm64\n" +
				"copies in 64 KiB chunks, redraws every 1s\n",
		},
		{
			name: "no vcs info",
			info: versionInfo{Version: "dev", Go: "go1.21.0", Platform: "linux/arm64", ChunkSize: 64 * 1024, Redraw: 200 * time.Millisecond},
			want: "pv dev\n" +
				"built with go1.21.0 for linux/arm64\n" +
				"copies in 64 KiB chunks, redraws every 200ms\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeVersion(&buf, tt.info)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("version output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	isolateHome(t)

	stdout, _, err := runPV(t, strings.NewReader(""), "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "test\n" {
		t.Errorf("version --short = %q", stdout)
	}

	stdout, _, err = runPV(t, strings.NewReader(""), "version")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"pv test", runtime.Version(), "copies in 64 KiB chunks"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("version output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _, err = runPV(t, strings.NewReader(""), "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got versionInfo
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("--json output is not JSON: %v\n%s", err, stdout)
	}
	if got.Version != "test" || got.ChunkSize != 64*1024 || got.Redraw != 200*time.Millisecond {
		t.Errorf("unexpected JSON info: %+v", got)
	}
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	isolateHome(t)
	if _, _, err := runPV(t, strings.NewReader(""), "version", "extra"); err == nil {
		t.Error("expected error for extra argument")
	}
}
