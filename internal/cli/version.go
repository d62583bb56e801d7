// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/bodaay/pipeview/internal/tui"
	"github.com/bodaay/pipeview/pkg/pipeview"
)

// stackModules are the libraries that shape what pv draws and how it parses
// flags. Their versions are reported so bug reports can name the renderer.
var stackModules = []string{
	"github.com/cheggaaa/pb/v3",
	"github.com/VividCortex/ewma",
	"golang.org/x/term",
	"github.com/spf13/cobra",
}

// versionInfo describes the running binary.
type versionInfo struct {
	Version   string            `json:"version"`
	Commit    string            `json:"commit,omitempty"`
	Dirty     bool              `json:"dirty,omitempty"`
	Built     string            `json:"built,omitempty"`
	Go        string            `json:"go"`
	Platform  string            `json:"platform"`
	ChunkSize int               `json:"chunk_size"`
	Redraw    time.Duration     `json:"redraw_ns"`
	Stack     map[string]string `json:"stack,omitempty"`
}

func readVersionInfo(version string) versionInfo {
	info := versionInfo{
		Version:   version,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		ChunkSize: pipeview.DefaultChunkSize,
		Redraw:    tui.DefaultRefreshRate,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
			if len(info.Commit) > 7 {
				info.Commit = info.Commit[:7]
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			info.Built = s.Value
		}
	}
	for _, dep := range bi.Deps {
		for _, m := range stackModules {
			if dep.Path == m {
				if info.Stack == nil {
					info.Stack = make(map[string]string)
				}
				info.Stack[m] = dep.Version
			}
		}
	}
	return info
}

func writeVersion(w io.Writer, info versionInfo) {
	fmt.Fprintf(w, "pv %s", info.Version)
	switch {
	case info.Commit != "" && info.Dirty:
		fmt.Fprintf(w, " (%s, modified)", info.Commit)
	case info.Commit != "":
		fmt.Fprintf(w, " (%s)", info.Commit)
	}
	fmt.Fprintln(w)

	built := ""
	if info.Built != "" {
		built = " on " + info.Built
	}
	fmt.Fprintf(w, "built with %s for %s%s\n", info.Go, info.Platform, built)
	fmt.Fprintf(w, "copies in %d KiB chunks, redraws every %s\n", info.ChunkSize/1024, info.Redraw)

	// fixed order, not map order
	for _, m := range stackModules {
		if v, ok := info.Stack[m]; ok {
			fmt.Fprintf(w, "  %s %s\n", m, v)
		}
	}
}

func newVersionCmd(version string) *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			info := readVersionInfo(version)
			switch {
			case short:
				fmt.Fprintln(out, info.Version)
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				writeVersion(out, info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")

	return cmd
}
