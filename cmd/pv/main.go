// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/bodaay/pipeview/internal/cli"
)

// Version is set at build time via ldflags
var Version = "0.2.0-dev"

func main() {
	os.Exit(cli.ExitCode(cli.Execute(Version)))
}
