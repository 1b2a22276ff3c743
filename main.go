// jetayu - a terminal client for the Jetayu private aviation concierge.
//
// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/mohanraghava-higherself/jetayuV1/internal/cli"
)

// Version information (set at build time with -ldflags).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.ParseArgs(os.Args[1:])
	os.Exit(cli.Run(args))
}
