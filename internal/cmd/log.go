// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// setupLogging installs the default logger writing to the given writer,
// which is expected to be stderr. The mirrored console stream stays on
// stdout, so log lines never mix into the transcript bytes.
func setupLogging(writer io.Writer, debug bool) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	slog.SetDefault(slog.New(handler))
}
