// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for bogotest. It handles
// flag parsing, configuration loading, logging setup and exit code mapping.
package cmd
