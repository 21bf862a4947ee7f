// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import "errors"

// errExpectationsFailed signals a completed run whose verdict failed. The
// report has been printed already, so it maps to the exit code without any
// extra output.
var errExpectationsFailed = errors.New("not all expectations passed")
