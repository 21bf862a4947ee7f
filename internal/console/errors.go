// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package console

import "errors"

var (
	// ErrNotRunning is returned if a command line is sent to a session
	// that is not in [StateRunning].
	ErrNotRunning = errors.New("session is not running")

	// ErrStreamClosed is the reason recorded when the guest output stream
	// reached end of stream. Read failures are treated the same way, as
	// both just mean no more console output will arrive.
	ErrStreamClosed = errors.New("console stream closed")
)
