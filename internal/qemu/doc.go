// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu composes and starts the QEMU system emulator that boots the
// kernel under test. It expects the required qemu-system binary to be
// present on the system.
//
// The guest runs headless. Its serial console is wired to the process stdio,
// so the boot log, the interactive shell and all command output arrive on a
// single combined output stream and command lines are sent via stdin.
package qemu
