// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package console drives the interactive serial console of a guest system.
// It captures everything the guest writes into an append-only transcript,
// mirrors it to a live output writer, and provides deadline-bounded reads
// that scan the transcript tail for a prompt marker.
package console
