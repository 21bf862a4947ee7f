// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package harness runs one end-to-end test session against the kernel under
// test: boot the guest, drive the scripted command exchange over the
// console, terminate the guest, persist the transcript and evaluate the
// expectations.
//
// Every failure mode of the session itself (boot timeout, closed stream,
// shutdown hang, interruption) is recovered locally. The harness always
// reaches persistence and verification and produces a verdict; only a
// failure to even start the guest process surfaces as an error.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bogo-os/bogotest/internal/config"
	"github.com/bogo-os/bogotest/internal/console"
	"github.com/bogo-os/bogotest/internal/qemu"
	"github.com/bogo-os/bogotest/internal/verify"
)

const (
	// Bounded wait for reaping the process after a forced kill.
	reapTimeout = 2 * time.Second

	// Bounded wait for residual console output while finalizing.
	finalizeGrace = time.Second
)

// Harness drives a single test session.
type Harness struct {
	cfg    config.Config
	mirror io.Writer
	report io.Writer
}

// New creates a [Harness] for the given configuration.
//
// All console output is mirrored live to the mirror writer and the final
// PASS/FAIL report is printed to the report writer.
func New(cfg config.Config, mirror, report io.Writer) *Harness {
	return &Harness{
		cfg:    cfg,
		mirror: mirror,
		report: report,
	}
}

// Run performs the complete test session. Exactly one guest process exists
// per call and it is guaranteed to be terminated when Run returns.
//
// The returned report carries the verdict. An error is returned only if the
// guest process could not be started at all.
func (h *Harness) Run(ctx context.Context) (verify.Report, error) {
	command, err := qemu.NewCommand(qemu.CommandSpec{
		Executable: h.cfg.Qemu,
		Kernel:     h.cfg.Kernel,
		Machine:    h.cfg.Machine,
		Memory:     h.cfg.MemoryMB,
		BIOS:       h.cfg.BIOS,
	})
	if err != nil {
		return verify.Report{}, fmt.Errorf("build command: %w", err)
	}

	slog.Info("Starting QEMU", slog.String("command", command.String()))

	guest, err := command.Start(ctx, h.mirror)
	if err != nil {
		return verify.Report{}, fmt.Errorf("start guest: %w", err)
	}

	state := console.StateCompleted

	if !h.runScript(ctx, guest) {
		slog.Warn("Forcing guest termination")

		if err := guest.Kill(); err != nil {
			slog.Error("Failed to kill guest", slog.Any("error", err))
		}

		// Reap with a fresh context. The run context may be the very reason
		// for the forced termination.
		_ = guest.WaitExit(context.WithoutCancel(ctx), reapTimeout)

		state = console.StateKilled
	}

	transcript := guest.Console.Finalize(state, finalizeGrace)
	_ = guest.Close()

	if err := storeTranscript(h.cfg.Artifact, transcript); err != nil {
		// Persistence failure must not prevent the verdict.
		slog.Error("Failed to persist transcript", slog.Any("error", err))
	} else {
		slog.Info("Transcript persisted", slog.String("path", h.cfg.Artifact))
	}

	report := verify.Evaluate(transcript, h.cfg.Expectations)

	if err := report.Print(h.report); err != nil {
		slog.Error("Failed to print report", slog.Any("error", err))
	}

	return report, nil
}

// runScript performs the scripted console exchange strictly in order. Each
// command line is sent only after the previous prompt marker was detected,
// so a write never overlaps an in-flight read.
//
// It returns false if the session must be finished by forced termination.
func (h *Harness) runScript(ctx context.Context, guest *qemu.Guest) bool {
	slog.Info("Waiting for shell prompt")

	found, _ := guest.Console.ReadUntil(ctx, h.cfg.Prompt, h.cfg.BootTimeout)
	if !found {
		slog.Warn("Shell prompt did not appear within boot timeout",
			slog.Duration("timeout", h.cfg.BootTimeout))

		return false
	}

	for _, command := range h.cfg.Commands {
		if ctx.Err() != nil {
			return false
		}

		slog.Info("Sending command", slog.String("command", command))

		if err := guest.Console.SendLine(command); err != nil {
			slog.Warn("Failed to send command", slog.Any("error", err))

			return false
		}

		guest.Console.Settle(ctx, h.cfg.SettleDelay)

		found, _ := guest.Console.ReadUntil(
			ctx, h.cfg.Prompt, h.cfg.CommandTimeout,
		)
		if !found {
			slog.Warn("Prompt did not reappear after command",
				slog.String("command", command))

			return false
		}
	}

	if ctx.Err() != nil {
		return false
	}

	slog.Info("Sending shutdown command",
		slog.String("command", h.cfg.ShutdownCommand))

	if err := guest.Console.SendLine(h.cfg.ShutdownCommand); err != nil {
		slog.Warn("Failed to send shutdown command", slog.Any("error", err))

		return false
	}

	guest.Console.Settle(ctx, h.cfg.SettleDelay)

	if err := guest.WaitExit(ctx, h.cfg.ExitTimeout); err != nil {
		if errors.Is(err, qemu.ErrWaitTimeout) {
			slog.Warn("Guest did not shut down in time",
				slog.Duration("timeout", h.cfg.ExitTimeout))
		}

		return false
	}

	return true
}
