// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bogo-os/bogotest/internal/console"
)

// Guest is a started QEMU process together with its console session.
//
// The guest exit code is deliberately not exposed. The test verdict derives
// solely from the console transcript, as the kernel under test may exit
// nonzero or hang and still have produced all required output.
type Guest struct {
	cmd    *exec.Cmd
	output *os.File
	waitCh chan error
	waited bool

	// Console is the interactive console session of the guest.
	Console *console.Session
}

// WaitExit waits for the guest process to exit within the given timeout.
//
// It returns [ErrWaitTimeout] if the process is still running when the
// timeout elapses and the context error if the context is canceled first.
// The process is reaped on success, so a later call returns immediately.
func (g *Guest) WaitExit(ctx context.Context, timeout time.Duration) error {
	if g.waited {
		return nil
	}

	if g.waitCh == nil {
		g.waitCh = make(chan error, 1)

		go func() {
			g.waitCh <- g.cmd.Wait()
		}()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-g.waitCh:
		g.waited = true

		if err != nil {
			slog.Debug("Guest process exited with error",
				slog.Any("error", err))
		}

		return nil
	case <-timer.C:
		return ErrWaitTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Kill forcibly terminates the guest process.
func (g *Guest) Kill() error {
	if g.waited {
		return nil
	}

	err := g.cmd.Process.Signal(unix.SIGKILL)
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill guest: %w", err)
	}

	return nil
}

// Close releases the read end of the console output pipe. It must be called
// after the console session has been finalized.
func (g *Guest) Close() error {
	return g.output.Close()
}
