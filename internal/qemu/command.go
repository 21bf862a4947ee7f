// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bogo-os/bogotest/internal/console"
)

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the qemu-system binary.
	Executable string

	// Path to the kernel image to boot.
	Kernel string

	// QEMU machine type to use. Depends on the QEMU binary used.
	Machine string

	// CPU type to use. Depends on machine type and QEMU binary used.
	CPU string

	// Number of CPUs for the guest.
	SMP uint64

	// Memory for the machine in MB.
	Memory uint64

	// Firmware or bootloader selection. Use "default" for the firmware
	// shipped with QEMU, e.g. OpenSBI on riscv64.
	BIOS string

	// ExtraArgs are extra arguments that are passed to the QEMU command.
	// They must not interfere with the essential arguments set by the
	// command itself or an error will be returned on [NewCommand].
	ExtraArgs []Argument
}

// AddDefaults adds default values to the given spec if the fields are not
// set yet. The defaults describe the canonical BogoKernel target: a headless
// riscv64 "virt" machine with 128 MB of memory, booted via the default
// firmware.
func (s *CommandSpec) AddDefaults() {
	if s.Executable == "" {
		s.Executable = "qemu-system-riscv64"
	}

	if s.Machine == "" {
		s.Machine = "virt"
	}

	if s.Memory == 0 {
		s.Memory = 128
	}

	if s.BIOS == "" {
		s.BIOS = "default"
	}
}

// Validate checks for missing required fields.
func (s *CommandSpec) Validate() error {
	if s.Kernel == "" {
		return ErrKernelMissing
	}

	if s.Executable == "" {
		return &ArgumentError{"no qemu executable given"}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		UniqueArg("machine", s.Machine),
		UniqueArg("m", strconv.FormatUint(s.Memory, 10)),
	}

	if s.CPU != "" {
		args = append(args, UniqueArg("cpu", s.CPU))
	}

	if s.SMP != 0 {
		args = append(args, UniqueArg("smp", strconv.FormatUint(s.SMP, 10)))
	}

	// Headless operation. All console IO runs over stdio.
	args = append(args,
		UniqueArg("nographic"),
		UniqueArg("bios", s.BIOS),
		UniqueArg("kernel", s.Kernel),
	)

	return append(args, s.ExtraArgs...)
}

// Command is a single QEMU command that can be started.
type Command struct {
	executable string
	args       []string
}

// NewCommand creates a new [Command] from the given spec.
//
// It returns an error if the spec is incomplete or the compiled argument
// list violates an argument uniqueness constraint.
func NewCommand(spec CommandSpec) (*Command, error) {
	spec.AddDefaults()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	args, err := buildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	return &Command{
		executable: spec.Executable,
		args:       args,
	}, nil
}

// Args returns the executable and the complete argument list the command
// will be started with.
func (c *Command) Args() []string {
	return append([]string{c.executable}, c.args...)
}

// String implements [fmt.Stringer].
func (c *Command) String() string {
	return strings.Join(c.Args(), " ")
}

// Start launches the QEMU process.
//
// A stdin pipe is attached for command lines and a single combined pipe
// receives both stdout and stderr of the process, so the console stream is
// observed in arrival order. Every byte read from it is mirrored to the
// given writer.
//
// The returned [Guest] owns the process handle. The guest process is bound
// to the given context and is killed when it is canceled.
func (c *Command) Start(ctx context.Context, mirror io.Writer) (*Guest, error) {
	cmd := exec.CommandContext(ctx, c.executable, c.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	outReader, outWriter, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("output pipe: %w", err)
	}

	cmd.Stdout = outWriter
	cmd.Stderr = outWriter

	if err := cmd.Start(); err != nil {
		_ = outReader.Close()
		_ = outWriter.Close()

		return nil, fmt.Errorf("start: %w", err)
	}

	// The child holds its own copy of the write end. Ours must be closed so
	// the read end sees end of stream once the child exits.
	_ = outWriter.Close()

	session := console.NewSession(stdin, outReader, mirror)
	session.Start()

	return &Guest{
		cmd:     cmd,
		output:  outReader,
		Console: session,
	}, nil
}
