// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the run configuration from a TOML file. Every value
// has a default reproducing the canonical BogoKernel run, so an empty or
// absent file yields a working configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bogo-os/bogotest/internal/verify"
)

const (
	defaultQemu            = "qemu-system-riscv64"
	defaultMachine         = "virt"
	defaultMemoryMB        = 128
	defaultBIOS            = "default"
	defaultKernel          = "target/riscv64gc-unknown-none-elf/debug/kernel"
	defaultPrompt          = "> "
	defaultBootTimeout     = 10 * time.Second
	defaultCommandTimeout  = 5 * time.Second
	defaultSettleDelay     = 2 * time.Second
	defaultExitTimeout     = 5 * time.Second
	defaultShutdownCommand = "shutdown"
	defaultArtifact        = "test_output.txt"
)

// Config stores the settings of a single test run.
type Config struct {
	// Qemu is the path to the qemu-system binary.
	Qemu string

	// Machine is the QEMU machine type.
	Machine string

	// MemoryMB is the guest memory in MB.
	MemoryMB uint64

	// BIOS selects the firmware, "default" for the one shipped with QEMU.
	BIOS string

	// Kernel is the path to the kernel image to boot.
	Kernel string

	// Prompt is the marker whose appearance at the transcript tail signals
	// the shell is ready for a command line.
	Prompt string

	// BootTimeout bounds the wait for the initial shell prompt.
	BootTimeout time.Duration

	// CommandTimeout bounds the wait for the prompt after a command.
	CommandTimeout time.Duration

	// SettleDelay is the fixed pause after sending a command line.
	SettleDelay time.Duration

	// ExitTimeout bounds the wait for process exit after shutdown.
	ExitTimeout time.Duration

	// Commands are the shell commands sent in order, before shutdown.
	Commands []string

	// ShutdownCommand is sent last to power off the guest.
	ShutdownCommand string

	// Artifact is the path the complete transcript is written to.
	Artifact string

	// Expectations are the required transcript substrings.
	Expectations []verify.Expectation
}

type fileConfig struct {
	Qemu            *string           `toml:"qemu"`
	Machine         *string           `toml:"machine"`
	MemoryMB        *uint64           `toml:"memory_mb"`
	BIOS            *string           `toml:"bios"`
	Kernel          *string           `toml:"kernel"`
	Prompt          *string           `toml:"prompt"`
	BootTimeout     *string           `toml:"boot_timeout"`
	CommandTimeout  *string           `toml:"command_timeout"`
	SettleDelay     *string           `toml:"settle_delay"`
	ExitTimeout     *string           `toml:"exit_timeout"`
	Commands        *[]string         `toml:"commands"`
	ShutdownCommand *string           `toml:"shutdown_command"`
	Artifact        *string           `toml:"artifact"`
	Expectations    []fileExpectation `toml:"expectations"`
}

type fileExpectation struct {
	Label    string `toml:"label"`
	Contains string `toml:"contains"`
}

// Default returns the configuration of the canonical BogoKernel run: boot
// the kernel image, run "hello", shut down, and expect the shell banner, the
// hello output and the shutdown banner.
func Default() Config {
	return Config{
		Qemu:            defaultQemu,
		Machine:         defaultMachine,
		MemoryMB:        defaultMemoryMB,
		BIOS:            defaultBIOS,
		Kernel:          defaultKernel,
		Prompt:          defaultPrompt,
		BootTimeout:     defaultBootTimeout,
		CommandTimeout:  defaultCommandTimeout,
		SettleDelay:     defaultSettleDelay,
		ExitTimeout:     defaultExitTimeout,
		Commands:        []string{"hello"},
		ShutdownCommand: defaultShutdownCommand,
		Artifact:        defaultArtifact,
		Expectations: []verify.Expectation{
			{Label: "Shell loaded", Contains: "Welcome to BogoShell!"},
			{Label: "Hello app ran", Contains: "Hello from C World!"},
			{Label: "Shutdown initiated", Contains: "Shutting down..."},
		},
	}
}

// Load reads the TOML file at the given path and overlays it onto the
// defaults. A missing file is not an error and yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file fileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.apply(file); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) apply(file fileConfig) error {
	setString(&c.Qemu, file.Qemu)
	setString(&c.Machine, file.Machine)
	setString(&c.BIOS, file.BIOS)
	setString(&c.Kernel, file.Kernel)
	setString(&c.Prompt, file.Prompt)
	setString(&c.ShutdownCommand, file.ShutdownCommand)
	setString(&c.Artifact, file.Artifact)

	if file.MemoryMB != nil {
		c.MemoryMB = *file.MemoryMB
	}

	if file.Commands != nil {
		c.Commands = *file.Commands
	}

	durations := []struct {
		name  string
		value *string
		dst   *time.Duration
	}{
		{"boot_timeout", file.BootTimeout, &c.BootTimeout},
		{"command_timeout", file.CommandTimeout, &c.CommandTimeout},
		{"settle_delay", file.SettleDelay, &c.SettleDelay},
		{"exit_timeout", file.ExitTimeout, &c.ExitTimeout},
	}

	for _, d := range durations {
		if d.value == nil {
			continue
		}

		parsed, err := time.ParseDuration(*d.value)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.name, err)
		}

		*d.dst = parsed
	}

	if file.Expectations != nil {
		c.Expectations = make([]verify.Expectation, len(file.Expectations))
		for idx, expectation := range file.Expectations {
			c.Expectations[idx] = verify.Expectation{
				Label:    expectation.Label,
				Contains: expectation.Contains,
			}
		}
	}

	return nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}
