// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogo-os/bogotest/internal/qemu"
)

func TestNewCommand(t *testing.T) {
	tests := []struct {
		name         string
		spec         qemu.CommandSpec
		expectedArgs []string
		expectedErr  error
	}{
		{
			name: "defaults",
			spec: qemu.CommandSpec{
				Kernel: "kernel.elf",
			},
			expectedArgs: []string{
				"qemu-system-riscv64",
				"-machine", "virt",
				"-m", "128",
				"-nographic",
				"-bios", "default",
				"-kernel", "kernel.elf",
			},
		},
		{
			name: "full spec",
			spec: qemu.CommandSpec{
				Executable: "qemu-system-aarch64",
				Kernel:     "/boot/kernel",
				Machine:    "virt",
				CPU:        "max",
				SMP:        2,
				Memory:     256,
				BIOS:       "none",
			},
			expectedArgs: []string{
				"qemu-system-aarch64",
				"-machine", "virt",
				"-m", "256",
				"-cpu", "max",
				"-smp", "2",
				"-nographic",
				"-bios", "none",
				"-kernel", "/boot/kernel",
			},
		},
		{
			name:        "missing kernel",
			spec:        qemu.CommandSpec{},
			expectedErr: qemu.ErrKernelMissing,
		},
		{
			name: "colliding extra args",
			spec: qemu.CommandSpec{
				Kernel: "kernel.elf",
				ExtraArgs: []qemu.Argument{
					qemu.UniqueArg("machine", "q35"),
				},
			},
			expectedErr: qemu.ErrArgumentCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := qemu.NewCommand(tt.spec)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedArgs, cmd.Args())
		})
	}
}

func TestCommandString(t *testing.T) {
	cmd, err := qemu.NewCommand(qemu.CommandSpec{Kernel: "k"})
	require.NoError(t, err)

	assert.Equal(
		t,
		"qemu-system-riscv64 -machine virt -m 128 -nographic -bios default"+
			" -kernel k",
		cmd.String(),
	)
}
