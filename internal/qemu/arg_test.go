// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bogo-os/bogotest/internal/qemu"
)

func TestArgumentString(t *testing.T) {
	tests := []struct {
		name     string
		arg      qemu.Argument
		expected string
	}{
		{
			name:     "without value",
			arg:      qemu.UniqueArg("nographic"),
			expected: "-nographic",
		},
		{
			name:     "with value",
			arg:      qemu.UniqueArg("machine", "virt"),
			expected: "-machine virt",
		},
		{
			name:     "with joined values",
			arg:      qemu.RepeatableArg("device", "virtio-rng", "max=1"),
			expected: "-device virtio-rng,max=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.arg.String())
		})
	}
}

func TestArgumentEqual(t *testing.T) {
	tests := []struct {
		name     string
		arg      qemu.Argument
		other    qemu.Argument
		expected bool
	}{
		{
			name:     "unique with same name different value",
			arg:      qemu.UniqueArg("machine", "virt"),
			other:    qemu.UniqueArg("machine", "q35"),
			expected: true,
		},
		{
			name:     "repeatable with same name different value",
			arg:      qemu.RepeatableArg("device", "a"),
			other:    qemu.RepeatableArg("device", "b"),
			expected: false,
		},
		{
			name:     "repeatable with same name same value",
			arg:      qemu.RepeatableArg("device", "a"),
			other:    qemu.RepeatableArg("device", "a"),
			expected: true,
		},
		{
			name:     "different names",
			arg:      qemu.UniqueArg("machine"),
			other:    qemu.UniqueArg("m"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.arg.Equal(tt.other))
		})
	}
}
