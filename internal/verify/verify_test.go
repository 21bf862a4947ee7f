// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package verify_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogo-os/bogotest/internal/verify"
)

var testExpectations = []verify.Expectation{
	{Label: "Shell loaded", Contains: "Welcome to BogoShell!"},
	{Label: "Hello app ran", Contains: "Hello from C World!"},
	{Label: "Shutdown initiated", Contains: "Shutting down..."},
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name           string
		transcript     string
		expectedPassed int
		expectedAll    bool
	}{
		{
			name: "all pass",
			transcript: "Welcome to BogoShell!\n> hello\n" +
				"Hello from C World!\n> shutdown\nShutting down...\n",
			expectedPassed: 3,
			expectedAll:    true,
		},
		{
			name:           "partial failure",
			transcript:     "Welcome to BogoShell!\n> shutdown\nShutting down...\n",
			expectedPassed: 2,
			expectedAll:    false,
		},
		{
			name:           "empty transcript",
			transcript:     "",
			expectedPassed: 0,
			expectedAll:    false,
		},
		{
			name: "order independent",
			transcript: "Shutting down...\nHello from C World!\n" +
				"Welcome to BogoShell!\n",
			expectedPassed: 3,
			expectedAll:    true,
		},
		{
			name: "duplicates tolerated",
			transcript: "Welcome to BogoShell!\nWelcome to BogoShell!\n" +
				"Hello from C World!\nShutting down...\n",
			expectedPassed: 3,
			expectedAll:    true,
		},
		{
			name: "case sensitive",
			transcript: "welcome to bogoshell!\nhello from c world!\n" +
				"shutting down...\n",
			expectedPassed: 0,
			expectedAll:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := verify.Evaluate(tt.transcript, testExpectations)

			assert.Equal(t, tt.expectedPassed, report.Passed())
			assert.Equal(t, len(testExpectations), report.Total())
			assert.Equal(t, tt.expectedAll, report.AllPassed())
		})
	}
}

func TestEvaluateNoExpectations(t *testing.T) {
	report := verify.Evaluate("anything", nil)

	assert.Zero(t, report.Total())
	assert.True(t, report.AllPassed())
}

func TestReportPrint(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
	}{
		{
			name: "all_pass",
			transcript: "Welcome to BogoShell!\nHello from C World!\n" +
				"Shutting down...\n",
		},
		{
			name:       "partial_fail",
			transcript: "Welcome to BogoShell!\nShutting down...\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := verify.Evaluate(tt.transcript, testExpectations)

			var buf bytes.Buffer
			require.NoError(t, report.Print(&buf))

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}
