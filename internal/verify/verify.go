// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package verify evaluates a fixed set of expectations against the final
// console transcript of a test run and computes the pass/fail verdict.
package verify

import (
	"fmt"
	"io"
	"strings"
)

// Expectation is a required substring that must appear somewhere in the
// transcript for the check to pass.
type Expectation struct {
	// Label names the expectation in the report.
	Label string

	// Contains is the required substring. Matching is a case-sensitive
	// exact substring match, independent of order and multiplicity.
	Contains string
}

// Outcome is the result of a single [Expectation].
type Outcome struct {
	Expectation

	Passed bool
}

// Report is the result of evaluating all expectations of a run.
type Report struct {
	outcomes []Outcome
}

// Evaluate checks each expectation against the given transcript.
func Evaluate(transcript string, expectations []Expectation) Report {
	outcomes := make([]Outcome, len(expectations))

	for idx, expectation := range expectations {
		outcomes[idx] = Outcome{
			Expectation: expectation,
			Passed:      strings.Contains(transcript, expectation.Contains),
		}
	}

	return Report{outcomes: outcomes}
}

// Outcomes returns the per-expectation outcomes in evaluation order.
func (r Report) Outcomes() []Outcome {
	return r.outcomes
}

// Passed returns the number of passed expectations.
func (r Report) Passed() int {
	passed := 0

	for _, outcome := range r.outcomes {
		if outcome.Passed {
			passed++
		}
	}

	return passed
}

// Total returns the number of evaluated expectations.
func (r Report) Total() int {
	return len(r.outcomes)
}

// AllPassed returns whether every expectation passed.
func (r Report) AllPassed() bool {
	return r.Passed() == r.Total()
}

// Print writes one PASS or FAIL line per expectation followed by a summary
// line with the pass count.
func (r Report) Print(w io.Writer) error {
	for _, outcome := range r.outcomes {
		var err error

		if outcome.Passed {
			_, err = fmt.Fprintf(w, "[PASS] %s\n", outcome.Label)
		} else {
			_, err = fmt.Fprintf(w, "[FAIL] %s - expected '%s'\n",
				outcome.Label, outcome.Contains)
		}

		if err != nil {
			return fmt.Errorf("print report: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "\nPassed %d/%d tests\n", r.Passed(), r.Total())
	if err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	return nil
}
