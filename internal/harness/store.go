// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// storeTranscript writes the complete transcript verbatim to the artifact
// path, replacing any artifact of a prior run.
func storeTranscript(path, transcript string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	return nil
}
