// Package state implements the small on-disk records kept in the focus
// directory: the lockdown deadline and the recently unblocked domains.
package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWrite writes data to path atomically (write + rename), creating the
// parent directory first.
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Unique per process to avoid clobbering another run's temp file
	tmpPath := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up on failure
		return err
	}
	return nil
}
