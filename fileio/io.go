// Package fileio reads and writes whole CSV, XML and JSON files for shell scripts.
//
// Every call works on a complete file: readers load it at once, writers
// replace it atomically (temp file + rename) so a failed run never leaves a
// half-written export behind.
package fileio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrBadData is wrapped when data handed to a writer cannot be encoded.
var ErrBadData = errors.New("fileio: bad data")

// IO is the file adapter scripts receive from the locator.
//
// It holds no state; one value may be shared by every caller.
type IO struct {
	// Perm is applied to written files. Zero means 0o644.
	Perm os.FileMode
}

// New returns an IO writing files with mode 0o644.
func New() *IO { return &IO{Perm: 0o644} }

func (f *IO) perm() os.FileMode {
	if f == nil || f.Perm == 0 {
		return 0o644
	}
	return f.Perm
}

// seams for tests.
var (
	createTempFile = os.CreateTemp
	renameFile     = os.Rename
	removeFile     = os.Remove
	chmodFile      = os.Chmod
)

// writeFileAtomic writes data next to targetPath and renames it into place.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("fileio: write %s: %w", targetPath, err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("fileio: write %s: %w", targetPath, err)
	}
	if err = tmpFile.Close(); err != nil {
		return fmt.Errorf("fileio: write %s: %w", targetPath, err)
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return fmt.Errorf("fileio: write %s: %w", targetPath, err)
	}
	if err = renameFile(tmpPath, targetPath); err != nil {
		return fmt.Errorf("fileio: write %s: %w", targetPath, err)
	}
	return nil
}
