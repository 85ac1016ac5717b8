//go:build windows

package storage

import (
	"os"
	"path/filepath"
)

// Directories cannot be opened for syncing on windows, and MkdirAll fails
// on a bare volume root.
func init() {
	osSpecificEnsureDir = func(o osOps, dir string, mode os.FileMode) error {
		if isVolumeRoot(dir) {
			return nil
		}
		return o.MkdirAll(dir, mode)
	}
	osSpecificSync = func(f *os.File, isDir bool) error {
		if isDir {
			return nil
		}
		return f.Sync()
	}
}

func isVolumeRoot(dir string) bool {
	clean := filepath.Clean(dir)
	return clean == filepath.VolumeName(clean)+string(os.PathSeparator)
}
