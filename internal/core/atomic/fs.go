//go:build !windows

package atomic

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// sameDevice reports whether src and the directory that will hold dst live
// on the same filesystem, in which case rename(2) can be used.
func sameDevice(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}
	dirInfo, err := os.Stat(filepath.Dir(dst))
	if err != nil {
		return false, fmt.Errorf("stat destination directory: %w", err)
	}

	srcSys, ok := srcInfo.Sys().(*syscall.Stat_t)
	if !ok {
		return false, fmt.Errorf("no device info for %s", src)
	}
	dirSys, ok := dirInfo.Sys().(*syscall.Stat_t)
	if !ok {
		return false, fmt.Errorf("no device info for %s", filepath.Dir(dst))
	}

	return srcSys.Dev == dirSys.Dev, nil
}
