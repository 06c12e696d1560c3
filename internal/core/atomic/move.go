package atomic

import (
	"errors"
	"os"

	cp "github.com/otiai10/copy"
)

// MoveOptions specifies options for move operations
type MoveOptions struct {
	AllowCrossDev bool // Fall back to copy-and-delete when rename is not possible
	Force         bool // Replace dst if it already exists
}

// Move moves the regular file src to dst.
func Move(src, dst string, opts MoveOptions) error {
	// 1. Validate paths
	if err := validatePaths(src, dst); err != nil {
		return &MoveError{Op: "validate", Src: src, Dst: dst, Err: err}
	}

	// 2. Check destination existence if not force mode
	if !opts.Force {
		if _, err := os.Lstat(dst); err == nil {
			return &MoveError{Op: "check_destination", Src: src, Dst: dst, Err: ErrDestinationExists}
		}
	}

	// 3. Plain rename when cross-device moves are not wanted
	if !opts.AllowCrossDev {
		if err := os.Rename(src, dst); err != nil {
			return &MoveError{Op: "rename", Src: src, Dst: dst, Err: err}
		}
		return nil
	}

	// 4. Same device: rename is enough
	if same, _ := sameDevice(src, dst); same {
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
	}

	// 5. Fall back to copy and delete
	return copyAndDelete(src, dst)
}

// Remove deletes the file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func copyAndDelete(src, dst string) error {
	opts := cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Deep
		},
		PreserveTimes: true,
		Sync:          true,
	}

	if err := cp.Copy(src, dst, opts); err != nil {
		return &MoveError{Op: "copy", Src: src, Dst: dst, Err: err}
	}

	if err := os.Remove(src); err != nil {
		// leave exactly one copy behind
		if rmErr := os.Remove(dst); rmErr != nil {
			return &MoveError{Op: "cleanup", Src: src, Dst: dst, Err: errors.Join(err, rmErr)}
		}
		return &MoveError{Op: "remove_source", Src: src, Dst: dst, Err: err}
	}

	return nil
}

func validatePaths(src, dst string) error {
	if src == "" || dst == "" {
		return ErrInvalidPath
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrSourceNotFound
		}
		return err
	}
	if info.IsDir() {
		return ErrSourceIsDir
	}

	return nil
}
