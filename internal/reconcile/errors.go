package reconcile

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is wrapped by DirectoryAccessError when the target path
// exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DirectoryAccessError is returned when the target directory is missing or
// cannot be read. Nothing has been renamed when it is returned from the
// pre-check.
type DirectoryAccessError struct {
	Dir string
	Err error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("cannot access directory %q: %v", e.Dir, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error {
	return e.Err
}

// IsDirectoryAccess reports whether err is a DirectoryAccessError
func IsDirectoryAccess(err error) bool {
	var target *DirectoryAccessError
	return errors.As(err, &target)
}

// RenameEntryError describes a failed rename. Op is the step that failed:
// "remove_backup", "backup" or "rename".
type RenameEntryError struct {
	Op   string
	From string
	To   string
	Err  error
}

func (e *RenameEntryError) Error() string {
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.From, e.To, e.Err)
}

func (e *RenameEntryError) Unwrap() error {
	return e.Err
}
