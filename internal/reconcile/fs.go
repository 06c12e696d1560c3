package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/comsapp/iconfix/internal/core/atomic"
	"github.com/samber/lo"
)

// fileSystem is the view of the target directory the phases work on.
// Names are plain file names inside that directory.
type fileSystem interface {
	// Exists follows symlinks, like the audit expects.
	Exists(name string) bool
	// Occupied reports whether any entry, even a dangling symlink, holds name.
	Occupied(name string) bool
	Remove(name string) error
	// Backup moves name aside to backup, replacing whatever is left there.
	Backup(name, backup string) error
	Rename(from, to string) error
	List() ([]string, error)
}

type osFS struct {
	dir string
}

func (f osFS) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f osFS) Exists(name string) bool {
	_, err := os.Stat(f.path(name))
	return err == nil
}

func (f osFS) Occupied(name string) bool {
	_, err := os.Lstat(f.path(name))
	return err == nil
}

func (f osFS) Remove(name string) error {
	return atomic.Remove(f.path(name))
}

func (f osFS) Backup(name, backup string) error {
	return atomic.Move(f.path(name), f.path(backup), atomic.MoveOptions{
		AllowCrossDev: true,
		Force:         true,
	})
}

func (f osFS) Rename(from, to string) error {
	return atomic.Move(f.path(from), f.path(to), atomic.MoveOptions{
		Force: true,
	})
}

func (f osFS) List() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e os.DirEntry, _ int) string {
		return e.Name()
	}), nil
}

// entry is what a dry run remembers about a name: enough to reject the same
// moves and removals the real filesystem would.
type entry struct {
	dangling  bool // symlink whose target is gone
	dir       bool // directory, or symlink to one
	removable bool // os.Remove would succeed
}

func (f osFS) describe(name string) entry {
	var e entry
	linfo, err := os.Lstat(f.path(name))
	if err != nil {
		return e
	}
	info, err := os.Stat(f.path(name))
	if err != nil {
		e.dangling = true
		e.removable = true
		return e
	}
	e.dir = info.IsDir()
	e.removable = !linfo.IsDir()
	if linfo.IsDir() {
		children, err := os.ReadDir(f.path(name))
		e.removable = err == nil && len(children) == 0
	}
	return e
}

// planFS simulates the rename phase on a snapshot of the directory so a dry
// run can report what would happen without touching it.
type planFS struct {
	entries map[string]entry
}

func newPlanFS(src osFS) (*planFS, error) {
	names, err := src.List()
	if err != nil {
		return nil, err
	}
	p := &planFS{entries: make(map[string]entry, len(names))}
	for _, n := range names {
		p.entries[n] = src.describe(n)
	}
	return p, nil
}

func (p *planFS) Exists(name string) bool {
	e, ok := p.entries[name]
	return ok && !e.dangling
}

func (p *planFS) Occupied(name string) bool {
	_, ok := p.entries[name]
	return ok
}

func (p *planFS) Remove(name string) error {
	e, ok := p.entries[name]
	if !ok {
		return nil
	}
	if !e.removable {
		return &os.PathError{Op: "remove", Path: name, Err: syscall.ENOTEMPTY}
	}
	delete(p.entries, name)
	return nil
}

func (p *planFS) Backup(name, backup string) error {
	if err := p.checkSource(name); err != nil {
		return err
	}
	p.entries[backup] = p.entries[name]
	delete(p.entries, name)
	return nil
}

func (p *planFS) Rename(from, to string) error {
	if err := p.checkSource(from); err != nil {
		return err
	}
	if from == to {
		return errors.New("rename onto itself")
	}
	p.entries[to] = p.entries[from]
	delete(p.entries, from)
	return nil
}

// checkSource applies the rules atomic.Move validates sources with.
func (p *planFS) checkSource(name string) error {
	if !p.Exists(name) {
		return atomic.ErrSourceNotFound
	}
	if p.entries[name].dir {
		return atomic.ErrSourceIsDir
	}
	return nil
}

func (p *planFS) List() ([]string, error) {
	names := lo.Keys(p.entries)
	slices.Sort(names)
	return names, nil
}
