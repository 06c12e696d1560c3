package log

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/docker/go-units"
	"github.com/samber/lo"
)

const rotatedTimeFormat = "20060102-150405.000000"

// RotateOptions controls where a RotateWriter writes and when it rotates.
type RotateOptions struct {
	Path     string
	MaxSize  string // human size, e.g. "10MB"
	MaxFiles int    // rotated files kept; <= 0 keeps all
}

// RotateWriter appends to a single log file and moves it aside as
// "<path>.<timestamp>" once the next write would push it past MaxSize.
// It is safe for concurrent use.
type RotateWriter struct {
	opts    RotateOptions
	maxSize int64

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotateWriter opens (or creates) opts.Path for appending. The size of an
// existing file counts towards the first rotation.
func NewRotateWriter(opts RotateOptions) (*RotateWriter, error) {
	maxSize, err := units.FromHumanSize(opts.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("invalid max size format: %w", err)
	}
	w := &RotateWriter{opts: opts, maxSize: maxSize}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write never splits p across files. A record larger than MaxSize is written
// to a fresh file whole.
func (w *RotateWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *RotateWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *RotateWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(w.opts.Path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(w.opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.file = f
	w.size = info.Size()
	return nil
}

// rotate must be called with w.mu held.
func (w *RotateWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(w.opts.Path, w.rotatedName(time.Now())); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := w.prune(); err != nil {
		return err
	}
	return w.open()
}

// rotatedName never reuses the name of an earlier rotation, even within the
// same microsecond. The suffix keeps lexical order equal to age order.
func (w *RotateWriter) rotatedName(now time.Time) string {
	name := w.opts.Path + "." + now.Format(rotatedTimeFormat)
	candidate := name
	for i := 1; ; i++ {
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
}

// prune removes the oldest rotated files beyond MaxFiles.
func (w *RotateWriter) prune() error {
	if w.opts.MaxFiles <= 0 {
		return nil
	}
	rotated, err := w.rotatedFiles()
	if err != nil {
		return err
	}
	if len(rotated) <= w.opts.MaxFiles {
		return nil
	}
	for _, path := range rotated[:len(rotated)-w.opts.MaxFiles] {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

// rotatedFiles lists the rotated files oldest first.
func (w *RotateWriter) rotatedFiles() ([]string, error) {
	dir := filepath.Dir(w.opts.Path)
	prefix := filepath.Base(w.opts.Path) + "."
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	rotated := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			return "", false
		}
		return filepath.Join(dir, e.Name()), true
	})
	slices.Sort(rotated)
	return rotated, nil
}
