package reconcile

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

const (
	DefaultExtension    = ".png"
	DefaultBackupSuffix = ".backup"
)

// Reconciler renames icon files of one directory according to a rename
// table, then lists and audits the icons of the light and dark themes.
//
// The reconciler assumes it is the only writer of the directory while it
// runs; concurrent modification is not detected.
type Reconciler struct {
	dir      string
	mappings []RenameEntry
	sizes    []string

	light        Theme
	dark         Theme
	ext          string
	backupSuffix string
	dryRun       bool
	auditOnly    bool
	logger       *slog.Logger
}

type Option func(*Reconciler)

// WithDryRun plans the renames on a snapshot of the directory instead of
// performing them. Listing and audit then describe the planned state.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

// WithAuditOnly skips the rename phase.
func WithAuditOnly(auditOnly bool) Option {
	return func(r *Reconciler) {
		r.auditOnly = auditOnly
	}
}

func WithThemes(light, dark Theme) Option {
	return func(r *Reconciler) {
		r.light = light
		r.dark = dark
	}
}

func WithExtension(ext string) Option {
	return func(r *Reconciler) {
		r.ext = ext
	}
}

func WithBackupSuffix(suffix string) Option {
	return func(r *Reconciler) {
		r.backupSuffix = suffix
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = l
	}
}

func New(dir string, mappings []RenameEntry, sizes []string, opts ...Option) *Reconciler {
	r := &Reconciler{
		dir:          dir,
		mappings:     mappings,
		sizes:        sizes,
		light:        Light,
		dark:         Dark,
		ext:          DefaultExtension,
		backupSuffix: DefaultBackupSuffix,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile is a shorthand for New(dir, mappings, sizes, opts...).Run().
func Reconcile(dir string, mappings []RenameEntry, sizes []string, opts ...Option) (Report, error) {
	return New(dir, mappings, sizes, opts...).Run()
}

// Run executes the rename, listing and audit phases in order.
// Only a *DirectoryAccessError is returned; per-entry failures are recorded
// in the report.
func (r *Reconciler) Run() (Report, error) {
	rep := Report{Dir: r.dir, DryRun: r.dryRun, Light: r.light, Dark: r.dark}

	if err := r.checkDir(); err != nil {
		return rep, err
	}

	disk := osFS{dir: r.dir}
	var fsys fileSystem = disk
	if r.dryRun {
		plan, err := newPlanFS(disk)
		if err != nil {
			return rep, &DirectoryAccessError{Dir: r.dir, Err: err}
		}
		fsys = plan
	}

	r.logger.Debug("reconcile started",
		"dir", r.dir,
		"mappings", len(r.mappings),
		"sizes", len(r.sizes),
		"dry_run", r.dryRun,
		"audit_only", r.auditOnly)

	if !r.auditOnly {
		r.renameAll(fsys, &rep)
	}

	if err := r.listIcons(fsys, &rep); err != nil {
		return rep, &DirectoryAccessError{Dir: r.dir, Err: err}
	}

	r.audit(fsys, &rep)

	r.logger.Debug("reconcile finished",
		"renamed", rep.RenamedCount,
		"failed", rep.FailedCount,
		"missing_light", len(rep.MissingLight),
		"missing_dark", len(rep.MissingDark))

	return rep, nil
}

func (r *Reconciler) checkDir() error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return &DirectoryAccessError{Dir: r.dir, Err: err}
	}
	if !info.IsDir() {
		return &DirectoryAccessError{Dir: r.dir, Err: ErrNotDirectory}
	}
	f, err := os.Open(r.dir)
	if err != nil {
		return &DirectoryAccessError{Dir: r.dir, Err: err}
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return &DirectoryAccessError{Dir: r.dir, Err: err}
	}
	return nil
}

func (r *Reconciler) renameAll(fsys fileSystem, rep *Report) {
	for _, entry := range r.mappings {
		outcome, ok := r.rename(fsys, entry)
		if !ok {
			continue
		}
		switch outcome.Status {
		case StatusRenamed:
			rep.RenamedCount++
		case StatusFailed:
			rep.FailedCount++
		}
		rep.Outcomes = append(rep.Outcomes, outcome)
	}
}

// rename applies one entry. ok is false when the source does not exist,
// in which case nothing is recorded.
func (r *Reconciler) rename(fsys fileSystem, entry RenameEntry) (Outcome, bool) {
	if !fsys.Exists(entry.From) {
		return Outcome{}, false
	}

	outcome := Outcome{Entry: entry}

	if entry.From == entry.To {
		r.logger.Debug("source already has the target name", "file", entry.From)
		outcome.Status = StatusSkipped
		return outcome, true
	}

	fail := func(op string, err error) (Outcome, bool) {
		outcome.Status = StatusFailed
		outcome.Err = &RenameEntryError{Op: op, From: entry.From, To: entry.To, Err: err}
		r.logger.Error("rename failed", "from", entry.From, "to", entry.To, "op", op, "error", err)
		return outcome, true
	}

	if fsys.Exists(entry.To) {
		backup := entry.To + r.backupSuffix
		if fsys.Occupied(backup) {
			r.logger.Debug("dropping previous backup", "backup", backup)
			if err := fsys.Remove(backup); err != nil {
				return fail("remove_backup", err)
			}
		}
		if err := fsys.Backup(entry.To, backup); err != nil {
			return fail("backup", err)
		}
		r.logger.Warn("target exists, backed up", "target", entry.To, "backup", backup)
		outcome.Backup = backup
	}

	if err := fsys.Rename(entry.From, entry.To); err != nil {
		return fail("rename", err)
	}

	r.logger.Info("renamed", "from", entry.From, "to", entry.To)
	outcome.Status = StatusRenamed
	return outcome, true
}

func (r *Reconciler) listIcons(fsys fileSystem, rep *Report) error {
	names, err := fsys.List()
	if err != nil {
		return err
	}
	rep.LightIcons = matchTheme(names, r.light)
	rep.DarkIcons = matchTheme(names, r.dark)
	return nil
}

func matchTheme(names []string, theme Theme) []string {
	g := glob.MustCompile(glob.QuoteMeta(theme.Prefix+"-") + "*")
	icons := lo.Filter(names, func(name string, _ int) bool {
		return g.Match(name)
	})
	slices.Sort(icons)
	return icons
}

func (r *Reconciler) audit(fsys fileSystem, rep *Report) {
	rep.MissingLight = []string{}
	rep.MissingDark = []string{}

	for _, size := range r.sizes {
		a := SizeAudit{
			Size:      size,
			LightName: r.light.IconName(size, r.ext),
			DarkName:  r.dark.IconName(size, r.ext),
		}
		a.Light = fsys.Exists(a.LightName)
		a.Dark = fsys.Exists(a.DarkName)
		if !a.Light {
			rep.MissingLight = append(rep.MissingLight, size)
		}
		if !a.Dark {
			rep.MissingDark = append(rep.MissingDark, size)
		}
		rep.Audit = append(rep.Audit, a)
	}

	rep.AllPresent = len(rep.MissingLight) == 0 && len(rep.MissingDark) == 0
}
