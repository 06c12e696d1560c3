package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/fatih/color"
)

type printer struct {
	w     io.Writer
	err   error
	title lipgloss.Style

	ok   func(a ...any) string
	warn func(a ...any) string
	bad  func(a ...any) string
	dim  func(a ...any) string
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:     w,
		title: lipgloss.NewRenderer(w).NewStyle().Bold(true),
		ok:    color.New(color.FgGreen).SprintFunc(),
		warn:  color.New(color.FgYellow).SprintFunc(),
		bad:   color.New(color.FgRed).SprintFunc(),
		dim:   color.New(color.Faint).SprintFunc(),
	}
}

// printf remembers the first write error so sections can be written without
// checking every line.
func (p *printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

func (p *printer) println(a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, a...)
}

// Write lets writers owned by other libraries share the first-error capture.
func (p *printer) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	var n int
	n, p.err = p.w.Write(b)
	return n, p.err
}

func (p *printer) banner(title string) {
	p.println(rule)
	p.println(p.title.Render(title))
	p.println(rule)
}

func (p *printer) text(rep reconcile.Report, quiet bool) error {
	if !quiet {
		p.renameSections(rep)
		p.listingSections(rep)
	}
	p.auditSection(rep)
	p.missingSection(rep)
	return p.err
}

func (p *printer) renames(rep reconcile.Report) error {
	p.renameSections(rep)
	return p.err
}

func (p *printer) renameSections(rep reconcile.Report) {
	if rep.DryRun {
		p.banner("Icon rename plan (dry run): " + rep.Dir)
	} else {
		p.banner("Icon rename started: " + rep.Dir)
	}
	p.println()

	for _, o := range rep.Outcomes {
		p.outcome(o)
	}
	if len(rep.Outcomes) > 0 {
		p.println()
	}

	p.println(rule)
	p.printf("Rename finished (renamed: %d, failed: %d)\n", rep.RenamedCount, rep.FailedCount)
	p.println(rule)
	p.println()
}

func (p *printer) outcome(o reconcile.Outcome) {
	e := o.Entry
	// a backup is taken before the rename, so it is reported even when the
	// rename itself fails afterwards
	if o.Backup != "" {
		p.printf("%s  %s already exists - backup: %s\n", p.warn("⚠️"), e.To, o.Backup)
	}
	switch o.Status {
	case reconcile.StatusRenamed:
		p.printf("%s %s → %s\n", p.ok("✅"), e.From, e.To)
	case reconcile.StatusSkipped:
		p.printf("%s %s already has the target name\n", p.dim("➖"), e.From)
	case reconcile.StatusFailed:
		p.printf("%s %s rename failed: %v\n", p.bad("❌"), e.From, o.Err)
	}
}

func (p *printer) listingSections(rep reconcile.Report) {
	p.println("[Icon files]")
	p.println()

	p.listing("Light theme icons", rep.Light, rep.LightIcons)
	p.println()
	p.listing("Dark theme icons", rep.Dark, rep.DarkIcons)
	p.println()
}

func (p *printer) listing(title string, theme reconcile.Theme, icons []string) {
	p.printf("--- %s (%s) ---\n", title, theme.Prefix)
	for _, icon := range icons {
		p.printf("  %s\n", icon)
	}
}

func (p *printer) auditSection(rep reconcile.Report) {
	p.banner("[Required icons]")
	p.println()

	for _, a := range rep.Audit {
		p.presence(a.LightName, a.Light)
		p.presence(a.DarkName, a.Dark)
		p.println()
	}
}

func (p *printer) presence(name string, present bool) {
	if present {
		p.printf("%s %s\n", p.ok("✅"), name)
		return
	}
	p.printf("%s %s - missing\n", p.bad("❌"), name)
}

func (p *printer) missingSection(rep reconcile.Report) {
	if rep.AllPresent {
		p.println("✨ All required icons are present!")
		return
	}

	p.banner("[Missing required icons]")
	if len(rep.MissingLight) > 0 {
		p.printf("\nLight theme missing: %s\n", strings.Join(rep.MissingLight, ", "))
	}
	if len(rep.MissingDark) > 0 {
		p.printf("\nDark theme missing: %s\n", strings.Join(rep.MissingDark, ", "))
	}
	p.println()
	p.println(resizeHint)
}

const resizeHint = `💡 Missing icons have to be produced by resizing an existing icon.
   Start from the largest one (512x512 or 1024x1024).`
