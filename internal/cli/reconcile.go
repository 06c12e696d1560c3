package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/comsapp/iconfix/internal/report"
)

var reconcileDir = reconcile.Reconcile

// Reconcile renames and audits the icons in dir and prints the report.
func (c *CLI) Reconcile(dir string) error {
	slog.Debug("cli.reconcile started")
	defer slog.Debug("cli.reconcile finished")

	if dir == "" {
		return usageError{err: ErrNoDirectory}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	opts := append(c.table.Options(),
		reconcile.WithDryRun(c.option.DryRun),
		reconcile.WithAuditOnly(c.option.AuditOnly),
		reconcile.WithLogger(c.logger.With("dir", dir)),
	)

	rep, err := reconcileDir(dir, c.table.Entries(), c.table.RequiredSizes, opts...)
	if err != nil {
		// renames already done must still be reported before giving up
		if len(rep.Outcomes) > 0 && !c.option.Quiet {
			if rerr := c.render(rep, true); rerr != nil {
				slog.Error("render partial report", "error", rerr)
			}
		}
		return err
	}

	if err := c.render(rep, false); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if rep.FailedCount > 0 {
		slog.Warn("some renames failed", "failed", rep.FailedCount)
	}
	return nil
}

func (c *CLI) render(rep reconcile.Report, renamesOnly bool) error {
	return report.Render(c.stdout, rep, report.Options{
		Format:      report.Format(c.option.Format),
		Quiet:       c.option.Quiet,
		RenamesOnly: renamesOnly,
	})
}
