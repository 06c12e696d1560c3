// Package report prints a reconcile.Report for humans or scripts.
//
// The text format keeps a fixed section order so that log scrapers can rely
// on it: banner, rename log, summary counts, light listing, dark listing,
// per-size audit, missing summary.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/comsapp/iconfix/internal/reconcile"
)

type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Options controls rendering.
type Options struct {
	Format Format
	// Quiet prints only the audit sections.
	Quiet bool
	// RenamesOnly prints only the rename log and counts, for runs that
	// stopped before the directory could be listed. JSON always carries the
	// whole report.
	RenamesOnly bool
}

// Render writes rep to w in the requested format.
func Render(w io.Writer, rep reconcile.Report, opts Options) error {
	switch opts.Format {
	case FormatText, "", FormatTable:
		if opts.RenamesOnly {
			return newPrinter(w).renames(rep)
		}
	}

	switch opts.Format {
	case FormatText, "":
		return newPrinter(w).text(rep, opts.Quiet)
	case FormatTable:
		return newPrinter(w).table(rep, opts.Quiet)
	case FormatJSON:
		return renderJSON(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

const ruleWidth = 50

var rule = strings.Repeat("=", ruleWidth)
