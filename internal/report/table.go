package report

import (
	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/olekukonko/tablewriter"
)

// table prints the rename and listing sections as text and the audit as a
// size by theme grid.
func (p *printer) table(rep reconcile.Report, quiet bool) error {
	if !quiet {
		p.renameSections(rep)
		p.listingSections(rep)
	}
	if p.err != nil {
		return p.err
	}

	tw := tablewriter.NewWriter(p)
	tw.SetHeader([]string{"Size", rep.Light.Prefix, rep.Dark.Prefix})
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, a := range rep.Audit {
		tw.Append([]string{a.Size, mark(a.Light), mark(a.Dark)})
	}
	tw.Render()
	p.println()

	p.missingSection(rep)
	return p.err
}

func mark(present bool) string {
	if present {
		return "present"
	}
	return "MISSING"
}
