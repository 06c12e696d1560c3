package report

import (
	"encoding/json"
	"io"

	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/samber/lo"
)

type jsonOutcome struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
	Backup string `json:"backup,omitempty"`
	Error  string `json:"error,omitempty"`
}

type jsonReport struct {
	Dir          string        `json:"dir"`
	DryRun       bool          `json:"dry_run"`
	Outcomes     []jsonOutcome `json:"outcomes"`
	RenamedCount int           `json:"renamed_count"`
	FailedCount  int           `json:"failed_count"`
	LightIcons   []string      `json:"light_icons"`
	DarkIcons    []string      `json:"dark_icons"`
	MissingLight []string      `json:"missing_light"`
	MissingDark  []string      `json:"missing_dark"`
	AllPresent   bool          `json:"all_present"`
}

func renderJSON(w io.Writer, rep reconcile.Report) error {
	out := jsonReport{
		Dir:    rep.Dir,
		DryRun: rep.DryRun,
		Outcomes: lo.Map(rep.Outcomes, func(o reconcile.Outcome, _ int) jsonOutcome {
			j := jsonOutcome{
				From:   o.Entry.From,
				To:     o.Entry.To,
				Status: o.Status.String(),
				Backup: o.Backup,
			}
			if o.Err != nil {
				j.Error = o.Err.Error()
			}
			return j
		}),
		RenamedCount: rep.RenamedCount,
		FailedCount:  rep.FailedCount,
		LightIcons:   lo.Ternary(rep.LightIcons == nil, []string{}, rep.LightIcons),
		DarkIcons:    lo.Ternary(rep.DarkIcons == nil, []string{}, rep.DarkIcons),
		MissingLight: rep.MissingLight,
		MissingDark:  rep.MissingDark,
		AllPresent:   rep.AllPresent,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
