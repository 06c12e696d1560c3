package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func sampleReport() reconcile.Report {
	return reconcile.Report{
		Dir:   "/srv/icons",
		Light: reconcile.Light,
		Dark:  reconcile.Dark,
		Outcomes: []reconcile.Outcome{
			{
				Entry:  reconcile.RenameEntry{From: "coms_b-150x150-100.png", To: "coms_b-150x150.png"},
				Status: reconcile.StatusRenamed,
				Backup: "coms_b-150x150.png.backup",
			},
			{
				Entry:  reconcile.RenameEntry{From: "coms-d-16.png", To: "coms_d-16x16.png"},
				Status: reconcile.StatusFailed,
				Backup: "coms_d-16x16.png.backup",
				Err:    &reconcile.RenameEntryError{Op: "rename", From: "coms-d-16.png", To: "coms_d-16x16.png", Err: errors.New("permission denied")},
			},
		},
		RenamedCount: 1,
		FailedCount:  1,
		LightIcons:   []string{"coms_b-150x150.png", "coms_b-150x150.png.backup"},
		Audit: []reconcile.SizeAudit{
			{Size: "16x16", LightName: "coms_b-16x16.png", DarkName: "coms_d-16x16.png"},
			{Size: "150x150", LightName: "coms_b-150x150.png", Light: true, DarkName: "coms_d-150x150.png"},
		},
		MissingLight: []string{"16x16"},
		MissingDark:  []string{"16x16", "150x150"},
	}
}

func TestRenderTextSectionOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Options{Format: FormatText}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	sections := []string{
		"Icon rename started: /srv/icons",
		"coms_b-150x150.png already exists - backup: coms_b-150x150.png.backup",
		"coms_b-150x150-100.png → coms_b-150x150.png",
		"coms_d-16x16.png already exists - backup: coms_d-16x16.png.backup",
		"coms-d-16.png rename failed: rename coms-d-16.png -> coms_d-16x16.png: permission denied",
		"Rename finished (renamed: 1, failed: 1)",
		"--- Light theme icons (coms_b) ---",
		"  coms_b-150x150.png\n",
		"--- Dark theme icons (coms_d) ---",
		"[Required icons]",
		"❌ coms_b-16x16.png - missing",
		"❌ coms_d-16x16.png - missing",
		"✅ coms_b-150x150.png",
		"[Missing required icons]",
		"Light theme missing: 16x16\n",
		"Dark theme missing: 16x16, 150x150\n",
		"💡",
	}

	pos := 0
	for _, s := range sections {
		i := strings.Index(out[pos:], s)
		if i < 0 {
			t.Fatalf("section %q missing or out of order in:\n%s", s, out)
		}
		pos += i + len(s)
	}
}

func TestRenderAllPresent(t *testing.T) {
	rep := reconcile.Report{
		Light:      reconcile.Light,
		Dark:       reconcile.Dark,
		Audit:      []reconcile.SizeAudit{{Size: "16x16", LightName: "coms_b-16x16.png", Light: true, DarkName: "coms_d-16x16.png", Dark: true}},
		AllPresent: true,
	}

	var buf bytes.Buffer
	if err := Render(&buf, rep, Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "All required icons are present") {
		t.Errorf("missing all-present line:\n%s", out)
	}
	if strings.Contains(out, "[Missing required icons]") {
		t.Errorf("unexpected missing summary:\n%s", out)
	}
}

func TestRenderQuiet(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Options{Quiet: true}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Rename finished") || strings.Contains(out, "Light theme icons") {
		t.Errorf("quiet output contains rename or listing sections:\n%s", out)
	}
	if !strings.Contains(out, "[Required icons]") {
		t.Errorf("quiet output lacks the audit:\n%s", out)
	}
}

func TestRenderDryRunBanner(t *testing.T) {
	rep := sampleReport()
	rep.DryRun = true

	var buf bytes.Buffer
	if err := Render(&buf, rep, Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Icon rename plan (dry run)") {
		t.Errorf("dry run banner missing:\n%s", buf.String())
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Options{Format: FormatTable, Quiet: true}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"coms_b", "coms_d", "150x150", "present", "MISSING", "Dark theme missing: 16x16, 150x150"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got jsonReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.RenamedCount != 1 || got.FailedCount != 1 || got.AllPresent {
		t.Errorf("counts = %+v", got)
	}
	if len(got.Outcomes) != 2 || got.Outcomes[1].Status != "failed" || got.Outcomes[1].Error == "" {
		t.Errorf("outcomes = %+v", got.Outcomes)
	}
	if got.DarkIcons == nil {
		t.Error("dark_icons should be an empty list, not null")
	}
}

func TestRenderRenamesOnly(t *testing.T) {
	for _, format := range []Format{FormatText, FormatTable} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, sampleReport(), Options{Format: format, RenamesOnly: true}); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			out := buf.String()
			for _, want := range []string{"coms_b-150x150-100.png → coms_b-150x150.png", "Rename finished (renamed: 1, failed: 1)"} {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %q:\n%s", want, out)
				}
			}
			for _, unwanted := range []string{"Light theme icons", "[Required icons]", "Missing required icons", "MISSING"} {
				if strings.Contains(out, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

// flakyWriter fails the first n writes and accepts the rest.
type flakyWriter struct {
	n   int
	buf bytes.Buffer
}

func (w *flakyWriter) Write(b []byte) (int, error) {
	if w.n > 0 {
		w.n--
		return 0, errors.New("disk full")
	}
	return w.buf.Write(b)
}

func TestRenderTableWriteError(t *testing.T) {
	// in quiet mode the grid is the first thing written
	w := &flakyWriter{n: 1}
	err := Render(w, sampleReport(), Options{Format: FormatTable, Quiet: true})
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Render() error = %v, want the grid's write error", err)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleReport(), Options{Format: "yaml"})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Render() error = %v, want ErrUnknownFormat", err)
	}
}
