package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/comsapp/iconfix/internal/utils/debug"
)

var testVersion = Version{AppName: "iconfix", Version: "v0.0.0-test", Revision: "abc123", BuildDate: "2026-10-18"}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "debug.log")
	var stdout bytes.Buffer
	err := run(testVersion, args, &stdout, logPath)
	return stdout.String(), logPath, err
}

func createIcon(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRunReconcile(t *testing.T) {
	dir := t.TempDir()
	createIcon(t, dir, "coms_b-16.png")
	createIcon(t, dir, "coms-d-16.png")

	out, _, err := runCLI(t, dir)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if code := ExitCode(err); code != ExitOK {
		t.Errorf("ExitCode = %d, want %d", code, ExitOK)
	}

	for _, want := range []string{
		"coms_b-16.png → coms_b-16x16.png",
		"coms-d-16.png → coms_d-16x16.png",
		"Rename finished (renamed: 2, failed: 0)",
		"✅ coms_b-16x16.png",
		"✅ coms_d-16x16.png",
		"Light theme missing: 32x32,",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if !exists(filepath.Join(dir, "coms_d-16x16.png")) {
		t.Error("coms-d-16.png was not renamed")
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	createIcon(t, dir, "coms_b-16.png")

	out, _, err := runCLI(t, "--dry-run", dir)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, "dry run") {
		t.Errorf("output lacks dry run banner:\n%s", out)
	}
	if !exists(filepath.Join(dir, "coms_b-16.png")) || exists(filepath.Join(dir, "coms_b-16x16.png")) {
		t.Error("dry run renamed a file")
	}
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	createIcon(t, dir, "coms_b-48-48.png")

	out, _, err := runCLI(t, "--format", "json", dir)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var got struct {
		RenamedCount int      `json:"renamed_count"`
		LightIcons   []string `json:"light_icons"`
		MissingDark  []string `json:"missing_dark"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.RenamedCount != 1 || len(got.LightIcons) != 1 || got.LightIcons[0] != "coms_b-48x48.png" {
		t.Errorf("report = %+v", got)
	}
	if len(got.MissingDark) != 14 {
		t.Errorf("missing dark = %d sizes, want 14", len(got.MissingDark))
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no directory", []string{}, ExitUsage},
		{"missing directory", []string{filepath.Join(dir, "missing")}, ExitDirectory},
		{"missing table", []string{"--table", filepath.Join(dir, "none.yaml"), dir}, ExitUsage},
		{"bad format", []string{"--format", "xml", dir}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := ExitCode(err); code != tt.code {
				t.Errorf("ExitCode(%v) = %d, want %d", err, code, tt.code)
			}
		})
	}
}

func TestRunNoDirectory(t *testing.T) {
	_, _, err := runCLI(t)
	if !errors.Is(err, ErrNoDirectory) {
		t.Errorf("run() error = %v, want ErrNoDirectory", err)
	}
}

func TestRunVersion(t *testing.T) {
	out, _, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, "version: v0.0.0-test") || !strings.Contains(out, "revision: abc123") {
		t.Errorf("version output = %q", out)
	}
}

func TestRunDebugLogs(t *testing.T) {
	dir := t.TempDir()
	createIcon(t, dir, "coms_b-16.png")
	logPath := filepath.Join(t.TempDir(), "debug.log")

	if err := run(testVersion, []string{"--log-level", "debug", dir}, &bytes.Buffer{}, logPath); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var out bytes.Buffer
	if err := run(testVersion, []string{"--debug"}, &out, logPath); err != nil {
		t.Fatalf("run(--debug) error = %v", err)
	}
	if !strings.Contains(out.String(), "run_id") || !strings.Contains(out.String(), "renamed") {
		t.Errorf("debug log = %q", out.String())
	}
}

func TestRunDebugWithoutLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")

	err := run(testVersion, []string{"--debug"}, &bytes.Buffer{}, logPath)
	if !errors.Is(err, debug.ErrNoLogFile) {
		t.Errorf("run(--debug) error = %v, want ErrNoLogFile", err)
	}
	if exists(logPath) {
		t.Error("viewing the log created it")
	}
}

func TestRunReportsRenamesBeforeListingFailure(t *testing.T) {
	dir := t.TempDir()
	listErr := errors.New("permission denied")
	orig := reconcileDir
	t.Cleanup(func() { reconcileDir = orig })
	reconcileDir = func(dir string, _ []reconcile.RenameEntry, _ []string, _ ...reconcile.Option) (reconcile.Report, error) {
		rep := reconcile.Report{
			Dir:   dir,
			Light: reconcile.Light,
			Dark:  reconcile.Dark,
			Outcomes: []reconcile.Outcome{{
				Entry:  reconcile.RenameEntry{From: "coms_b-16.png", To: "coms_b-16x16.png"},
				Status: reconcile.StatusRenamed,
			}},
			RenamedCount: 1,
		}
		return rep, &reconcile.DirectoryAccessError{Dir: dir, Err: listErr}
	}

	out, _, err := runCLI(t, dir)
	if code := ExitCode(err); code != ExitDirectory {
		t.Errorf("ExitCode(%v) = %d, want %d", err, code, ExitDirectory)
	}
	for _, want := range []string{"coms_b-16.png → coms_b-16x16.png", "Rename finished (renamed: 1, failed: 0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[Required icons]") {
		t.Errorf("output contains an audit of a directory that could not be listed:\n%s", out)
	}
}
