package debug

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLogsDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Logs(&buf, path, false); err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	if got := buf.String(); got != "one\ntwo\n" {
		t.Errorf("Logs() = %q", got)
	}
}

func TestLogsMissingFile(t *testing.T) {
	err := Logs(&bytes.Buffer{}, filepath.Join(t.TempDir(), "none.log"), false)
	if !errors.Is(err, ErrNoLogFile) {
		t.Errorf("Logs() error = %v, want ErrNoLogFile", err)
	}
}
