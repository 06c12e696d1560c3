package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGDataDirname = ".local/share"
)

var (
	ICONFIX_LOG_PATH string
)

func init() {
	ICONFIX_LOG_PATH = logPath()
}

// Follow https://specifications.freedesktop.org/basedir-spec/latest/
func logPath() string {
	if e := os.Getenv("ICONFIX_LOG_PATH"); e != "" {
		return e
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// no home directory, e.g. in minimal containers
			return filepath.Join(os.TempDir(), "iconfix", "debug.log")
		}
		dataDir = filepath.Join(homeDir, defaultXDGDataDirname)
	}
	return filepath.Join(dataDir, "iconfix", "debug.log")
}
