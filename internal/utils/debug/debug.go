package debug

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nxadm/tail"
)

var ErrNoLogFile = errors.New("no log file exists yet: run iconfix on a directory first")

// Logs prints the log file at path. With live set it follows new lines
// instead, as long as stdout is a terminal.
func Logs(w io.Writer, path string, live bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ErrNoLogFile
	}
	if live {
		return follow(w, path)
	}
	return dump(w, path)
}

func follow(w io.Writer, path string) error {
	shouldFollow := isatty.IsTerminal(os.Stdout.Fd())
	t, err := tail.TailFile(path, tail.Config{
		ReOpen: shouldFollow,
		Follow: shouldFollow,
		Poll:   true,
		Logger: tail.DiscardingLogger,
		Location: &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekEnd,
		},
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()

	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		fmt.Fprintln(w, line.Text)
	}
	return nil
}

func dump(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}
	return scanner.Err()
}
