package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/comsapp/iconfix/internal/mapping"
	"github.com/comsapp/iconfix/internal/reconcile"
	"github.com/comsapp/iconfix/internal/utils/debug"
	"github.com/comsapp/iconfix/internal/utils/env"
	"github.com/comsapp/iconfix/internal/utils/log"
	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"
)

const (
	logMaxSize  = "10MB"
	logMaxFiles = 3
)

// Exit codes
const (
	ExitOK        = 0
	ExitDirectory = 1
	ExitUsage     = 2
)

var ErrNoDirectory = errors.New("too few arguments: the icon directory is required")

type Option struct {
	DryRun    bool   `short:"n" long:"dry-run" description:"Show what would be renamed without touching any file"`
	AuditOnly bool   `short:"a" long:"audit-only" description:"Skip renaming and only list and audit the icons"`
	Table     string `short:"t" long:"table" description:"Path to an alternate rename table (YAML)" default:""`
	Format    string `short:"f" long:"format" description:"Report format" default:"text" choice:"text" choice:"table" choice:"json"`
	Quiet     bool   `short:"q" long:"quiet" description:"Only print the required icon audit"`

	Meta MetaOption `group:"Meta Options"`

	Args struct {
		Dir string `positional-arg-name:"DIR" description:"Icon directory to reconcile"`
	} `positional-args:"yes"`
}

type MetaOption struct {
	Version  bool   `short:"V" long:"version" description:"Show version"`
	Debug    string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
	LogLevel string `long:"log-level" description:"Log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error"`
}

type CLI struct {
	version Version
	option  Option
	table   *mapping.Table
	runID   string
	stdout  io.Writer
	logPath string
	logger  *slog.Logger
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

// Run parses os.Args and runs iconfix.
func Run(v Version) error {
	return run(v, os.Args[1:], os.Stdout, env.ICONFIX_LOG_PATH)
}

func run(v Version, args []string, stdout io.Writer, logPath string) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "[OPTIONS] DIR"
	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return usageError{err: err}
	}

	level, err := log.ParseLevel(opt.Meta.LogLevel)
	if err != nil {
		return usageError{err: err}
	}

	// viewing the log must not create it
	output := log.UseRotatingOutput(logPath, logMaxSize, logMaxFiles)
	if opt.Meta.Debug != "" {
		output = log.UseOutput(io.Discard)
	}

	logger := log.New(
		output,
		log.UseLevel(level),
		log.UseReportTimestamp(true),
		log.UseTimeFormat(time.DateTime),
		log.AsDefault(),
	).With("run_id", runID())
	slog.SetDefault(logger)

	defer slog.Debug("main function finished")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	c := CLI{
		version: v,
		option:  opt,
		runID:   runID(),
		stdout:  stdout,
		logPath: logPath,
		logger:  logger,
	}

	if err := c.Run(); err != nil {
		slog.Error("exit", "error", fmt.Errorf("cli.run failed: %w", err))
		return err
	}
	return nil
}

func (c *CLI) Run() error {
	switch {
	case c.option.Meta.Version:
		fmt.Fprint(c.stdout, c.version.Print())
		return nil

	case c.option.Meta.Debug == "live":
		return debug.Logs(c.stdout, c.logPath, true)

	case c.option.Meta.Debug == "full":
		return debug.Logs(c.stdout, c.logPath, false)

	default:
		table, err := c.loadTable()
		if err != nil {
			return usageError{err: err}
		}
		c.table = table
		return c.Reconcile(c.option.Args.Dir)
	}
}

func (c *CLI) loadTable() (*mapping.Table, error) {
	if c.option.Table == "" {
		return mapping.Default()
	}
	return mapping.Load(c.option.Table)
}

type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

// ExitCode maps an error returned by Run to the process exit code.
// Per-entry rename failures never reach here, so a completed run is always 0.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case reconcile.IsDirectoryAccess(err):
		return ExitDirectory
	default:
		return ExitUsage
	}
}
