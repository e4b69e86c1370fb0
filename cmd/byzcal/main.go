package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/tartampluch/go-byzcal/internal/config"
	"github.com/tartampluch/go-byzcal/internal/feed"
)

// defaultClock decides the civil day treated as today.
var defaultClock feed.Clock = feed.RealClock{}

// CLI is the command tree of byzcal.
type CLI struct {
	Debug  bool   `help:"${help_debug}"`
	Config string `help:"${help_config}" type:"path" placeholder:"FILE"`
	Lang   string `help:"${help_lang}" placeholder:"CODE"`

	Convert ConvertCmd `cmd:"" help:"${cmd_convert}"`
	Civil   CivilCmd   `cmd:"" help:"${cmd_civil}"`
	Today   TodayCmd   `cmd:"" help:"${cmd_today}"`
	Add     AddCmd     `cmd:"" help:"${cmd_add}"`
	Feed    FeedCmd    `cmd:"" help:"${cmd_feed}"`
	Serve   ServeCmd   `cmd:"" help:"${cmd_serve}"`
	Login   LoginCmd   `cmd:"" help:"${cmd_login}"`
	Init    InitCmd    `cmd:"" help:"${cmd_init}"`
	Version VersionCmd `cmd:"" help:"${cmd_version}"`
}

func helpVars() kong.Vars {
	return kong.Vars{
		"help_debug":     config.FlagDescDebug,
		"help_config":    config.FlagDescConfig,
		"help_lang":      config.FlagDescLang,
		"help_json":      config.FlagDescJSON,
		"help_utc":       config.FlagDescUTC,
		"help_years":     config.FlagDescYears,
		"help_months":    config.FlagDescMonths,
		"help_days":      config.FlagDescDays,
		"help_out":       config.FlagDescOut,
		"help_bdays":     config.FlagDescBdaysOnly,
		"help_port":      config.FlagDescPort,
		"help_force":     config.FlagDescForce,
		"arg_civil_date": config.ArgDescCivilDate,
		"arg_any_date":   config.ArgDescAnyDate,
		"arg_year":       config.ArgDescYear,
		"arg_month":      config.ArgDescMonth,
		"arg_day":        config.ArgDescDay,
		"arg_user":       config.ArgDescUser,
		"cmd_convert":    config.CmdDescConvert,
		"cmd_civil":      config.CmdDescCivil,
		"cmd_today":      config.CmdDescToday,
		"cmd_add":        config.CmdDescAdd,
		"cmd_feed":       config.CmdDescFeed,
		"cmd_serve":      config.CmdDescServe,
		"cmd_login":      config.CmdDescLogin,
		"cmd_init":       config.CmdDescInit,
		"cmd_version":    config.CmdDescVersion,
	}
}

// main delegates to runMain so that deferred calls, such as closing the log
// file, run before the process exits.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// runMain parses args, runs the selected command and returns the exit code.
func runMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(config.CLIName),
		kong.Description(config.CLIDescription),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		helpVars(),
	)
	if err != nil {
		fmt.Fprintf(stderr, config.MsgCLIError, config.CLIName, err)
		return config.ExitCodeError
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, config.MsgCLIError, config.CLIName, err)
		return config.ExitCodeUsage
	}

	// The daemon logs to stderr; one-shot commands keep stderr for errors
	// and log to the file only, unless debugging.
	serving := strings.HasPrefix(kctx.Command(), config.CommandServe)
	logCloser := setupLogging(stderr, cli.Debug, serving || cli.Debug, serving)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(kctx.Command())

	app := &appContext{
		ctx:          ctx,
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		settingsPath: cli.Config,
		lang:         cli.Lang,
		clock:        defaultClock,
	}
	if err := kctx.Run(app); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintf(stderr, config.MsgCLIError, config.CLIName, err)
		return config.ExitCodeError
	}

	if serving {
		slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	}
	return config.ExitCodeSuccess
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(command string) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyCommand, command,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Records always go to a
// log file in the user's cache directory when one can be opened, and also to
// console when toConsole is set. Only the daemon passes truncate; one-shot
// commands may run while it holds the file open.
func setupLogging(console io.Writer, debugMode, toConsole, truncate bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if toConsole {
		writers = append(writers, console)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// Every writer appends, so records from other processes land after
		// the daemon's instead of under its file offset.
		flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
		if truncate {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(logPath, flags, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(console, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
