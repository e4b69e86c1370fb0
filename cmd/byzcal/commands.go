package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/tartampluch/go-byzcal/byzantine"
	"github.com/tartampluch/go-byzcal/internal/config"
	"github.com/tartampluch/go-byzcal/internal/daemon"
	"github.com/tartampluch/go-byzcal/internal/feed"
	"github.com/tartampluch/go-byzcal/internal/l10n"
	"github.com/tartampluch/go-byzcal/internal/server"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

// appContext is bound into every command's Run method.
type appContext struct {
	ctx          context.Context
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	settingsPath string
	lang         string
	clock        feed.Clock
}

// loadSettings reads the settings file, applying the --lang override.
func (a *appContext) loadSettings() (*config.Settings, error) {
	path, err := a.resolveSettingsPath()
	if err != nil {
		return nil, err
	}
	s, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}
	if a.lang != "" {
		s.Language = a.lang
	}
	return s, nil
}

func (a *appContext) resolveSettingsPath() (string, error) {
	if a.settingsPath != "" {
		return a.settingsPath, nil
	}
	return config.DefaultSettingsPath()
}

func (a *appContext) translator() (*l10n.Translator, error) {
	if a.lang != "" {
		return l10n.New(a.lang), nil
	}
	s, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	return l10n.New(s.Language), nil
}

// printDay writes d as labelled lines, or as a JSON DayInfo.
func (a *appContext) printDay(d byzantine.Date, asJSON bool) error {
	info := feed.Describe(d)
	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", config.JSONIndent)
		return enc.Encode(info)
	}

	tr, err := a.translator()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, config.FormatLabelLine, tr.Msg(config.TKeyLblByzantine), info.Byzantine)
	fmt.Fprintf(a.stdout, config.FormatLabelLine, tr.Msg(config.TKeyLblWeekday), info.Weekday)
	fmt.Fprintf(a.stdout, config.FormatLabelLine, tr.Msg(config.TKeyLblCivil), info.Civil)
	fmt.Fprintf(a.stdout, config.FormatLabelLine, tr.Msg(config.TKeyLblJulian), info.Julian)
	return nil
}

// parseAnyDate accepts a civil YYYY-MM-DD date or a Byzantine date in its
// String form.
func parseAnyDate(s string) (byzantine.Date, error) {
	d, civilErr := feed.ParseCivil(s)
	if civilErr == nil {
		return d, nil
	}
	d, err := byzantine.Parse(s)
	if err != nil {
		return byzantine.Date{}, civilErr
	}
	if d.IsBefore(byzantine.MinDate) {
		return byzantine.Date{}, fmt.Errorf("%s: %s", config.ErrDateBeforeMin, d)
	}
	return d, nil
}

// parseMonthArg reads a Byzantine month given by name or by number.
func parseMonthArg(s string) (byzantine.Month, error) {
	if n, err := strconv.Atoi(s); err == nil {
		m := byzantine.Month(n)
		if !m.Valid() {
			return 0, fmt.Errorf("%w: %d", byzantine.ErrInvalidMonth, n)
		}
		return m, nil
	}
	return byzantine.ParseMonth(s)
}

// -----------------------------------------------------------------------------
// Conversion commands
// -----------------------------------------------------------------------------

type ConvertCmd struct {
	Date string `arg:"" help:"${arg_civil_date}"`
	JSON bool   `name:"json" help:"${help_json}"`
}

func (c *ConvertCmd) Run(app *appContext) error {
	d, err := feed.ParseCivil(c.Date)
	if err != nil {
		return err
	}
	slog.Debug(config.MsgConverted,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyValue, c.Date,
		config.LogKeyByzantine, d.String(),
	)
	return app.printDay(d, c.JSON)
}

type CivilCmd struct {
	Year  int    `arg:"" help:"${arg_year}"`
	Month string `arg:"" help:"${arg_month}"`
	Day   int    `arg:"" help:"${arg_day}"`
	JSON  bool   `name:"json" help:"${help_json}"`
}

func (c *CivilCmd) Run(app *appContext) error {
	month, err := parseMonthArg(c.Month)
	if err != nil {
		return err
	}
	d, err := byzantine.Parse(fmt.Sprintf("%s %d, %d", month, c.Day, c.Year))
	if err != nil {
		return err
	}
	if d.IsBefore(byzantine.MinDate) {
		return fmt.Errorf("%s: %s", config.ErrDateBeforeMin, d)
	}
	return app.printDay(d, c.JSON)
}

type TodayCmd struct {
	UTC  bool `name:"utc" help:"${help_utc}"`
	JSON bool `name:"json" help:"${help_json}"`
}

func (c *TodayCmd) Run(app *appContext) error {
	now := app.clock.Now()
	if c.UTC {
		now = now.UTC()
	}
	return app.printDay(byzantine.FromTime(now), c.JSON)
}

// AddCmd shifts by years first, then months, then days; each step clamps the
// day to the length of the resulting month.
type AddCmd struct {
	Date   string `arg:"" help:"${arg_any_date}"`
	Years  int    `help:"${help_years}"`
	Months int    `help:"${help_months}"`
	Days   int    `help:"${help_days}"`
	JSON   bool   `name:"json" help:"${help_json}"`
}

func (c *AddCmd) Run(app *appContext) error {
	d, err := parseAnyDate(c.Date)
	if err != nil {
		return err
	}
	return app.printDay(d.AddYears(c.Years).AddMonths(c.Months).AddDays(c.Days), c.JSON)
}

// -----------------------------------------------------------------------------
// Feed commands
// -----------------------------------------------------------------------------

type FeedCmd struct {
	Out           string `short:"o" type:"path" placeholder:"FILE" help:"${help_out}"`
	BirthdaysOnly bool   `help:"${help_bdays}"`
}

func (c *FeedCmd) Run(app *appContext) error {
	s, err := app.loadSettings()
	if err != nil {
		return err
	}

	cfg := daemon.LoadSyncConfig(s)
	cfg.BirthdaysOnly = c.BirthdaysOnly

	gen := &feed.Generator{
		Clock:      app.clock,
		Fetcher:    feed.NewHTTPFetcher(),
		Translator: l10n.New(s.Language),
	}
	res, err := gen.Run(app.ctx, cfg)
	if err != nil {
		return err
	}

	if c.Out == "" {
		_, err = app.stdout.Write(res.ICS)
		return err
	}
	if err := os.WriteFile(c.Out, res.ICS, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrFeedWrite, err)
	}
	return nil
}

type ServeCmd struct {
	Port string `placeholder:"PORT" help:"${help_port}"`
}

func (c *ServeCmd) Run(app *appContext) error {
	s, err := app.loadSettings()
	if err != nil {
		return err
	}
	if c.Port != "" {
		if err := config.ValidatePort(c.Port); err != nil {
			return err
		}
		s.Port = c.Port
	}

	srv := server.NewCalendarServer(s.Port, app.clock)
	d := daemon.New(s, srv, feed.NewHTTPFetcher())
	d.Clock = app.clock

	ctx, cancel := context.WithCancel(app.ctx)
	defer cancel()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	// The listener stays on the port it started with; a reload changes
	// everything else.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				next, err := app.loadSettings()
				if err != nil {
					slog.Error(config.ErrSettingsRead,
						config.LogKeyComponent, config.CompMain,
						config.LogKeyError, err,
					)
					continue
				}
				next.Port = s.Port
				slog.Info(config.MsgSettingsReload, config.LogKeyComponent, config.CompMain)
				d.ApplySettings(next)
			}
		}
	}()

	return d.Run(ctx)
}

// -----------------------------------------------------------------------------
// Setup commands
// -----------------------------------------------------------------------------

type LoginCmd struct {
	User string `arg:"" help:"${arg_user}"`
}

func (c *LoginCmd) Run(app *appContext) error {
	pass, err := readPassword(app, c.User)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
	}
	if err := keyring.Set(config.KeyringService, c.User, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}
	fmt.Fprintf(app.stdout, config.MsgPasswordStored, c.User)
	return nil
}

// readPassword prompts without echo on a terminal and otherwise reads one
// line, so that the password can be piped in.
func readPassword(app *appContext, user string) (string, error) {
	if f, ok := app.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(app.stderr, config.MsgPasswordPrompt, user)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(app.stderr)
		return string(b), err
	}

	line, err := bufio.NewReader(app.stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type InitCmd struct {
	Force bool `help:"${help_force}"`
}

func (c *InitCmd) Run(app *appContext) error {
	path, err := app.resolveSettingsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s: %s", config.ErrSettingsExist, path)
	}

	s := config.DefaultSettings()
	if app.lang != "" {
		s.Language = app.lang
	}
	if err := s.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, config.MsgSettingsWritten, path)
	return nil
}

type VersionCmd struct{}

func (VersionCmd) Run(app *appContext) error {
	fmt.Fprintf(app.stdout, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
	return nil
}
