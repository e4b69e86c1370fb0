// Package feed renders an iCalendar feed with one all-day event per civil
// day, titled with its Byzantine date, plus the Byzantine birthdays of the
// contacts read from a vCard source.
package feed

import (
	"bytes"
	"cmp"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-byzcal/byzantine"
	"github.com/tartampluch/go-byzcal/internal/config"
	"github.com/tartampluch/go-byzcal/internal/l10n"
)

// SyncConfig holds the parameters of one feed generation.
type SyncConfig struct {
	Mode            string // config.SourceModeNone, SourceModeLocal or SourceModeWeb
	LocalPath       string // Path to a .vcf file
	WebURL          string // CardDAV or WebDAV URL
	WebUser         string
	WebPass         string
	ReminderTrigger string // ISO8601 duration such as "-P1D", empty for no alarm

	// DaysBefore and DaysAfter bound the day events around today.
	DaysBefore int
	DaysAfter  int
	// BirthdaysOnly suppresses the day events.
	BirthdaysOnly bool
}

// Result is the outcome of a generation.
type Result struct {
	ICS []byte
	// Today is the Byzantine date of the clock's current civil day.
	Today byzantine.Date
	// Days is the number of day events in the feed.
	Days int
	// Contacts is sorted by next anniversary, then name.
	Contacts       []BirthdayEntry
	BirthdaysToday int
}

// Generator builds feeds. Translator may be nil, in which case summaries use
// the English fallbacks.
type Generator struct {
	Clock      Clock
	Fetcher    ContactFetcher
	Translator *l10n.Translator
}

type genStats struct{ processed, withBday, today, days int }

// Run reads the configured contact source, if any, and renders the feed.
func (g *Generator) Run(ctx context.Context, cfg SyncConfig) (*Result, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	now := g.Clock.Now()
	res := &Result{Today: byzantine.FromTime(now)}

	cal := newCalendar()
	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	var stats genStats
	if !cfg.BirthdaysOnly {
		for _, e := range g.dayEvents(res.Today, cfg.DaysBefore, cfg.DaysAfter) {
			e.Props.Set(dtStamp)
			cal.Children = append(cal.Children, e.Component)
			stats.days++
		}
	}

	if cfg.Mode != "" && cfg.Mode != config.SourceModeNone {
		reader, err := g.acquireStream(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
		defer func() { _ = reader.Close() }()

		contacts, events, err := g.readBirthdays(ctx, reader, res.Today, cfg.ReminderTrigger, &stats)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			e.Props.Set(dtStamp)
			cal.Children = append(cal.Children, e.Component)
		}
		res.Contacts = contacts
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Days = stats.days
	res.BirthdaysToday = stats.today
	if len(cal.Children) == 0 {
		res.ICS = []byte(config.StubVCalendar)
	} else {
		var buf bytes.Buffer
		if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
		}
		res.ICS = buf.Bytes()
	}

	logSuccess(stats)
	log.Debug("Feed generated", config.LogKeyDuration, time.Since(start).Milliseconds())
	return res, nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986
	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)
	return cal
}

func (g *Generator) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// dayEvents returns one all-day event per civil day from today-before to
// today+after inclusive.
func (g *Generator) dayEvents(today byzantine.Date, before, after int) []*ical.Event {
	before, after = max(before, 0), max(after, 0)
	events := make([]*ical.Event, 0, before+after+1)
	for offset := -before; offset <= after; offset++ {
		day := today.AddDays(offset)
		civil := day.Time()
		jy, jm, jd := day.Julian()

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatDayUID, civil.Format(config.DateFormatFullBasic), config.ICalDomain))
		event.Props.SetText(config.PropSummary, g.Translator.DaySummary(day))
		event.Props.SetText(config.PropDescription, g.Translator.Msg(config.TKeyLblJulian)+" "+fmt.Sprintf(config.FormatCivilDate, jy, int(jm), jd))
		event.Props.SetText(config.PropCategories, config.CategoryDay)

		start := ical.NewProp(config.PropDTStart)
		start.SetDate(civil)
		event.Props.Set(start)

		events = append(events, event)
	}
	return events
}

// readBirthdays decodes the vCard stream. Malformed cards and unreadable
// birth dates are skipped.
func (g *Generator) readBirthdays(ctx context.Context, r io.Reader, today byzantine.Date, trigger string, stats *genStats) ([]BirthdayEntry, []*ical.Event, error) {
	decoder := vcard.NewDecoder(r)
	var contacts []BirthdayEntry
	var events []*ical.Event

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		born, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		input := fmt.Sprintf(config.FormatHashInput, name, born.Format(time.RFC3339), config.UIDSalt)
		hash := sha256.Sum256([]byte(input))

		entry := BirthdayEntry{
			UID:       fmt.Sprintf("%x", hash[:config.UIDHashLength]),
			Name:      name,
			Born:      born,
			YearKnown: yearKnown,
			Birth:     byzantine.FromHybrid(born.Date()),
		}

		next, years := nextAnniversary(today, entry.Birth)
		if yearKnown && years < 0 {
			next, years = entry.Birth, 0
		}
		entry.NextOccurrence = next
		if yearKnown {
			entry.AgeNext = years
		}

		if next.IsEqual(today) {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyName, name,
				config.LogKeyByzantine, entry.Birth.String())
		}

		contacts = append(contacts, entry)
		events = append(events, g.birthdayEvents(entry, trigger)...)
	}

	slices.SortFunc(contacts, func(a, b BirthdayEntry) int {
		if c := byzantine.Compare(a.NextOccurrence, b.NextOccurrence); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return contacts, events, nil
}

// nextAnniversary returns the first anniversary of birth on or after today
// and the number of Byzantine years separating it from birth. Anniversaries
// of FEBRUARY 29 fall on FEBRUARY 28 in common years.
func nextAnniversary(today, birth byzantine.Date) (byzantine.Date, int) {
	years := today.Year() - birth.Year()
	next := birth.AddYears(years)
	if next.IsBefore(today) {
		years++
		next = birth.AddYears(years)
	}
	return next, years
}

// birthdayEvents returns the anniversaries around the next one, skipping
// those before the birth.
func (g *Generator) birthdayEvents(entry BirthdayEntry, trigger string) []*ical.Event {
	nextYears := entry.NextOccurrence.Year() - entry.Birth.Year()

	var events []*ical.Event
	for years := nextYears - config.AnniversarySpan; years <= nextYears+config.AnniversarySpan; years++ {
		if entry.YearKnown && years < 0 {
			continue
		}
		day := entry.Birth.AddYears(years)

		age := 0
		if entry.YearKnown {
			age = years
		}
		summary := g.Translator.BirthdaySummary(entry.Name, age, entry.YearKnown)

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, entry.UID, day.Year(), config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.PropCategories, config.CategoryBirthday)
		if entry.YearKnown {
			event.Props.SetText(config.PropDescription, g.Translator.BirthdayDescription(entry.Birth))
		}

		start := ical.NewProp(config.PropDTStart)
		start.SetDate(day.Time())
		event.Props.Set(start)

		if trigger != "" {
			addAlarm(event, trigger, summary)
		}
		events = append(events, event)
	}
	return events
}

func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value: SetText would add VALUE=TEXT.
	prop := ical.NewProp(config.PropTrigger)
	prop.Value = trigger
	alarm.Props.Set(prop)

	event.Children = append(event.Children, alarm)
}

func logSuccess(stats genStats) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompFeed,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyDays, stats.days),
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}

// parseDate reads a vCard BDAY value. Values without a year are placed in
// config.DefaultLeapYear so that --02-29 survives.
func parseDate(value string) (time.Time, bool, error) {
	withYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range withYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
