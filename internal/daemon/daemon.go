// Package daemon keeps the Byzantine calendar feed up to date: it serves the
// feed over HTTP and regenerates it on start, on a timer and on request.
package daemon

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tartampluch/go-byzcal/internal/config"
	"github.com/tartampluch/go-byzcal/internal/feed"
	"github.com/tartampluch/go-byzcal/internal/l10n"
	"github.com/tartampluch/go-byzcal/internal/server"
	"github.com/zalando/go-keyring"
	"golang.org/x/sync/errgroup"
)

// Daemon ties the feed generator to the HTTP server.
type Daemon struct {
	Server  *server.CalendarServer
	Fetcher feed.ContactFetcher
	Clock   feed.Clock

	syncChan   chan bool
	configChan chan struct{}

	mu         sync.RWMutex
	settings   *config.Settings
	translator *l10n.Translator
	contacts   []feed.BirthdayEntry
	today      int
	lastSync   time.Time
}

func New(settings *config.Settings, srv *server.CalendarServer, fetcher feed.ContactFetcher) *Daemon {
	return &Daemon{
		Server:     srv,
		Fetcher:    fetcher,
		Clock:      feed.RealClock{},
		syncChan:   make(chan bool, config.ChannelBufferSize),
		configChan: make(chan struct{}, config.ChannelBufferSize),
		settings:   settings,
		translator: l10n.New(settings.Language),
	}
}

// Run serves the feed and keeps it fresh until ctx is cancelled. It returns
// early with an error if the server cannot start.
func (d *Daemon) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.Server.Start(gctx) })
	g.Go(func() error {
		d.backgroundWorker(gctx)
		return nil
	})
	return g.Wait()
}

// Trigger requests an immediate sync. Requests made while one is pending
// are merged.
func (d *Daemon) Trigger() {
	select {
	case d.syncChan <- true:
	default:
	}
}

// ApplySettings replaces the settings, for example after the file was
// edited, and requests a sync with them.
func (d *Daemon) ApplySettings(s *config.Settings) {
	tr := l10n.New(s.Language)
	d.mu.Lock()
	d.settings = s
	d.translator = tr
	d.mu.Unlock()

	select {
	case d.configChan <- struct{}{}:
	default:
	}
	d.Trigger()
}

// Settings returns the settings in use.
func (d *Daemon) Settings() *config.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// Contacts returns the contacts of the last successful sync, sorted by next
// anniversary.
func (d *Daemon) Contacts() []feed.BirthdayEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.contacts)
}

// BirthdaysToday returns the number of Byzantine birthdays today as of the
// last successful sync.
func (d *Daemon) BirthdaysToday() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.today
}

// LastSync returns the time of the last successful sync, zero if none.
func (d *Daemon) LastSync() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastSync
}

func (d *Daemon) backgroundWorker(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	d.performSync(ctx, false)

	current := d.Settings().RefreshInterval()
	ticker := time.NewTicker(current)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, current)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-d.configChan:
			if next := d.Settings().RefreshInterval(); next != current {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, current, config.LogKeyNew, next)
				current = next
				ticker.Reset(current)
			}

		case manual := <-d.syncChan:
			d.performSync(ctx, manual)

		case <-ticker.C:
			d.performSync(ctx, false)
		}
	}
}

// performSync regenerates the feed. On failure the previous feed stays
// published.
func (d *Daemon) performSync(ctx context.Context, manual bool) error {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompDaemon,
		config.LogKeyManual, manual)

	d.mu.RLock()
	tr := d.translator
	d.mu.RUnlock()

	gen := &feed.Generator{
		Clock:      d.Clock,
		Fetcher:    d.Fetcher,
		Translator: tr,
	}

	res, err := gen.Run(ctx, d.SyncConfig())
	if err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompDaemon,
			config.LogKeyError, err)
		return err
	}

	d.mu.Lock()
	d.contacts = res.Contacts
	d.today = res.BirthdaysToday
	d.lastSync = d.Clock.Now()
	d.mu.Unlock()

	d.Server.Update(res.ICS)
	if res.BirthdaysToday > 0 {
		slog.Info(tr.ContactsToday(res.BirthdaysToday),
			config.LogKeyComponent, config.CompDaemon,
			config.LogKeyByzantine, res.Today.String())
	}
	return nil
}

// SyncConfig builds the generation parameters from the settings. The web
// password is read from the system keyring.
func (d *Daemon) SyncConfig() feed.SyncConfig {
	return LoadSyncConfig(d.Settings())
}

// LoadSyncConfig converts settings into feed parameters, resolving the web
// password from the system keyring. A missing password is not an error:
// the server may not require one.
func LoadSyncConfig(s *config.Settings) feed.SyncConfig {
	cfg := feed.SyncConfig{
		Mode:            s.Source.Mode,
		LocalPath:       s.Source.Path,
		WebURL:          s.Source.URL,
		WebUser:         s.Source.User,
		ReminderTrigger: s.ReminderTrigger(),
		DaysBefore:      s.Window.DaysBefore,
		DaysAfter:       s.Window.DaysAfter,
	}

	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyComponent, config.CompDaemon,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err)
		}
	}
	return cfg
}
