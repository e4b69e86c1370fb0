// Package l10n translates the labels and feed summaries printed around
// Byzantine dates. The dates themselves are always rendered in their fixed
// upper case form.
package l10n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-byzcal/byzantine"
	"github.com/tartampluch/go-byzcal/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator wraps an i18n bundle and the localizer of the active language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	matcher   language.Matcher

	// Languages lists the codes of the embedded locale files.
	Languages []string
	// Language is the active language code.
	Language string
}

// New loads the embedded locales and selects lang, falling back to the
// closest supported language.
func New(lang string) *Translator {
	t := &Translator{}
	t.bundle = i18n.NewBundle(language.English)
	t.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	var tags []language.Tag
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		tag, err := language.Parse(langCode)
		if langCode == "" || err != nil {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := t.bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
		t.Languages = append(t.Languages, langCode)
		tags = append(tags, tag)
	}

	// The bundle's default language must be the matcher's fallback.
	tags = append([]language.Tag{language.English}, tags...)
	t.matcher = language.NewMatcher(tags)
	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active language. Unknown or malformed values
// select the closest supported language, English by default.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	tag, _ := language.MatchStrings(t.matcher, lang)
	base, _ := tag.Base()
	t.Language = base.String()
	t.localizer = i18n.NewLocalizer(t.bundle, t.Language, config.DefaultLanguage)
}

// labelFallbacks holds the English labels used without a bundle.
var labelFallbacks = map[string]string{
	config.TKeyLblByzantine: config.FallbackLblByzantine,
	config.TKeyLblWeekday:   config.FallbackLblWeekday,
	config.TKeyLblCivil:     config.FallbackLblCivil,
	config.TKeyLblJulian:    config.FallbackLblJulian,
}

// Msg translates a key without template data. Without a translation it
// returns the English label for the known labels and the key otherwise.
func (t *Translator) Msg(key string) string {
	fallback, ok := labelFallbacks[key]
	if !ok {
		fallback = key
	}
	return t.localize(&i18n.LocalizeConfig{MessageID: key}, fallback)
}

// DaySummary returns the feed summary for a day.
func (t *Translator) DaySummary(d byzantine.Date) string {
	fallback := fmt.Sprintf(config.FallbackDaySummary, d, d.Weekday())
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyDaySummary,
		TemplateData: map[string]any{"Date": d.String(), "Weekday": d.Weekday().String()},
	}, fallback)
}

// BirthdaySummary returns the feed summary of a Byzantine birthday. An age
// of zero with a known year is the birth itself.
func (t *Translator) BirthdaySummary(name string, age int, yearKnown bool) string {
	switch {
	case !yearKnown:
		return t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyBdaySummary,
			TemplateData: map[string]any{"Name": name},
		}, fmt.Sprintf(config.FallbackSummary, name))
	case age == 0:
		return t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyBdaySummaryBirth,
			TemplateData: map[string]any{"Name": name},
		}, fmt.Sprintf(config.FallbackSummaryBirth, name))
	default:
		return t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyBdaySummaryAge,
			TemplateData: map[string]any{"Name": name, "Age": age},
		}, fmt.Sprintf(config.FallbackSummaryAge, name, age))
	}
}

// BirthdayDescription describes the birth date in both calendars.
func (t *Translator) BirthdayDescription(born byzantine.Date) string {
	y, m, d := born.Hybrid()
	civil := fmt.Sprintf(config.FormatCivilDate, y, int(m), d)
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyBdayDescription,
		TemplateData: map[string]any{"Date": born.String(), "Civil": civil},
	}, fmt.Sprintf(config.FallbackBdayDescription, born, civil))
}

// ContactsToday returns the pluralised count of birthdays falling today.
func (t *Translator) ContactsToday(count int) string {
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyLblContactsToday,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	}, fmt.Sprint(count))
}

func (t *Translator) localize(lc *i18n.LocalizeConfig, fallback string) string {
	if t == nil || t.localizer == nil {
		return fallback
	}
	msg, err := t.localizer.Localize(lc)
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}
