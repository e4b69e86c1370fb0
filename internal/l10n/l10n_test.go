package l10n_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-byzcal/byzantine"
	"github.com/tartampluch/go-byzcal/internal/config"
	"github.com/tartampluch/go-byzcal/internal/l10n"
)

var translationKeys = []string{
	config.TKeyDaySummary,
	config.TKeyBdaySummary,
	config.TKeyBdaySummaryAge,
	config.TKeyBdaySummaryBirth,
	config.TKeyBdayDescription,
	config.TKeyLblByzantine,
	config.TKeyLblWeekday,
	config.TKeyLblCivil,
	config.TKeyLblJulian,
	config.TKeyLblContactsToday,
}

// TestLocaleIntegrity ensures that every translation key defined in config.go
// exists in each shipped locale file.
func TestLocaleIntegrity(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile("locales/active." + lang + ".json")
			require.NoError(t, err, "Must load locale file")

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			defined := make(map[string]bool)
			for _, k := range translationKeys {
				defined[k] = true
				_, exists := jsonMap[k]
				assert.Truef(t, exists, "Key '%s' is missing in active.%s.json", k, lang)
			}

			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				assert.Truef(t, defined[jsonKey], "Key '%s' in active.%s.json is not defined in config.go", jsonKey, lang)
			}
		})
	}
}

func TestNew_DetectsLanguages(t *testing.T) {
	tr := l10n.New("")
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages)
	assert.Equal(t, config.DefaultLanguage, tr.Language)
}

// TestSetLanguage_Matching verifies that regional and unknown tags resolve to
// a shipped language.
func TestSetLanguage_Matching(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"el", "el"},
		{"el-GR", "el"},
		{"en-US", "en"},
		{"fr", "en"},
		{"not a tag", "en"},
	}

	tr := l10n.New(config.DefaultLanguage)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tr.SetLanguage(tt.in)
			assert.Equal(t, tt.want, tr.Language)
		})
	}
}

func TestDaySummary(t *testing.T) {
	d := byzantine.Of(7531, byzantine.April, 3)

	assert.Equal(t, "APRIL 3, 7531 (LORDSDAY)", l10n.New("en").DaySummary(d))
	assert.Equal(t, "APRIL 3, 7531 (LORDSDAY)", l10n.New("el").DaySummary(d), "Date rendering is not translated")
}

func TestBirthdaySummary(t *testing.T) {
	en := l10n.New("en")
	assert.Equal(t, "Byzantine birthday: Anna", en.BirthdaySummary("Anna", 3, false))
	assert.Equal(t, "Byzantine birthday: Anna (42)", en.BirthdaySummary("Anna", 42, true))
	assert.Equal(t, "Byzantine birthday: Anna (birth)", en.BirthdaySummary("Anna", 0, true))

	el := l10n.New("el")
	assert.Equal(t, "Βυζαντινά γενέθλια: Anna (42)", el.BirthdaySummary("Anna", 42, true))
}

func TestBirthdayDescription(t *testing.T) {
	born := byzantine.FromHybrid(1980, 5, 20)
	desc := l10n.New("en").BirthdayDescription(born)

	assert.Equal(t, "Born "+born.String()+" (civil 1980-05-20)", desc)
}

func TestContactsToday_Plural(t *testing.T) {
	en := l10n.New("en")
	assert.Equal(t, "1 Byzantine birthday today", en.ContactsToday(1))
	assert.Equal(t, "3 Byzantine birthdays today", en.ContactsToday(3))
}

func TestMsg(t *testing.T) {
	assert.Equal(t, "Julian", l10n.New("en").Msg(config.TKeyLblJulian))
	assert.Equal(t, "Ιουλιανό", l10n.New("el").Msg(config.TKeyLblJulian))
	assert.Equal(t, "no_such_key", l10n.New("en").Msg("no_such_key"))
}

// TestNilTranslator_Fallbacks verifies that a nil translator still renders
// the English fallbacks.
func TestNilTranslator_Fallbacks(t *testing.T) {
	var tr *l10n.Translator
	d := byzantine.Of(7531, byzantine.April, 3)

	assert.Equal(t, "APRIL 3, 7531 (LORDSDAY)", tr.DaySummary(d))
	assert.Equal(t, "Byzantine birthday: Anna (7)", tr.BirthdaySummary("Anna", 7, true))
	assert.Equal(t, "2", tr.ContactsToday(2))
	assert.Equal(t, "Julian", tr.Msg(config.TKeyLblJulian))
	assert.Equal(t, "Byzantine", tr.Msg(config.TKeyLblByzantine))
	assert.Equal(t, "Day of week", tr.Msg(config.TKeyLblWeekday))
	assert.Equal(t, "Civil", tr.Msg(config.TKeyLblCivil))
	assert.Equal(t, "no_such_key", tr.Msg("no_such_key"))
}

// TestLabelFallbacks_MatchEnglish keeps the built-in labels in step with the
// English locale file.
func TestLabelFallbacks_MatchEnglish(t *testing.T) {
	var nilTr *l10n.Translator
	en := l10n.New("en")
	for _, key := range []string{config.TKeyLblByzantine, config.TKeyLblWeekday, config.TKeyLblCivil, config.TKeyLblJulian} {
		assert.Equal(t, en.Msg(key), nilTr.Msg(key), "key %s", key)
	}
}
