package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-byzcal/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"CLIName", config.CLIName},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultRefreshMin, 0, "Default refresh interval must be positive")
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.NoError(t, config.ValidatePort(config.DefaultPort))
	assert.NoError(t, config.DefaultSettings().Validate(), "Defaults must pass validation")
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)

	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Byzcal/"), "UserAgent must start with AppName/")
}

// TestLoadSettings_MissingFile verifies that a missing file is not an error.
func TestLoadSettings_MissingFile(t *testing.T) {
	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
}

// TestLoadSettings_PartialFile verifies that absent keys keep their defaults.
func TestLoadSettings_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `port: "18500"
window:
  days_after: 90
source:
  mode: local
  path: /tmp/contacts.vcf
reminder:
  enabled: true
  value: 2
  unit: h
  direction: after
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "18500", s.Port)
	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, 90, s.Window.DaysAfter)
	assert.Equal(t, config.DefaultDaysBefore, s.Window.DaysBefore)
	assert.Equal(t, config.SourceModeLocal, s.Source.Mode)
	assert.Equal(t, "PT2H", s.ReminderTrigger())
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Bad YAML", "port: [", config.ErrSettingsParse},
		{"Port out of range", `port: "70000"`, config.ErrPortRange},
		{"Port not a number", `port: "http"`, config.ErrPortNumber},
		{"Unknown mode", "source:\n  mode: ftp", config.ErrModeUnsupport},
		{"Web without URL", "source:\n  mode: web", config.ErrWebURLEmpty},
		{"Negative window", "window:\n  days_before: -1", config.ErrWindowRange},
		{"Bad unit", "reminder:\n  enabled: true\n  unit: w", config.ErrUnitUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := config.LoadSettings(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	s := config.DefaultSettings()
	s.Language = "el"
	s.Source = config.SourceSettings{Mode: config.SourceModeWeb, URL: "https://dav.example.com/card", User: "alice"}

	require.NoError(t, s.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

// TestReminderTrigger tests the conversion of reminder settings to an
// RFC 5545 duration that calendar clients can parse.
func TestReminderTrigger(t *testing.T) {
	tests := []struct {
		name        string
		enabled     bool
		val         int
		unit        string
		direction   string
		wantTrigger string
		wantOffset  time.Duration
	}{
		{"Disabled", false, 1, config.UnitDays, config.DirBefore, "", 0},
		{"1 Day Before", true, 1, config.UnitDays, config.DirBefore, "-P1D", -24 * time.Hour},
		{"2 Hours After", true, 2, config.UnitHours, config.DirAfter, "PT2H", 2 * time.Hour},
		{"30 Minutes Before", true, 30, config.UnitMinutes, config.DirBefore, "-PT30M", -30 * time.Minute},
		{"Zero value falls back", true, 0, config.UnitDays, config.DirBefore, "-P1D", -24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			s.Reminder = config.ReminderConfig{Enabled: tt.enabled, Value: tt.val, Unit: tt.unit, Direction: tt.direction}
			trigger := s.ReminderTrigger()
			assert.Equal(t, tt.wantTrigger, trigger)
			if trigger == "" {
				return
			}

			prop := ical.NewProp(ical.PropTrigger)
			prop.Value = trigger
			offset, err := prop.Duration()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestRefreshInterval(t *testing.T) {
	s := config.DefaultSettings()
	s.RefreshMinutes = 5
	assert.Equal(t, 5*time.Minute, s.RefreshInterval())

	s.RefreshMinutes = config.DisabledInterval
	assert.Equal(t, time.Duration(config.DefaultRefreshMin)*time.Minute, s.RefreshInterval())
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.LessOrEqual(t, config.DefaultDaysAfter, config.MaxWindowDays)
}
