package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the user configuration read from config.yml.
type Settings struct {
	Port           string         `yaml:"port,omitempty"`
	Language       string         `yaml:"language,omitempty"`
	RefreshMinutes int            `yaml:"refresh_minutes,omitempty"`
	Window         WindowSettings `yaml:"window"`
	Source         SourceSettings `yaml:"source"`
	Reminder       ReminderConfig `yaml:"reminder"`
}

// WindowSettings bounds the range of days published in the feed, relative
// to today.
type WindowSettings struct {
	DaysBefore int `yaml:"days_before"`
	DaysAfter  int `yaml:"days_after"`
}

// SourceSettings locates the optional vCard contacts source.
type SourceSettings struct {
	Mode string `yaml:"mode,omitempty"` // SourceModeNone, SourceModeLocal or SourceModeWeb
	Path string `yaml:"path,omitempty"`
	URL  string `yaml:"url,omitempty"`
	User string `yaml:"user,omitempty"`
}

// ReminderConfig describes the alarm attached to birthday events.
type ReminderConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Value     int    `yaml:"value,omitempty"`
	Unit      string `yaml:"unit,omitempty"`
	Direction string `yaml:"direction,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Port:           DefaultPort,
		Language:       DefaultLanguage,
		RefreshMinutes: DefaultRefreshMin,
		Window: WindowSettings{
			DaysBefore: DefaultDaysBefore,
			DaysAfter:  DefaultDaysAfter,
		},
		Source: SourceSettings{Mode: SourceModeNone},
		Reminder: ReminderConfig{
			Value:     DefaultReminderValue,
			Unit:      UnitDays,
			Direction: DirBefore,
		},
	}
}

// DefaultSettingsPath returns the platform specific location of config.yml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, SettingsDirName, SettingsFileName), nil
}

// LoadSettings reads the settings file at path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug(MsgSettingsNone, LogKeyComponent, CompConfig, LogKeyPath, path)
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	slog.Debug(MsgSettingsLoad, LogKeyComponent, CompConfig, LogKeyPath, path)
	return s, nil
}

// Save writes the settings to path, creating the directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.WriteFile(path, data, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return nil
}

// Validate checks the settings for values the daemon cannot work with.
func (s *Settings) Validate() error {
	if err := ValidatePort(s.Port); err != nil {
		return err
	}

	switch s.Source.Mode {
	case "", SourceModeNone:
	case SourceModeLocal:
		if s.Source.Path == "" {
			return errors.New(ErrLocalPathEmpty)
		}
	case SourceModeWeb:
		if s.Source.URL == "" {
			return errors.New(ErrWebURLEmpty)
		}
	default:
		return fmt.Errorf("%s: %q", ErrModeUnsupport, s.Source.Mode)
	}

	if s.Window.DaysBefore < 0 || s.Window.DaysAfter < 0 ||
		s.Window.DaysBefore > MaxWindowDays || s.Window.DaysAfter > MaxWindowDays {
		return errors.New(ErrWindowRange)
	}

	if s.Reminder.Enabled {
		switch s.Reminder.Unit {
		case UnitDays, UnitHours, UnitMinutes:
		default:
			return fmt.Errorf("%s: %q", ErrUnitUnsupport, s.Reminder.Unit)
		}
		switch s.Reminder.Direction {
		case DirBefore, DirAfter:
		default:
			return fmt.Errorf("%s: %q", ErrDirUnsupport, s.Reminder.Direction)
		}
	}
	return nil
}

// ValidatePort checks that port is a number in the TCP port range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// ReminderTrigger returns the RFC 5545 duration of the reminder, such as
// "-P1D" for one day before or "PT2H" for two hours after, or "" when
// reminders are disabled.
func (s *Settings) ReminderTrigger() string {
	r := s.Reminder
	if !r.Enabled {
		return ""
	}

	val := r.Value
	if val <= 0 {
		val = DefaultReminderValue
	}

	sign := ISOPeriodPrefix
	if r.Direction == DirBefore {
		sign = ISONegativePrefix
	}

	switch r.Unit {
	case UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, val, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, val, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, val, ISODay)
	}
}

// RefreshInterval returns the sync period, falling back to the default for
// non-positive values.
func (s *Settings) RefreshInterval() time.Duration {
	minutes := s.RefreshMinutes
	if minutes <= 0 {
		minutes = DefaultRefreshMin
	}
	return time.Duration(minutes) * time.Minute
}
