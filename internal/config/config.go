package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Byzcal/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Byzcal"
	AppID             = "com.github.tartampluch.go-byzcal"
	CLIName           = "byzcal"
	CLIDescription    = "Convert civil dates to the Byzantine calendar and publish a Byzantine calendar feed."
	KeyringService    = "com.github.tartampluch.go-byzcal"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsDirName   = "byzcal"
	SettingsFileName  = "config.yml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs and settings.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Help & Output
// -----------------------------------------------------------------------------

const (
	FlagDescDebug      = "Enable debug logging"
	FlagDescConfig     = "Path to the settings file"
	FlagDescLang       = "Language of labels and feed summaries (e.g. en, el)"
	FlagDescJSON       = "Print the result as JSON"
	FlagDescUTC        = "Use the current day in UTC instead of local time"
	FlagDescYears      = "Byzantine years to add (may be negative)"
	FlagDescMonths     = "Months to add (may be negative)"
	FlagDescDays       = "Days to add (may be negative)"
	FlagDescOut        = "Write the feed to this file instead of stdout"
	FlagDescBdaysOnly  = "Leave out the daily Byzantine date events"
	FlagDescPort       = "Port to listen on, overriding the settings"
	FlagDescForce      = "Overwrite an existing settings file"
	ArgDescCivilDate   = "Civil date as YYYY-MM-DD (Julian before 1582-10-15)"
	ArgDescAnyDate     = "Civil date as YYYY-MM-DD or Byzantine date such as \"APRIL 3, 7531\""
	ArgDescYear        = "Byzantine year"
	ArgDescMonth       = "Byzantine month, by name or number (SEPTEMBER is 1)"
	ArgDescDay         = "Day of the month"
	ArgDescUser        = "User name of the contacts server"
	CmdDescConvert     = "Convert a civil date to the Byzantine calendar."
	CmdDescCivil       = "Convert a Byzantine date to the civil calendar."
	CmdDescToday       = "Show today's Byzantine date."
	CmdDescAdd         = "Shift a date by years, months and days in the Byzantine calendar."
	CmdDescFeed        = "Render the iCalendar feed once."
	CmdDescServe       = "Serve the feed on localhost and keep it up to date. SIGHUP reloads the settings."
	CmdDescLogin       = "Store the contacts server password in the system keyring."
	CmdDescInit        = "Write a settings file with the default values."
	CmdDescVersion     = "Print version information."
	MsgVersionOutput   = "%s version %s (%s, %s) %s/%s\n"
	MsgPasswordPrompt  = "Password for %s: "
	MsgPasswordStored  = "Password stored in the system keyring for %s\n"
	MsgSettingsWritten = "Settings written to %s\n"
	MsgCLIError        = "%s: error: %v\n"
	MsgSettingsReload  = "Settings reloaded"
	FormatLabelLine    = "%-16s %s\n"
	JSONIndent         = "  "
	CommandServe       = "serve"
)

// SupportedLanguages defines the list of languages shipped with the binary (ISO 639-1).
var SupportedLanguages = []string{"en", "el"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyDaySummary       = "day_summary"            // Requires Date, Weekday
	TKeyBdaySummary      = "birthday_summary"       // Requires Name
	TKeyBdaySummaryAge   = "birthday_summary_age"   // Requires Name, Age
	TKeyBdaySummaryBirth = "birthday_summary_birth" // Requires Name
	TKeyBdayDescription  = "birthday_description"   // Requires Date, Civil
	TKeyLblByzantine     = "lbl_byzantine"
	TKeyLblWeekday       = "lbl_weekday"
	TKeyLblCivil         = "lbl_civil"
	TKeyLblJulian        = "lbl_julian"
	TKeyLblContactsToday = "lbl_contacts_today" // Requires Count
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone       = "none"
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18081"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultDaysBefore    = 7
	DefaultDaysAfter     = 30
	MaxWindowDays        = 3660
	DefaultLeapYear      = 2000 // Leap year fallback for dates like --02-29
	DefaultReminderValue = 1
	UIDSalt              = "go-byzcal-v1-" // Salt for deterministic UID generation
	DisabledInterval     = 0
	AnniversarySpan      = 1 // Anniversaries generated on each side of the next one
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISOTimePrefix     = "T" // Required before hour and minute components
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Byzcal//Feed//EN"
	ICalCalName   = "Byzantine Calendar"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "byzcal"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropCategories  = "CATEGORIES"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	CategoryDay      = "BYZANTINE-DATE"
	CategoryBirthday = "BIRTHDAY"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields and CLI arguments
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	FormatDayUID    = "day-%s@%s"

	// Summary formats
	FormatCivilDate = "%04d-%02d-%02d"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteConvert        = "/convert"
	RouteToday          = "/today"
	QueryParamDate      = "date"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrUnitUnsupport  = "configuration error: unsupported reminder unit"
	ErrDirUnsupport   = "configuration error: unsupported reminder direction"
	ErrWindowRange    = "configuration error: feed window must be between 0 and 3660 days"
	ErrSettingsRead   = "failed to read settings file"
	ErrSettingsParse  = "failed to parse settings file"
	ErrSettingsWrite  = "failed to write settings file"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrPortNumber     = "server port must be a number"
	ErrPortRange      = "server port must be between 1 and 65535"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrDateMissing    = "missing date query parameter"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrConfigDir      = "could not determine user config dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrSettingsExist  = "settings file already exists"
	ErrDateBeforeMin  = "date is before the minimum supported date"
	ErrKeyringStore   = "failed to store password in keyring"
	ErrPasswordRead   = "failed to read password"
	ErrFeedWrite      = "failed to write feed"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackDaySummary      = "%s (%s)"
	FallbackSummary         = "Byzantine birthday: %s"
	FallbackSummaryAge      = "Byzantine birthday: %s (%d)"
	FallbackSummaryBirth    = "Byzantine birthday: %s (birth)"
	FallbackBdayDescription = "Born %s (civil %s)"
	FallbackName            = "Unknown"
	FallbackLblByzantine    = "Byzantine"
	FallbackLblWeekday      = "Day of week"
	FallbackLblCivil        = "Civil"
	FallbackLblJulian       = "Julian"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted   = "Synchronization started..."
	MsgSyncFailed    = "Synchronization failed. Check logs."
	MsgSyncReq       = "Sync requested"
	MsgWorkerStart   = "Background worker started"
	MsgWorkerStop    = "Worker stopping due to context cancellation"
	MsgUpdateSync    = "Updating sync interval"
	MsgAppStop       = "Application stopped gracefully"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgBdayToday     = "Byzantine birthday found today"
	MsgSettingsNone  = "No settings file, using defaults"
	MsgSettingsLoad  = "Settings loaded"
	MsgConverted     = "Date converted"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeyDays      = "days"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyByzantine = "byzantine"
	LogKeyDuration  = "duration_ms"
	LogKeyPath      = "path"
	LogKeyCommand   = "command"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompDaemon  = "daemon"
	CompFeed    = "feed"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompConfig  = "config"
)
