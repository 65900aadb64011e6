package constants

const (
	AppName            = "habitlog"
	Version            = "v0.1.0"
	DefaultConfigDir   = "~/.config/habitlog"
	DefaultConfigPath  = "~/.config/habitlog/config.toml"
	DefaultDBPath      = "~/.config/habitlog/habitlog.db"
	DefaultServerAddr  = "127.0.0.1:8080"
	DefaultTimezone    = "Local"
	LogDirName         = "logs"
	LogFileName        = "habitlog.log"
	MigrationsSubdir   = "sqlite"
	SchemaVersionTable = "schema_version"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used to select a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlog-"
	BackupFileSuffix = ".db"

	// Mood scale. 0 means no mood has been recorded for the day.
	MoodUnset = 0
	MoodMin   = 1
	MoodMax   = 7

	// MaxHabitNameLen is the longest accepted habit name, in runes.
	MaxHabitNameLen = 50
)
