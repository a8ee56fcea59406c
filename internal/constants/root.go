package constants

import "time"

const (
	AppName            = "nowaste"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/nowaste/nowaste.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "nowaste-"
	BackupFileSuffix = ".db"

	// Lock constants
	LockfileName = "nowaste.lock"

	// Diagnosis service constants
	DefaultAPIURL        = "http://localhost:5000"
	DefaultAPITimeout    = 60 * time.Second
	DiagnosePath         = "/api/diagnose-procrastination"
	BreakdownPath        = "/api/breakdown-task"
	HealthPath           = "/health"
	QuotaExceededType    = "quota_exceeded"
	SubtaskDeadlineDays  = 7
	ResponsePreviewBytes = 200
)
