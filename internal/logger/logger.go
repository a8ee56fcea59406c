// Package logger is the process-wide nowaste log. Records go to a rotating
// file under the config directory; debug runs also tee them to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/nowaste/internal/constants"
)

// Logger is nil until Init succeeds; the helpers below are no-ops until then.
var Logger *log.Logger

var file *lumberjack.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Command is attached to every record so interleaved sessions in one
	// log file can be told apart.
	Command string
	// Quiet drops the stderr tee even in debug mode. The TUI sets it so
	// log lines do not tear the alt screen.
	Quiet bool
}

// LogPath returns the path of the active log file for a config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func Init(cfg Config) error {
	path := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	Close()
	file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	var w io.Writer = file
	if cfg.Debug && !cfg.Quiet {
		w = io.MultiWriter(os.Stderr, file)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	if cfg.Command != "" {
		l = l.With("cmd", cfg.Command)
	}
	Logger = l
	Logger.Debug("Log opened", "version", constants.Version, "file", path)
	return nil
}

// Close flushes and closes the log file. Later records are dropped.
func Close() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
	Logger = nil
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
