// Package logger provides structured file and stderr logging for the
// launcher. Human-facing progress lines are printed by the CLI directly;
// this logger records the same events in machine-readable form.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var defaultLogger *slog.Logger

// logFilePath determines the application log file location based on the
// XDG state directory spec.
func logFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(stateDir, "umd-launcher", "launcher.log"), nil
}

// Init configures the default logger. In TUI mode stderr output is
// suppressed so log lines cannot corrupt the rendered screen; the file
// sink stays active either way. Init MUST be called once at startup.
func Init(isTUI bool) {
	var writers []io.Writer

	if path, err := logFilePath(); err == nil {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err == nil {
			if file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640); err == nil {
				writers = append(writers, file)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v\n", path, err)
			}
		}
	}

	if !isTUI {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = os.Stderr // last resort, never drop logs entirely
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	level := slog.LevelInfo
	if os.Getenv("UMDL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	defaultLogger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func get() *slog.Logger {
	if defaultLogger == nil {
		Init(false)
	}
	return defaultLogger
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Infof logs a formatted informational message.
func Infof(format string, v ...any) {
	get().Info(fmt.Sprintf(format, v...))
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...any) {
	get().Warn(fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...any) {
	get().Error(fmt.Sprintf(format, v...))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}
