// Package logging sets up rig's zerolog logger: human-readable lines on
// stderr plus a JSON log file under the XDG state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogFile overrides the log file path. "off" disables the log file.
const EnvLogFile = "RIG_LOG_FILE"

// logFile is the handle opened by the last Setup
var (
	logFileMu sync.Mutex
	logFile   *os.File
)

// LevelFor maps the -v count to a level: warn, info, debug, then trace
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for the CLI
func SetupLogger(verbosity int) {
	Setup(verbosity, os.Stderr)
}

// Setup points the global logger at console and, when it can be opened, the
// log file. Callers are annotated from -vv on.
func Setup(verbosity int, console io.Writer) {
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	noColor := true
	if f, ok := console.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen, NoColor: noColor}}

	path := logFilePath()
	var fileErr error
	logFileMu.Lock()
	_ = closeLogFileLocked()
	if path != "" {
		if logFile, fileErr = openLogFile(path); fileErr == nil {
			writers = append(writers, logFile)
		}
	}
	logFileMu.Unlock()

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", path).Msg("Logger initialized")
}

// Close closes the log file opened by Setup, if any
func Close() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	return closeLogFileLocked()
}

func closeLogFileLocked() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// GetLogger returns a logger tagged with component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// logFilePath returns "" when file logging is off
func logFilePath() string {
	switch v := strings.TrimSpace(os.Getenv(EnvLogFile)); {
	case strings.EqualFold(v, "off"):
		return ""
	case v != "":
		return v
	}
	return filepath.Join(xdg.StateHome, "rig", "rig.log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// LogCommand records an external command at debug level
func LogCommand(logger zerolog.Logger, cmd string, args []string) {
	logger.Debug().Str("command", cmd).Strs("args", args).Msg("Executing command")
}

// LogOperationStart logs the start of operation and returns the matching
// completion logger, which records the duration
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().Str("operation", operation).Dur("duration", time.Since(start)).Msg("Operation completed")
	}
}
