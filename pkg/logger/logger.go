package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

const areaField = "area"

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toLogrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// Config controls where lines go and which lines are kept.
type Config struct {
	// Debug enables debug lines. Defaults to true in firengo_debug builds.
	Debug bool

	// StackTrace appends the caller's stack to error lines. Only honored
	// when Debug is also set.
	StackTrace bool

	// Out receives debug, info and warning lines. Defaults to os.Stdout.
	Out io.Writer

	// ErrOut receives error lines. Defaults to os.Stderr.
	ErrOut io.Writer

	// File, when set, also writes every line to a rolling log file.
	File       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// DefaultConfig returns the console-only configuration.
func DefaultConfig() Config {
	return Config{
		Debug:      buildDebug,
		Out:        os.Stdout,
		ErrOut:     os.Stderr,
		MaxSizeMB:  100,
		MaxAgeDays: 7,
		MaxBackups: 3,
	}
}

// Logger is a thread-safe leveled logger. The zero value is not usable;
// create one with New.
type Logger struct {
	out        *logrus.Logger
	errOut     *logrus.Logger
	debug      bool
	stackTrace bool
	file       *lumberjack.Logger
}

// New creates a logger from cfg. Nil writers fall back to stdout and stderr.
func New(cfg Config) *Logger {
	out, errOut := cfg.Out, cfg.ErrOut
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	l := &Logger{
		debug:      cfg.Debug,
		stackTrace: cfg.Debug && cfg.StackTrace,
	}

	if cfg.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,  // megabytes
			MaxAge:     cfg.MaxAgeDays, // days
			MaxBackups: cfg.MaxBackups, // num of files
			LocalTime:  true,
		}
		out = io.MultiWriter(out, l.file)
		errOut = io.MultiWriter(errOut, l.file)
	}

	minLevel := logrus.InfoLevel
	if cfg.Debug {
		minLevel = logrus.DebugLevel
	}
	l.out = newLogrus(out, minLevel)
	l.errOut = newLogrus(errOut, logrus.ErrorLevel)
	return l
}

func newLogrus(w io.Writer, level logrus.Level) *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(w)
	lg.SetFormatter(&lineFormatter{})
	lg.SetLevel(level)
	lg.SetReportCaller(false)
	return lg
}

// DebugEnabled reports whether debug lines are written.
func (l *Logger) DebugEnabled() bool {
	return l.debug
}

// Print writes one line at level, tagged with area. With no args, format
// is written verbatim.
func (l *Logger) Print(level Level, area, format string, args ...any) {
	if level == LevelDebug && !l.debug {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	target := l.out
	if level >= LevelError {
		target = l.errOut
	}

	entry := target.WithField(areaField, area)
	if level >= LevelError && l.stackTrace {
		entry = entry.WithField(stackField, string(debug.Stack()))
	}
	entry.Log(level.toLogrus(), msg)
}

// Debug writes a debug line.
func (l *Logger) Debug(area, format string, args ...any) {
	l.Print(LevelDebug, area, format, args...)
}

// Info writes an info line.
func (l *Logger) Info(area, format string, args ...any) {
	l.Print(LevelInfo, area, format, args...)
}

// Warn writes a warning line.
func (l *Logger) Warn(area, format string, args ...any) {
	l.Print(LevelWarn, area, format, args...)
}

// Error writes an error line, with a stack trace when enabled.
func (l *Logger) Error(area, format string, args ...any) {
	l.Print(LevelError, area, format, args...)
}

// Close releases the rolling log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New(DefaultConfig()))
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger and returns the previous one.
func SetDefault(l *Logger) *Logger {
	if l == nil {
		return Default()
	}
	return defaultLogger.Swap(l)
}

// Print writes a line through the default logger.
func Print(level Level, area, format string, args ...any) {
	Default().Print(level, area, format, args...)
}

// Debug writes a debug line through the default logger.
func Debug(area, format string, args ...any) {
	Default().Debug(area, format, args...)
}

// Info writes an info line through the default logger.
func Info(area, format string, args ...any) {
	Default().Info(area, format, args...)
}

// Warn writes a warning line through the default logger.
func Warn(area, format string, args ...any) {
	Default().Warn(area, format, args...)
}

// Error writes an error line through the default logger.
func Error(area, format string, args ...any) {
	Default().Error(area, format, args...)
}
