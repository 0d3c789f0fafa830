// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package logger provides a leveled logger that writes each message as a
// single line to a console stream and, optionally, appends it to a log file.
//
// Lines look like
//
//	[2006-01-02 15:04:05] [INFO] [worker-1] message text
//
// where the timestamp, level and thread label are each optional. There is no
// package-level logger: the process entry point constructs one with [New],
// passes it to whatever needs it, and closes it on exit.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/drzo/opencog-cogutil/platform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timestampLayout = "[2006-01-02 15:04:05]"

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrBadLevel is returned when parsing an unknown level name.
const ErrBadLevel = constError("bad log level")

// Config controls where and how a [Logger] writes.
type Config struct {
	// FileName is the log file, opened in append mode. Empty disables the
	// file sink.
	FileName string

	// Level is the most verbose level emitted.
	Level Level

	// BackTraceLevel is the most verbose level for which a stack trace is
	// appended to the message. None disables stack traces.
	BackTraceLevel Level

	// Timestamp prefixes each line with the local time.
	Timestamp bool

	// ThreadID prefixes lines from loggers returned by [Logger.Thread] with
	// their label.
	ThreadID bool

	// PrintLevel prefixes each line with the message level.
	PrintLevel bool

	// PrintToConsole enables the console sink.
	PrintToConsole bool

	// Console is the console sink. Nil means os.Stdout.
	Console io.Writer
}

// DefaultConfig returns the configuration used by the command-line tools
// unless overridden by flags.
func DefaultConfig() Config {
	return Config{
		FileName:       "opencog.log",
		Level:          Info,
		BackTraceLevel: None,
		Timestamp:      true,
		PrintLevel:     true,
		PrintToConsole: true,
	}
}

// Logger is safe for concurrent use, including concurrently with the setters
// that reconfigure it. Loggers derived with [Logger.Thread] or [Logger.With]
// share the configuration and sinks of their parent.
type Logger struct {
	shared *shared
	zl     *zap.Logger
}

// shared holds the state common to a logger and all its derivatives. The
// sinks and encoder are rebuilt into core whenever the configuration changes;
// writes hold mu for reading so that a replaced file is never written after it
// is closed.
type shared struct {
	level     zap.AtomicLevel
	backTrace zap.AtomicLevel
	root      *zap.Logger

	mu       sync.RWMutex
	cfg      Config
	console  zapcore.WriteSyncer
	file     *os.File
	core     zapcore.Core
	previous Level
}

// New constructs a logger from cfg. The log file, if any, is created along with
// any missing parent directories.
func New(cfg Config) (*Logger, error) {
	s := &shared{
		level:     zap.NewAtomicLevelAt(cfg.Level.zapLevel()),
		backTrace: zap.NewAtomicLevelAt(cfg.BackTraceLevel.zapLevel()),
		cfg:       cfg,
		previous:  cfg.Level,
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}
	s.console = zapcore.Lock(zapcore.AddSync(console))

	if cfg.FileName != "" {
		f, err := openLogFile(cfg.FileName)
		if err != nil {
			return nil, err
		}
		s.file = f
	}
	s.rebuild()

	s.root = zap.New(&swappableCore{s: s}, zap.AddStacktrace(s.backTrace))
	return &Logger{shared: s, zl: s.root}, nil
}

func openLogFile(name string) (*os.File, error) {
	if dir := filepath.Dir(name); dir != "." {
		if err := platform.CreateDirectory(dir); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// rebuild must be called with s.mu held for writing, or before s is shared.
func (s *shared) rebuild() {
	enc := zapcore.NewConsoleEncoder(encoderConfig(s.cfg))
	var cores []zapcore.Core
	if s.cfg.PrintToConsole {
		cores = append(cores, zapcore.NewCore(enc, s.console, s.level))
	}
	if s.file != nil {
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.Lock(s.file), s.level))
	}
	s.core = zapcore.NewTee(cores...)
}

// update applies f to the configuration and rebuilds the sinks.
func (s *shared) update(f func(cfg *Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.cfg)
	s.rebuild()
}

// swappableCore forwards to whatever core the shared state currently holds,
// carrying the fields added through With across rebuilds.
type swappableCore struct {
	s      *shared
	fields []zapcore.Field
}

func (c *swappableCore) Enabled(l zapcore.Level) bool {
	return c.s.level.Enabled(l)
}

func (c *swappableCore) With(fields []zapcore.Field) zapcore.Core {
	return &swappableCore{s: c.s, fields: append(slices.Clip(c.fields), fields...)}
}

func (c *swappableCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *swappableCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if len(c.fields) > 0 {
		fields = append(slices.Clip(c.fields), fields...)
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.s.core.Write(ent, fields)
}

func (c *swappableCore) Sync() error {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return c.s.core.Sync()
}

func encoderConfig(cfg Config) zapcore.EncoderConfig {
	ec := zapcore.EncoderConfig{
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if cfg.Timestamp {
		ec.TimeKey = "time"
		ec.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format(timestampLayout))
		}
	}
	if cfg.PrintLevel {
		ec.LevelKey = "level"
		ec.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + levelFromZap(l).String() + "]")
		}
	}
	if cfg.ThreadID {
		ec.NameKey = "thread"
		ec.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + name + "]")
		}
	}
	return ec
}

// Thread returns a logger whose lines carry label. It derives from the logger
// returned by [New], so neither an existing label nor fields added with
// [Logger.With] carry over.
func (l *Logger) Thread(label string) *Logger {
	return &Logger{shared: l.shared, zl: l.shared.root.Named(label)}
}

// With returns a logger that appends fields to every message.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{shared: l.shared, zl: l.zl.With(fields...)}
}

// Config returns a snapshot of the current configuration.
func (l *Logger) Config() Config {
	s := l.shared
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	cfg.Level = levelFromZap(s.level.Level())
	cfg.BackTraceLevel = levelFromZap(s.backTrace.Level())
	return cfg
}

// Level returns the current level.
func (l *Logger) Level() Level {
	return levelFromZap(l.shared.level.Level())
}

// SetLevel changes the level of this logger and all loggers derived from the
// same [New] call. The replaced level is remembered for
// [Logger.RestorePreviousLevel].
func (l *Logger) SetLevel(level Level) {
	s := l.shared
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = levelFromZap(s.level.Level())
	s.level.SetLevel(level.zapLevel())
}

// RestorePreviousLevel reverts the most recent [Logger.SetLevel].
func (l *Logger) RestorePreviousLevel() {
	s := l.shared
	s.mu.Lock()
	defer s.mu.Unlock()
	current := levelFromZap(s.level.Level())
	s.level.SetLevel(s.previous.zapLevel())
	s.previous = current
}

// SetBackTraceLevel changes the most verbose level that gets a stack trace.
// None disables stack traces.
func (l *Logger) SetBackTraceLevel(level Level) {
	l.shared.backTrace.SetLevel(level.zapLevel())
}

func (l *Logger) SetTimestamp(enabled bool) {
	l.shared.update(func(cfg *Config) { cfg.Timestamp = enabled })
}

func (l *Logger) SetThreadID(enabled bool) {
	l.shared.update(func(cfg *Config) { cfg.ThreadID = enabled })
}

func (l *Logger) SetPrintLevel(enabled bool) {
	l.shared.update(func(cfg *Config) { cfg.PrintLevel = enabled })
}

func (l *Logger) SetPrintToConsole(enabled bool) {
	l.shared.update(func(cfg *Config) { cfg.PrintToConsole = enabled })
}

// SetFileName switches the file sink to name, opened in append mode, and
// closes the previous file. An empty name disables the file sink. If name
// can't be opened the previous file stays in use.
func (l *Logger) SetFileName(name string) error {
	var f *os.File
	if name != "" {
		var err error
		if f, err = openLogFile(name); err != nil {
			return err
		}
	}

	s := l.shared
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.file
	s.file = f
	s.cfg.FileName = name
	s.rebuild()
	return closeLogFile(old)
}

// IsEnabled reports whether a message at level would be written.
func (l *Logger) IsEnabled(level Level) bool {
	return level != None && l.shared.level.Enabled(level.zapLevel())
}

// FileName returns the current log file, or "" if there is none.
func (l *Logger) FileName() string {
	s := l.shared
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.FileName
}

// Log writes msg at level as is. Messages at level None are discarded.
func (l *Logger) Log(level Level, msg string) {
	if !l.IsEnabled(level) {
		return
	}
	if ce := l.zl.Check(level.zapLevel(), msg); ce != nil {
		ce.Write()
	}
}

// Logf writes a message at level, formatted with [fmt.Sprintf].
func (l *Logger) Logf(level Level, format string, args ...any) {
	if !l.IsEnabled(level) {
		return
	}
	l.Log(level, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string) { l.Log(Error, msg) }
func (l *Logger) Warn(msg string)  { l.Log(Warn, msg) }
func (l *Logger) Info(msg string)  { l.Log(Info, msg) }
func (l *Logger) Debug(msg string) { l.Log(Debug, msg) }
func (l *Logger) Fine(msg string)  { l.Log(Fine, msg) }

func (l *Logger) Errorf(format string, args ...any) { l.Logf(Error, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Logf(Warn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Logf(Info, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.Logf(Debug, format, args...) }
func (l *Logger) Finef(format string, args ...any)  { l.Logf(Fine, format, args...) }

// Sync flushes both sinks.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// Close flushes the sinks and closes the log file. Later messages go to the
// console only. Close may be called more than once.
func (l *Logger) Close() error {
	s := l.shared
	s.mu.Lock()
	defer s.mu.Unlock()
	// Syncing a terminal fails on some platforms; only the file matters.
	_ = s.console.Sync()
	old := s.file
	if old == nil {
		return nil
	}
	s.file = nil
	s.cfg.FileName = ""
	s.rebuild()
	return closeLogFile(old)
}

func closeLogFile(f *os.File) error {
	if f == nil {
		return nil
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}
