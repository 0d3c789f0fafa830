// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a message severity. Higher values are more verbose; a logger set
// to a given level emits messages at that level and below.
type Level int8

const (
	None Level = iota
	Error
	Warn
	Info
	Debug
	Fine
)

// zap has no level below Debug, so Fine borrows the next one down. Messages
// never carry silentLevel; gating at it disables everything.
const (
	fineLevel   = zapcore.DebugLevel - 1
	silentLevel = zapcore.FatalLevel + 1
)

var levelNames = [...]string{
	None:  "NONE",
	Error: "ERROR",
	Warn:  "WARN",
	Info:  "INFO",
	Debug: "DEBUG",
	Fine:  "FINE",
}

func (l Level) String() string {
	if l < None || l > Fine {
		return fmt.Sprintf("Level(%d)", int8(l))
	}
	return levelNames[l]
}

// ParseLevel returns the level named by s, ignoring case.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrBadLevel, s)
}

// Set implements [github.com/spf13/pflag.Value] so that a Level can be bound
// directly to a command-line flag.
func (l *Level) Set(s string) error {
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l *Level) Type() string {
	return "level"
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case Error:
		return zapcore.ErrorLevel
	case Warn:
		return zapcore.WarnLevel
	case Info:
		return zapcore.InfoLevel
	case Debug:
		return zapcore.DebugLevel
	case Fine:
		return fineLevel
	default:
		return silentLevel
	}
}

func levelFromZap(l zapcore.Level) Level {
	switch {
	case l >= zapcore.ErrorLevel && l < silentLevel:
		return Error
	case l == zapcore.WarnLevel:
		return Warn
	case l == zapcore.InfoLevel:
		return Info
	case l == zapcore.DebugLevel:
		return Debug
	case l == fineLevel:
		return Fine
	default:
		return None
	}
}
