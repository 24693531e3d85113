package rsp

import (
	"fmt"
	"io"
	"log"
)

// Level is a logging verbosity, ordered from quietest to loudest.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarn
	LevelPacket
)

// Levels maps the command-line spellings of a Level to their value,
// mirroring the loglevels map the teacher's emulator CLI uses for its
// own --loglevel flag.
var Levels = map[string]Level{
	"none":    LevelNone,
	"error":   LevelError,
	"err":     LevelError,
	"warning": LevelWarn,
	"warn":    LevelWarn,
	"packet":  LevelPacket,
	"packets": LevelPacket,
}

// Logger is a minimal leveled wrapper around the standard logger. Only
// messages at or below the configured Level are written.
type Logger struct {
	level Level
	l     *log.Logger
}

// NewLogger returns a Logger at the given level, writing to w.
func NewLogger(w io.Writer, level Level) *Logger {
	return &Logger{level: level, l: log.New(w, "", log.LstdFlags)}
}

func (lg *Logger) log(level Level, format string, args ...interface{}) {
	if lg == nil || level > lg.level {
		return
	}
	lg.l.Output(3, fmt.Sprintf(format, args...))
}

func (lg *Logger) Error(format string, args ...interface{}) { lg.log(LevelError, format, args...) }
func (lg *Logger) Warn(format string, args ...interface{})  { lg.log(LevelWarn, format, args...) }
func (lg *Logger) Packet(format string, args ...interface{}) {
	lg.log(LevelPacket, format, args...)
}
